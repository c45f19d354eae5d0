// Package canon describes the Protestant 66-book canon: book codes, display
// names, ordering, and chapter counts. It also parses human-entered locators
// ("JHN 3", "John 3:16") into references.
//
// The canon is a static table; per-verse data (how many verses a chapter
// actually has in a given translation) lives in the verse store, not here.
package canon

import (
	"fmt"
	"strconv"
	"strings"
)

// Book is one canonical book.
type Book struct {
	Code     string // three-letter paratext-style code
	Name     string // English display name
	Order    int    // 1-based position in the canon
	Chapters int
}

var books = []Book{
	{"GEN", "Genesis", 1, 50},
	{"EXO", "Exodus", 2, 40},
	{"LEV", "Leviticus", 3, 27},
	{"NUM", "Numbers", 4, 36},
	{"DEU", "Deuteronomy", 5, 34},
	{"JOS", "Joshua", 6, 24},
	{"JDG", "Judges", 7, 21},
	{"RUT", "Ruth", 8, 4},
	{"1SA", "1 Samuel", 9, 31},
	{"2SA", "2 Samuel", 10, 24},
	{"1KI", "1 Kings", 11, 22},
	{"2KI", "2 Kings", 12, 25},
	{"1CH", "1 Chronicles", 13, 29},
	{"2CH", "2 Chronicles", 14, 36},
	{"EZR", "Ezra", 15, 10},
	{"NEH", "Nehemiah", 16, 13},
	{"EST", "Esther", 17, 10},
	{"JOB", "Job", 18, 42},
	{"PSA", "Psalms", 19, 150},
	{"PRO", "Proverbs", 20, 31},
	{"ECC", "Ecclesiastes", 21, 12},
	{"SNG", "Song of Songs", 22, 8},
	{"ISA", "Isaiah", 23, 66},
	{"JER", "Jeremiah", 24, 52},
	{"LAM", "Lamentations", 25, 5},
	{"EZK", "Ezekiel", 26, 48},
	{"DAN", "Daniel", 27, 12},
	{"HOS", "Hosea", 28, 14},
	{"JOL", "Joel", 29, 3},
	{"AMO", "Amos", 30, 9},
	{"OBA", "Obadiah", 31, 1},
	{"JON", "Jonah", 32, 4},
	{"MIC", "Micah", 33, 7},
	{"NAM", "Nahum", 34, 3},
	{"HAB", "Habakkuk", 35, 3},
	{"ZEP", "Zephaniah", 36, 3},
	{"HAG", "Haggai", 37, 2},
	{"ZEC", "Zechariah", 38, 14},
	{"MAL", "Malachi", 39, 4},
	{"MAT", "Matthew", 40, 28},
	{"MRK", "Mark", 41, 16},
	{"LUK", "Luke", 42, 24},
	{"JHN", "John", 43, 21},
	{"ACT", "Acts", 44, 28},
	{"ROM", "Romans", 45, 16},
	{"1CO", "1 Corinthians", 46, 16},
	{"2CO", "2 Corinthians", 47, 13},
	{"GAL", "Galatians", 48, 6},
	{"EPH", "Ephesians", 49, 6},
	{"PHP", "Philippians", 50, 4},
	{"COL", "Colossians", 51, 4},
	{"1TH", "1 Thessalonians", 52, 5},
	{"2TH", "2 Thessalonians", 53, 3},
	{"1TI", "1 Timothy", 54, 6},
	{"2TI", "2 Timothy", 55, 4},
	{"TIT", "Titus", 56, 3},
	{"PHM", "Philemon", 57, 1},
	{"HEB", "Hebrews", 58, 13},
	{"JAS", "James", 59, 5},
	{"1PE", "1 Peter", 60, 5},
	{"2PE", "2 Peter", 61, 3},
	{"1JN", "1 John", 62, 5},
	{"2JN", "2 John", 63, 1},
	{"3JN", "3 John", 64, 1},
	{"JUD", "Jude", 65, 1},
	{"REV", "Revelation", 66, 22},
}

var byCode = func() map[string]Book {
	m := make(map[string]Book, len(books))
	for _, b := range books {
		m[b.Code] = b
	}
	return m
}()

// Books returns all books in canonical order.
func Books() []Book {
	out := make([]Book, len(books))
	copy(out, books)
	return out
}

// Lookup resolves a book by code or display name, case-insensitively.
// Unambiguous name prefixes are accepted ("Gen", "rev").
func Lookup(s string) (Book, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Book{}, false
	}
	upper := strings.ToUpper(s)
	if b, ok := byCode[upper]; ok {
		return b, true
	}

	lower := strings.ToLower(s)
	var match Book
	var matches int
	for _, b := range books {
		name := strings.ToLower(b.Name)
		if name == lower {
			return b, true
		}
		if strings.HasPrefix(name, lower) {
			match = b
			matches++
		}
	}
	if matches == 1 {
		return match, true
	}
	return Book{}, false
}

// Locator is a parsed jump target: a book plus an optional chapter and verse.
type Locator struct {
	Book    Book
	Chapter int
	Verse   int // 0 = whole chapter
}

// String renders the locator in the wire form accepted by ParseLocator.
func (l Locator) String() string {
	if l.Verse > 0 {
		return fmt.Sprintf("%s %d:%d", l.Book.Code, l.Chapter, l.Verse)
	}
	return fmt.Sprintf("%s %d", l.Book.Code, l.Chapter)
}

// ParseLocator parses inputs like "JHN 3", "John 3:16", or "1 Corinthians 13".
// A missing chapter defaults to 1.
func ParseLocator(input string) (Locator, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Locator{}, fmt.Errorf("empty locator")
	}

	// Split the trailing chapter[:verse] off the book name. The book name may
	// itself contain digits and spaces ("1 Corinthians"), so scan from the end.
	bookPart, refPart := splitBookRef(s)

	book, ok := Lookup(bookPart)
	if !ok {
		return Locator{}, fmt.Errorf("unknown book %q", bookPart)
	}

	loc := Locator{Book: book, Chapter: 1}
	if refPart == "" {
		return loc, nil
	}

	chapterStr, verseStr, hasVerse := strings.Cut(refPart, ":")
	chapter, err := strconv.Atoi(chapterStr)
	if err != nil {
		return Locator{}, fmt.Errorf("invalid chapter %q", chapterStr)
	}
	if chapter < 1 || chapter > book.Chapters {
		return Locator{}, fmt.Errorf("%s has no chapter %d", book.Name, chapter)
	}
	loc.Chapter = chapter

	if hasVerse {
		v, err := strconv.Atoi(verseStr)
		if err != nil || v < 1 {
			return Locator{}, fmt.Errorf("invalid verse %q", verseStr)
		}
		loc.Verse = v
	}

	return loc, nil
}

// splitBookRef separates "1 Corinthians 13:4" into ("1 Corinthians", "13:4").
// If the input has no trailing reference, the second value is empty.
func splitBookRef(s string) (string, string) {
	i := strings.LastIndexByte(s, ' ')
	if i < 0 {
		return s, ""
	}
	tail := s[i+1:]
	if !isRefToken(tail) {
		return s, ""
	}
	// A leading numeral alone ("1") must not be mistaken for a reference when
	// it is actually the start of a book name typed in reverse; requiring a
	// non-empty book part is enough since book names never end in a digit.
	return strings.TrimSpace(s[:i]), tail
}

func isRefToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != ':' {
			return false
		}
	}
	return true
}
