// Package importer loads translation book files into the verse database.
//
// A book file is JSON holding one book's text as a chapter-major array:
//
//	{
//	  "book": "JHN",
//	  "chapters": [
//	    ["In the beginning was the Word, ...", "..."],
//	    ["..."]
//	  ]
//	}
//
// Global indices are shared across translations: a reference that any
// stored translation already indexed reuses that index, and new references
// are appended after the current global maximum in canonical book order.
// The first imported translation therefore defines the index layout and
// later translations align to it.
package importer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/canon"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/logging"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/data/db"
)

// Importer writes translation book files into the database.
type Importer struct {
	db  *db.DB
	log zerolog.Logger
}

// New creates an importer.
func New(database *db.DB, logger zerolog.Logger) *Importer {
	return &Importer{db: database, log: logger}
}

// Summary reports what an import did.
type Summary struct {
	Files   int
	Books   int
	Verses  int
	Skipped []string
}

// bookFile is the on-disk JSON shape.
type bookFile struct {
	Book     string     `json:"book"`
	Chapters [][]string `json:"chapters"`
}

type parsedBook struct {
	path     string
	book     canon.Book
	chapters [][]string
}

// ImportGlob imports every book file matching the doublestar pattern into
// the given translation. The whole import runs in one transaction; a bad
// verse aborts it wholesale. Files naming unknown books are skipped with a
// warning, not an error.
func (im *Importer) ImportGlob(ctx context.Context, translation, pattern string) (Summary, error) {
	var summary Summary
	ctx = logging.WithTranslation(ctx, translation)

	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return summary, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return summary, fmt.Errorf("no files match %q", pattern)
	}
	sort.Strings(paths)

	var books []parsedBook
	for _, path := range paths {
		summary.Files++

		parsed, err := parseBookFile(path)
		if err != nil {
			return summary, err
		}

		book, ok := canon.Lookup(parsed.Book)
		if !ok {
			im.log.Warn().Ctx(ctx).Str("file", path).Str("book", parsed.Book).Msg("unknown book, skipping")
			summary.Skipped = append(summary.Skipped, path)
			continue
		}
		books = append(books, parsedBook{path: path, book: book, chapters: parsed.Chapters})
	}

	// Canonical order decides index assignment for fresh references.
	sort.Slice(books, func(i, j int) bool { return books[i].book.Order < books[j].book.Order })

	err = im.db.WithTx(ctx, func(q *db.Queries) error {
		nextIdx, err := q.GetGlobalMaxIdx(ctx)
		if err != nil {
			return fmt.Errorf("read global max index: %w", err)
		}
		nextIdx++

		now := time.Now().UnixNano()
		for _, b := range books {
			summary.Books++
			for ci, verses := range b.chapters {
				chapter := ci + 1
				for vi, text := range verses {
					verseNum := vi + 1

					idx, err := q.GetAnyIdxByRef(ctx, b.book.Code, chapter, verseNum)
					if errors.Is(err, sql.ErrNoRows) {
						idx = nextIdx
						nextIdx++
					} else if err != nil {
						return fmt.Errorf("%s: align %s %d:%d: %w", b.path, b.book.Code, chapter, verseNum, err)
					}

					if err := q.UpsertVerse(ctx, db.UpsertVerseParams{
						Translation: translation,
						Idx:         idx,
						Book:        b.book.Code,
						Chapter:     chapter,
						Verse:       verseNum,
						Text:        text,
						UpdatedAt:   now,
					}); err != nil {
						return fmt.Errorf("%s: store %s %d:%d: %w", b.path, b.book.Code, chapter, verseNum, err)
					}
					summary.Verses++
				}
			}
			im.log.Debug().
				Ctx(ctx).
				Str("book", b.book.Code).
				Int("chapters", len(b.chapters)).
				Msg("book imported")
		}
		return nil
	})
	if err != nil {
		return summary, err
	}

	im.log.Info().
		Ctx(ctx).
		Str("translation", translation).
		Int("files", summary.Files).
		Int("books", summary.Books).
		Int("verses", summary.Verses).
		Msg("import complete")
	return summary, nil
}

func parseBookFile(path string) (bookFile, error) {
	var parsed bookFile

	data, err := os.ReadFile(path)
	if err != nil {
		return parsed, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return parsed, fmt.Errorf("parse %s: %w", path, err)
	}
	if parsed.Book == "" {
		return parsed, fmt.Errorf("%s: missing book code", path)
	}
	if len(parsed.Chapters) == 0 {
		return parsed, fmt.Errorf("%s: no chapters", path)
	}
	return parsed, nil
}
