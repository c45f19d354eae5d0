package stores

import (
	"context"
	"fmt"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/canon"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/nav"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/verse"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/window"
	"github.com/genesis-ai-dev/CodexZero-sub001/internal/data/db"
	"github.com/genesis-ai-dev/CodexZero-sub001/pkg/kv"
)

// VerseStore serves verse slices to the window manager from SQLite. Each
// viewport is bound to one translation; the binding decides which rows a
// fetch for that viewport sees.
type VerseStore struct {
	db              *db.DB
	initialPageSize int
	bindings        *kv.Store[string, string]
}

var _ window.RangeFetcher = (*VerseStore)(nil)

// NewVerseStore creates a SQLite-backed verse store. initialPageSize is the
// slice length served for locator fetches.
func NewVerseStore(database *db.DB, initialPageSize int) *VerseStore {
	return &VerseStore{
		db:              database,
		initialPageSize: initialPageSize,
		bindings:        kv.New[string, string](),
	}
}

// Bind associates a viewport with a translation. Later binds replace
// earlier ones.
func (s *VerseStore) Bind(viewportID, translation string) {
	s.bindings.Set(viewportID, translation)
}

// Translation returns the translation a viewport is bound to.
func (s *VerseStore) Translation(viewportID string) (string, bool) {
	return s.bindings.Get(viewportID)
}

func (s *VerseStore) translationFor(viewportID string) (string, error) {
	translation, ok := s.bindings.Get(viewportID)
	if !ok {
		return "", fmt.Errorf("viewport %q: %w", viewportID, ErrViewportUnbound)
	}
	return translation, nil
}

// FetchRange returns the bound translation's verses with global index in
// [start, end], ascending.
func (s *VerseStore) FetchRange(ctx context.Context, viewportID string, start, end int) ([]verse.Verse, error) {
	translation, err := s.translationFor(viewportID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Queries().GetVerseRange(ctx, translation, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch range [%d, %d] for %q: %w", start, end, translation, err)
	}
	return rowsToVerses(rows), nil
}

// FetchByLocator parses a human locator ("John 3", "JHN 3:16"), finds the
// chapter start, and returns the initial slice from there. A verse-level
// locator still anchors at its verse, not the chapter start.
func (s *VerseStore) FetchByLocator(ctx context.Context, viewportID, locator string) ([]verse.Verse, error) {
	translation, err := s.translationFor(viewportID)
	if err != nil {
		return nil, err
	}

	loc, err := canon.ParseLocator(locator)
	if err != nil {
		return nil, fmt.Errorf("locator %q: %w", locator, err)
	}

	var start int
	if loc.Verse > 0 {
		start, err = s.db.Queries().GetIdxByRef(ctx, translation, loc.Book.Code, loc.Chapter, loc.Verse)
	} else {
		start, err = s.db.Queries().GetChapterStartIdx(ctx, translation, loc.Book.Code, loc.Chapter)
	}
	if IsNotFoundError(err) {
		return nil, fmt.Errorf("locator %q in %q: %w", locator, translation, ErrLocatorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve locator %q: %w", locator, err)
	}

	rows, err := s.db.Queries().GetVerseRange(ctx, translation, start, start+s.initialPageSize-1)
	if err != nil {
		return nil, fmt.Errorf("fetch initial slice at %d for %q: %w", start, translation, err)
	}
	return rowsToVerses(rows), nil
}

// Bounds returns the stored index domain for a translation.
func (s *VerseStore) Bounds(ctx context.Context, translation string) (int, int, error) {
	minIdx, maxIdx, err := s.db.Queries().GetIdxBounds(ctx, translation)
	if IsNotFoundError(err) {
		return 0, 0, fmt.Errorf("translation %q has no verses", translation)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("bounds for %q: %w", translation, err)
	}
	return minIdx, maxIdx, nil
}

// ResolverFor returns a nav.Resolver that resolves global indices against
// the viewport's bound translation.
func (s *VerseStore) ResolverFor(viewportID string) nav.Resolver {
	return &indexResolver{store: s, viewportID: viewportID}
}

type indexResolver struct {
	store      *VerseStore
	viewportID string
}

func (r *indexResolver) Resolve(ctx context.Context, index int) (nav.Location, error) {
	translation, err := r.store.translationFor(r.viewportID)
	if err != nil {
		return nav.Location{}, err
	}

	row, err := r.store.db.Queries().GetVerseByIdx(ctx, translation, index)
	if err != nil {
		return nav.Location{}, fmt.Errorf("resolve index %d in %q: %w", index, translation, err)
	}

	label := fmt.Sprintf("%s %d:%d", row.Book, row.Chapter, row.Verse)
	if book, ok := canon.Lookup(row.Book); ok {
		label = fmt.Sprintf("%s %d:%d", book.Name, row.Chapter, row.Verse)
	}

	return nav.Location{
		Index:   row.Idx,
		Book:    row.Book,
		Chapter: row.Chapter,
		Verse:   row.Verse,
		Label:   label,
	}, nil
}

func rowsToVerses(rows []db.VerseRow) []verse.Verse {
	out := make([]verse.Verse, 0, len(rows))
	for _, r := range rows {
		out = append(out, verse.Verse{
			Index:       r.Idx,
			Ref:         verse.Ref{Book: r.Book, Chapter: r.Chapter, Verse: r.Verse},
			Translation: r.Translation,
			Text:        r.Text,
		})
	}
	return out
}
