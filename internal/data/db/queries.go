package db

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB and *sql.Tx the query layer needs.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries is the hand-written query layer over the verses schema.
type Queries struct {
	db DBTX
}

// New creates a query layer bound to a connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx rebinds the query layer to a transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// VerseRow is one row of the verses table.
type VerseRow struct {
	Translation string
	Idx         int
	Book        string
	Chapter     int
	Verse       int
	Text        string
	UpdatedAt   int64
}

const getVerseRange = `
SELECT translation, idx, book, chapter, verse, text, updated_at
FROM verses
WHERE translation = ? AND idx BETWEEN ? AND ?
ORDER BY idx
`

// GetVerseRange returns the verses of one translation with idx in
// [start, end], ascending. Gaps in the stored range are simply absent from
// the result.
func (q *Queries) GetVerseRange(ctx context.Context, translation string, start, end int) ([]VerseRow, error) {
	rows, err := q.db.QueryContext(ctx, getVerseRange, translation, start, end)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []VerseRow
	for rows.Next() {
		var r VerseRow
		if err := rows.Scan(&r.Translation, &r.Idx, &r.Book, &r.Chapter, &r.Verse, &r.Text, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const getVerseByIdx = `
SELECT translation, idx, book, chapter, verse, text, updated_at
FROM verses
WHERE translation = ? AND idx = ?
`

// GetVerseByIdx returns a single verse by global index.
func (q *Queries) GetVerseByIdx(ctx context.Context, translation string, idx int) (VerseRow, error) {
	var r VerseRow
	err := q.db.QueryRowContext(ctx, getVerseByIdx, translation, idx).
		Scan(&r.Translation, &r.Idx, &r.Book, &r.Chapter, &r.Verse, &r.Text, &r.UpdatedAt)
	return r, err
}

const getIdxByRef = `
SELECT idx
FROM verses
WHERE translation = ? AND book = ? AND chapter = ? AND verse = ?
`

// GetIdxByRef returns the global index of a canonical reference.
func (q *Queries) GetIdxByRef(ctx context.Context, translation, book string, chapter, verse int) (int, error) {
	var idx int
	err := q.db.QueryRowContext(ctx, getIdxByRef, translation, book, chapter, verse).Scan(&idx)
	return idx, err
}

const getChapterStartIdx = `
SELECT MIN(idx)
FROM verses
WHERE translation = ? AND book = ? AND chapter = ?
`

// GetChapterStartIdx returns the first global index of a chapter.
func (q *Queries) GetChapterStartIdx(ctx context.Context, translation, book string, chapter int) (int, error) {
	var idx sql.NullInt64
	err := q.db.QueryRowContext(ctx, getChapterStartIdx, translation, book, chapter).Scan(&idx)
	if err != nil {
		return 0, err
	}
	if !idx.Valid {
		// MIN over an empty set yields NULL, not ErrNoRows.
		return 0, sql.ErrNoRows
	}
	return int(idx.Int64), nil
}

const getIdxBounds = `
SELECT MIN(idx), MAX(idx)
FROM verses
WHERE translation = ?
`

// GetIdxBounds returns the min and max stored global index for a
// translation. sql.ErrNoRows is returned when the translation is empty.
func (q *Queries) GetIdxBounds(ctx context.Context, translation string) (int, int, error) {
	var minIdx, maxIdx sql.NullInt64
	err := q.db.QueryRowContext(ctx, getIdxBounds, translation).Scan(&minIdx, &maxIdx)
	if err != nil {
		return 0, 0, err
	}
	if !minIdx.Valid || !maxIdx.Valid {
		return 0, 0, sql.ErrNoRows
	}
	return int(minIdx.Int64), int(maxIdx.Int64), nil
}

const upsertVerse = `
INSERT INTO verses (translation, idx, book, chapter, verse, text, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (translation, idx) DO UPDATE SET
	book = excluded.book,
	chapter = excluded.chapter,
	verse = excluded.verse,
	text = excluded.text,
	updated_at = excluded.updated_at
`

// UpsertVerseParams holds the columns for UpsertVerse.
type UpsertVerseParams struct {
	Translation string
	Idx         int
	Book        string
	Chapter     int
	Verse       int
	Text        string
	UpdatedAt   int64
}

// UpsertVerse inserts or replaces one verse.
func (q *Queries) UpsertVerse(ctx context.Context, p UpsertVerseParams) error {
	_, err := q.db.ExecContext(ctx, upsertVerse,
		p.Translation, p.Idx, p.Book, p.Chapter, p.Verse, p.Text, p.UpdatedAt)
	return err
}

const countVerses = `
SELECT COUNT(*) FROM verses WHERE translation = ?
`

// CountVerses returns the stored verse count for a translation.
func (q *Queries) CountVerses(ctx context.Context, translation string) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, countVerses, translation).Scan(&n)
	return n, err
}

const listTranslations = `
SELECT translation, COUNT(*)
FROM verses
GROUP BY translation
ORDER BY translation
`

// TranslationCount pairs a translation id with its stored verse count.
type TranslationCount struct {
	Translation string
	Verses      int
}

// ListTranslations returns every stored translation with its verse count.
func (q *Queries) ListTranslations(ctx context.Context) ([]TranslationCount, error) {
	rows, err := q.db.QueryContext(ctx, listTranslations)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []TranslationCount
	for rows.Next() {
		var tc TranslationCount
		if err := rows.Scan(&tc.Translation, &tc.Verses); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

const getAnyIdxByRef = `
SELECT idx FROM verses WHERE book = ? AND chapter = ? AND verse = ? LIMIT 1
`

// GetAnyIdxByRef returns the global index any stored translation uses for a
// canonical reference. The importer uses it to keep translations aligned on
// one shared index layout.
func (q *Queries) GetAnyIdxByRef(ctx context.Context, book string, chapter, verse int) (int, error) {
	var idx int
	err := q.db.QueryRowContext(ctx, getAnyIdxByRef, book, chapter, verse).Scan(&idx)
	return idx, err
}

const getGlobalMaxIdx = `
SELECT MAX(idx) FROM verses
`

// GetGlobalMaxIdx returns the highest global index across all translations,
// or 0 for an empty database.
func (q *Queries) GetGlobalMaxIdx(ctx context.Context) (int, error) {
	var idx sql.NullInt64
	if err := q.db.QueryRowContext(ctx, getGlobalMaxIdx).Scan(&idx); err != nil {
		return 0, err
	}
	if !idx.Valid {
		return 0, nil
	}
	return int(idx.Int64), nil
}

const getPosition = `
SELECT idx FROM positions WHERE viewport_id = ?
`

// GetPosition returns the saved index for a viewport.
func (q *Queries) GetPosition(ctx context.Context, viewportID string) (int, error) {
	var idx int
	err := q.db.QueryRowContext(ctx, getPosition, viewportID).Scan(&idx)
	return idx, err
}

const savePosition = `
INSERT INTO positions (viewport_id, idx, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (viewport_id) DO UPDATE SET
	idx = excluded.idx,
	updated_at = excluded.updated_at
`

// SavePosition upserts the last-known index for a viewport.
func (q *Queries) SavePosition(ctx context.Context, viewportID string, idx int, updatedAt int64) error {
	_, err := q.db.ExecContext(ctx, savePosition, viewportID, idx, updatedAt)
	return err
}
