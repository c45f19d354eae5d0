package importer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/data/db"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "verses.db"), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func writeBook(t *testing.T, dir, name, book string, chapters [][]string) {
	t.Helper()
	data, err := json.Marshal(bookFile{Book: book, Chapters: chapters})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestImporter_ImportGlob(t *testing.T) {
	database := openTestDB(t)
	dir := t.TempDir()
	ctx := context.Background()

	// Written out of canonical order on purpose.
	writeBook(t, dir, "john.json", "JHN", [][]string{
		{"j1v1", "j1v2"},
		{"j2v1"},
	})
	writeBook(t, dir, "genesis.json", "GEN", [][]string{
		{"g1v1", "g1v2", "g1v3"},
	})

	im := New(database, zerolog.Nop())
	summary, err := im.ImportGlob(ctx, "web", filepath.Join(dir, "*.json"))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 2, summary.Books)
	assert.Equal(t, 6, summary.Verses)
	assert.Empty(t, summary.Skipped)

	// Genesis precedes John in the canonical index layout regardless of
	// file order.
	idx, err := database.Queries().GetIdxByRef(ctx, "web", "GEN", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = database.Queries().GetIdxByRef(ctx, "web", "JHN", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, idx)

	idx, err = database.Queries().GetIdxByRef(ctx, "web", "JHN", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, idx)
}

func TestImporter_SecondTranslationAligns(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	im := New(database, zerolog.Nop())

	srcDir := t.TempDir()
	writeBook(t, srcDir, "john.json", "JHN", [][]string{
		{"v1", "v2", "v3"},
	})
	_, err := im.ImportGlob(ctx, "web", filepath.Join(srcDir, "*.json"))
	require.NoError(t, err)

	// The draft covers the same chapter; its verses must land on the same
	// global indices the first import assigned.
	tgtDir := t.TempDir()
	writeBook(t, tgtDir, "john.json", "JHN", [][]string{
		{"d1", "d2", "d3"},
	})
	_, err = im.ImportGlob(ctx, "draft", filepath.Join(tgtDir, "*.json"))
	require.NoError(t, err)

	webIdx, err := database.Queries().GetIdxByRef(ctx, "web", "JHN", 1, 2)
	require.NoError(t, err)
	draftIdx, err := database.Queries().GetIdxByRef(ctx, "draft", "JHN", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, webIdx, draftIdx, "translations must share the index layout")
}

func TestImporter_RecursiveGlob(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	dir := t.TempDir()

	nested := filepath.Join(dir, "ot", "law")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeBook(t, nested, "genesis.json", "GEN", [][]string{{"v1"}})

	im := New(database, zerolog.Nop())
	summary, err := im.ImportGlob(ctx, "web", filepath.Join(dir, "**", "*.json"))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Verses)
}

func TestImporter_UnknownBookSkipped(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeBook(t, dir, "genesis.json", "GEN", [][]string{{"v1"}})
	writeBook(t, dir, "laodiceans.json", "LAO", [][]string{{"v1"}})

	im := New(database, zerolog.Nop())
	summary, err := im.ImportGlob(ctx, "web", filepath.Join(dir, "*.json"))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Books)
	require.Len(t, summary.Skipped, 1)
	assert.Contains(t, summary.Skipped[0], "laodiceans.json")
}

func TestImporter_NoMatches(t *testing.T) {
	database := openTestDB(t)
	im := New(database, zerolog.Nop())

	_, err := im.ImportGlob(context.Background(), "web", filepath.Join(t.TempDir(), "*.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files match")
}

func TestImporter_MalformedFileAborts(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))

	im := New(database, zerolog.Nop())
	_, err := im.ImportGlob(ctx, "web", filepath.Join(dir, "*.json"))
	require.Error(t, err)

	count, err := database.Queries().CountVerses(ctx, "web")
	require.NoError(t, err)
	assert.Zero(t, count)
}
