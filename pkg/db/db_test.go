package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/JayJamieson/csv-loader/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gamesTable() *models.Table {
	return &models.Table{
		Name: "steam_games",
		Columns: []models.Column{
			{Name: "id", Type: models.Integer},
			{Name: "name", Type: models.String},
			{Name: "price", Type: models.Float},
		},
		Rows: [][]any{
			{int64(1), "Game A", 9.99},
			{int64(2), "Game B", 0.0},
		},
	}
}

func openTemp(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "steam.db")
	database, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, path
}

func TestOpen_CreatesFile(t *testing.T) {
	_, path := openTemp(t)

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_MissingDirectory(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "steam.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}

func TestReplaceTable(t *testing.T) {
	ctx := context.Background()
	database, _ := openTemp(t)

	require.NoError(t, database.ReplaceTable(ctx, "steam_games", gamesTable()))

	columns, rows, err := database.QueryTable(ctx, "steam_games")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "price"}, columns)
	assert.Equal(t, [][]any{
		{int64(1), "Game A", 9.99},
		{int64(2), "Game B", 0.0},
	}, rows)

	info, err := database.TableInfo(ctx, "steam_games")
	require.NoError(t, err)
	require.Len(t, info, 3)
	assert.Equal(t, "INTEGER", info[0].Type)
	assert.Equal(t, "TEXT", info[1].Type)
	assert.Equal(t, "REAL", info[2].Type)
	for _, col := range info {
		assert.False(t, col.PK)
	}
}

func TestReplaceTable_ReplacesExisting(t *testing.T) {
	ctx := context.Background()
	database, _ := openTemp(t)

	old := &models.Table{
		Columns: []models.Column{{Name: "legacy", Type: models.String}},
		Rows:    [][]any{{"a"}, {"b"}, {"c"}},
	}
	require.NoError(t, database.ReplaceTable(ctx, "steam_games", old))
	require.NoError(t, database.ReplaceTable(ctx, "steam_games", gamesTable()))
	require.NoError(t, database.ReplaceTable(ctx, "steam_games", gamesTable()))

	n, err := database.CountRows(ctx, "steam_games")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	columns, _, err := database.QueryTable(ctx, "steam_games")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "price"}, columns)
}

func TestReplaceTable_QuotesIdentifiers(t *testing.T) {
	ctx := context.Background()
	database, _ := openTemp(t)

	table := &models.Table{
		Columns: []models.Column{
			{Name: `say "hi"`, Type: models.String},
			{Name: "select", Type: models.Boolean},
			{Name: "Unnamed: 2", Type: models.Integer},
		},
		Rows: [][]any{
			{"x", true, nil},
			{nil, false, int64(7)},
		},
	}
	require.NoError(t, database.ReplaceTable(ctx, `my "games"`, table))

	columns, rows, err := database.QueryTable(ctx, `my "games"`)
	require.NoError(t, err)
	assert.Equal(t, []string{`say "hi"`, "select", "Unnamed: 2"}, columns)
	assert.Equal(t, [][]any{
		{"x", int64(1), nil},
		{nil, int64(0), int64(7)},
	}, rows)
}

func TestReplaceTable_ZeroRows(t *testing.T) {
	ctx := context.Background()
	database, _ := openTemp(t)

	table := &models.Table{Columns: []models.Column{{Name: "id", Type: models.String}}}
	require.NoError(t, database.ReplaceTable(ctx, "empty", table))

	n, err := database.CountRows(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestReplaceTable_NoColumns(t *testing.T) {
	database, _ := openTemp(t)

	err := database.ReplaceTable(context.Background(), "t", &models.Table{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no columns")
}

func TestTableInfo_NotFound(t *testing.T) {
	database, _ := openTemp(t)

	_, err := database.TableInfo(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestCreateTableSQL(t *testing.T) {
	got := createTableSQL("steam_games", gamesTable().Columns)
	assert.Equal(t, `CREATE TABLE "steam_games" ("id" INTEGER, "name" TEXT, "price" REAL)`, got)

	got = insertSQL("steam_games", gamesTable().Columns)
	assert.Equal(t, `INSERT INTO "steam_games" ("id", "name", "price") VALUES (?, ?, ?)`, got)
}

func TestDSNHelpers(t *testing.T) {
	assert.True(t, isRemote("libsql://games.turso.io?authToken=x"))
	assert.True(t, isRemote("https://games.turso.io"))
	assert.False(t, isRemote("file:steam.db"))
	assert.False(t, isRemote("steam.db"))

	assert.Equal(t, "data/steam.db", localPath("file:data/steam.db?mode=rwc"))
	assert.Equal(t, "steam.db", localPath("steam.db"))
}
