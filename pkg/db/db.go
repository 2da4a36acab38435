package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JayJamieson/csv-loader/pkg/models"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

var ErrTableNotFound = errors.New("table not found")

type DB struct {
	conn   *sql.DB
	driver string
	dsn    string
}

// Open connects to the destination database. Remote libsql DSNs use the
// libsql driver; anything else is treated as a local SQLite file, which is
// created if it does not exist.
func Open(ctx context.Context, dsn string) (*DB, error) {
	driver := sqliteDriver
	if isRemote(dsn) {
		driver = "libsql"
	} else if dir := filepath.Dir(localPath(dsn)); dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{
		conn:   conn,
		driver: driver,
		dsn:    dsn,
	}, nil
}

func (db *DB) Close() error {
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (db *DB) Driver() string {
	return db.driver
}

func isRemote(dsn string) bool {
	for _, scheme := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(dsn, scheme) {
			return true
		}
	}
	return false
}

// localPath strips the "file:" prefix and query string from a SQLite DSN.
func localPath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

// ReplaceTable drops any table called name and recreates it from table.
// The drop, create and inserts run in one transaction.
func (db *DB) ReplaceTable(ctx context.Context, name string, table *models.Table) (err error) {
	if len(table.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", name)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("failed to roll back transaction: %w", rbErr))
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}

	if _, err = tx.ExecContext(ctx, createTableSQL(name, table.Columns)); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	insertStmt, err := tx.PrepareContext(ctx, insertSQL(name, table.Columns))
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer insertStmt.Close()

	for i, row := range table.Rows {
		if _, err = insertStmt.ExecContext(ctx, insertArgs(row)...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func createTableSQL(name string, columns []models.Column) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(col.Name) + " " + col.Type.SQLType()
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
}

func insertSQL(name string, columns []models.Column) string {
	columnList := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		columnList[i] = quoteIdent(col.Name)
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(columnList, ", "), strings.Join(placeholders, ", "))
}

func insertArgs(row []any) []any {
	args := make([]any, len(row))
	for i, v := range row {
		if b, ok := v.(bool); ok {
			if b {
				v = int64(1)
			} else {
				v = int64(0)
			}
		}
		args[i] = v
	}
	return args
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (db *DB) CountRows(ctx context.Context, name string) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(name)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}

func (db *DB) TableInfo(ctx context.Context, name string) ([]models.ColumnInfo, error) {
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to get table info: %w", err)
	}
	defer rows.Close()

	var columns []models.ColumnInfo
	for rows.Next() {
		var col models.ColumnInfo
		if err := rows.Scan(&col.CID, &col.Name, &col.Type, &col.NotNull, &col.DefaultVal, &col.PK); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column rows: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return columns, nil
}

// QueryTable returns the column names and every row of the table in rowid
// order.
func (db *DB) QueryTable(ctx context.Context, name string) ([]string, [][]any, error) {
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", quoteIdent(name)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query data: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var arrayRows [][]any
	for rows.Next() {
		values := make([]any, len(columns))

		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}

		arrayRows = append(arrayRows, transformArray(columns, values))
	}

	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return columns, arrayRows, nil
}
