//go:build !noduckdb

package parser

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/JayJamieson/csv-loader/pkg/models"
	_ "github.com/marcboeker/go-duckdb/v2"
)

const scratchTable = "csv_data"

// parseDuckDB loads the file through DuckDB's CSV reader into an in-memory
// database and reads it back as text. The header and row shape are checked
// with the native scanner first, so both engines accept and reject the same
// files and name columns the same way.
func parseDuckDB(ctx context.Context, path, name string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	header, scanned, err := scanCSV(ctx, f)
	f.Close()
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, importSQL(path, len(header))); err != nil {
		return nil, fmt.Errorf("failed to import CSV into DuckDB: %w", err)
	}

	rows, err := conn.QueryContext(ctx, "SELECT * FROM "+scratchTable)
	if err != nil {
		return nil, fmt.Errorf("failed to query data: %w", err)
	}
	defer rows.Close()

	var records [][]string
	for rows.Next() {
		values := make([]any, len(header))
		scanArgs := make([]any, len(header))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make([]string, len(header))
		for i, v := range values {
			switch val := v.(type) {
			case nil:
			case string:
				record[i] = val
			case []byte:
				record[i] = string(val)
			default:
				record[i] = fmt.Sprintf("%v", val)
			}
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if len(records) != len(scanned) {
		return nil, fmt.Errorf("DuckDB read %d rows, expected %d", len(records), len(scanned))
	}

	return buildTable(name, path, header, records), nil
}

// importSQL reads the file with a fixed dialect: the first line is always the
// header and every column is VARCHAR. Short rows are padded with NULL.
func importSQL(path string, width int) string {
	columns := make([]string, width)
	for i := range columns {
		columns[i] = fmt.Sprintf("'c%d': 'VARCHAR'", i)
	}

	return fmt.Sprintf(`CREATE TABLE %s AS SELECT * FROM read_csv('%s', header=true, auto_detect=false, delim=',', quote='"', escape='"', null_padding=true, strict_mode=false, columns={%s})`,
		scratchTable, strings.ReplaceAll(path, "'", "''"), strings.Join(columns, ", "))
}
