package models

import "fmt"

type ColumnType int

const (
	String ColumnType = iota
	Integer
	Float
	Boolean
)

func (t ColumnType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	default:
		return "string"
	}
}

// SQLType is the SQLite column type the column is created with.
// Booleans are stored as 0/1 integers.
func (t ColumnType) SQLType() string {
	switch t {
	case Integer, Boolean:
		return "INTEGER"
	case Float:
		return "REAL"
	default:
		return "TEXT"
	}
}

type Column struct {
	Name string
	Type ColumnType
}

// Table is a parsed CSV file held in memory between parse and persist.
// Row values are nil, int64, float64, bool or string according to the
// column type.
type Table struct {
	Name    string
	Source  string
	Columns []Column
	Rows    [][]any
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) String() string {
	return fmt.Sprintf("%s (%d columns, %d rows)", t.Name, len(t.Columns), len(t.Rows))
}

// ColumnInfo is one row of PRAGMA table_info.
type ColumnInfo struct {
	CID        int
	Name       string
	Type       string
	NotNull    bool
	DefaultVal any
	PK         bool
}
