package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JayJamieson/csv-loader/pkg/models"
)

// buildTable infers a type per column from the raw string cells and converts
// every cell to that type. Empty cells become nil.
func buildTable(name, source string, header []string, records [][]string) *models.Table {
	names := normalizeHeader(header)
	columns := make([]models.Column, len(names))

	for i, colName := range names {
		columns[i] = models.Column{Name: colName, Type: inferColumn(records, i)}
	}

	rows := make([][]any, len(records))
	for r, record := range records {
		row := make([]any, len(columns))
		for i, col := range columns {
			row[i] = convert(cell(record, i), col.Type)
		}
		rows[r] = row
	}

	return &models.Table{
		Name:    name,
		Source:  source,
		Columns: columns,
		Rows:    rows,
	}
}

// normalizeHeader names blank headers "Unnamed: <i>" and suffixes repeated
// names with ".1", ".2" and so on.
func normalizeHeader(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}

		if _, dup := seen[h]; dup {
			base := h
			for n := seen[base] + 1; ; n++ {
				candidate := fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[candidate]; !taken {
					seen[base] = n
					h = candidate
					break
				}
			}
		}
		seen[h] = 0
		names[i] = h
	}
	return names
}

func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func inferColumn(records [][]string, i int) models.ColumnType {
	isInt, isFloat, isBool := true, true, true
	nonEmpty := 0

	for _, record := range records {
		v := cell(record, i)
		if v == "" {
			continue
		}
		nonEmpty++

		if isInt {
			if _, ok := parseInt(v); !ok {
				isInt = false
			}
		}
		if isFloat {
			if _, ok := parseFloat(v); !ok {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := parseBool(v); !ok {
				isBool = false
			}
		}
		if !isInt && !isFloat && !isBool {
			return models.String
		}
	}

	switch {
	case nonEmpty == 0:
		return models.String
	case isInt:
		return models.Integer
	case isFloat:
		return models.Float
	case isBool:
		return models.Boolean
	default:
		return models.String
	}
}

func convert(v string, typ models.ColumnType) any {
	if v == "" {
		return nil
	}
	switch typ {
	case models.Integer:
		n, _ := parseInt(v)
		return n
	case models.Float:
		f, _ := parseFloat(v)
		return f
	case models.Boolean:
		b, _ := parseBool(v)
		return b
	default:
		return v
	}
}

func parseInt(v string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	return n, err == nil
}

func parseFloat(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseBool(v string) (bool, bool) {
	switch {
	case strings.EqualFold(strings.TrimSpace(v), "true"):
		return true, true
	case strings.EqualFold(strings.TrimSpace(v), "false"):
		return false, true
	}
	return false, false
}
