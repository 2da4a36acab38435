package parser

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/JayJamieson/csv-loader/pkg/models"
)

var (
	ErrNoColumns   = errors.New("no columns to parse from file")
	ErrTooManyCols = errors.New("too many fields")
	ErrEncoding    = errors.New("invalid UTF-8")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func parseNative(ctx context.Context, path, name string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	return ReadCSV(ctx, f, name, path)
}

// ReadCSV parses comma separated data with a header row into a table.
// Rows shorter than the header are padded with nulls, longer rows are rejected.
func ReadCSV(ctx context.Context, r io.Reader, name, source string) (*models.Table, error) {
	header, records, err := scanCSV(ctx, r)
	if err != nil {
		return nil, err
	}
	return buildTable(name, source, header, records), nil
}

// scanCSV reads the header and records, enforcing the shape rules shared by
// every engine. Quotes inside unquoted fields are kept as literal text.
func scanCSV(ctx context.Context, r io.Reader) ([]string, [][]string, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrNoColumns
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	if err := checkEncoding(header, 1); err != nil {
		return nil, nil, err
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read record: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if len(record) > len(header) {
			return nil, nil, fmt.Errorf("line %d: %w: expected %d, saw %d", line, ErrTooManyCols, len(header), len(record))
		}
		if err := checkEncoding(record, line); err != nil {
			return nil, nil, err
		}

		records = append(records, record)

		if len(records)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
	}

	return header, records, nil
}

func checkEncoding(record []string, line int) error {
	for _, field := range record {
		if !utf8.ValidString(field) {
			return fmt.Errorf("line %d: %w in field %q", line, ErrEncoding, field)
		}
	}
	return nil
}
