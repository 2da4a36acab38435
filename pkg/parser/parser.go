// Package parser turns a CSV file into an in-memory models.Table.
package parser

import (
	"context"
	"fmt"

	"github.com/JayJamieson/csv-loader/pkg/config"
	"github.com/JayJamieson/csv-loader/pkg/models"
)

type parseFunc func(ctx context.Context, path, name string) (*models.Table, error)

var engines = map[string]parseFunc{
	config.EngineNative: parseNative,
	config.EngineDuckDB: parseDuckDB,
}

// Parse reads the CSV file at path with the named engine. The returned
// table is called name.
func Parse(ctx context.Context, engine, path, name string) (*models.Table, error) {
	parse, ok := engines[engine]
	if !ok {
		return nil, fmt.Errorf("unknown parser engine %q", engine)
	}
	return parse(ctx, path, name)
}
