//go:build noduckdb

package parser

import (
	"context"
	"errors"

	"github.com/JayJamieson/csv-loader/pkg/models"
)

var ErrEngineUnavailable = errors.New("duckdb engine not compiled in (built with -tags noduckdb)")

func parseDuckDB(ctx context.Context, path, name string) (*models.Table, error) {
	return nil, ErrEngineUnavailable
}
