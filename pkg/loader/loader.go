// Package loader runs a CSV file through the check, parse and persist stages
// and writes it into a single destination table.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/JayJamieson/csv-loader/pkg/config"
	"github.com/JayJamieson/csv-loader/pkg/db"
	"github.com/JayJamieson/csv-loader/pkg/models"
	"github.com/JayJamieson/csv-loader/pkg/parser"
	"github.com/JayJamieson/csv-loader/pkg/utils"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type Result struct {
	RunID    string
	State    State
	Rows     int
	Columns  []string
	Duration time.Duration
}

type Loader struct {
	cfg      config.Config
	reporter Reporter
	logger   *log.Logger
	runID    string
	state    State
}

type Option func(*Loader)

func WithReporter(r Reporter) Option {
	return func(l *Loader) {
		l.reporter = r
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

func New(cfg config.Config, opts ...Option) *Loader {
	l := &Loader{
		cfg:      cfg,
		reporter: nopReporter{},
		logger:   NewLogger(io.Discard, false),
		runID:    uuid.New().String(),
		state:    Start,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewLogger returns the diagnostic logger used for stage timings and causes.
// Only warnings and errors are written unless verbose is set.
func NewLogger(out io.Writer, verbose bool) *log.Logger {
	logger := log.New("csv-loader")
	logger.SetOutput(out)
	logger.SetHeader(`${time_rfc3339} ${level} ${prefix}`)
	logger.DisableColor()
	if verbose {
		logger.SetLevel(log.DEBUG)
	} else {
		logger.SetLevel(log.WARN)
	}
	return logger
}

func (l *Loader) State() State {
	return l.state
}

func (l *Loader) RunID() string {
	return l.runID
}

// Run executes the stages in order and stops at the first failure. A failed
// run returns a *StageError and a Result whose State is Failed. Each call is
// a fresh run from Start with its own run ID.
func (l *Loader) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	l.state = Start
	l.runID = uuid.New().String()
	res := &Result{RunID: l.runID}
	defer func() {
		res.State = l.state
		res.Duration = time.Since(start)
	}()

	l.logger.Debugj(log.JSON{"run_id": l.runID, "input": l.cfg.Input, "output": l.cfg.Output, "table": l.cfg.Table, "engine": l.cfg.Engine})

	path, cleanup, err := l.checkFile(ctx)
	if err != nil {
		return res, l.fail(MissingInput, err)
	}
	defer cleanup()
	l.moveTo(FileChecked)

	table, err := l.parse(ctx, path)
	if err != nil {
		return res, l.fail(ParseFailure, err)
	}
	res.Rows = table.Len()
	res.Columns = table.ColumnNames()
	l.moveTo(Parsed)
	l.reporter.Success(fmt.Sprintf("Loaded %d rows from '%s'", table.Len(), l.cfg.Input))

	if err := l.persist(ctx, table); err != nil {
		return res, l.fail(PersistenceFailure, err)
	}

	if l.cfg.Verify {
		if err := l.verify(ctx, table); err != nil {
			return res, l.fail(PersistenceFailure, err)
		}
	}
	l.moveTo(Persisted)
	l.reporter.Success(fmt.Sprintf("Data pushed to SQLite database '%s' (table: '%s')", l.cfg.Output, l.cfg.Table))

	l.moveTo(Done)
	l.logger.Debugj(log.JSON{"run_id": l.runID, "state": l.state.String(), "rows": res.Rows, "elapsed_ms": time.Since(start).Milliseconds()})
	return res, nil
}

func (l *Loader) moveTo(next State) {
	if !l.state.canMoveTo(next) {
		panic(fmt.Sprintf("loader: invalid transition %s -> %s", l.state, next))
	}
	l.logger.Debugj(log.JSON{"run_id": l.runID, "from": l.state.String(), "to": next.String()})
	l.state = next
}

func (l *Loader) fail(kind Kind, err error) error {
	stageErr := &StageError{Kind: kind, Stage: l.state, Err: err}
	l.moveTo(Failed)
	l.logger.Errorj(log.JSON{"run_id": l.runID, "kind": kind.String(), "stage": stageErr.Stage.String(), "error": err.Error()})
	return stageErr
}

// checkFile resolves the input to a local regular file. Remote inputs are
// downloaded first; the returned cleanup removes the download.
func (l *Loader) checkFile(ctx context.Context) (string, func(), error) {
	path := l.cfg.Input
	cleanup := func() {}

	if l.cfg.IsRemoteInput() {
		tmp, remove, err := utils.DownloadToTemp(ctx, l.cfg.Input)
		if err != nil {
			return "", nil, err
		}
		path, cleanup = tmp, remove
	}

	info, err := os.Stat(path)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	if !info.Mode().IsRegular() {
		cleanup()
		return "", nil, fmt.Errorf("%s is not a regular file", path)
	}

	return path, cleanup, nil
}

func (l *Loader) parse(ctx context.Context, path string) (*models.Table, error) {
	started := time.Now()
	table, err := parser.Parse(ctx, l.cfg.Engine, path, l.cfg.Table)
	if err != nil {
		return nil, err
	}
	l.logger.Debugj(log.JSON{"run_id": l.runID, "stage": "parse", "rows": table.Len(), "columns": len(table.Columns), "elapsed_ms": time.Since(started).Milliseconds()})
	return table, nil
}

// persist always closes the destination connection; a close error is
// returned even when the write succeeded.
func (l *Loader) persist(ctx context.Context, table *models.Table) (err error) {
	started := time.Now()

	database, err := db.Open(ctx, l.cfg.Output)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if err := database.ReplaceTable(ctx, l.cfg.Table, table); err != nil {
		return err
	}

	l.logger.Debugj(log.JSON{"run_id": l.runID, "stage": "persist", "driver": database.Driver(), "rows": table.Len(), "elapsed_ms": time.Since(started).Milliseconds()})
	return nil
}

// verify re-reads the destination and checks it mirrors the written table.
func (l *Loader) verify(ctx context.Context, table *models.Table) (err error) {
	database, err := db.Open(ctx, l.cfg.Output)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	info, err := database.TableInfo(ctx, l.cfg.Table)
	if err != nil {
		return err
	}
	count, err := database.CountRows(ctx, l.cfg.Table)
	if err != nil {
		return err
	}
	return checkWritten(l.cfg.Table, table, info, count)
}

func checkWritten(name string, table *models.Table, info []models.ColumnInfo, count int) error {
	want := table.ColumnNames()
	if len(info) != len(want) {
		return fmt.Errorf("column count mismatch in %s: wrote %d, found %d", name, len(want), len(info))
	}
	for i, col := range info {
		if col.Name != want[i] {
			return fmt.Errorf("column %d mismatch in %s: wrote %q, found %q", i+1, name, want[i], col.Name)
		}
	}
	if count != table.Len() {
		return fmt.Errorf("row count mismatch in %s: wrote %d, found %d", name, table.Len(), count)
	}
	return nil
}
