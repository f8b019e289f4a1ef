// Package output writes finished reports to files and spreadsheets.
package output

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/okian/warcut/internal/domain/report"
	"github.com/okian/warcut/pkg/logger"
)

const (
	dirPermission  = 0o755
	filePermission = 0o644
)

// optionalTables are only written when they have rows. A file left over
// from an earlier run is removed when the table is absent.
var optionalTables = []string{report.PenaltiesTable, report.DiagnosticsTable} //nolint:gochecknoglobals // fixed table set

// CSVWriter writes every report table to <dir>/<table>.csv.
type CSVWriter struct {
	dir    string
	logger logger.Logger
}

// NewCSVWriter creates a CSVWriter rooted at dir.
func NewCSVWriter(dir string, l logger.Logger) (*CSVWriter, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrOutputDir)
	}
	if l == nil {
		l = logger.Get().Named("csv")
	}
	return &CSVWriter{dir: dir, logger: l}, nil
}

// Name identifies the sink in logs and metrics.
func (w *CSVWriter) Name() string { return "csv" }

// Write writes the report tables. Each file is written to a temporary name
// and renamed into place.
func (w *CSVWriter) Write(ctx context.Context, r *report.Report) error {
	if err := os.MkdirAll(w.dir, dirPermission); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputDir, err)
	}

	written := make(map[string]bool)
	for _, t := range r.Tables() {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(w.dir, t.Name+".csv")
		if err := writeFile(path, t); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written[t.Name] = true
		w.logger.Info(ctx, "table written",
			logger.String("path", path),
			logger.Int("rows", len(t.Rows)),
		)
	}

	for _, name := range optionalTables {
		if written[name] {
			continue
		}
		path := filepath.Join(w.dir, name+".csv")
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove stale %s: %w", path, err)
		}
	}
	return nil
}

func writeFile(path string, t report.Table) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+t.Name+"-*.csv")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	cw := csv.NewWriter(tmp)
	if err = cw.Write(t.Header); err != nil {
		return err
	}
	if err = cw.WriteAll(t.Rows); err != nil {
		return err
	}
	if err = tmp.Chmod(filePermission); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
