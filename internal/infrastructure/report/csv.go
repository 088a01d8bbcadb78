package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"kwh-verifier/internal/domain/entity"
)

// CSVSink пишет отчёт в csv с теми же колонками, что и xlsx.
type CSVSink struct {
	path string
}

func (s *CSVSink) Write(ctx context.Context, report *entity.Report) (string, error) {
	if err := ensureDir(s.path); err != nil {
		return "", err
	}
	f, err := os.Create(s.path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(report.Header()); err != nil {
		return "", err
	}
	for _, row := range report.Rows {
		if err := w.Write(textFields(report.Layout, row)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write %s: %w", s.path, err)
	}
	return s.path, f.Close()
}
