package report

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"kwh-verifier/internal/domain/entity"
)

// TXTSink пишет простую таблицу No./IDPEL для печати.
type TXTSink struct {
	path string
	now  func() time.Time
}

func (s *TXTSink) Write(ctx context.Context, report *entity.Report) (string, error) {
	if err := ensureDir(s.path); err != nil {
		return "", err
	}
	f, err := os.Create(s.path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	banner := strings.Repeat("=", 50)
	fmt.Fprintf(w, "%s\nDATA IDPEL KWH METER\n%s\n\n", banner, banner)

	extended := report.Layout == entity.LayoutExtended
	if extended {
		fmt.Fprintf(w, "%-5s %-15s %-6s %s\n", "No.", "IDPEL", "STATUS", "REASON")
		fmt.Fprintln(w, strings.Repeat("-", 50))
	} else {
		fmt.Fprintf(w, "%-5s %-15s\n", "No.", "IDPEL")
		fmt.Fprintln(w, strings.Repeat("-", 25))
	}
	for i, row := range report.Rows {
		if extended {
			fmt.Fprintf(w, "%-5d %-15s %-6s %s\n", i+1, row.Idpel, row.Verdict.Status(), row.Verdict.ReasonText())
		} else {
			fmt.Fprintf(w, "%-5d %-15s\n", i+1, row.Idpel)
		}
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	fmt.Fprintf(w, "\nTotal: %d IDPEL\n", len(report.Rows))
	fmt.Fprintf(w, "Tanggal: %s\n", now().Format("02-01-2006 15:04:05"))

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("write %s: %w", s.path, err)
	}
	return s.path, f.Close()
}
