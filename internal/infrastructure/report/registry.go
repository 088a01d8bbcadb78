package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
)

// Options — общие параметры всех форматов отчёта.
type Options struct {
	Path string           // путь вывода, расширение заменяется на расширение формата
	Now  func() time.Time // часы для отметки времени в txt
}

type factory func(opts Options) port.ReportSink

var registry = map[string]factory{
	"xlsx": func(opts Options) port.ReportSink { return &XLSXSink{path: opts.Path} },
	"csv":  func(opts Options) port.ReportSink { return &CSVSink{path: opts.Path} },
	"json": func(opts Options) port.ReportSink { return &JSONSink{path: opts.Path} },
	"txt":  func(opts Options) port.ReportSink { return &TXTSink{path: opts.Path, now: opts.Now} },
}

// New выбирает запись отчёта по имени формата.
func New(format string, opts Options) (port.ReportSink, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	build, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", entity.ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Path = withExt(opts.Path, "."+format)
	return build(opts), nil
}

// Formats возвращает поддерживаемые форматы по алфавиту.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// textFields раскладывает строку отчёта по колонкам раскладки. Колонка
// изображения в текстовых форматах всегда пустая.
func textFields(layout entity.Layout, row entity.ReportRow) []string {
	if layout != entity.LayoutExtended {
		return []string{"", row.Idpel}
	}
	return []string{
		row.Idpel,
		row.Stand,
		row.Filename,
		formatProb(row.ValidProb),
		formatProb(row.NegativeProb),
		string(row.Label),
		row.Verdict.Status(),
		row.Verdict.ReasonText(),
		"",
		row.CopiedTo,
		row.SourcePath,
	}
}

func formatProb(p float64) string {
	return fmt.Sprintf("%.4f", p)
}
