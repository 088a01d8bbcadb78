package report

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"kwh-verifier/internal/domain/entity"
)

const (
	sheetName = "IDPEL_KWH"

	headerFill = "1F4E79"
	failFill   = "F8D7DA"

	headerHeight = 30.0
	columnWidth  = 20.0
)

// XLSXSink пишет отчёт в xlsx со встроенными миниатюрами.
type XLSXSink struct {
	path string
}

func (s *XLSXSink) Write(ctx context.Context, report *entity.Report) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", err
	}

	header := report.Header()
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return "", err
	}
	if err := s.writeHeader(f, header, lastCol); err != nil {
		return "", err
	}

	failStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{failFill}, Pattern: 1},
	})
	if err != nil {
		return "", err
	}

	thumbs := &thumbDir{}
	defer thumbs.cleanup()

	imageCol := imageColumn(report.Layout)
	for i, row := range report.Rows {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		r := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, r)
		values := cellValues(report.Layout, row)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return "", err
		}

		if report.Layout == entity.LayoutExtended && !row.Verdict.Pass {
			if err := f.SetCellStyle(sheetName, cell, fmt.Sprintf("%s%d", lastCol, r), failStyle); err != nil {
				return "", err
			}
		}

		if row.Thumbnail != nil {
			if err := s.embed(f, thumbs, row.Thumbnail, imageCol, r); err != nil {
				log.Printf("thumbnail %s: %v", row.Filename, err)
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return "", err
	}
	if err := f.AutoFilter(sheetName, fmt.Sprintf("A1:%s%d", lastCol, len(report.Rows)+1), nil); err != nil {
		return "", err
	}

	if err := ensureDir(s.path); err != nil {
		return "", err
	}
	if err := f.SaveAs(s.path); err != nil {
		return "", fmt.Errorf("save %s: %w", s.path, err)
	}
	return s.path, nil
}

func (s *XLSXSink) writeHeader(f *excelize.File, header []string, lastCol string) error {
	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &values); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", style); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, columnWidth); err != nil {
		return err
	}
	return f.SetRowHeight(sheetName, 1, headerHeight)
}

// embed кладёт миниатюру в ячейку и подгоняет высоту строки и ширину колонки.
func (s *XLSXSink) embed(f *excelize.File, thumbs *thumbDir, img image.Image, col, row int) error {
	path, err := thumbs.save(img)
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.AddPicture(sheetName, cell, path, &excelize.GraphicOptions{
		OffsetX:     2,
		OffsetY:     2,
		Positioning: "oneCell",
	}); err != nil {
		return err
	}

	// пиксели в пункты: 0.75 по высоте, примерно 7 пикселей на символ по ширине
	b := img.Bounds()
	height := float64(b.Dy())*0.75 + 4
	if height > headerHeight {
		if err := f.SetRowHeight(sheetName, row, height); err != nil {
			return err
		}
	}
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	if width := float64(b.Dx())/7 + 2; width > columnWidth {
		return f.SetColWidth(sheetName, name, name, width)
	}
	return nil
}

// imageColumn возвращает номер колонки с изображением.
func imageColumn(layout entity.Layout) int {
	if layout == entity.LayoutExtended {
		return 9
	}
	return 1
}

// cellValues — значения ячеек строки; вероятности пишутся числами.
func cellValues(layout entity.Layout, row entity.ReportRow) []interface{} {
	if layout != entity.LayoutExtended {
		return []interface{}{nil, row.Idpel}
	}
	return []interface{}{
		row.Idpel,
		row.Stand,
		row.Filename,
		row.ValidProb,
		row.NegativeProb,
		string(row.Label),
		row.Verdict.Status(),
		row.Verdict.ReasonText(),
		nil,
		row.CopiedTo,
		row.SourcePath,
	}
}

// thumbDir — временная папка миниатюр одной записи отчёта.
type thumbDir struct {
	dir string
}

func (t *thumbDir) save(img image.Image) (string, error) {
	if t.dir == "" {
		dir, err := os.MkdirTemp("", "kwh-thumbs-*")
		if err != nil {
			return "", err
		}
		t.dir = dir
	}
	path := filepath.Join(t.dir, uuid.NewString()+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func (t *thumbDir) cleanup() {
	if t.dir == "" {
		return
	}
	if err := os.RemoveAll(t.dir); err != nil {
		log.Printf("remove %s: %v", t.dir, err)
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
