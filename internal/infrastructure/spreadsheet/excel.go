package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
)

// defaultSheet — имя листа для таблиц без имени.
const defaultSheet = "Sheet1"

// Excel читает и пишет таблицы через excelize. csv поддерживается только на чтение.
type Excel struct{}

// NewExcel создаёт адаптер таблиц.
func NewExcel() *Excel {
	return &Excel{}
}

// ReadAll читает все листы книги из памяти. Первая строка листа — заголовок.
func (Excel) ReadAll(data []byte) ([]entity.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var sheets []entity.Sheet
	for _, name := range f.GetSheetList() {
		sh, err := readSheet(f, name)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sh)
	}
	return sheets, nil
}

// ReadFirst читает первый лист xlsx или весь csv файл.
func (Excel) ReadFirst(path string) (entity.Sheet, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readCSV(path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return entity.Sheet{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	list := f.GetSheetList()
	if len(list) == 0 {
		return entity.Sheet{}, fmt.Errorf("%s: workbook has no sheets", path)
	}
	return readSheet(f, list[0])
}

// Write пишет один лист потоково: выгрузки DLPD бывают на сотни тысяч строк.
func (Excel) Write(path string, sheet entity.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	name := sheet.Name
	if name == "" {
		name = defaultSheet
	}
	if name != defaultSheet {
		if err := f.SetSheetName(defaultSheet, name); err != nil {
			return err
		}
	}

	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return err
	}
	if err := writeRow(sw, 1, sheet.Header); err != nil {
		return err
	}
	for i, row := range sheet.Rows {
		if err := writeRow(sw, i+2, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func writeRow(sw *excelize.StreamWriter, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return sw.SetRow(cell, out)
}

func readSheet(f *excelize.File, name string) (entity.Sheet, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return entity.Sheet{}, fmt.Errorf("read sheet %s: %w", name, err)
	}
	sh := entity.Sheet{Name: name}
	if len(rows) == 0 {
		return sh, nil
	}
	sh.Header = rows[0]
	sh.Rows = rows[1:]
	return sh, nil
}

func readCSV(path string) (entity.Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return entity.Sheet{}, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	sh := entity.Sheet{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entity.Sheet{}, fmt.Errorf("read %s: %w", path, err)
		}
		if sh.Header == nil {
			sh.Header = rec
			continue
		}
		sh.Rows = append(sh.Rows, rec)
	}
	return sh, nil
}

// Проверка реализации интерфейса
var _ port.Spreadsheet = (*Excel)(nil)
