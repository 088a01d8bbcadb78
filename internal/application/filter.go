package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
)

// ColumnIdpel — подстрока заголовка колонки с idpel.
const ColumnIdpel = "idpel"

// FilterOptions — параметры фильтрации таблицы.
type FilterOptions struct {
	IdsFrom   string // папка с фото или файл отчёта (xlsx, csv, txt)
	Input     string // таблица, которую нужно отфильтровать
	OutputDir string
}

// FilterResult — итог фильтрации.
type FilterResult struct {
	IDs        int
	Total      int
	Kept       int
	Column     string
	OutputPath string
}

type FilterService struct {
	sheets port.Spreadsheet
	opts   FilterOptions
}

// NewFilterService создаёт сервис, оставляющий в таблице только прошедшие проверку idpel.
func NewFilterService(sheets port.Spreadsheet, opts FilterOptions) *FilterService {
	return &FilterService{sheets: sheets, opts: opts}
}

// Run читает первый лист Input, оставляет строки с известным idpel
// и пишет Output_Scan_{имя Input}.xlsx.
func (s *FilterService) Run(ctx context.Context) (*FilterResult, error) {
	ids, err := s.CollectIDs(s.opts.IdsFrom)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no idpel found in %s", s.opts.IdsFrom)
	}
	log.Printf("filter: %d idpel from %s", len(ids), s.opts.IdsFrom)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheet, err := s.sheets.ReadFirst(s.opts.Input)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.opts.Input, err)
	}
	col := sheet.ColumnContaining(ColumnIdpel)
	if col < 0 {
		return nil, fmt.Errorf("%s: idpel column not found", s.opts.Input)
	}

	out := entity.Sheet{Name: sheet.Name, Header: sheet.Header}
	for _, row := range sheet.Rows {
		if col < len(row) && ids[strings.TrimSpace(row[col])] {
			out.Rows = append(out.Rows, row)
		}
	}

	base := strings.TrimSuffix(filepath.Base(s.opts.Input), filepath.Ext(s.opts.Input))
	if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.opts.OutputDir, err)
	}
	path := filepath.Join(s.opts.OutputDir, fmt.Sprintf("Output_Scan_%s.xlsx", base))
	if err := s.sheets.Write(path, out); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	res := &FilterResult{
		IDs:        len(ids),
		Total:      len(sheet.Rows),
		Kept:       len(out.Rows),
		Column:     sheet.Header[col],
		OutputPath: path,
	}
	log.Printf("filter: column %q, %d of %d rows -> %s", res.Column, res.Kept, res.Total, path)
	return res, nil
}

// CollectIDs собирает множество idpel. Для папки берётся первая группа цифр
// из имени каждого файла, для txt — непустые строки, для таблиц — колонка idpel.
func (s *FilterService) CollectIDs(source string) (map[string]bool, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("ids source: %w", err)
	}

	ids := make(map[string]bool)
	if info.IsDir() {
		entries, err := os.ReadDir(source)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
			if id := digitRun.FindString(stem); id != "" {
				ids[id] = true
			}
		}
		return ids, nil
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".txt":
		lines, err := readIDs(source)
		if err != nil {
			return nil, err
		}
		for _, id := range lines {
			ids[id] = true
		}
	case ".xlsx", ".csv":
		sheet, err := s.sheets.ReadFirst(source)
		if err != nil {
			return nil, err
		}
		col := sheet.ColumnContaining(ColumnIdpel)
		if col < 0 {
			return nil, fmt.Errorf("%s: idpel column not found", source)
		}
		for _, row := range sheet.Rows {
			if col < len(row) {
				if id := strings.TrimSpace(row[col]); id != "" {
					ids[id] = true
				}
			}
		}
	default:
		return nil, errors.New("ids source must be a directory or a .xlsx/.csv/.txt file")
	}
	return ids, nil
}
