package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
)

// UnitapUnits — UP, входящие в каждый UNITAP.
var UnitapUnits = map[string][]string{
	"32AMU": {"32010", "32020", "32030", "32040"},
	"32AMS": {"32111", "32121", "32131", "32141", "32151", "32161"},
	"32CWP": {"32210", "32240", "32250", "32260", "32270", "32280"},
	"32CKD": {"32320", "32330", "32340", "32350", "32360", "32370", "32380"},
	"32CPG": {"32410", "32420", "32430", "32440", "32450"},
	"32CPR": {"32510", "32520", "32530", "32540", "32550", "32560", "32570"},
	"32CPL": {"32610", "32620", "32630", "32640", "32650", "32660", "32680"},
	"32CBK": {"32710", "32720", "32730", "32740", "32750", "32760", "32770"},
	"32CBB": {"32810", "32820", "32830", "32840", "32850"},
	"32CMJ": {"32910", "32920", "32930", "32940", "32950", "32960"},
}

// Колонки, добавляемые к каждой строке выгрузки.
const (
	ColumnUnitap = "UNITAP"
	ColumnUP     = "UP"
)

// DLPDOptions — параметры выгрузки DLPD.
type DLPDOptions struct {
	Unitap     string
	Unit       string // пусто — все UP из UnitapUnits
	Blth       string
	OutputDir  string
	MaxRetries int
	RetryDelay time.Duration
}

type DLPDService struct {
	fetcher port.ReportFetcher
	sheets  port.Spreadsheet
	opts    DLPDOptions
}

// NewDLPDService создаёт сервис выгрузки и склейки отчётов DLPD.
func NewDLPDService(fetcher port.ReportFetcher, sheets port.Spreadsheet, opts DLPDOptions) *DLPDService {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 3
	}
	return &DLPDService{fetcher: fetcher, sheets: sheets, opts: opts}
}

// Units возвращает список UP для выгрузки и суффикс имени файла.
func (s *DLPDService) Units() ([]string, string, error) {
	units, ok := UnitapUnits[s.opts.Unitap]
	if !ok || len(units) == 0 {
		return nil, "", fmt.Errorf("unknown unitap %q", s.opts.Unitap)
	}
	if s.opts.Unit == "" {
		return units, "ALL", nil
	}
	return []string{s.opts.Unit}, s.opts.Unit, nil
}

// Run скачивает выгрузку по каждому UP, склеивает все листы в один
// и сохраняет DLPD_ACMT_{unitap}_{blth}_{ALL|up}.xlsx. Возвращает путь файла.
func (s *DLPDService) Run(ctx context.Context) (string, error) {
	if s.opts.Blth == "" {
		return "", errors.New("blth is required")
	}
	units, suffix, err := s.Units()
	if err != nil {
		return "", err
	}

	var collected []entity.Sheet
	for _, up := range units {
		var sheets []entity.Sheet
		err := retry(ctx, "unit "+up, s.opts.MaxRetries, s.opts.RetryDelay, func(ctx context.Context) error {
			data, err := s.fetcher.FetchDLPD(ctx, up, s.opts.Blth)
			if err != nil {
				return err
			}
			sheets, err = s.sheets.ReadAll(data)
			return err
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			log.Printf("[FAILED] %v", err)
			continue
		}

		rows := 0
		for _, sh := range sheets {
			collected = append(collected, withUnitColumns(sh, s.opts.Unitap, up))
			rows += len(sh.Rows)
		}
		log.Printf("unit %s: %d sheets, %d rows", up, len(sheets), rows)
	}

	merged := MergeSheets("DLPD", collected)
	if len(merged.Rows) == 0 {
		return "", errors.New("no data downloaded")
	}

	if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", s.opts.OutputDir, err)
	}
	name := fmt.Sprintf("DLPD_ACMT_%s_%s_%s.xlsx", s.opts.Unitap, s.opts.Blth, suffix)
	path := filepath.Join(s.opts.OutputDir, name)
	if err := s.sheets.Write(path, merged); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	log.Printf("dlpd: %d rows -> %s", len(merged.Rows), path)
	return path, nil
}

func withUnitColumns(sh entity.Sheet, unitap, up string) entity.Sheet {
	out := entity.Sheet{Name: sh.Name}
	out.Header = append(append([]string{}, sh.Header...), ColumnUnitap, ColumnUP)
	for _, row := range sh.Rows {
		r := make([]string, len(sh.Header), len(sh.Header)+2)
		copy(r, row)
		out.Rows = append(out.Rows, append(r, unitap, up))
	}
	return out
}

// MergeSheets склеивает листы по именам колонок. Порядок колонок — порядок
// первого появления; отсутствующие в листе колонки остаются пустыми.
func MergeSheets(name string, sheets []entity.Sheet) entity.Sheet {
	merged := entity.Sheet{Name: name}
	index := make(map[string]int)
	for _, sh := range sheets {
		for _, col := range sh.Header {
			if _, ok := index[col]; !ok {
				index[col] = len(merged.Header)
				merged.Header = append(merged.Header, col)
			}
		}
	}

	for _, sh := range sheets {
		for _, row := range sh.Rows {
			out := make([]string, len(merged.Header))
			for i, col := range sh.Header {
				if i < len(row) {
					out[index[col]] = row[i]
				}
			}
			merged.Rows = append(merged.Rows, out)
		}
	}
	return merged
}
