package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
)

// DownloadOptions — параметры загрузки фото из ACMT.
type DownloadOptions struct {
	Input      string // файл со списком idpel
	Blth       string // период YYYYMM
	OutputDir  string
	LogDir     string
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

type DownloadService struct {
	fetcher  port.PhotoFetcher
	notifier port.Notifier
	opts     DownloadOptions
}

// NewDownloadService создаёт сервис параллельной загрузки фото.
func NewDownloadService(fetcher port.PhotoFetcher, notifier port.Notifier, opts DownloadOptions) *DownloadService {
	if opts.Workers < 1 {
		opts.Workers = 10
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	return &DownloadService{fetcher: fetcher, notifier: notifier, opts: opts}
}

// Run скачивает фото для каждого idpel из Input в OutputDir/{idpel}.jpg.
// Неудачные idpel записываются в LogDir/failed_ids_{имя входного файла}.txt.
func (s *DownloadService) Run(ctx context.Context, progress ProgressFunc) (*entity.DownloadResult, error) {
	if s.opts.Blth == "" {
		return nil, errors.New("blth is required")
	}
	ids, err := readIDs(s.opts.Input)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.opts.OutputDir, err)
	}

	total := len(ids)
	log.Printf("download: %d ids, blth=%s, workers=%d", total, s.opts.Blth, s.opts.Workers)

	failed := make([]bool, total)
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			err := s.downloadOne(gctx, id)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failed[i] = true
				log.Printf("[FAILED] %s: %v", id, err)
			} else {
				log.Printf("[SUCCESS] %s", id)
			}

			mu.Lock()
			done++
			if progress != nil {
				progress(done, total)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("download interrupted: %w", err)
	}

	result := &entity.DownloadResult{Total: total}
	for i, id := range ids {
		if failed[i] {
			result.FailedIDs = append(result.FailedIDs, id)
		}
	}
	result.Downloaded = total - len(result.FailedIDs)

	if len(result.FailedIDs) > 0 {
		path, err := s.writeFailed(result.FailedIDs)
		if err != nil {
			return nil, err
		}
		result.FailedListPath = path
	}

	summary := FormatDownloadSummary(result)
	log.Print(summary)
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, summary); err != nil {
			log.Printf("notify: %v", err)
		}
	}
	return result, nil
}

func (s *DownloadService) downloadOne(ctx context.Context, id string) error {
	path := filepath.Join(s.opts.OutputDir, id+".jpg")
	return retry(ctx, "idpel "+id, s.opts.MaxRetries, s.opts.RetryDelay, func(ctx context.Context) error {
		data, err := s.fetcher.FetchPhoto(ctx, id, s.opts.Blth)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return errors.New("empty file")
		}
		return os.WriteFile(path, data, 0o644)
	})
}

func (s *DownloadService) writeFailed(ids []string) (string, error) {
	if err := os.MkdirAll(s.opts.LogDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", s.opts.LogDir, err)
	}
	base := strings.TrimSuffix(filepath.Base(s.opts.Input), filepath.Ext(s.opts.Input))
	path := filepath.Join(s.opts.LogDir, fmt.Sprintf("failed_ids_%s.txt", base))
	if err := writeLines(path, ids); err != nil {
		return "", err
	}
	return path, nil
}

// FormatDownloadSummary собирает итог загрузки.
func FormatDownloadSummary(r *entity.DownloadResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Загрузка фото завершена\n")
	fmt.Fprintf(&b, "Всего: %d\n", r.Total)
	fmt.Fprintf(&b, "Скачано: %d\n", r.Downloaded)
	fmt.Fprintf(&b, "Не удалось: %d", len(r.FailedIDs))
	if r.FailedListPath != "" {
		fmt.Fprintf(&b, "\nСписок: %s", r.FailedListPath)
	}
	return b.String()
}
