package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeFetcher отдаёт фото для известных idpel и считает вызовы.
type fakeFetcher struct {
	mu     sync.Mutex
	photos map[string][]byte
	failN  map[string]int // сколько первых попыток вернуть ошибку
	calls  map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{photos: map[string][]byte{}, failN: map[string]int{}, calls: map[string]int{}}
}

func (f *fakeFetcher) FetchPhoto(ctx context.Context, idpel, blth string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[idpel]++
	if f.calls[idpel] <= f.failN[idpel] {
		return nil, errors.New("status 503")
	}
	data, ok := f.photos[idpel]
	if !ok {
		return nil, errors.New("status 404")
	}
	return data, nil
}

func writeIDs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "idpel_part1.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDownloadService_Run(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.photos["111111111111"] = []byte("jpeg-1")
	fetcher.photos["222222222222"] = []byte("jpeg-2")
	fetcher.photos["333333333333"] = []byte{}

	out := filepath.Join(t.TempDir(), "2_images")
	logDir := filepath.Join(t.TempDir(), "log")
	notifier := &fakeNotifier{}
	svc := NewDownloadService(fetcher, notifier, DownloadOptions{
		Input:      writeIDs(t, "111111111111\n\n 222222222222 \n333333333333\n444444444444\n"),
		Blth:       "202501",
		OutputDir:  out,
		LogDir:     logDir,
		Workers:    2,
		MaxRetries: 2,
	})

	var mu sync.Mutex
	var lastDone, lastTotal int
	res, err := svc.Run(context.Background(), func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		lastDone, lastTotal = done, total
	})
	require.NoError(t, err)
	require.Equal(t, 4, lastDone)
	require.Equal(t, 4, lastTotal)

	require.Equal(t, 4, res.Total)
	require.Equal(t, 2, res.Downloaded)
	require.Equal(t, []string{"333333333333", "444444444444"}, res.FailedIDs)
	require.Equal(t, filepath.Join(logDir, "failed_ids_idpel_part1.txt"), res.FailedListPath)

	data, err := os.ReadFile(filepath.Join(out, "111111111111.jpg"))
	require.NoError(t, err)
	require.Equal(t, "jpeg-1", string(data))

	failed, err := os.ReadFile(res.FailedListPath)
	require.NoError(t, err)
	require.Equal(t, "333333333333\n444444444444\n", string(failed))

	// каждая неудачная загрузка повторяется MaxRetries раз
	require.Equal(t, 2, fetcher.calls["444444444444"])
	require.Equal(t, 1, fetcher.calls["111111111111"])
	require.Len(t, notifier.messages, 1)
}

func TestDownloadService_RetryRecovers(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.photos["111111111111"] = []byte("jpeg")
	fetcher.failN["111111111111"] = 1

	svc := NewDownloadService(fetcher, nil, DownloadOptions{
		Input:      writeIDs(t, "111111111111\n"),
		Blth:       "202501",
		OutputDir:  t.TempDir(),
		LogDir:     t.TempDir(),
		MaxRetries: 2,
	})
	res, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, res.Downloaded)
	require.Empty(t, res.FailedIDs)
	require.Empty(t, res.FailedListPath)
}

func TestDownloadService_RequiresBlth(t *testing.T) {
	svc := NewDownloadService(newFakeFetcher(), nil, DownloadOptions{Input: writeIDs(t, "1\n")})
	_, err := svc.Run(context.Background(), nil)
	require.Error(t, err)
}

func TestDownloadService_MissingInput(t *testing.T) {
	svc := NewDownloadService(newFakeFetcher(), nil, DownloadOptions{
		Input: filepath.Join(t.TempDir(), "none.txt"),
		Blth:  "202501",
	})
	_, err := svc.Run(context.Background(), nil)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDownloadService_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewDownloadService(newFakeFetcher(), nil, DownloadOptions{
		Input:     writeIDs(t, "111111111111\n"),
		Blth:      "202501",
		OutputDir: t.TempDir(),
		LogDir:    t.TempDir(),
	})
	_, err := svc.Run(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry(ctx, "x", 5, time.Hour, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("boom")
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}
