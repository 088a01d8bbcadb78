package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
)

// DefaultExtensions — расширения фото, которые берутся в обработку.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".webp", ".tif", ".tiff"}

// PhotoStore работает с фото на локальном диске.
type PhotoStore struct {
	exts map[string]struct{}
}

// NewPhotoStore создаёт хранилище с набором допустимых расширений.
func NewPhotoStore(extensions []string) *PhotoStore {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = struct{}{}
	}
	return &PhotoStore{exts: exts}
}

// List рекурсивно собирает фото под root и сортирует по имени без учёта регистра.
func (s *PhotoStore) List(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", entity.ErrSourceNotFound, root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := s.exts[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.SliceStable(paths, func(i, j int) bool {
		a := strings.ToLower(filepath.Base(paths[i]))
		b := strings.ToLower(filepath.Base(paths[j]))
		if a != b {
			return a < b
		}
		return paths[i] < paths[j]
	})
	return paths, nil
}

// Read читает файл целиком.
func (s *PhotoStore) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Copy копирует файл в dstDir с сохранением времени изменения.
func (s *PhotoStore) Copy(src, dstDir string) (string, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dstDir, err)
	}
	dst := filepath.Join(dstDir, filepath.Base(src))

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return "", err
	}
	return dst, nil
}

// Проверка реализации интерфейса
var _ port.PhotoStore = (*PhotoStore)(nil)
