package vision

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"kwh-verifier/internal/domain/entity"
)

// LoadLabels читает файл меток: ровно два непустых класса,
// один из которых содержит marker (например "kwh").
func LoadLabels(path, marker string) (entity.Labels, error) {
	f, err := os.Open(path)
	if err != nil {
		return entity.Labels{}, fmt.Errorf("%w: %v", entity.ErrInvalidLabels, err)
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			names = append(names, line)
		}
	}
	if err := sc.Err(); err != nil {
		return entity.Labels{}, fmt.Errorf("%w: read %s: %v", entity.ErrInvalidLabels, path, err)
	}

	return ParseLabels(names, marker)
}

// ParseLabels проверяет имена классов и находит класс счётчика.
func ParseLabels(names []string, marker string) (entity.Labels, error) {
	if len(names) != 2 {
		return entity.Labels{}, fmt.Errorf("%w: model must have 2 classes, got %d", entity.ErrInvalidLabels, len(names))
	}
	marker = strings.ToLower(strings.TrimSpace(marker))
	if marker == "" {
		return entity.Labels{}, fmt.Errorf("%w: empty valid-class marker", entity.ErrInvalidLabels)
	}
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), marker) {
			return entity.Labels{Names: names, ValidIdx: i}, nil
		}
	}
	return entity.Labels{}, fmt.Errorf("%w: no label contains %q", entity.ErrInvalidLabels, marker)
}
