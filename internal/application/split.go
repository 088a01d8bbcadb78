package app

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// SplitIdpelFile режет построчный файл на части по linesPerFile строк:
// outputDir/idpel_part1.txt, idpel_part2.txt и так далее. Возвращает пути частей.
func SplitIdpelFile(input, outputDir string, linesPerFile int) ([]string, error) {
	if linesPerFile < 1 {
		return nil, fmt.Errorf("invalid lines per file %d", linesPerFile)
	}

	in, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", input, err)
	}
	defer in.Close()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", outputDir, err)
	}

	var (
		parts  []string
		buffer []string
	)
	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		path := filepath.Join(outputDir, fmt.Sprintf("idpel_part%d.txt", len(parts)+1))
		if err := writeLines(path, buffer); err != nil {
			return err
		}
		parts = append(parts, path)
		buffer = buffer[:0]
		return nil
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		buffer = append(buffer, scanner.Text())
		if len(buffer) == linesPerFile {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", input, err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	log.Printf("split %s: %d parts in %s", input, len(parts), outputDir)
	return parts, nil
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// readIDs читает непустые строки файла без пробелов по краям.
func readIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ids, nil
}
