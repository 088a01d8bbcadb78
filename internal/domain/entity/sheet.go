package entity

import "strings"

// Sheet — лист таблицы: заголовок и строки.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// ColumnContaining возвращает индекс первой колонки, в заголовке которой есть needle.
func (s Sheet) ColumnContaining(needle string) int {
	needle = strings.ToLower(needle)
	for i, h := range s.Header {
		if strings.Contains(strings.ToLower(h), needle) {
			return i
		}
	}
	return -1
}
