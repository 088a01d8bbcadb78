package port

import "kwh-verifier/internal/domain/entity"

// Spreadsheet интерфейс чтения и записи табличных файлов
type Spreadsheet interface {
	// ReadAll читает все листы из содержимого xlsx
	ReadAll(data []byte) ([]entity.Sheet, error)

	// ReadFirst читает первый лист файла
	ReadFirst(path string) (entity.Sheet, error)

	// Write записывает один лист в файл
	Write(path string, sheet entity.Sheet) error
}
