package port

import (
	"context"

	"kwh-verifier/internal/domain/entity"
)

// ReportSink интерфейс записи отчёта в конкретный формат
type ReportSink interface {
	// Write записывает отчёт и возвращает итоговый путь файла
	Write(ctx context.Context, report *entity.Report) (string, error)
}
