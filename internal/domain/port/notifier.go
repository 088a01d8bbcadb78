package port

import "context"

// Notifier интерфейс отправки сводки по заданию
type Notifier interface {
	// Notify отправляет текстовое сообщение
	Notify(ctx context.Context, text string) error
}
