package entity

import "errors"

// Фатальные ошибки конфигурации: задание останавливается до обработки.
var (
	ErrSourceNotFound        = errors.New("source directory not found")
	ErrInvalidLabels         = errors.New("invalid labels file")
	ErrClassifierUnavailable = errors.New("classifier is not available")
	ErrUnknownFormat         = errors.New("unknown report format")
)

// Ошибки отдельного фото: фото пропускается, задание продолжается.
var (
	ErrDecode = errors.New("failed to decode image")
)
