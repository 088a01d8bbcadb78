package port

import (
	"context"
	"image"

	"kwh-verifier/internal/domain/entity"
)

// ImageDecoder интерфейс декодера изображений
type ImageDecoder interface {
	// Decode превращает байты файла в изображение
	Decode(data []byte) (image.Image, error)
}

// QualityAnalyzer интерфейс оценки качества фото
type QualityAnalyzer interface {
	// Analyze считает резкость, яркость и контраст
	Analyze(ctx context.Context, photo *entity.Photo) (entity.QualityScore, error)
}

// Classifier интерфейс классификатора KWH/NEG
type Classifier interface {
	// Classify запускает модель один раз для одного фото
	Classify(ctx context.Context, photo *entity.Photo) (entity.ClassificationResult, error)

	// Close освобождает модель
	Close() error
}

// Thumbnailer интерфейс построения миниатюр для отчёта
type Thumbnailer interface {
	// Thumbnail пропорционально уменьшает изображение до maxSide по большей стороне
	Thumbnail(img image.Image, maxSide int) (image.Image, error)
}
