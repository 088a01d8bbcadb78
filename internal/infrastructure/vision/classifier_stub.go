//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"fmt"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
)

// DNNClassifier — заглушка для сборки без OpenCV.
type DNNClassifier struct{}

// NewDNNClassifier возвращает ошибку, если сборка без тега gocv.
func NewDNNClassifier(labels entity.Labels, opts ClassifierOptions) (*DNNClassifier, error) {
	_ = labels
	_ = opts
	return nil, fmt.Errorf("%w: gocv build tag is not enabled", entity.ErrClassifierUnavailable)
}

// Classify возвращает ошибку, если сборка без тега gocv.
func (c *DNNClassifier) Classify(ctx context.Context, photo *entity.Photo) (entity.ClassificationResult, error) {
	_ = ctx
	_ = photo
	return entity.ClassificationResult{}, fmt.Errorf("%w: gocv build tag is not enabled", entity.ErrClassifierUnavailable)
}

// Close ничего не делает.
func (c *DNNClassifier) Close() error {
	return nil
}

var _ port.Classifier = (*DNNClassifier)(nil)
