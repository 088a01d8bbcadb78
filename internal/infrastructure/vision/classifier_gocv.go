//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
)

// DNNClassifier запускает двухклассовую модель через модуль dnn OpenCV.
type DNNClassifier struct {
	mu     sync.Mutex
	net    gocv.Net
	labels entity.Labels
	opts   ClassifierOptions
}

// NewDNNClassifier загружает модель один раз на задание.
func NewDNNClassifier(labels entity.Labels, opts ClassifierOptions) (*DNNClassifier, error) {
	if opts.InputSize <= 0 {
		return nil, fmt.Errorf("%w: input size must be > 0", entity.ErrClassifierUnavailable)
	}
	if _, err := os.Stat(opts.ModelPath); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrClassifierUnavailable, err)
	}

	net := gocv.ReadNet(opts.ModelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("%w: cannot load model %s", entity.ErrClassifierUnavailable, opts.ModelPath)
	}

	return &DNNClassifier{net: net, labels: labels, opts: opts}, nil
}

// Classify готовит тензор и выполняет один проход модели.
func (c *DNNClassifier) Classify(ctx context.Context, photo *entity.Photo) (entity.ClassificationResult, error) {
	_ = ctx
	mat, err := photoMat(photo)
	if err != nil {
		return entity.ClassificationResult{}, err
	}
	defer mat.Close()

	size := image.Pt(c.opts.InputSize, c.opts.InputSize)

	// Уменьшаем с усреднением по площади, как при обучении модели.
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, size, 0, 0, gocv.InterpolationArea)

	scale, mean := normalization(c.opts.Encoding)
	blob := gocv.BlobFromImage(resized, scale, size, gocv.NewScalar(mean, mean, mean, 0), true, false)
	defer blob.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.net.SetInput(blob, "")
	out := c.net.Forward("")
	defer out.Close()

	raw, err := out.DataPtrFloat32()
	if err != nil {
		return entity.ClassificationResult{}, fmt.Errorf("read model output: %w", err)
	}
	probs, err := Probabilities(raw)
	if err != nil {
		return entity.ClassificationResult{}, err
	}
	return entity.NewClassificationResult(probs, c.labels), nil
}

// Close освобождает сеть.
func (c *DNNClassifier) Close() error {
	return c.net.Close()
}

var _ port.Classifier = (*DNNClassifier)(nil)
