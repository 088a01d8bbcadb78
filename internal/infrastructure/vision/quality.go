//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
)

// QualityAnalyzer считает метрики качества на чистом Go (сборка без OpenCV).
type QualityAnalyzer struct{}

// NewQualityAnalyzer создаёт анализатор качества.
func NewQualityAnalyzer() *QualityAnalyzer {
	return &QualityAnalyzer{}
}

// Analyze считает резкость, яркость и контраст по серому изображению.
func (a *QualityAnalyzer) Analyze(ctx context.Context, photo *entity.Photo) (entity.QualityScore, error) {
	_ = ctx
	if photo.Image == nil {
		return entity.QualityScore{}, errors.New("photo is not decoded")
	}
	return Score(photo.Image), nil
}

// Score считает метрики качества для изображения.
func Score(img image.Image) entity.QualityScore {
	gray, w, h := grayscale(img)
	lap := laplacian(gray, w, h)

	_, lapVar := stat.PopMeanVariance(lap, nil)
	mean, std := stat.PopMeanStdDev(gray, nil)

	return entity.QualityScore{
		Sharpness:  lapVar,
		Brightness: mean,
		Contrast:   std,
	}
}

// grayscale переводит в серый по BT.601, как cvtColor в OpenCV.
func grayscale(img image.Image) ([]float64, int, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, 0, w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			v := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
			out = append(out, math.Min(255, math.Round(v)))
		}
	}
	return out, w, h
}

// laplacian применяет ядро [0 1 0; 1 -4 1; 0 1 0] с отражением границ (reflect-101).
func laplacian(gray []float64, w, h int) []float64 {
	out := make([]float64, len(gray))
	at := func(x, y int) float64 {
		return gray[reflect101(y, h)*w+reflect101(x, w)]
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y*w+x] = at(x, y-1) + at(x-1, y) + at(x+1, y) + at(x, y+1) - 4*at(x, y)
		}
	}
	return out
}

func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	if i < 0 {
		return -i
	}
	if i >= n {
		return 2*n - 2 - i
	}
	return i
}

var _ port.QualityAnalyzer = (*QualityAnalyzer)(nil)
