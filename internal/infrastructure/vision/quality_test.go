//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"kwh-verifier/internal/domain/entity"
)

func TestScore_UniformImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	fill(img, color.RGBA{R: 100, G: 100, B: 100, A: 255})

	score := Score(img)
	require.InDelta(t, 100.0, score.Brightness, 1e-9)
	require.InDelta(t, 0.0, score.Contrast, 1e-9)
	require.InDelta(t, 0.0, score.Sharpness, 1e-9)
}

func TestScore_Checkerboard(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(0)
			if (x+y)%2 == 0 {
				v = 255
			}
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	score := Score(img)
	require.InDelta(t, 127.5, score.Brightness, 1e-9)
	require.InDelta(t, 127.5, score.Contrast, 1e-9)
	// на шахматке каждый отклик равен ±1020, с отражением границ тоже
	require.InDelta(t, 1020.0*1020.0, score.Sharpness, 1e-6)

	require.True(t, score.Acceptable(entity.DefaultQualityThresholds()))
}

func TestScore_DarkImageFailsBrightness(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fill(img, color.RGBA{R: 5, G: 5, B: 5, A: 255})

	failures := Score(img).Failures(entity.DefaultQualityThresholds())
	require.Len(t, failures, 3)
	require.Contains(t, failures[1], "dark")
}

func TestGrayscale_Weights(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})

	gray, w, h := grayscale(img)
	require.Equal(t, 1, w)
	require.Equal(t, 1, h)
	require.Equal(t, 76.0, gray[0])
}

func TestReflect101(t *testing.T) {
	require.Equal(t, 1, reflect101(-1, 5))
	require.Equal(t, 3, reflect101(5, 5))
	require.Equal(t, 2, reflect101(2, 5))
	require.Equal(t, 0, reflect101(-1, 1))
}

func TestQualityAnalyzer_RequiresDecodedImage(t *testing.T) {
	_, err := NewQualityAnalyzer().Analyze(context.Background(), &entity.Photo{})
	require.Error(t, err)
}

func TestDNNClassifier_StubUnavailable(t *testing.T) {
	_, err := NewDNNClassifier(entity.Labels{}, ClassifierOptions{ModelPath: "model.tflite", InputSize: 224})
	require.ErrorIs(t, err, entity.ErrClassifierUnavailable)
}
