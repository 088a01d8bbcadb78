//go:build gocv
// +build gocv

package vision

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"kwh-verifier/internal/domain/entity"
)

func TestPhotoMat_UsesDecodedImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 30, A: 255})
		}
	}

	// Data намеренно не картинка: байты повторно не декодируются
	mat, err := photoMat(&entity.Photo{Image: img, Data: []byte("not an image")})
	require.NoError(t, err)
	defer mat.Close()

	require.Equal(t, 4, mat.Rows())
	require.Equal(t, 6, mat.Cols())
	px := mat.GetVecbAt(0, 0)
	require.Equal(t, []uint8{30, 10, 200}, []uint8{px[0], px[1], px[2]})
}

func TestPhotoMat_FallsBackToBytes(t *testing.T) {
	_, err := photoMat(&entity.Photo{Data: []byte("not an image")})
	require.ErrorIs(t, err, entity.ErrDecode)
}

func TestQualityAnalyzer_UniformImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 100, G: 100, B: 100, A: 255})
		}
	}

	score, err := NewQualityAnalyzer().Analyze(context.Background(), &entity.Photo{Image: img})
	require.NoError(t, err)
	require.InDelta(t, 100.0, score.Brightness, 1.0)
	require.InDelta(t, 0.0, score.Contrast, 1e-6)
	require.InDelta(t, 0.0, score.Sharpness, 1e-6)
}
