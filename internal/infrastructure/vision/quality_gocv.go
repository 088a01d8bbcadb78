//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
)

// QualityAnalyzer считает метрики качества через OpenCV.
type QualityAnalyzer struct{}

// NewQualityAnalyzer создаёт анализатор качества.
func NewQualityAnalyzer() *QualityAnalyzer {
	return &QualityAnalyzer{}
}

// Analyze считает резкость (дисперсия лапласиана), яркость и контраст серого.
func (a *QualityAnalyzer) Analyze(ctx context.Context, photo *entity.Photo) (entity.QualityScore, error) {
	_ = ctx
	mat, err := photoMat(photo)
	if err != nil {
		return entity.QualityScore{}, err
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	lap := gocv.NewMat()
	defer lap.Close()
	gocv.Laplacian(gray, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	lapMean := gocv.NewMat()
	defer lapMean.Close()
	lapStd := gocv.NewMat()
	defer lapStd.Close()
	gocv.MeanStdDev(lap, &lapMean, &lapStd)

	grayMean := gocv.NewMat()
	defer grayMean.Close()
	grayStd := gocv.NewMat()
	defer grayStd.Close()
	gocv.MeanStdDev(gray, &grayMean, &grayStd)

	if lapStd.Empty() || grayStd.Empty() {
		return entity.QualityScore{}, fmt.Errorf("%w: empty statistics", entity.ErrDecode)
	}

	s := lapStd.GetDoubleAt(0, 0)
	return entity.QualityScore{
		Sharpness:  s * s,
		Brightness: grayMean.GetDoubleAt(0, 0),
		Contrast:   grayStd.GetDoubleAt(0, 0),
	}, nil
}

// photoMat готовит gocv.Mat в порядке BGR. Уже декодированное изображение
// только копируется в Mat, повторный IMDecode нужен лишь когда Image пуст.
func photoMat(photo *entity.Photo) (gocv.Mat, error) {
	if photo.Image != nil {
		mat, err := gocv.ImageToMatRGB(photo.Image)
		if err == nil && !mat.Empty() {
			return mat, nil
		}
		if err == nil {
			mat.Close()
		}
		return gocv.NewMat(), fmt.Errorf("%w: convert image: %v", entity.ErrDecode, err)
	}

	mat, err := gocv.IMDecode(photo.Data, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), entity.ErrDecode
}

var _ port.QualityAnalyzer = (*QualityAnalyzer)(nil)
