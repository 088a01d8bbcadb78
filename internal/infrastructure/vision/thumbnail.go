package vision

import (
	"errors"
	"image"

	"golang.org/x/image/draw"

	"kwh-verifier/internal/domain/port"
)

// Thumbnailer строит миниатюры для вставки в отчёт.
type Thumbnailer struct{}

// NewThumbnailer создаёт построитель миниатюр.
func NewThumbnailer() *Thumbnailer {
	return &Thumbnailer{}
}

// Thumbnail масштабирует изображение так, чтобы большая сторона стала равна maxSide.
func (Thumbnailer) Thumbnail(img image.Image, maxSide int) (image.Image, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if maxSide <= 0 {
		return nil, errors.New("thumbnail size must be > 0")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("empty image")
	}

	scale := float64(maxSide) / float64(max(w, h))
	newW := max(1, int(float64(w)*scale))
	newH := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}

var _ port.Thumbnailer = Thumbnailer{}
