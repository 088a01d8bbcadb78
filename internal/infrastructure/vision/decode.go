package vision

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"kwh-verifier/internal/domain/entity"
	"kwh-verifier/internal/domain/port"
)

// Decoder декодирует jpeg, png, bmp, tiff и webp.
type Decoder struct{}

// NewDecoder создаёт декодер изображений.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode превращает байты в image.Image; битые файлы дают entity.ErrDecode.
func (Decoder) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", entity.ErrDecode)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDecode, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: empty image", entity.ErrDecode)
	}
	return img, nil
}

var _ port.ImageDecoder = Decoder{}
