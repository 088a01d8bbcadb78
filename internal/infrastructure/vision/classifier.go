package vision

// InputEncoding — числовой формат входного тензора модели.
type InputEncoding string

const (
	EncodingFloat32 InputEncoding = "float32" // значения в [-1, 1]
	EncodingUint8   InputEncoding = "uint8"   // значения 0..255
)

// ClassifierOptions — параметры модели.
type ClassifierOptions struct {
	ModelPath string
	InputSize int // сторона квадратного входа, например 224
	Encoding  InputEncoding
}

// normalization возвращает масштаб и сдвиг для перевода пикселя в формат модели:
// value = (pixel - mean) * scale.
func normalization(enc InputEncoding) (scale, mean float64) {
	if enc == EncodingUint8 {
		return 1.0, 0
	}
	return 1.0 / 127.5, 127.5
}
