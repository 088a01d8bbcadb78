package vision

import (
	"fmt"
	"math"
)

// Probabilities превращает выход модели в вероятности двух классов.
// Один выход p трактуется как сигмоида: [1-p, p]. Два выхода проходят softmax.
func Probabilities(raw []float32) ([2]float64, error) {
	switch len(raw) {
	case 1:
		p := float64(raw[0])
		return [2]float64{1 - p, p}, nil
	case 2:
		return softmax2(float64(raw[0]), float64(raw[1])), nil
	default:
		return [2]float64{}, fmt.Errorf("unexpected model output size %d", len(raw))
	}
}

func softmax2(a, b float64) [2]float64 {
	m := math.Max(a, b)
	ea, eb := math.Exp(a-m), math.Exp(b-m)
	sum := ea + eb
	return [2]float64{ea / sum, eb / sum}
}
