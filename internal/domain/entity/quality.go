package entity

import "fmt"

// QualityScore — метрики качества изображения.
type QualityScore struct {
	Sharpness  float64 // дисперсия лапласиана
	Brightness float64 // средняя яркость серого
	Contrast   float64 // стандартное отклонение серого
}

// QualityThresholds — минимальные допустимые значения метрик.
type QualityThresholds struct {
	Blur       float64
	Brightness float64
	Contrast   float64
}

// DefaultQualityThresholds возвращает пороги по умолчанию (шкала 0–255).
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{Blur: 80.0, Brightness: 30.0, Contrast: 20.0}
}

// Failures возвращает причины, по которым изображение не проходит порог.
func (q QualityScore) Failures(th QualityThresholds) []string {
	var out []string
	if q.Sharpness < th.Blur {
		out = append(out, fmt.Sprintf("blur (%.1f<%.1f)", q.Sharpness, th.Blur))
	}
	if q.Brightness < th.Brightness {
		out = append(out, fmt.Sprintf("dark (%.1f<%.1f)", q.Brightness, th.Brightness))
	}
	if q.Contrast < th.Contrast {
		out = append(out, fmt.Sprintf("low contrast (%.1f<%.1f)", q.Contrast, th.Contrast))
	}
	return out
}

// Acceptable сообщает, проходит ли изображение все пороги.
func (q QualityScore) Acceptable(th QualityThresholds) bool {
	return len(q.Failures(th)) == 0
}
