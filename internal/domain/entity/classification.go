package entity

// Label — предсказанный класс.
type Label string

const (
	LabelValid    Label = "KWH" // в кадре виден счётчик
	LabelNegative Label = "NEG" // непригодное фото
)

// Labels описывает файл меток модели.
type Labels struct {
	Names    []string // имена классов в порядке выхода модели
	ValidIdx int      // индекс класса счётчика
}

// NegativeIdx возвращает индекс негативного класса.
func (l Labels) NegativeIdx() int {
	return 1 - l.ValidIdx
}

// ClassificationResult — результат классификации одного фото.
type ClassificationResult struct {
	ValidProb    float64
	NegativeProb float64
	Label        Label
	LabelName    string // имя класса из файла меток
}

// NewClassificationResult раскладывает вероятности по классам.
// При равенстве выигрывает класс счётчика.
func NewClassificationResult(probs [2]float64, labels Labels) ClassificationResult {
	res := ClassificationResult{
		ValidProb:    probs[labels.ValidIdx],
		NegativeProb: probs[labels.NegativeIdx()],
	}
	if res.ValidProb >= res.NegativeProb {
		res.Label = LabelValid
		res.LabelName = labelName(labels, labels.ValidIdx)
	} else {
		res.Label = LabelNegative
		res.LabelName = labelName(labels, labels.NegativeIdx())
	}
	return res
}

func labelName(labels Labels, idx int) string {
	if idx < len(labels.Names) {
		return labels.Names[idx]
	}
	return ""
}
