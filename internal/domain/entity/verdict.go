package entity

import "strings"

// Verdict — итог проверки фото: прошло или нет и почему.
type Verdict struct {
	Pass    bool
	Reasons []string
}

// NewVerdict создаёт положительный вердикт без причин.
func NewVerdict() Verdict {
	return Verdict{Pass: true}
}

// AddReason помечает вердикт как проваленный. Повторы отбрасываются, порядок сохраняется.
func (v *Verdict) AddReason(reason string) {
	v.Pass = false
	for _, r := range v.Reasons {
		if r == reason {
			return
		}
	}
	v.Reasons = append(v.Reasons, reason)
}

// Status возвращает TRUE/FALSE для отчёта.
func (v Verdict) Status() string {
	if v.Pass {
		return "TRUE"
	}
	return "FALSE"
}

// ReasonText склеивает причины через "; ".
func (v Verdict) ReasonText() string {
	return strings.Join(v.Reasons, "; ")
}
