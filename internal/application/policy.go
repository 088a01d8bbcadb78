package app

import (
	"fmt"
	"strings"

	"kwh-verifier/internal/domain/entity"
)

// PolicyConfig — пороги и правила решения по фото.
type PolicyConfig struct {
	Quality          entity.QualityThresholds
	NegThreshold     float64  // NEG от этого значения считается «сильным»
	KwhThreshold     float64  // минимальная уверенность KWH для TRUE
	Keywords         []string // слова в имени файла или папки, означающие помеху (например "pagar")
	ExpectedIdpelLen int      // 0 — проверка длины idpel выключена
	ExpectedStandLen int      // 0 — проверка длины показания выключена
	RequireIdpel     bool
}

// DefaultPolicyConfig возвращает правила по умолчанию.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		Quality:          entity.DefaultQualityThresholds(),
		NegThreshold:     0.70,
		KwhThreshold:     0.70,
		Keywords:         []string{"pagar"},
		ExpectedIdpelLen: 12,
	}
}

// DecisionInput — всё, что известно о фото к моменту решения.
type DecisionInput struct {
	Quality        entity.QualityScore
	Classification entity.ClassificationResult
	Filename       string
	Dir            string // путь к папке с фото
	Idpel          string
	Stand          string
}

// StrongNegative сообщает, что модель уверенно отнесла фото к NEG.
func (c PolicyConfig) StrongNegative(res entity.ClassificationResult) bool {
	return res.Label == entity.LabelNegative && res.NegativeProb >= c.NegThreshold
}

// Decide проверяет все условия без раннего выхода: проваленное фото
// несёт каждую из причин. Функция чистая и не хранит состояния между фото.
func Decide(in DecisionInput, cfg PolicyConfig) entity.Verdict {
	v := entity.NewVerdict()

	for _, reason := range in.Quality.Failures(cfg.Quality) {
		v.AddReason(reason)
	}

	cls := in.Classification
	switch {
	case cls.Label == entity.LabelNegative && cfg.StrongNegative(cls):
		v.AddReason(fmt.Sprintf("NEG>=%.2f (p=%.2f)", cfg.NegThreshold, cls.NegativeProb))
	case cls.Label == entity.LabelNegative:
		v.AddReason(fmt.Sprintf("pred=NEG (p=%.2f)", cls.NegativeProb))
	case cls.ValidProb < cfg.KwhThreshold:
		v.AddReason(fmt.Sprintf("KWH<%.2f (p=%.2f)", cfg.KwhThreshold, cls.ValidProb))
	}

	name := strings.ToLower(in.Filename)
	dir := strings.ToLower(in.Dir)
	for _, kw := range cfg.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(name, kw) || strings.Contains(dir, kw) {
			v.AddReason(fmt.Sprintf("keyword %q", kw))
		}
	}

	if cfg.RequireIdpel && in.Idpel == "" {
		v.AddReason("idpel not found")
	}
	if reason, short := shortByOne("idpel", in.Idpel, cfg.ExpectedIdpelLen); short {
		v.AddReason(reason)
	}
	if reason, short := shortByOne("stand", in.Stand, cfg.ExpectedStandLen); short {
		v.AddReason(reason)
	}

	return v
}

// shortByOne ловит значение ровно на одну цифру короче ожидаемого:
// так выглядит частично закрытое число.
func shortByOne(field, value string, expected int) (string, bool) {
	if expected <= 0 || value == "" || len(value) != expected-1 {
		return "", false
	}
	return fmt.Sprintf("%s short by 1 digit (%d/%d)", field, len(value), expected), true
}
