package app

import (
	"regexp"
	"strings"
)

const (
	// MinIdpelRun — минимальная длина группы цифр, чтобы считаться idpel.
	MinIdpelRun = 8
	// MinStandRun — минимальная длина группы цифр для показания счётчика.
	MinStandRun = 3
)

var digitRun = regexp.MustCompile(`\d+`)

// ExtractIdpel извлекает idpel из имени файла без расширения.
//
// Правила:
//   - берётся самая длинная группа цифр длиной от MinIdpelRun (при равенстве — первая);
//   - если такой нет, берётся первая группа цифр;
//   - если цифр нет, возвращается пустая строка;
//   - если группа длиннее expectedLen, остаются последние expectedLen цифр:
//     idpel выровнен вправо, а ведущие цифры обычно от дат и номеров.
func ExtractIdpel(stem string, expectedLen int) string {
	idpel, _ := extract(stem, expectedLen)
	return idpel
}

// ExtractIdpelAndStand извлекает idpel и показание из "папка_имя".
// Показание — первая группа из MinStandRun и более цифр, не совпадающая с idpel.
func ExtractIdpelAndStand(parent, stem string, expectedLen int) (idpel, stand string) {
	return extract(parent+"_"+stem, expectedLen)
}

func extract(text string, expectedLen int) (string, string) {
	runs := digitRun.FindAllString(text, -1)
	if len(runs) == 0 {
		return "", ""
	}

	best := -1
	for i, r := range runs {
		if len(r) < MinIdpelRun {
			continue
		}
		if best < 0 || len(r) > len(runs[best]) {
			best = i
		}
	}
	if best < 0 {
		best = 0
	}

	stand := ""
	for i, r := range runs {
		if i == best || r == runs[best] {
			continue
		}
		if len(r) >= MinStandRun {
			stand = r
			break
		}
	}

	return NormalizeIdpel(runs[best], expectedLen), stand
}

// NormalizeIdpel оставляет только цифры и обрезает слева до expectedLen.
func NormalizeIdpel(s string, expectedLen int) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if expectedLen > 0 && len(d) > expectedLen {
		d = d[len(d)-expectedLen:]
	}
	return d
}
