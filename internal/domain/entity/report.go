package entity

import "image"

// Layout — набор колонок отчёта.
type Layout string

const (
	LayoutMinimal  Layout = "minimal"  // gambar | idpel
	LayoutExtended Layout = "extended" // все поля проверки
)

// ReportRow — строка отчёта по одному фото.
type ReportRow struct {
	Idpel        string
	Stand        string
	Filename     string
	ValidProb    float64
	NegativeProb float64
	Label        Label
	Verdict      Verdict
	Thumbnail    image.Image // уменьшенная копия для вставки в xlsx, может быть nil
	CopiedTo     string
	SourcePath   string
}

// Report — набор строк, записываемый один раз в конце задания.
type Report struct {
	Layout Layout
	Rows   []ReportRow
}

// MinimalHeader — колонки двухколоночного отчёта.
var MinimalHeader = []string{"gambar", "idpel"}

// ExtendedHeader — колонки расширенного отчёта.
var ExtendedHeader = []string{
	"idpel", "stand", "filename",
	"P(KWH)", "P(NEG)", "pred",
	"status", "reason",
	"image", "copied_to", "src_path",
}

// Header возвращает заголовок для раскладки.
func (r Report) Header() []string {
	if r.Layout == LayoutExtended {
		return ExtendedHeader
	}
	return MinimalHeader
}
