package entity

// JobResult — итог пакетной проверки.
type JobResult struct {
	RunID      string
	Scanned    int // фото, прошедшие весь конвейер
	Passed     int
	Failed     int
	Errors     int // фото, пропущенные из-за ошибок чтения или классификации
	Copied     int
	Rows       []ReportRow
	OutputPath string
}

// SuccessRate возвращает долю прошедших фото в процентах.
func (r JobResult) SuccessRate() float64 {
	if r.Scanned == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Scanned) * 100
}

// DownloadResult — итог загрузки фото.
type DownloadResult struct {
	Total          int
	Downloaded     int
	FailedIDs      []string
	FailedListPath string
}
