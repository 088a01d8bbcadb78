package port

import "context"

// PhotoFetcher интерфейс загрузки фото счётчика из ACMT
type PhotoFetcher interface {
	// FetchPhoto скачивает фото по idpel за период blth
	FetchPhoto(ctx context.Context, idpel, blth string) ([]byte, error)
}

// ReportFetcher интерфейс выгрузки отчёта DLPD по одному UP
type ReportFetcher interface {
	// FetchDLPD скачивает xlsx-выгрузку для unit up за период blth
	FetchDLPD(ctx context.Context, up, blth string) ([]byte, error)
}
