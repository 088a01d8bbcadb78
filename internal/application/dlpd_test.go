package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"kwh-verifier/internal/domain/entity"
)

// fakeReports отдаёт содержимое, равное коду UP; для failing — ошибку.
type fakeReports struct {
	failing map[string]bool
	calls   map[string]int
}

func (f *fakeReports) FetchDLPD(ctx context.Context, up, blth string) ([]byte, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[up]++
	if f.failing[up] {
		return nil, errors.New("HTTP 500")
	}
	return []byte(up), nil
}

// fakeSheets хранит листы по содержимому «файла».
type fakeSheets struct {
	byData  map[string][]entity.Sheet
	written map[string]entity.Sheet
	first   map[string]entity.Sheet
}

func (f *fakeSheets) ReadAll(data []byte) ([]entity.Sheet, error) {
	sheets, ok := f.byData[string(data)]
	if !ok {
		return nil, errors.New("not a workbook")
	}
	return sheets, nil
}

func (f *fakeSheets) ReadFirst(path string) (entity.Sheet, error) {
	sh, ok := f.first[path]
	if !ok {
		return entity.Sheet{}, errors.New("no such file")
	}
	return sh, nil
}

func (f *fakeSheets) Write(path string, sheet entity.Sheet) error {
	if f.written == nil {
		f.written = map[string]entity.Sheet{}
	}
	f.written[path] = sheet
	return nil
}

func TestDLPDService_RunAllUnits(t *testing.T) {
	sheets := &fakeSheets{byData: map[string][]entity.Sheet{
		"32010": {{Name: "Sheet1", Header: []string{"IDPEL", "NAMA"}, Rows: [][]string{{"1", "A"}, {"2", "B"}}}},
		"32020": {
			{Name: "Sheet1", Header: []string{"IDPEL", "NAMA"}, Rows: [][]string{{"3", "C"}}},
			{Name: "Sheet2", Header: []string{"IDPEL", "TARIF"}, Rows: [][]string{{"4", "R1"}}},
		},
		"32030": {{Name: "Sheet1", Header: []string{"IDPEL", "NAMA"}}},
	}}
	fetcher := &fakeReports{failing: map[string]bool{"32040": true}}
	out := t.TempDir()

	svc := NewDLPDService(fetcher, sheets, DLPDOptions{
		Unitap: "32AMU", Blth: "202512", OutputDir: out, MaxRetries: 2,
	})
	path, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(out, "DLPD_ACMT_32AMU_202512_ALL.xlsx"), path)
	require.Equal(t, 2, fetcher.calls["32040"])

	got := sheets.written[path]
	want := entity.Sheet{
		Name:   "DLPD",
		Header: []string{"IDPEL", "NAMA", "UNITAP", "UP", "TARIF"},
		Rows: [][]string{
			{"1", "A", "32AMU", "32010", ""},
			{"2", "B", "32AMU", "32010", ""},
			{"3", "C", "32AMU", "32020", ""},
			{"4", "", "32AMU", "32020", "R1"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merged sheet mismatch (-want +got):\n%s", diff)
	}
}

func TestDLPDService_SingleUnit(t *testing.T) {
	sheets := &fakeSheets{byData: map[string][]entity.Sheet{
		"32111": {{Header: []string{"IDPEL"}, Rows: [][]string{{"9"}}}},
	}}
	fetcher := &fakeReports{}
	svc := NewDLPDService(fetcher, sheets, DLPDOptions{
		Unitap: "32AMS", Unit: "32111", Blth: "202601", OutputDir: t.TempDir(),
	})

	path, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "DLPD_ACMT_32AMS_202601_32111.xlsx", filepath.Base(path))
	require.Len(t, fetcher.calls, 1)
}

func TestDLPDService_NoData(t *testing.T) {
	fetcher := &fakeReports{failing: map[string]bool{"32111": true}}
	svc := NewDLPDService(fetcher, &fakeSheets{}, DLPDOptions{
		Unitap: "32AMS", Unit: "32111", Blth: "202601", OutputDir: t.TempDir(), MaxRetries: 1,
	})
	_, err := svc.Run(context.Background())
	require.ErrorContains(t, err, "no data")
}

func TestDLPDService_UnknownUnitap(t *testing.T) {
	svc := NewDLPDService(&fakeReports{}, &fakeSheets{}, DLPDOptions{Unitap: "99XXX", Blth: "202601"})
	_, err := svc.Run(context.Background())
	require.ErrorContains(t, err, "unknown unitap")
}

func TestMergeSheets_ShortRows(t *testing.T) {
	merged := MergeSheets("m", []entity.Sheet{
		{Header: []string{"A", "B", "C"}, Rows: [][]string{{"1"}}},
	})
	require.Equal(t, [][]string{{"1", "", ""}}, merged.Rows)
}
