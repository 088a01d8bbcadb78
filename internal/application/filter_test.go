package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"kwh-verifier/internal/domain/entity"
)

func TestFilterService_FromDirectory(t *testing.T) {
	scan := t.TempDir()
	writeFiles(t, scan, map[string][]byte{
		"512345678901.jpg":      nil,
		"512345678903_x_77.jpg": nil,
		"no-digits.jpg":         nil,
		"sub/512345678902.jpg":  nil,
	})

	input := "/data/DLPD_ACMT_32AMS_202601.xlsx"
	sheets := &fakeSheets{first: map[string]entity.Sheet{
		input: {
			Name:   "DLPD",
			Header: []string{"NO", "IDPEL_PELANGGAN", "NAMA"},
			Rows: [][]string{
				{"1", "512345678901", "A"},
				{"2", "512345678902", "B"},
				{"3", " 512345678903 ", "C"},
				{"4"},
			},
		},
	}}
	out := t.TempDir()

	svc := NewFilterService(sheets, FilterOptions{IdsFrom: scan, Input: input, OutputDir: out})
	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, res.IDs)
	require.Equal(t, 4, res.Total)
	require.Equal(t, 2, res.Kept)
	require.Equal(t, "IDPEL_PELANGGAN", res.Column)
	require.Equal(t, filepath.Join(out, "Output_Scan_DLPD_ACMT_32AMS_202601.xlsx"), res.OutputPath)

	written := sheets.written[res.OutputPath]
	require.Equal(t, []string{"NO", "IDPEL_PELANGGAN", "NAMA"}, written.Header)
	require.Equal(t, [][]string{{"1", "512345678901", "A"}, {"3", " 512345678903 ", "C"}}, written.Rows)
}

func TestFilterService_CollectIDsFromReport(t *testing.T) {
	// файл отчёта должен существовать на диске, содержимое отдаёт fakeSheets
	path := filepath.Join(t.TempDir(), "excel_idpel_kwh.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
	sheets := &fakeSheets{first: map[string]entity.Sheet{
		path: {Header: entity.MinimalHeader, Rows: [][]string{{"", "111"}, {"", "222"}, {"", ""}}},
	}}

	svc := NewFilterService(sheets, FilterOptions{})
	ids, err := svc.CollectIDs(path)
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"111": true, "222": true}, ids)
}

func TestFilterService_CollectIDsFromText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte("111\n\n222\n"), 0o644))

	ids, err := NewFilterService(&fakeSheets{}, FilterOptions{}).CollectIDs(path)
	require.NoError(t, err)
	require.Len(t, ids, 2)
}

func TestFilterService_Errors(t *testing.T) {
	empty := t.TempDir()
	svc := NewFilterService(&fakeSheets{}, FilterOptions{IdsFrom: empty, Input: "x.xlsx"})
	_, err := svc.Run(context.Background())
	require.ErrorContains(t, err, "no idpel")

	scan := t.TempDir()
	writeFiles(t, scan, map[string][]byte{"111.jpg": nil})
	sheets := &fakeSheets{first: map[string]entity.Sheet{
		"in.xlsx": {Header: []string{"NAMA"}, Rows: [][]string{{"A"}}},
	}}
	svc = NewFilterService(sheets, FilterOptions{IdsFrom: scan, Input: "in.xlsx", OutputDir: t.TempDir()})
	_, err = svc.Run(context.Background())
	require.ErrorContains(t, err, "idpel column not found")

	_, err = svc.CollectIDs(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
