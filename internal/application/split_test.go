package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitIdpelFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "idpel.txt")
	var lines []string
	for i := 1; i <= 7; i++ {
		lines = append(lines, fmt.Sprintf("5123456789%02d", i))
	}
	require.NoError(t, os.WriteFile(input, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	out := filepath.Join(dir, "parts")
	parts, err := SplitIdpelFile(input, out, 3)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(out, "idpel_part1.txt"),
		filepath.Join(out, "idpel_part2.txt"),
		filepath.Join(out, "idpel_part3.txt"),
	}, parts)

	data, err := os.ReadFile(parts[2])
	require.NoError(t, err)
	require.Equal(t, "512345678907\n", string(data))

	data, err = os.ReadFile(parts[0])
	require.NoError(t, err)
	require.Equal(t, strings.Join(lines[:3], "\n")+"\n", string(data))
}

func TestSplitIdpelFile_ExactMultiple(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "idpel.txt")
	require.NoError(t, os.WriteFile(input, []byte("1\n2\n3\n4\n"), 0o644))

	parts, err := SplitIdpelFile(input, dir, 2)
	require.NoError(t, err)
	require.Len(t, parts, 2)
}

func TestSplitIdpelFile_MissingInput(t *testing.T) {
	_, err := SplitIdpelFile(filepath.Join(t.TempDir(), "none.txt"), t.TempDir(), 10)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadIDs_SkipsBlank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte(" 111 \n\n222\r\n   \n"), 0o644))

	ids, err := readIDs(path)
	require.NoError(t, err)
	require.Equal(t, []string{"111", "222"}, ids)
}
