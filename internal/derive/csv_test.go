package derive

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_Format(t *testing.T) {
	rows := Derive(ascendingLog(everyOtherDay(6)...), testContext)
	require.Len(t, rows, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(Columns, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0022400006,2024-11-11,LAL vs. GSW,15.000000,5.000000,"), lines[1])
	assert.Contains(t, lines[1], ",0.100000,30.000000,")
}

func TestCSVFile_ReadBack(t *testing.T) {
	rows := Derive(ascendingLog(everyOtherDay(8)...), testContext)
	path := filepath.Join(t.TempDir(), "results", "derived.csv")

	require.NoError(t, WriteCSVFile(path, rows))
	got, err := ReadCSVFile(path)
	require.NoError(t, err)

	require.Len(t, got, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i].GameID, got[i].GameID)
		assert.True(t, rows[i].GameDate.Equal(got[i].GameDate))
		assert.InDelta(t, rows[i].ShrunkPtsAvg, got[i].ShrunkPtsAvg, 1e-6)
		assert.Equal(t, rows[i].FourInFive, got[i].FourInFive)
	}
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("game_id,pts\n1,2\n"))
	assert.ErrorContains(t, err, "missing column")
}
