package tissuesplit

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallGCT = "#1.2\n" +
	"2\t2\n" +
	"Name\tDescription\tS1\tS2\n" +
	"GeneA\tA\t1\t2\n" +
	"GeneB\tB\t3\t4.5\n"

func TestMatrixReader(t *testing.T) {
	m, err := NewMatrixReader(strings.NewReader(smallGCT))
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2"}, m.Samples())
	assert.Equal(t, 3, m.Line())

	gene, values, err := m.Next()
	require.NoError(t, err)
	assert.Equal(t, "GeneA", gene)
	assert.Equal(t, []float64{1, 2}, values)

	gene, values, err = m.Next()
	require.NoError(t, err)
	assert.Equal(t, "GeneB", gene)
	assert.Equal(t, []float64{3, 4.5}, values)
	assert.Equal(t, 5, m.Line())

	_, _, err = m.Next()
	assert.Equal(t, io.EOF, err)
}

func TestMatrixReaderValuesAreNotReused(t *testing.T) {
	m, err := NewMatrixReader(strings.NewReader(smallGCT))
	require.NoError(t, err)

	_, first, err := m.Next()
	require.NoError(t, err)
	_, _, err = m.Next()
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2}, first)
	assert.Equal(t, []string{"S1", "S2"}, m.Samples())
}

func TestMatrixReaderWrongFieldCount(t *testing.T) {
	in := "#1.2\n2\t2\nName\tDescription\tS1\tS2\nGeneA\tA\t1\n"

	m, err := NewMatrixReader(strings.NewReader(in))
	require.NoError(t, err)

	_, _, err = m.Next()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldCount))
	assert.Contains(t, err.Error(), "line 4")
}

func TestMatrixReaderBadValue(t *testing.T) {
	in := "#1.2\n1\t1\nName\tDescription\tS1\nGeneA\tA\tabc\n"

	m, err := NewMatrixReader(strings.NewReader(in))
	require.NoError(t, err)

	_, _, err = m.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S1")
}

func TestMatrixReaderNoHeader(t *testing.T) {
	for _, in := range []string{"", "#1.2\n", "#1.2\n2\t2\n"} {
		_, err := NewMatrixReader(strings.NewReader(in))
		require.Error(t, err, "%q", in)
		assert.True(t, errors.Is(err, ErrNoHeader), "%q", in)
	}
}

func TestMatrixReaderHeaderWithoutSamples(t *testing.T) {
	_, err := NewMatrixReader(strings.NewReader("#1.2\n0\t0\nName\tDescription\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldCount))
}

func TestMatrixReaderLongLine(t *testing.T) {
	// Wider than bufio.Scanner's default token size
	const n = 20000

	header := make([]string, 0, n+2)
	row := make([]string, 0, n+2)
	header = append(header, "Name", "Description")
	row = append(row, "GeneA", "A")
	for i := 0; i < n; i++ {
		header = append(header, "GTEX-SAMPLE-"+strings.Repeat("X", 4))
		row = append(row, "0.125")
	}
	in := "#1.2\n1\t" + "20000\n" + strings.Join(header, "\t") + "\n" + strings.Join(row, "\t") + "\n"

	m, err := NewMatrixReader(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, m.Samples(), n)

	_, values, err := m.Next()
	require.NoError(t, err)
	assert.Len(t, values, n)
	assert.Equal(t, 0.125, values[n-1])
}

func TestMatrixReaderCountsSkippedBlankLines(t *testing.T) {
	in := "#1.2\n2\t2\nName\tDescription\tS1\tS2\n\nGeneA\tA\t1\t2\n\nGeneB\tB\t3\n"

	m, err := NewMatrixReader(strings.NewReader(in))
	require.NoError(t, err)

	gene, _, err := m.Next()
	require.NoError(t, err)
	assert.Equal(t, "GeneA", gene)
	assert.Equal(t, 5, m.Line())

	_, _, err = m.Next()
	require.True(t, errors.Is(err, ErrFieldCount))
	assert.Contains(t, err.Error(), "line 7")
}

func TestMatrixReaderRejectsQuoteSpanningLines(t *testing.T) {
	for _, body := range []string{
		// Never closed, so the cell would swallow the rest of the input
		"GeneA\t\"A\t1\t2\nGeneB\tB\t3\t4\nGeneC\tC\t5\t6\n",
		// Closed on the next line
		"GeneA\t\"A\t1\nGeneB\"\t3\t4\nGeneC\tC\t5\t6\n",
	} {
		m, err := NewMatrixReader(strings.NewReader("#1.2\n3\t2\nName\tDescription\tS1\tS2\n" + body))
		require.NoError(t, err)

		_, _, err = m.Next()
		require.Error(t, err, "%q", body)
		assert.True(t, errors.Is(err, ErrFieldCount), "%q", body)
		assert.Contains(t, err.Error(), "line 4", "%q", body)
	}
}
