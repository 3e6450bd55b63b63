package tissuesplit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixChunkFillAndClear(t *testing.T) {
	c := NewMatrixChunk(2, 3)
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Full())

	require.NoError(t, c.Add("GeneA", []float64{1, 2, 3}))
	assert.False(t, c.Full())
	require.NoError(t, c.Add("GeneB", []float64{4, 5, 6}))
	assert.True(t, c.Full())

	assert.Equal(t, []string{"GeneA", "GeneB"}, c.Genes())
	assert.Equal(t, []float64{4, 5, 6}, c.Values(1))

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Full())

	require.NoError(t, c.Add("GeneB", []float64{7, 8, 9}))
	assert.Equal(t, []string{"GeneB"}, c.Genes())
}

func TestMatrixChunkRepeatedGene(t *testing.T) {
	c := NewMatrixChunk(10, 1)
	require.NoError(t, c.Add("GeneA", []float64{1}))
	require.NoError(t, c.Add("GeneB", []float64{2}))
	require.NoError(t, c.Add("GeneA", []float64{3}))

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"GeneA", "GeneB", "GeneA"}, c.Genes())
	assert.Equal(t, []float64{1}, c.Values(0))
	assert.Equal(t, []float64{3}, c.Values(2))
}

func TestMatrixChunkRejectsWrongWidth(t *testing.T) {
	c := NewMatrixChunk(10, 2)
	err := c.Add("GeneA", []float64{1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldCount))
	assert.Equal(t, 0, c.Len())
}
