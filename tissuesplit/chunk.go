package tissuesplit

import "fmt"

// DefaultChunkSize is the number of gene rows held in memory between flushes.
const DefaultChunkSize = 1000

// MatrixChunk is a bounded buffer of gene rows. Every value slice has one
// entry per sample column. Rows are kept in input order, repeated gene IDs
// included, so output never depends on where chunk boundaries fall.
type MatrixChunk struct {
	capacity int
	columns  int
	genes    []string
	values   [][]float64
}

// NewMatrixChunk returns an empty chunk holding up to capacity rows of
// columns values each.
func NewMatrixChunk(capacity, columns int) *MatrixChunk {
	return &MatrixChunk{
		capacity: capacity,
		columns:  columns,
		genes:    make([]string, 0, capacity),
		values:   make([][]float64, 0, capacity),
	}
}

// Add appends a gene row.
func (c *MatrixChunk) Add(gene string, values []float64) error {
	if len(values) != c.columns {
		return fmt.Errorf("%w: gene %s has %d values, expected %d", ErrFieldCount, gene, len(values), c.columns)
	}

	c.genes = append(c.genes, gene)
	c.values = append(c.values, values)

	return nil
}

// Len is the number of gene rows held.
func (c *MatrixChunk) Len() int {
	return len(c.genes)
}

// Full reports whether the chunk has reached capacity and should be flushed.
func (c *MatrixChunk) Full() bool {
	return len(c.genes) >= c.capacity
}

// Genes returns the gene ID of each held row, in insertion order.
func (c *MatrixChunk) Genes() []string {
	return c.genes
}

// Values returns the i'th row in insertion order.
func (c *MatrixChunk) Values(i int) []float64 {
	return c.values[i]
}

// Clear empties the chunk for reuse. Slices previously returned by Genes or
// Values must not be used afterward.
func (c *MatrixChunk) Clear() {
	c.genes = c.genes[:0]
	c.values = c.values[:0]
}
