package tissuesplit

import "gopkg.in/guregu/null.v3"

// TissueLookup resolves a sample ID to a tissue label. A miss is reported as
// an invalid null.String.
type TissueLookup interface {
	Tissue(sample string) null.String
}

// LongFormRecord is one (gene, sample) cell of the matrix.
type LongFormRecord struct {
	Gene   string
	Sample string
	Value  float64
	Tissue null.String
}

// Reshape melts chunk into one record per (gene, sample) pair, gene-major, in
// chunk order and then column order.
func Reshape(chunk *MatrixChunk, samples []string, lookup TissueLookup) []LongFormRecord {
	out := make([]LongFormRecord, 0, chunk.Len()*len(samples))

	// Lookups are made once per chunk, not once per cell
	tissues := make([]null.String, len(samples))
	for j, sample := range samples {
		tissues[j] = lookup.Tissue(sample)
	}

	for i, gene := range chunk.Genes() {
		for j, v := range chunk.Values(i) {
			out = append(out, LongFormRecord{
				Gene:   gene,
				Sample: samples[j],
				Value:  v,
				Tissue: tissues[j],
			})
		}
	}

	return out
}
