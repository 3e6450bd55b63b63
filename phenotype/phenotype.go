// Package phenotype builds the sample-to-tissue lookup from a GTEx-style
// sample attributes table.
package phenotype

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"

	"cloud.google.com/go/storage"
	"github.com/carbocation/biotab"
	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v3"
)

const (
	SampleIDColumn = "SAMPID"
	TissueColumn   = "SMTSD"
)

var ErrMissingColumn = errors.New("phenotype file is missing a required column")

type sampleAttribute struct {
	SampleID string `csv:"SAMPID"`
	Tissue   string `csv:"SMTSD"`
}

// SampleTissueMap maps a sample ID to its detailed tissue label. It is not
// modified after Read returns.
type SampleTissueMap map[string]string

// Tissue returns the tissue label for sample. The result is invalid (null)
// when the sample is not in the map.
func (m SampleTissueMap) Tissue(sample string) null.String {
	tissue, exists := m[sample]
	if !exists {
		return null.String{}
	}

	return null.StringFrom(tissue)
}

// Labels returns the distinct tissue labels, sorted.
func (m SampleTissueMap) Labels() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, tissue := range m {
		if _, exists := seen[tissue]; exists {
			continue
		}
		seen[tissue] = struct{}{}
		out = append(out, tissue)
	}
	sort.Strings(out)

	return out
}

// Tissues returns the number of distinct tissue labels.
func (m SampleTissueMap) Tissues() int {
	return len(m.Labels())
}

// Load reads the phenotype file at path, which may be a gs:// URL when client
// is set, and may be compressed.
func Load(path string, client *storage.Client) (SampleTissueMap, error) {
	r, err := biotab.Open(path, client)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	m, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// Read parses a tab-delimited phenotype table with a header row containing at
// least SAMPID and SMTSD. Other columns are ignored. If a sample ID is
// repeated, its last row wins. Rows with an empty tissue are skipped, so those
// samples look unmapped.
func Read(r io.Reader) (SampleTissueMap, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records := []*sampleAttribute{}
	if err := gocsv.UnmarshalCSV(&requiredColumnsReader{Reader: cr, required: []string{SampleIDColumn, TissueColumn}}, &records); err != nil {
		return nil, fmt.Errorf("phenotype: %w", err)
	}

	out := make(SampleTissueMap, len(records))
	duplicated, blank := 0, 0
	for _, rec := range records {
		if rec.Tissue == "" {
			blank++
			continue
		}
		if _, exists := out[rec.SampleID]; exists {
			duplicated++
		}
		out[rec.SampleID] = rec.Tissue
	}

	if duplicated > 0 {
		log.WithField("samples", duplicated).Warn("phenotype: duplicated sample IDs; the last occurrence was kept")
	}
	if blank > 0 {
		log.WithField("samples", blank).Warn("phenotype: samples with a blank tissue label were treated as unmapped")
	}

	return out, nil
}

// requiredColumnsReader fails as soon as the header row is seen without one
// of the required columns. gocsv would otherwise leave those fields blank.
type requiredColumnsReader struct {
	*csv.Reader
	required   []string
	headerSeen bool
}

func (r *requiredColumnsReader) Read() ([]string, error) {
	row, err := r.Reader.Read()
	if err != nil {
		return nil, err
	}

	if !r.headerSeen {
		r.headerSeen = true
		if err := r.checkHeader(row); err != nil {
			return nil, err
		}
	}

	return row, nil
}

func (r *requiredColumnsReader) ReadAll() ([][]string, error) {
	rows := make([][]string, 0)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if !r.headerSeen {
		return nil, fmt.Errorf("%w: no header row", ErrMissingColumn)
	}

	return rows, nil
}

func (r *requiredColumnsReader) checkHeader(header []string) error {
	present := make(map[string]int)
	for key, name := range header {
		present[name] = key
	}

	for _, name := range r.required {
		if _, exists := present[name]; !exists {
			return fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	return nil
}
