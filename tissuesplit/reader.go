package tissuesplit

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

var (
	ErrNoHeader   = errors.New("matrix has no header line")
	ErrFieldCount = errors.New("wrong number of fields")
)

// Number of leading fields on the header and on each gene row that are not
// sample columns: Name and Description.
const leadingFields = 2

// Lines before the header: the #1.2 version line and the dimension line.
const metadataLines = 2

// MatrixReader streams gene rows out of a GCT-style tab-delimited matrix.
// GCT cells are never quoted. A stray quote can still make the csv reader
// join physical lines into one record, so any record that is not exactly one
// line is rejected with ErrFieldCount.
type MatrixReader struct {
	cr      *csv.Reader
	samples []string
	line    int
}

// NewMatrixReader consumes the metadata lines and the header of r.
func NewMatrixReader(r io.Reader) (*MatrixReader, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	m := &MatrixReader{cr: cr}

	for i := 0; i < metadataLines; i++ {
		if _, err := m.read(); err == io.EOF {
			return nil, fmt.Errorf("%w: input ended after %d lines", ErrNoHeader, m.line)
		} else if err != nil {
			return nil, err
		}
	}

	header, err := m.read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: input ended after %d lines", ErrNoHeader, m.line)
	} else if err != nil {
		return nil, err
	}

	if len(header) <= leadingFields {
		return nil, fmt.Errorf("%w: header on line %d had %d fields, expected at least %d", ErrFieldCount, m.line, len(header), leadingFields+1)
	}

	m.samples = append([]string(nil), header[leadingFields:]...)

	return m, nil
}

func (m *MatrixReader) read() ([]string, error) {
	rec, err := m.cr.Read()
	if err == io.EOF {
		return nil, err
	} else if err != nil {
		return nil, pfx.Err(fmt.Errorf("matrix: %w", err))
	}

	// Physical line numbers, which count any blank lines the csv reader skipped
	first, _ := m.cr.FieldPos(0)
	last, _ := m.cr.FieldPos(len(rec) - 1)
	m.line = first

	if last != first || strings.IndexByte(rec[len(rec)-1], '\n') >= 0 {
		return nil, fmt.Errorf("%w: matrix line %d has a quoted cell that runs past the end of the line", ErrFieldCount, first)
	}

	return rec, nil
}

// Samples is the column list taken from the header.
func (m *MatrixReader) Samples() []string {
	return m.samples
}

// Line is the 1-based physical line number of the last record read.
func (m *MatrixReader) Line() int {
	return m.line
}

// Next returns the next gene row, or io.EOF once the input is exhausted.
func (m *MatrixReader) Next() (string, []float64, error) {
	rec, err := m.read()
	if err != nil {
		return "", nil, err
	}

	if x, expected := len(rec), leadingFields+len(m.samples); x != expected {
		return "", nil, fmt.Errorf("%w: matrix line %d had %d fields, expected %d", ErrFieldCount, m.line, x, expected)
	}

	values := make([]float64, len(m.samples))
	for i, cell := range rec[leadingFields:] {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return "", nil, fmt.Errorf("matrix line %d, sample %s: %w", m.line, m.samples[i], err)
		}
		values[i] = v
	}

	return rec[0], values, nil
}
