package tissuesplit

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/kennygrant/sanitize"
)

// ErrLabelCollision is returned when two different labels would share an
// output file once sanitized.
var ErrLabelCollision = errors.New("labels share an output file name")

// OutputExtension is appended to the sanitized tissue label.
const OutputExtension = ".csv"

// Used when a label sanitizes away to nothing.
const fallbackLabel = "unnamed"

// SanitizeLabel turns a free-text tissue label such as "Brain - Cortex" into
// something safe to use as a file name.
func SanitizeLabel(label string) string {
	out := sanitize.BaseName(label)
	if out == "" || out == "." || out == ".." {
		return fallbackLabel
	}

	return out
}

// FlushStats counts what a single Write did.
type FlushStats struct {
	Written int
	Dropped int
	Files   int
}

// TissueWriter appends long-form records to one headerless CSV per tissue in
// Dir. Files are opened and closed within each Write. Two writers must not
// share a Dir.
//
// Each output file belongs to exactly one label for the writer's lifetime. A
// second label that sanitizes to a file name already taken is an error rather
// than a merge.
type TissueWriter struct {
	Dir string

	// If set, records for unmapped samples go to this label's file with an
	// empty tissue column. Otherwise they are dropped.
	UnmappedLabel string

	// sanitized file name -> owning group
	owners map[string]group
}

// group is a partition of the output. The unmapped partition is kept apart
// from any tissue of the same name.
type group struct {
	label    string
	unmapped bool
}

func (g group) String() string {
	if g.unmapped {
		return fmt.Sprintf("unmapped samples (%q)", g.label)
	}

	return fmt.Sprintf("tissue %q", g.label)
}

// NewTissueWriter writes into the existing directory dir.
func NewTissueWriter(dir, unmappedLabel string) *TissueWriter {
	return &TissueWriter{Dir: dir, UnmappedLabel: unmappedLabel}
}

// Path is the output file for a tissue label.
func (w *TissueWriter) Path(label string) string {
	return filepath.Join(w.Dir, SanitizeLabel(label)+OutputExtension)
}

// Reserve claims output files for the unmapped label, if set, and then for
// labels in the order given, so that collisions surface before anything is
// written.
func (w *TissueWriter) Reserve(labels []string) error {
	if w.UnmappedLabel != "" {
		if err := w.claim(group{label: w.UnmappedLabel, unmapped: true}); err != nil {
			return err
		}
	}

	for _, label := range labels {
		if err := w.claim(group{label: label}); err != nil {
			return err
		}
	}

	return nil
}

func (w *TissueWriter) claim(g group) error {
	if w.owners == nil {
		w.owners = make(map[string]group)
	}

	name := SanitizeLabel(g.label)
	if owner, exists := w.owners[name]; exists && owner != g {
		return fmt.Errorf("%w: %s and %s both map to %s%s", ErrLabelCollision, owner, g, name, OutputExtension)
	}
	w.owners[name] = g

	return nil
}

// Write partitions records by tissue and appends each partition, in record
// order, to its file. Tissues are visited in order of first appearance. An
// empty records slice touches nothing on disk.
func (w *TissueWriter) Write(records []LongFormRecord) (FlushStats, error) {
	stats := FlushStats{}

	order := make([]group, 0)
	groups := make(map[group][]int)
	for i, rec := range records {
		g := group{label: rec.Tissue.String}
		if !rec.Tissue.Valid {
			if w.UnmappedLabel == "" {
				stats.Dropped++
				continue
			}
			g = group{label: w.UnmappedLabel, unmapped: true}
		}

		if _, exists := groups[g]; !exists {
			order = append(order, g)
		}
		groups[g] = append(groups[g], i)
	}

	for _, g := range order {
		if err := w.claim(g); err != nil {
			return stats, err
		}
	}

	for _, g := range order {
		if err := w.appendRecords(w.Path(g.label), records, groups[g]); err != nil {
			return stats, err
		}
		stats.Files++
		stats.Written += len(groups[g])
	}

	return stats, nil
}

func (w *TissueWriter) appendRecords(path string, records []LongFormRecord, which []int) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return pfx.Err(err)
	}

	cw := csv.NewWriter(f)
	row := make([]string, 4)
	for _, i := range which {
		rec := records[i]
		row[0] = rec.Gene
		row[1] = rec.Sample
		row[2] = strconv.FormatFloat(rec.Value, 'f', -1, 64)
		row[3] = rec.Tissue.String
		if err := cw.Write(row); err != nil {
			f.Close()
			return pfx.Err(fmt.Errorf("%s: %w", path, err))
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	if err := f.Close(); err != nil {
		return pfx.Err(err)
	}

	return nil
}
