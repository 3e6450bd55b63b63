package netoglyc

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Columns of the NetOGlyc site table, in order.
var Columns = []string{"Name", "S/T", "Pos", "G-score", "I-score", "Y/N", "Comment"}

const (
	ColName int = iota
	ColSiteType
	ColPosition
	ColGScore
	ColIScore
	ColVerdict
	ColComment
)

// Layout declares how a report line is cut into columns. With Offsets set,
// column i occupies bytes [Offsets[i], Offsets[i+1]) and the last column runs
// to the end of the line. Without Offsets, every column but the last is one
// whitespace-delimited token and the last column is the rest of the line.
// Either way the cut depends only on the line itself.
//
// Whitespace tokens cannot represent a blank cell, so a blank Y/N followed by
// a Comment shows up as a Y/N longer than one character. Such rows are re-cut
// with the Fallback layout, and must agree with it on Name, S/T and Pos.
type Layout struct {
	Name     string
	Columns  []string
	Offsets  []int
	Fallback string
}

const DefaultLayout = "fields"

var Layouts = map[string]Layout{
	"fields": {
		Name:     "fields",
		Columns:  Columns,
		Fallback: "netoglyc",
	},
	// Column starts of the NetOGlyc 3.1 table header:
	// "Name                         S/T   Pos  G-score I-score Y/N  Comment"
	"netoglyc": {
		Name:    "netoglyc",
		Columns: Columns,
		Offsets: []int{0, 29, 35, 40, 48, 56, 61},
	},
}

func LayoutNames() string {
	names := make([]string, 0, len(Layouts))
	for name := range Layouts {
		names = append(names, name)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

func (l Layout) validate() error {
	if len(l.Columns) == 0 {
		return fmt.Errorf("layout %s has no columns", l.Name)
	}

	if l.Fallback != "" {
		if _, exists := Layouts[l.Fallback]; !exists || l.Fallback == l.Name {
			return fmt.Errorf("layout %s has unusable fallback %q", l.Name, l.Fallback)
		}
	}

	if l.Offsets == nil {
		return nil
	}

	if len(l.Offsets) != len(l.Columns) {
		return fmt.Errorf("layout %s has %d offsets for %d columns", l.Name, len(l.Offsets), len(l.Columns))
	}
	for i := 1; i < len(l.Offsets); i++ {
		if l.Offsets[i] <= l.Offsets[i-1] {
			return fmt.Errorf("layout %s offsets must increase, got %v", l.Name, l.Offsets)
		}
	}

	return nil
}

// Split cuts line into len(l.Columns) space-trimmed cells. Missing trailing
// cells are empty.
func (l Layout) Split(line string) []string {
	if l.Offsets == nil {
		return splitFields(line, len(l.Columns))
	}

	return splitFixed(line, l.Offsets)
}

func splitFixed(line string, offsets []int) []string {
	out := make([]string, len(offsets))
	for i, start := range offsets {
		end := len(line)
		if i+1 < len(offsets) && offsets[i+1] < end {
			end = offsets[i+1]
		}
		if start >= end {
			continue
		}
		out[i] = strings.TrimSpace(line[start:end])
	}

	return out
}

func splitFields(line string, n int) []string {
	out := make([]string, n)
	rest := line
	for i := 0; i < n-1; i++ {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			out[i] = rest
			rest = ""
			continue
		}
		out[i] = rest[:end]
		rest = rest[end:]
	}
	out[n-1] = strings.TrimSpace(rest)

	return out
}
