package netoglyc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// Row is one predicted site from the NetOGlyc table. Scores are null when the
// report leaves them blank or prints "-".
type Row struct {
	Name     string
	SiteType string
	Position int
	GScore   null.Float
	IScore   null.Float
	Verdict  string
	Comment  string
}

// A table row starts with an alphanumeric name, then S or T as its own token.
// Headers, separators and free text never have that shape.
var rowPattern = regexp.MustCompile(`^[A-Za-z0-9]+\s+[ST]\s+.*$`)

// ExtractRows returns, in order, every line of text that looks like a row of
// the site table.
func ExtractRows(text string) []string {
	out := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if rowPattern.MatchString(line) {
			out = append(out, line)
		}
	}

	return out
}

type Parser struct {
	Layout Layout
}

// New returns a parser for one of the named Layouts.
func New(layout string) (*Parser, error) {
	l, exists := Layouts[layout]
	if !exists {
		return nil, fmt.Errorf("Layout %s is not found. Valid layout names include: %s", layout, LayoutNames())
	}

	return NewWithLayout(l)
}

func NewWithLayout(layout Layout) (*Parser, error) {
	if err := layout.validate(); err != nil {
		return nil, err
	}
	if len(layout.Columns) != len(Columns) {
		return nil, fmt.Errorf("layout %s has %d columns, expected %d", layout.Name, len(layout.Columns), len(Columns))
	}

	return &Parser{Layout: layout}, nil
}

func (p *Parser) ParseRow(line string) (Row, error) {
	cells := p.Layout.Split(line)
	if len(cells[ColVerdict]) > 1 {
		var err error
		if cells, err = p.realign(line, cells); err != nil {
			return Row{}, err
		}
	}

	r := Row{
		Name:     cells[ColName],
		SiteType: cells[ColSiteType],
		Verdict:  cells[ColVerdict],
		Comment:  cells[ColComment],
	}

	if pos, err := strconv.Atoi(cells[ColPosition]); err != nil {
		return r, fmt.Errorf("Pos %q: %w", cells[ColPosition], err)
	} else {
		r.Position = pos
	}

	var err error
	if r.GScore, err = parseScore(cells[ColGScore]); err != nil {
		return r, fmt.Errorf("G-score: %w", err)
	}
	if r.IScore, err = parseScore(cells[ColIScore]); err != nil {
		return r, fmt.Errorf("I-score: %w", err)
	}

	return r, nil
}

// realign re-cuts a row whose Y/N cell is not a single character. Without a
// Fallback layout, or when the fallback cut disagrees with the original one on
// the leading columns, the row is rejected.
func (p *Parser) realign(line string, cells []string) ([]string, error) {
	if p.Layout.Fallback == "" {
		return nil, fmt.Errorf("Y/N %q is not a single character", cells[ColVerdict])
	}

	fixed := Layouts[p.Layout.Fallback].Split(line)
	for _, col := range []int{ColName, ColSiteType, ColPosition} {
		if fixed[col] != cells[col] {
			return nil, fmt.Errorf("Y/N %q is not a single character and the row does not align with layout %s", cells[ColVerdict], p.Layout.Fallback)
		}
	}
	if len(fixed[ColVerdict]) > 1 {
		return nil, fmt.Errorf("Y/N %q is not a single character", fixed[ColVerdict])
	}

	return fixed, nil
}

// Parse parses every line, stopping at the first one that does not fit the
// layout.
func (p *Parser) Parse(lines []string) ([]Row, error) {
	out := make([]Row, 0, len(lines))
	for i, line := range lines {
		r, err := p.ParseRow(line)
		if err != nil {
			return nil, fmt.Errorf("table row %d (%q): %w", i+1, line, err)
		}
		out = append(out, r)
	}

	return out, nil
}

func parseScore(cell string) (null.Float, error) {
	if cell == "" || cell == "-" {
		return null.Float{}, nil
	}

	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return null.Float{}, err
	}

	return null.FloatFrom(v), nil
}
