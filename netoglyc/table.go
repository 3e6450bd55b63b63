package netoglyc

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"
)

type tableRow struct {
	Name     string `csv:"Name"`
	SiteType string `csv:"S/T"`
	Position int    `csv:"Pos"`
	GScore   string `csv:"G-score"`
	IScore   string `csv:"I-score"`
	Verdict  string `csv:"Y/N"`
	Comment  string `csv:"Comment"`
}

func formatScore(f null.Float) string {
	if !f.Valid {
		return ""
	}

	return strconv.FormatFloat(f.Float64, 'f', -1, 64)
}

// WriteTable writes rows as CSV with a Name,S/T,Pos,G-score,I-score,Y/N,Comment
// header. Null scores are left blank.
func WriteTable(w io.Writer, rows []Row) error {
	out := make([]*tableRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, &tableRow{
			Name:     r.Name,
			SiteType: r.SiteType,
			Position: r.Position,
			GScore:   formatScore(r.GScore),
			IScore:   formatScore(r.IScore),
			Verdict:  r.Verdict,
			Comment:  r.Comment,
		})
	}

	sw := gocsv.NewSafeCSVWriter(csv.NewWriter(w))
	if len(out) == 0 {
		// An empty table still gets its header
		if err := sw.Write(Columns); err != nil {
			return pfx.Err(err)
		}
	} else if err := gocsv.MarshalCSV(out, sw); err != nil {
		return pfx.Err(err)
	}

	sw.Flush()
	if err := sw.Error(); err != nil {
		return pfx.Err(err)
	}

	return nil
}
