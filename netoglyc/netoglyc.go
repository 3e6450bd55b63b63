// Package netoglyc pulls the per-site prediction table out of NetOGlyc
// output. The report interleaves the table with sequence dumps and free
// text; only lines shaped like table rows are kept, and they are cut into
// columns by a declared Layout rather than by guessing alignment.
package netoglyc

import (
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"github.com/carbocation/biotab"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	InputFile  string
	OutputFile string

	// Name of an entry in Layouts. Empty means DefaultLayout.
	Layout string

	// Required only for gs:// inputs
	Storage *storage.Client
}

// Load reads the whole report.
func Load(path string, client *storage.Client) (string, error) {
	r, err := biotab.Open(path, client)
	if err != nil {
		return "", err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return "", pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return string(b), nil
}

// Run extracts the table from cfg.InputFile and writes it to cfg.OutputFile,
// replacing any existing file. It returns the number of rows written.
func Run(cfg Config) (int, error) {
	layout := cfg.Layout
	if layout == "" {
		layout = DefaultLayout
	}

	parser, err := New(layout)
	if err != nil {
		return 0, err
	}

	text, err := Load(cfg.InputFile, cfg.Storage)
	if err != nil {
		return 0, err
	}

	rows, err := parser.Parse(ExtractRows(text))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", cfg.InputFile, err)
	}

	f, err := os.Create(cfg.OutputFile)
	if err != nil {
		return 0, pfx.Err(err)
	}

	if err := WriteTable(f, rows); err != nil {
		f.Close()
		return 0, fmt.Errorf("%s: %w", cfg.OutputFile, err)
	}

	if err := f.Close(); err != nil {
		return 0, pfx.Err(err)
	}

	log.WithFields(log.Fields{
		"input":  cfg.InputFile,
		"output": cfg.OutputFile,
		"layout": layout,
		"rows":   len(rows),
	}).Info("wrote table")

	return len(rows), nil
}
