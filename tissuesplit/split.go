// Package tissuesplit partitions a GCT gene-expression matrix into one
// long-form CSV per tissue.
//
// The matrix is streamed: at most ChunkSize gene rows are held in memory.
// Each full chunk is reshaped to (gene, sample, value, tissue) records and
// appended to <tissue>.csv in the output directory, after which the chunk is
// cleared. Output files have no header, and a run appends to whatever is
// already in the directory, so reruns should start from an empty directory.
package tissuesplit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/carbocation/biotab"
	"github.com/carbocation/biotab/phenotype"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

// Config holds everything a single splitter run needs.
type Config struct {
	InputFile string
	PhenoFile string
	OutputDir string

	// ChunkSize is the number of gene rows per flush. Zero means
	// DefaultChunkSize.
	ChunkSize int

	// See TissueWriter.UnmappedLabel
	UnmappedLabel string

	// Required only for gs:// inputs
	Storage *storage.Client
}

// Stats summarizes a run.
type Stats struct {
	Samples int
	Genes   int // gene rows read, including repeats
	Chunks  int
	Written int
	Dropped int
}

// Splitter owns the state of one run: the tissue lookup, the reader, the
// chunk being filled and the writer it flushes to.
type Splitter struct {
	lookup TissueLookup
	reader *MatrixReader
	chunk  *MatrixChunk
	writer *TissueWriter
	stats  Stats
}

func NewSplitter(lookup TissueLookup, reader *MatrixReader, writer *TissueWriter, chunkSize int) *Splitter {
	return &Splitter{
		lookup: lookup,
		reader: reader,
		chunk:  NewMatrixChunk(chunkSize, len(reader.Samples())),
		writer: writer,
		stats:  Stats{Samples: len(reader.Samples())},
	}
}

// Run reads the whole matrix, flushing every full chunk and the final partial
// one. Any error aborts the run; output already flushed stays on disk.
func (s *Splitter) Run() (Stats, error) {
	for {
		gene, values, err := s.reader.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return s.stats, err
		}

		if err := s.chunk.Add(gene, values); err != nil {
			return s.stats, fmt.Errorf("matrix line %d: %w", s.reader.Line(), err)
		}
		s.stats.Genes++

		if s.chunk.Full() {
			if err := s.flush(); err != nil {
				return s.stats, err
			}
		}
	}

	if err := s.flush(); err != nil {
		return s.stats, err
	}

	return s.stats, nil
}

// flush reshapes and writes the current chunk, then clears it. Flushing an
// empty chunk does nothing.
func (s *Splitter) flush() error {
	if s.chunk.Len() == 0 {
		return nil
	}

	records := Reshape(s.chunk, s.reader.Samples(), s.lookup)
	fs, err := s.writer.Write(records)
	s.stats.Written += fs.Written
	s.stats.Dropped += fs.Dropped
	if err != nil {
		return err
	}
	s.stats.Chunks++

	log.WithFields(log.Fields{
		"chunk":   s.stats.Chunks,
		"genes":   s.chunk.Len(),
		"line":    s.reader.Line(),
		"records": fs.Written,
		"dropped": fs.Dropped,
		"files":   fs.Files,
	}).Info("flushed chunk")

	s.chunk.Clear()

	return nil
}

// Run splits cfg.InputFile into per-tissue files under cfg.OutputDir.
func Run(cfg Config) (Stats, error) {
	chunkSize := cfg.ChunkSize
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	} else if chunkSize < 0 {
		return Stats{}, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}

	if err := checkOutputDir(cfg.OutputDir); err != nil {
		return Stats{}, err
	}

	lookup, err := phenotype.Load(cfg.PhenoFile, cfg.Storage)
	if err != nil {
		return Stats{}, err
	}
	log.WithFields(log.Fields{
		"samples": len(lookup),
		"tissues": lookup.Tissues(),
	}).Info("loaded sample to tissue map")

	writer := NewTissueWriter(cfg.OutputDir, cfg.UnmappedLabel)
	if err := writer.Reserve(lookup.Labels()); err != nil {
		return Stats{}, fmt.Errorf("%s: %w", cfg.PhenoFile, err)
	}

	in, err := biotab.Open(cfg.InputFile, cfg.Storage)
	if err != nil {
		return Stats{}, err
	}
	defer in.Close()

	reader, err := NewMatrixReader(in)
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", cfg.InputFile, err)
	}

	stats, err := NewSplitter(lookup, reader, writer, chunkSize).Run()
	if err != nil {
		return stats, fmt.Errorf("%s: %w", cfg.InputFile, err)
	}

	fields := log.Fields{
		"samples": stats.Samples,
		"genes":   stats.Genes,
		"chunks":  stats.Chunks,
		"written": stats.Written,
	}
	if stats.Dropped > 0 {
		fields["dropped"] = stats.Dropped
		log.WithFields(fields).Warn("finished; records for samples missing from the phenotype file were dropped")
	} else {
		log.WithFields(fields).Info("finished")
	}

	return stats, nil
}

func checkOutputDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return pfx.Err(err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("output %s is not a directory", dir)
	}

	existing, err := filepath.Glob(filepath.Join(dir, "*"+OutputExtension))
	if err != nil {
		return pfx.Err(err)
	}
	if len(existing) > 0 {
		log.WithFields(log.Fields{
			"dir":   dir,
			"files": len(existing),
		}).Warn("output directory already has CSV files; new rows will be appended to them")
	}

	return nil
}
