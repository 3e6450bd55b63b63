// gtexsplit splits a GTEx gene-expression matrix (GCT) into one long-form CSV
// per tissue, using the SAMPID and SMTSD columns of a sample attributes file
// to assign samples to tissues.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"cloud.google.com/go/storage"
	"github.com/carbocation/biotab"
	_ "github.com/carbocation/biotab/compileinfoprint"
	"github.com/carbocation/biotab/tissuesplit"
	log "github.com/sirupsen/logrus"
)

func main() {
	var chunkSize int
	var unmapped string
	flag.IntVar(&chunkSize, "chunk-size", tissuesplit.DefaultChunkSize, "Number of gene rows to hold in memory between writes.")
	flag.StringVar(&unmapped, "unmapped", "", "If set, rows for samples missing from pheno_file are written to <unmapped>.csv instead of being dropped.")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] input_file pheno_file output_dir\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "input_file and pheno_file are tab-delimited, may be compressed, and may be google storage URLs (gs://).")
		fmt.Fprintln(flag.CommandLine.Output(), "output_dir must already exist. Output is appended, so start from an empty directory and never point two runs at the same one.")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(1)
	}

	cfg := tissuesplit.Config{
		ChunkSize:     chunkSize,
		UnmappedLabel: unmapped,
	}
	for i, p := range []*string{&cfg.InputFile, &cfg.PhenoFile, &cfg.OutputDir} {
		expanded, err := biotab.ExpandHome(flag.Arg(i))
		if err != nil {
			log.Fatalln(err)
		}
		*p = expanded
	}

	if biotab.IsGoogleStoragePath(cfg.InputFile) || biotab.IsGoogleStoragePath(cfg.PhenoFile) {
		client, err := storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
		defer client.Close()
		cfg.Storage = client
	}

	if _, err := tissuesplit.Run(cfg); err != nil {
		log.Fatalln(err)
	}
}
