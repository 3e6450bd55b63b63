// netoglycparse extracts the site prediction table from NetOGlyc output and
// writes it as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"cloud.google.com/go/storage"
	"github.com/carbocation/biotab"
	_ "github.com/carbocation/biotab/compileinfoprint"
	"github.com/carbocation/biotab/netoglyc"
	log "github.com/sirupsen/logrus"
)

func main() {
	var layout string
	flag.StringVar(&layout, "layout", netoglyc.DefaultLayout, fmt.Sprintf("Column layout of the table rows. One of: %s", netoglyc.LayoutNames()))
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] input_file output_file\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "input_file may be compressed and may be a google storage URL (gs://). output_file is overwritten.")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	input, err := biotab.ExpandHome(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}
	output, err := biotab.ExpandHome(flag.Arg(1))
	if err != nil {
		log.Fatalln(err)
	}

	cfg := netoglyc.Config{
		InputFile:  input,
		OutputFile: output,
		Layout:     layout,
	}

	if biotab.IsGoogleStoragePath(input) {
		client, err := storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
		defer client.Close()
		cfg.Storage = client
	}

	if _, err := netoglyc.Run(cfg); err != nil {
		log.Fatalln(err)
	}
}
