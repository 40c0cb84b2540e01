// Command bio-index builds an FM-index over a reference FASTA and
// writes it to a .fm file, per spec.md §6's "index <reference.fa>
// [-o OUTPUT]" CLI surface. Its flag/grail.Init/vcontext/log scaffold
// is grounded on cmd/bio-fusion/main.go's main().
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/biosuite/bwamem/alphabet"
	"github.com/biosuite/bwamem/encoding/fasta"
	"github.com/biosuite/bwamem/errs"
	"github.com/biosuite/bwamem/fmindex"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: bio-index [-o OUTPUT] reference.fa

Builds an FM-index over reference.fa and writes it to OUTPUT (default:
reference.fa with its extension replaced by .fm).
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	output := flag.String("o", "", "Path to write the FM-index to (default: <reference>.fm)")
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cleanup := grail.Init()
	defer cleanup()

	if flag.NArg() != 1 {
		log.Fatal("bio-index: exactly one argument (reference.fa) is required")
	}
	refPath := flag.Arg(0)
	outPath := *output
	if outPath == "" {
		outPath = defaultOutputPath(refPath)
	}

	ctx := vcontext.Background()
	if err := buildIndex(ctx, refPath, outPath); err != nil {
		log.Fatal(err)
	}
}

func defaultOutputPath(refPath string) string {
	ext := filepath.Ext(refPath)
	return strings.TrimSuffix(refPath, ext) + ".fm"
}

func buildIndex(ctx context.Context, refPath, outPath string) error {
	in, err := file.Open(ctx, refPath)
	if err != nil {
		return errors.E(errs.IOError, err, "bio-index: opening reference", refPath)
	}
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	records, err := fasta.ReadAll(fasta.NewReader(r))
	if closeErr := in.Close(ctx); closeErr != nil && err == nil {
		err = errors.E(errs.IOError, closeErr, "bio-index: closing reference", refPath)
	}
	if err != nil {
		return err
	}

	names := make([]string, len(records))
	seqs := make([][]byte, len(records))
	for i, r := range records {
		names[i] = r.ID
		seqs[i] = alphabet.EncodeSeq(r.Seq)
	}
	text, contigs := fmindex.Concat(names, seqs)
	idx := fmindex.Build(text, contigs, fmindex.DefaultBlockSize)

	out, err := file.Create(ctx, outPath)
	if err != nil {
		return errors.E(errs.IOError, err, "bio-index: creating index file", outPath)
	}
	if err := fmindex.Save(out.Writer(ctx), idx); err != nil {
		_ = out.Close(ctx)
		return err
	}
	if err := out.Close(ctx); err != nil {
		return errors.E(errs.IOError, err, "bio-index: closing index file", outPath)
	}

	stats := fmindex.ComputeStats(idx)
	log.Printf("bio-index: wrote %s (%d contigs, %d bases, %d Occ blocks)",
		outPath, stats.NumContigs, stats.TextLen, stats.NumOccBlocks)
	return nil
}
