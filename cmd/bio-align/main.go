// Command bio-align aligns single-end FASTQ reads against a prebuilt
// FM-index and writes SAM records, per spec.md §6's "align -i
// <index.fm> <reads.fq> [-o OUT] [--match I] [--mismatch I]
// [--gap-open I] [--gap-ext I] [--band-width N]
// [--score-threshold I] [-t N]" CLI surface. Its flag/grail.Init/log
// scaffold is grounded on cmd/bio-fusion/main.go's main(); its
// worker-count default (runtime.NumCPU()) mirrors processFASTQ's
// parallelism variable.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/biosuite/bwamem/batch"
	"github.com/biosuite/bwamem/encoding/fastq"
	"github.com/biosuite/bwamem/errs"
	"github.com/biosuite/bwamem/fmindex"
	"github.com/biosuite/bwamem/mem"
	"github.com/biosuite/bwamem/samio"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: bio-align -i index.fm [-o OUT] [flags] reads.fq

Aligns single-end FASTQ reads in reads.fq against the FM-index in
index.fm, writing SAM records to OUT (default: stdout).
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	indexPath := flag.String("i", "", "Path to the FM-index (.fm) to align against")
	output := flag.String("o", "", "Path to write SAM output to (default: stdout)")
	defaults := mem.DefaultParams()
	match := flag.Int("match", int(defaults.SW.Match), "Match score")
	mismatch := flag.Int("mismatch", int(defaults.SW.Mismatch), "Mismatch penalty")
	gapOpen := flag.Int("gap-open", int(defaults.SW.GapOpen), "Gap open penalty")
	gapExt := flag.Int("gap-ext", int(defaults.SW.GapExtend), "Gap extend penalty")
	bandWidth := flag.Int("band-width", defaults.SW.BandWidth, "Banded Smith-Waterman band width")
	scoreThreshold := flag.Int("score-threshold", int(defaults.ScoreThreshold), "Minimum score for a read to be reported as mapped")
	threads := flag.Int("t", runtime.NumCPU(), "Number of alignment worker goroutines")
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cleanup := grail.Init()
	defer cleanup()

	if *indexPath == "" || flag.NArg() != 1 {
		log.Fatal("bio-align: -i INDEX and exactly one argument (reads.fq) are required")
	}

	p := mem.DefaultParams()
	p.SW.Match = int32(*match)
	p.SW.Mismatch = int32(*mismatch)
	p.SW.GapOpen = int32(*gapOpen)
	p.SW.GapExtend = int32(*gapExt)
	p.SW.BandWidth = *bandWidth
	p.ScoreThreshold = int32(*scoreThreshold)

	ctx := vcontext.Background()
	if err := alignReads(ctx, *indexPath, flag.Arg(0), *output, p, *threads); err != nil {
		log.Fatal(err)
	}
}

func alignReads(ctx context.Context, indexPath, readsPath, outPath string, p mem.Params, threads int) error {
	idx, err := loadIndex(ctx, indexPath)
	if err != nil {
		return err
	}

	readsFile, err := file.Open(ctx, readsPath)
	if err != nil {
		return errors.E(errs.IOError, err, "bio-align: opening reads", readsPath)
	}
	defer func() { _ = readsFile.Close(ctx) }()
	var readsReader io.Reader = readsFile.Reader(ctx)
	if u := compress.NewReaderPath(readsReader, readsFile.Name()); u != nil {
		readsReader = u
	}
	sc := fastq.NewScanner(readsReader)

	var w io.Writer = os.Stdout
	var outFile file.File
	if outPath != "" {
		outFile, err = file.Create(ctx, outPath)
		if err != nil {
			return errors.E(errs.IOError, err, "bio-align: creating output", outPath)
		}
		w = outFile.Writer(ctx)
	}

	_, refs, err := samio.BuildHeader(idx.Contigs)
	if err != nil {
		return err
	}
	if err := samio.WriteHeader(w, refs, "0.1"); err != nil {
		return err
	}

	stats, err := batch.Run(idx, sc, w, refs, p, threads, batch.DefaultBatchSize)
	if err != nil {
		return err
	}
	log.Printf("bio-align: %d reads, %d mapped, %d unmapped", stats.ReadsTotal, stats.ReadsMapped, stats.ReadsUnmapped)

	if outFile != nil {
		if err := outFile.Close(ctx); err != nil {
			return errors.E(errs.IOError, err, "bio-align: closing output", outPath)
		}
	}
	return nil
}

func loadIndex(ctx context.Context, path string) (*fmindex.Index, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(errs.IOError, err, "bio-align: opening index", path)
	}
	defer func() { _ = f.Close(ctx) }()
	idx, err := fmindex.Load(f.Reader(ctx))
	if err != nil {
		return nil, err
	}
	return idx, nil
}
