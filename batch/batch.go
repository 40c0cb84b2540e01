// Package batch fans a batch of reads out across a fixed worker pool
// and reassembles per-read alignments in input order, then drives a
// full FASTQ-to-SAM run. The fan-out is grounded on
// cmd/bio-fusion/main.go's processFASTQ: the same fixed goroutine
// count and sync.WaitGroup shape, but addressed by batch-local index
// rather than bio-fusion's req/res sequence-number channels, since
// spec.md only requires order to be preserved within and across
// batches, not globally tagged.
package batch

import (
	"bufio"
	"io"
	"sync"

	"github.com/grailbio/base/errors"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/hts/sam"

	"github.com/biosuite/bwamem/align"
	"github.com/biosuite/bwamem/alphabet"
	"github.com/biosuite/bwamem/encoding/fastq"
	"github.com/biosuite/bwamem/errs"
	"github.com/biosuite/bwamem/fmindex"
	"github.com/biosuite/bwamem/mem"
	"github.com/biosuite/bwamem/samio"
)

// DefaultBatchSize is the number of reads drawn from the input source
// per work-parallel fan-out round (spec.md §5: "a batch of up to
// ~1,000 read records").
const DefaultBatchSize = 1000

// Read is one read's name, sequence, and quality, as handed to the
// aligner; Seq and Qual are exactly as they appeared in the input.
type Read struct {
	Name string
	Seq  []byte
	Qual []byte
}

// Result pairs a Read with the alignment records AlignRead produced
// for it.
type Result struct {
	Read       Read
	Alignments []mem.Alignment
}

// AlignBatch aligns every read in reads concurrently across
// numWorkers goroutines and returns results index-aligned with reads,
// so the caller can emit them in input order without further
// sorting. pool supplies each worker's reusable SW scratch buffer.
func AlignBatch(idx *fmindex.Index, reads []Read, p mem.Params, numWorkers int, pool *align.ScratchPool) ([]Result, mem.Stats) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	results := make([]Result, len(reads))

	workCh := make(chan int, len(reads))
	for i := range reads {
		workCh <- i
	}
	close(workCh)

	statsCh := make(chan mem.Stats, numWorkers)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := pool.Get()
			defer pool.Put(buf)
			var local mem.Stats
			for i := range workCh {
				r := reads[i]
				aligns := mem.AlignReadWithStats(idx, r.Seq, p, &local, buf)
				results[i] = Result{Read: r, Alignments: aligns}
			}
			statsCh <- local
		}()
	}
	wg.Wait()
	close(statsCh)

	var total mem.Stats
	for s := range statsCh {
		total.Merge(s)
	}
	return results, total
}

// Run reads FASTQ records from sc in batches of batchSize, aligns
// each batch across numWorkers workers, and writes the resulting SAM
// records to w in input order, one per line. It returns the
// accumulated alignment stats across the whole run.
func Run(idx *fmindex.Index, sc *fastq.Scanner, w io.Writer, refs []*sam.Reference, p mem.Params, numWorkers, batchSize int) (mem.Stats, error) {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	pool := align.NewScratchPool()
	bw := bufio.NewWriter(w)

	var total mem.Stats
	batchReads := make([]Read, 0, batchSize)
	var rec fastq.Read

	flush := func() error {
		if len(batchReads) == 0 {
			return nil
		}
		results, stats := AlignBatch(idx, batchReads, p, numWorkers, pool)
		total.Merge(stats)
		for _, res := range results {
			if err := writeResult(bw, refs, res); err != nil {
				return err
			}
		}
		batchReads = batchReads[:0]
		return nil
	}

	for sc.Scan(&rec) {
		// gunsafe avoids copying each read's Seq/Qual off the fastq.Read
		// string on this hot per-read path, mirroring
		// cmd/bio-fusion/main.go's writeFASTA use of
		// gunsafe.StringToBytes. Safe here because nothing downstream
		// mutates these bytes in place.
		batchReads = append(batchReads, Read{
			Name: rec.ID,
			Seq:  gunsafe.StringToBytes(rec.Seq),
			Qual: gunsafe.StringToBytes(rec.Qual),
		})
		if len(batchReads) == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return total, err
	}
	if err := flush(); err != nil {
		return total, err
	}
	if err := bw.Flush(); err != nil {
		return total, errors.E(errs.IOError, err, "batch: flushing SAM output")
	}
	return total, nil
}

func writeResult(w *bufio.Writer, refs []*sam.Reference, res Result) error {
	for _, a := range res.Alignments {
		seq, qual := res.Read.Seq, res.Read.Qual
		if a.Mapped && a.IsReverse {
			seq = alphabet.RevComp(seq)
			qual = reverseBytes(qual)
		}
		rec, err := samio.BuildRecord(res.Read.Name, refs, a, seq, qual)
		if err != nil {
			return err
		}
		line, err := samio.FormatRecord(rec)
		if err != nil {
			return err
		}
		if _, err := w.WriteString(line); err != nil {
			return errors.E(errs.IOError, err, "batch: writing SAM record")
		}
		if err := w.WriteByte('\n'); err != nil {
			return errors.E(errs.IOError, err, "batch: writing SAM record")
		}
	}
	return nil
}

func reverseBytes(b []byte) []byte {
	n := len(b)
	out := make([]byte, n)
	for i, c := range b {
		out[n-1-i] = c
	}
	return out
}
