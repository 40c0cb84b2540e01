// Package mem orchestrates one read's alignment: forward and
// reverse-complement SMEM seeding and chaining, per-chain banded
// extension, candidate deduplication, MAPQ estimation, and assembly
// of the resulting alignment records. It is grounded on
// original_source/bwa-rust's src/align/mod.rs align_fastq driver,
// generalized from its exact-match-only shortcut to the full
// seed/chain/align pipeline spec.md §4 describes.
package mem

import (
	"sort"

	farm "github.com/dgryski/go-farm"

	"github.com/biosuite/bwamem/align"
	"github.com/biosuite/bwamem/alphabet"
	"github.com/biosuite/bwamem/chain"
	"github.com/biosuite/bwamem/fmindex"
	"github.com/biosuite/bwamem/seed"
)

// Params bundles everything AlignRead needs beyond the index and the
// read itself: scoring, chaining, and reporting thresholds.
type Params struct {
	SW              align.Params
	ChainScoreRatio float64
	ScoreThreshold  int32
	MaxCandidates   int
}

// DefaultParams returns the scoring and thresholding defaults used by
// the bio-align CLI when no flag overrides them.
func DefaultParams() Params {
	return Params{
		SW: align.Params{
			Match:     2,
			Mismatch:  4,
			GapOpen:   6,
			GapExtend: 1,
			BandWidth: 50,
		},
		ChainScoreRatio: 0.3,
		ScoreThreshold:  30,
		MaxCandidates:   5,
	}
}

// Candidate is one scored placement of a read against the reference,
// before MAPQ and dedup.
type Candidate struct {
	Contig    int
	Pos1      uint32 // 1-based reference position
	IsReverse bool
	Score     int32
	Cigar     []align.Op
	NM        uint32
}

// Alignment is the final, per-record view of a read's placement:
// everything a SAM record needs besides the read's own name/seq/qual.
type Alignment struct {
	Mapped    bool
	Contig    int
	Pos1      uint32
	IsReverse bool
	Secondary bool
	MAPQ      int
	Score     int32
	NextBest  int32
	NM        uint32
	Cigar     []align.Op
}

// AlignRead runs the full pipeline for one read's raw DNA sequence
// (normalized and coded internally) against idx and returns up to params.MaxCandidates
// Alignment records, primary first. A nil/empty slice never happens:
// an unmappable read yields a single unmapped Alignment.
func AlignRead(idx *fmindex.Index, seq []byte, p Params) []Alignment {
	return AlignReadWithStats(idx, seq, p, nil, align.NewBuffer())
}

// AlignReadWithStats is AlignRead's instrumented form: it runs the
// same pipeline but folds seed/chain/SW counts into stats (a no-op if
// stats is nil) and reuses buf instead of allocating a new scratch
// buffer, the shape batch.Run's per-worker loop calls into.
func AlignReadWithStats(idx *fmindex.Index, seq []byte, p Params, stats *Stats, buf *align.Buffer) []Alignment {
	if stats != nil {
		stats.ReadsTotal++
	}
	if len(seq) == 0 {
		if stats != nil {
			stats.ReadsUnmapped++
		}
		return []Alignment{{Mapped: false}}
	}

	fwd := alphabet.Normalize(seq)
	fwdCoded := alphabet.EncodeSeq(fwd)
	revCoded := alphabet.RevCompCode(fwdCoded)

	candidates := candidatesForStrand(idx, fwdCoded, false, p, buf, stats)
	candidates = append(candidates, candidatesForStrand(idx, revCoded, true, p, buf, stats)...)

	if len(candidates) == 0 {
		if stats != nil {
			stats.ReadsUnmapped++
		}
		return []Alignment{{Mapped: false}}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
	if candidates[0].Score < p.ScoreThreshold {
		if stats != nil {
			stats.ReadsUnmapped++
		}
		return []Alignment{{Mapped: false}}
	}
	if stats != nil {
		stats.ReadsMapped++
	}

	candidates = dedupCandidates(candidates)

	n := p.MaxCandidates
	if n <= 0 || n > len(candidates) {
		n = len(candidates)
	}
	candidates = candidates[:n]

	best := candidates[0].Score
	secondBest := int32(0)
	if len(candidates) > 1 {
		secondBest = candidates[1].Score
	}
	mapq := computeMAPQ(best, secondBest)

	out := make([]Alignment, len(candidates))
	for i, c := range candidates {
		a := Alignment{
			Mapped:    true,
			Contig:    c.Contig,
			Pos1:      c.Pos1,
			IsReverse: c.IsReverse,
			Secondary: i > 0,
			Score:     c.Score,
			NextBest:  secondBest,
			NM:        c.NM,
			Cigar:     c.Cigar,
		}
		if i == 0 {
			a.MAPQ = mapq
		}
		out[i] = a
	}
	return out
}

// candidatesForStrand runs SMEM seeding, chaining, and per-chain
// banded extension for one strand's coded read, returning every
// positive-scoring, non-empty-CIGAR candidate it produces.
func candidatesForStrand(idx *fmindex.Index, coded []byte, isReverse bool, p Params, buf *align.Buffer, stats *Stats) []Candidate {
	n := len(coded)
	minMemLen := n
	if minMemLen > 20 {
		minMemLen = 20
	}
	if minMemLen < 1 {
		minMemLen = 1
	}

	seeds := seed.FindSMEMs(idx, coded, minMemLen)
	if stats != nil {
		stats.SeedsGenerated += int64(len(seeds))
	}
	if len(seeds) == 0 {
		return nil
	}

	chains := chain.BuildChains(seeds, n)
	chains = chain.FilterChains(chains, p.ChainScoreRatio)
	if stats != nil {
		stats.ChainsBuilt += int64(len(chains))
	}
	if len(chains) == 0 {
		return nil
	}

	var out []Candidate
	decoded := make(map[int][]byte)
	for _, c := range chains {
		contigSeq, ok := decoded[c.Contig]
		if !ok {
			contigSeq = idx.ContigCoded(c.Contig)
			decoded[c.Contig] = contigSeq
		}

		if stats != nil {
			stats.SwInvocations++
		}
		res := align.ExtendChain(coded, contigSeq, c, p.SW, buf)
		if res.Score <= 0 || len(res.Cigar) == 0 {
			continue
		}

		minRB := c.Seeds[0].RBeg
		for _, s := range c.Seeds[1:] {
			if s.RBeg < minRB {
				minRB = s.RBeg
			}
		}

		out = append(out, Candidate{
			Contig:    c.Contig,
			Pos1:      minRB + 1,
			IsReverse: isReverse,
			Score:     res.Score,
			Cigar:     res.Cigar,
			NM:        res.NM,
		})
	}
	return out
}

// candidateKey folds a candidate's dedup identity (Contig, Pos1,
// IsReverse) into a single farm hash, the same
// farm.Hash64WithSeed-over-a-packed-key style fusion/kmer_index.go
// uses to turn a multi-field lookup key into one map key.
func candidateKey(c Candidate) uint64 {
	packed := uint64(c.Contig)<<33 | uint64(c.Pos1)<<1
	if c.IsReverse {
		packed |= 1
	}
	return farm.Hash64WithSeed(nil, packed)
}

// dedupCandidates keeps, for each distinct (Contig, Pos1, IsReverse),
// only the highest-scoring candidate; candidates must already be
// sorted by descending score. The result stays sorted by descending
// score.
func dedupCandidates(candidates []Candidate) []Candidate {
	seen := make(map[uint64]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		k := candidateKey(c)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}

// computeMAPQ implements the primary record's mapping-quality formula:
// a ratio-scaled base quality, a floor for unique high-scoring hits,
// a clamp for near-ties, and a final [0, 60] clamp.
func computeMAPQ(best, secondBest int32) int {
	if best <= 0 {
		return 0
	}
	delta := best - secondBest
	if delta < 0 {
		delta = 0
	}
	ratio := float64(delta) / float64(best)
	q := int(ratio * 60)

	if secondBest <= 0 && best > 20 {
		if q < 50 {
			q = 50
		}
	}
	if delta < 5 && secondBest > 0 {
		if q > 3 {
			q = 3
		}
	}
	if q < 0 {
		q = 0
	}
	if q > 60 {
		q = 60
	}
	return q
}
