// Package seed finds super-maximal exact matches (SMEMs) between a
// coded query and an fmindex.Index: for every read position, the
// longest exact match starting there, with matches fully contained in
// a longer one discarded. It is grounded on
// original_source/bwa-rust's src/align/seed.rs, reworked around the
// Go FM-index API.
package seed

import (
	"encoding/binary"
	"sort"

	farm "github.com/dgryski/go-farm"

	"github.com/biosuite/bwamem/fmindex"
)

// Seed is one super-maximal exact match: the read interval [QBeg,
// QEnd) maps exactly to the reference interval [RBeg, REnd) on
// Contig.
type Seed struct {
	Contig     int
	QBeg, QEnd int
	RBeg, REnd uint32
}

// Len returns the length of the seed on the read (equal to its length
// on the reference, since it is an exact match).
func (s Seed) Len() int { return s.QEnd - s.QBeg }

type memInterval struct {
	qb, qe int
	l, r   int
}

// FindSMEMs returns the SMEMs of query (a coded sequence, no sentinel
// bytes) against idx. minLen bounds the shortest seed considered; a
// seed shorter than minLen is never emitted. Seeds are deduplicated
// and returned sorted by (Contig, QBeg, QEnd, RBeg).
func FindSMEMs(idx *fmindex.Index, query []byte, minLen int) []Seed {
	n := len(query)
	if minLen <= 0 || n == 0 || minLen > n {
		return nil
	}

	raw := make([]memInterval, 0, n)
	for qb := 0; qb+minLen <= n; qb++ {
		bestLen, bestL, bestR := 0, 0, 0
		for length := minLen; qb+length <= n; length++ {
			l, r, ok := idx.BackwardSearch(query[qb : qb+length])
			if !ok {
				break
			}
			bestLen, bestL, bestR = length, l, r
		}
		if bestLen >= minLen {
			raw = append(raw, memInterval{qb, qb + bestLen, bestL, bestR})
		}
	}

	raw = filterContained(raw)

	seeds := make([]Seed, 0, len(raw))
	for _, m := range raw {
		seedLen := uint32(m.qe - m.qb)
		for _, sa := range idx.SAInterval(m.l, m.r) {
			ci, off, ok := idx.MapTextPos(sa)
			if !ok {
				continue
			}
			if off+seedLen > idx.Contigs[ci].Len {
				continue
			}
			seeds = append(seeds, Seed{
				Contig: ci,
				QBeg:   m.qb,
				QEnd:   m.qe,
				RBeg:   off,
				REnd:   off + seedLen,
			})
		}
	}

	return dedup(seeds)
}

// filterContained drops any MEM interval whose read span is fully
// contained in another (equal or longer) interval's span, matching
// the containment rule for SMEMs.
func filterContained(mems []memInterval) []memInterval {
	if len(mems) <= 1 {
		return mems
	}
	sort.Slice(mems, func(i, j int) bool {
		li, lj := mems[i].qe-mems[i].qb, mems[j].qe-mems[j].qb
		return li > lj
	})

	keep := make([]bool, len(mems))
	for i := range keep {
		keep[i] = true
	}
	for i := range mems {
		if !keep[i] {
			continue
		}
		for j := i + 1; j < len(mems); j++ {
			if !keep[j] {
				continue
			}
			if mems[i].qb <= mems[j].qb && mems[i].qe >= mems[j].qe {
				keep[j] = false
			}
		}
	}

	out := make([]memInterval, 0, len(mems))
	for i, m := range mems {
		if keep[i] {
			out = append(out, m)
		}
	}
	return out
}

// seedKey folds a seed's dedup identity (Contig, QBeg, QEnd, RBeg,
// REnd) into one farm hash, the same farm-hashed-key style
// mem.candidateKey uses (itself mirrored from fusion/kmer_index.go's
// kmer-hashing design) to turn a multi-field key into one hashable
// value without a struct-keyed map.
func seedKey(s Seed) uint64 {
	var buf [20]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(s.Contig))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(s.QBeg))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(s.QEnd))
	binary.LittleEndian.PutUint32(buf[12:16], s.RBeg)
	binary.LittleEndian.PutUint32(buf[16:20], s.REnd)
	return farm.Hash64(buf[:])
}

func dedup(seeds []Seed) []Seed {
	sort.Slice(seeds, func(i, j int) bool {
		a, b := seeds[i], seeds[j]
		if a.Contig != b.Contig {
			return a.Contig < b.Contig
		}
		if a.QBeg != b.QBeg {
			return a.QBeg < b.QBeg
		}
		if a.QEnd != b.QEnd {
			return a.QEnd < b.QEnd
		}
		if a.RBeg != b.RBeg {
			return a.RBeg < b.RBeg
		}
		return a.REnd < b.REnd
	})
	seen := make(map[uint64]bool, len(seeds))
	out := seeds[:0]
	for _, s := range seeds {
		k := seedKey(s)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
