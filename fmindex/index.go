// Package fmindex builds and queries an FM-index over a coded DNA
// text: suffix-array construction, BWT derivation, a block-sampled
// rank (Occ) table, backward search, and suffix-array-to-contig
// coordinate mapping. It is grounded on original_source/bwa-rust's
// src/index/{sa,bwt,fm}.rs, reworked into idiomatic Go.
package fmindex

import (
	"sort"

	"github.com/biosuite/bwamem/alphabet"
)

// DefaultBlockSize is the recommended Occ sampling block size (the
// core contract recommends 128-512; 256 balances memory against
// rescan cost for typical genome-scale references).
const DefaultBlockSize = 256

// Index is an immutable FM-index: C-table, BWT, block-sampled Occ
// table, full suffix array, contig list, and the coded text itself.
// Once built (or loaded), an Index is read-only and safe for
// concurrent use by any number of alignment workers.
type Index struct {
	Sigma      byte
	Block      uint32
	C          []uint32 // C[a] = |{ j : T[j] < a }|, length Sigma
	BWT        []byte
	OccSamples []uint32 // occSamples[bi*Sigma+a], length numBlocks*Sigma
	SA         []uint32
	Contigs    []Contig
	Text       []byte // coded text, length N
}

// Build constructs an FM-index over text, a coded byte sequence
// already containing sentinel separators between contigs and a
// trailing sentinel (see Concat). Contigs must be sorted by Offset
// and describe exactly the non-sentinel runs of text.
func Build(text []byte, contigs []Contig, block uint32) *Index {
	if block == 0 {
		block = DefaultBlockSize
	}
	sa := BuildSuffixArray(text)
	bwt := BuildBWT(text, sa)
	idx := &Index{
		Sigma:   alphabet.Sigma,
		Block:   block,
		BWT:     bwt,
		SA:      sa,
		Contigs: contigs,
		Text:    text,
	}
	idx.buildCTable()
	idx.buildOccSamples()
	return idx
}

// Concat joins the coded bodies of a list of (name, codedSeq) records
// into one text with sentinel separators between contigs and a final
// trailing sentinel, returning the text and the derived Contig list.
func Concat(names []string, seqs [][]byte) (text []byte, contigs []Contig) {
	total := 1 // trailing sentinel
	for i, s := range seqs {
		total += len(s)
		if i > 0 {
			total++ // separator
		}
	}
	text = make([]byte, 0, total)
	contigs = make([]Contig, 0, len(seqs))
	for i, s := range seqs {
		if i > 0 {
			text = append(text, alphabet.Sentinel)
		}
		offset := uint32(len(text))
		text = append(text, s...)
		contigs = append(contigs, Contig{Name: names[i], Len: uint32(len(s)), Offset: offset})
	}
	text = append(text, alphabet.Sentinel)
	return text, contigs
}

func (idx *Index) buildCTable() {
	sigma := int(idx.Sigma)
	freq := make([]uint32, sigma)
	for _, b := range idx.BWT {
		if int(b) < sigma {
			freq[b]++
		}
	}
	idx.C = make([]uint32, sigma)
	var acc uint32
	for a := 0; a < sigma; a++ {
		idx.C[a] = acc
		acc += freq[a]
	}
}

func (idx *Index) buildOccSamples() {
	sigma := int(idx.Sigma)
	block := int(idx.Block)
	n := len(idx.BWT)
	numBlocks := 0
	if n > 0 {
		numBlocks = (n + block - 1) / block
	}
	idx.OccSamples = make([]uint32, numBlocks*sigma)
	running := make([]uint32, sigma)
	for bi := 0; bi < numBlocks; bi++ {
		copy(idx.OccSamples[bi*sigma:(bi+1)*sigma], running)
		start := bi * block
		end := start + block
		if end > n {
			end = n
		}
		for _, b := range idx.BWT[start:end] {
			if int(b) < sigma {
				running[b]++
			}
		}
	}
}

// Occ returns the number of occurrences of code a in BWT[0, pos).
// Occ(a, 0) is 0. Complexity is O(Block).
func (idx *Index) Occ(a byte, pos int) uint32 {
	if pos <= 0 {
		return 0
	}
	block := int(idx.Block)
	bi := (pos - 1) / block
	base := idx.OccSamples[bi*int(idx.Sigma)+int(a)]
	start := bi * block
	var add uint32
	for _, b := range idx.BWT[start:pos] {
		if b == a {
			add++
		}
	}
	return base + add
}

// RankRange extends the half-open SA interval [l, r) by prepending
// code a, returning the new interval.
func (idx *Index) RankRange(a byte, l, r int) (int, int) {
	c0 := int(idx.C[a])
	nl := c0 + int(idx.Occ(a, l))
	nr := c0 + int(idx.Occ(a, r))
	return nl, nr
}

// BackwardSearch returns the SA interval [l, r) of all suffixes with
// pattern pat as a prefix, applying RankRange right to left and
// failing as soon as the interval becomes empty. pat must not contain
// the sentinel code; this is a precondition, not checked here.
// BackwardSearch returns ok=false for an empty pattern or when no
// match exists.
func (idx *Index) BackwardSearch(pat []byte) (l, r int, ok bool) {
	if len(idx.BWT) == 0 || len(pat) == 0 {
		return 0, 0, false
	}
	l, r = 0, len(idx.BWT)
	for i := len(pat) - 1; i >= 0; i-- {
		nl, nr := idx.RankRange(pat[i], l, r)
		if nl >= nr {
			return 0, 0, false
		}
		l, r = nl, nr
	}
	return l, r, true
}

// SAInterval returns SA[l:r]. The caller must treat the result as
// read-only; l and r must satisfy 0 <= l <= r <= len(SA).
func (idx *Index) SAInterval(l, r int) []uint32 {
	return idx.SA[l:r]
}

// MapTextPos maps a global coded-text position to the (contig index,
// offset-within-contig) it falls in, by binary search over Contigs by
// Offset. It returns ok=false if pos lies on a sentinel byte or
// beyond the last contig.
func (idx *Index) MapTextPos(pos uint32) (contigIdx int, offset uint32, ok bool) {
	contigs := idx.Contigs
	lo, hi := 0, len(contigs)
	for lo < hi {
		mid := (lo + hi) / 2
		c := contigs[mid]
		switch {
		case pos < c.Offset:
			hi = mid
		case pos >= c.Offset+c.Len:
			lo = mid + 1
		default:
			return mid, pos - c.Offset, true
		}
	}
	return 0, 0, false
}

// DecodeContig returns the canonical (uppercase ACGTN) DNA bytes of
// contig ci, decoded from the coded text.
func (idx *Index) DecodeContig(ci int) []byte {
	return alphabet.DecodeSeq(idx.ContigCoded(ci))
}

// ContigCoded returns the coded bytes of contig ci as a slice of the
// index's text; callers must treat it as read-only.
func (idx *Index) ContigCoded(ci int) []byte {
	c := idx.Contigs[ci]
	return idx.Text[c.Offset : c.Offset+c.Len]
}

// contigsSortedByOffset reports whether contigs are already in the
// order Build/Concat produce; used by tests.
func contigsSortedByOffset(contigs []Contig) bool {
	return sort.SliceIsSorted(contigs, func(i, j int) bool {
		return contigs[i].Offset < contigs[j].Offset
	})
}
