package align

import (
	"github.com/biosuite/bwamem/chain"
)

// ExtendChain turns chain.Chain c into one Result spanning from the
// first seed's read/reference start to the last seed's read/reference
// end: seed spans contribute verbatim M runs (they are exact matches
// by construction), and the read/reference gaps between consecutive
// seeds (or a seed and its neighbor, when one axis has zero gap) are
// filled by a banded Smith-Waterman call against query/ref slices
// restricted to that gap. contigSeq is the full decoded reference
// contig bytes for c.Contig; query is the full read (already in the
// same orientation as the chain's seeds).
func ExtendChain(query, contigSeq []byte, c chain.Chain, p Params, buf *Buffer) Result {
	seeds := c.Seeds
	if len(seeds) == 0 {
		return Result{}
	}

	first, last := seeds[0], seeds[len(seeds)-1]
	queryStart := first.QBeg
	refStart := int(first.RBeg)
	queryEnd := last.QEnd
	refEnd := int(last.REnd)

	var ops []Op
	var nm uint32
	score := int32(0)

	qCursor := queryStart
	rCursor := refStart

	for _, s := range seeds {
		if s.QBeg > qCursor || int(s.RBeg) > rCursor {
			gapQ := query[qCursor:s.QBeg]
			gapR := contigSeq[rCursor:s.RBeg]
			ops, nm, score = appendGap(ops, nm, score, gapQ, gapR, p, buf)
		}

		seedLen := s.Len()
		ops = appendOp(ops, Op{OpMatch, seedLen})
		score += p.Match * int32(seedLen)
		qCursor = s.QEnd
		rCursor = int(s.REnd)
	}

	return Result{
		Score:      score,
		QueryStart: queryStart,
		QueryEnd:   queryEnd,
		RefStart:   refStart,
		RefEnd:     refEnd,
		Cigar:      ops,
		NM:         nm,
	}
}

// appendGap fills the read/reference gap between two consecutive seeds
// with a banded local alignment, folding
// its CIGAR and edit distance into the running totals. A gap that is
// empty on both axes contributes nothing; a gap empty on one axis but
// not the other degenerates to a pure insertion or deletion run.
func appendGap(ops []Op, nm uint32, score int32, gapQ, gapR []byte, p Params, buf *Buffer) ([]Op, uint32, int32) {
	switch {
	case len(gapQ) == 0 && len(gapR) == 0:
		return ops, nm, score
	case len(gapQ) == 0:
		ops = appendOp(ops, Op{OpDel, len(gapR)})
		nm += uint32(len(gapR))
		score -= p.GapOpen + p.GapExtend*int32(len(gapR))
		return ops, nm, score
	case len(gapR) == 0:
		ops = appendOp(ops, Op{OpIns, len(gapQ)})
		nm += uint32(len(gapQ))
		score -= p.GapOpen + p.GapExtend*int32(len(gapQ))
		return ops, nm, score
	}

	res := AlignWithBuffer(gapQ, gapR, p, buf)
	if len(res.Cigar) == 0 {
		// No positive-scoring local alignment in the gap: fall back to
		// a direct substitution run so the CIGAR still spans the gap.
		n := len(gapQ)
		if len(gapR) < n {
			n = len(gapR)
		}
		ops = appendOp(ops, Op{OpMatch, n})
		for i := 0; i < n; i++ {
			if gapQ[i] != gapR[i] {
				nm++
				score -= p.Mismatch
			} else {
				score += p.Match
			}
		}
		if d := len(gapQ) - n; d > 0 {
			ops = appendOp(ops, Op{OpIns, d})
			nm += uint32(d)
		}
		if d := len(gapR) - n; d > 0 {
			ops = appendOp(ops, Op{OpDel, d})
			nm += uint32(d)
		}
		return ops, nm, score
	}

	for _, op := range res.Cigar {
		ops = appendOp(ops, op)
	}
	return ops, nm + res.NM, score + res.Score
}

// appendOp coalesces op into the tail of ops when they share a type,
// keeping the final CIGAR's run-length encoding minimal across
// multiple seed/gap contributions.
func appendOp(ops []Op, op Op) []Op {
	if op.Len == 0 {
		return ops
	}
	if n := len(ops); n > 0 && ops[n-1].Type == op.Type {
		ops[n-1].Len += op.Len
		return ops
	}
	return append(ops, op)
}
