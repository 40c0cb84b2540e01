// Package align implements banded affine-gap Smith-Waterman local
// alignment over coded DNA bytes, plus the glue that turns a
// chain.Chain into one gapless-seed-plus-filled-gap CIGAR. It is
// grounded on original_source/bwa-rust's src/align/sw.rs, reworked
// around reusable scratch buffers the way the teacher corpus keeps
// per-worker scratch state (bio-fusion's per-worker stitcher is the
// structural precedent for ScratchPool).
package align

// negInf is a saturating "very negative" score used to seed the E/F
// gap matrices; it must not underflow when a gap penalty is added.
const negInf = int32(-1 << 28)

// Params holds the affine-gap scoring scheme and the band half-width
// applied around the main diagonal.
type Params struct {
	Match     int32
	Mismatch  int32
	GapOpen   int32
	GapExtend int32
	BandWidth int
}

// Result is the outcome of a banded local alignment: the best-scoring
// local alignment's coordinates in both query and reference (half-open,
// 0-based), its CIGAR, and its edit distance.
type Result struct {
	Score                int32
	QueryStart, QueryEnd int
	RefStart, RefEnd     int
	Cigar                []Op
	NM                   uint32
}

// OpType is one of the three CIGAR operations this aligner ever
// emits; soft/hard clips and padding never appear in the banded DP
// output.
type OpType byte

const (
	OpMatch OpType = iota
	OpIns
	OpDel
)

// Op is a single run of a CIGAR operation.
type Op struct {
	Type OpType
	Len  int
}

// Buffer holds the H/E/F dynamic-programming matrices, sized to fit
// the largest query/reference pair seen so far and reused across
// calls to avoid repeated allocation in the hot per-read path.
type Buffer struct {
	h, e, f []int32
}

// NewBuffer returns an empty, lazily-sized scratch Buffer.
func NewBuffer() *Buffer { return &Buffer{} }

func (b *Buffer) resize(size int) {
	if cap(b.h) < size {
		b.h = make([]int32, size)
		b.e = make([]int32, size)
		b.f = make([]int32, size)
	}
	b.h = b.h[:size]
	b.e = b.e[:size]
	b.f = b.f[:size]
	for i := range b.h {
		b.h[i] = 0
		b.e[i] = negInf
		b.f[i] = negInf
	}
}

// Align runs banded affine-gap Smith-Waterman between query and ref
// (both coded or raw bytes — only byte equality is used) using a
// fresh scratch Buffer. See AlignWithBuffer for the buffer-reusing
// form used on the per-read hot path.
func Align(query, ref []byte, p Params) Result {
	return AlignWithBuffer(query, ref, p, NewBuffer())
}

// AlignWithBuffer runs banded affine-gap Smith-Waterman between query
// and ref, reusing buf's H/E/F matrices. It returns the highest-
// scoring local alignment: a zero Result (Score 0, empty Cigar) if no
// positive-scoring alignment exists or either input is empty.
func AlignWithBuffer(query, ref []byte, p Params, buf *Buffer) Result {
	m, n := len(query), len(ref)
	if m == 0 || n == 0 {
		return Result{}
	}

	rows, cols := m+1, n+1
	buf.resize(rows * cols)
	h, e, f := buf.h, buf.e, buf.f

	band := p.BandWidth
	bestScore := int32(0)
	bestI, bestJ := 0, 0

	for i := 1; i <= m; i++ {
		jStart, jEnd := 1, n
		if band >= 0 {
			if js := i - band; js > 1 {
				jStart = js
			}
			if je := i + band; je < n {
				jEnd = je
			}
		}
		if jStart > jEnd {
			continue
		}

		for j := jStart; j <= jEnd; j++ {
			idx := i*cols + j
			upIdx := (i-1)*cols + j
			leftIdx := i*cols + (j - 1)
			diagIdx := (i-1)*cols + (j - 1)

			eOpen := h[upIdx] - p.GapOpen - p.GapExtend
			eExt := e[upIdx] - p.GapExtend
			ev := eOpen
			if eExt > ev {
				ev = eExt
			}
			e[idx] = ev

			fOpen := h[leftIdx] - p.GapOpen - p.GapExtend
			fExt := f[leftIdx] - p.GapExtend
			fv := fOpen
			if fExt > fv {
				fv = fExt
			}
			f[idx] = fv

			subst := p.Mismatch * -1
			if query[i-1] == ref[j-1] {
				subst = p.Match
			}

			val := h[diagIdx] + subst
			if e[idx] > val {
				val = e[idx]
			}
			if f[idx] > val {
				val = f[idx]
			}
			if val < 0 {
				val = 0
			}
			h[idx] = val

			if val > bestScore {
				bestScore = val
				bestI, bestJ = i, j
			}
		}
	}

	if bestScore <= 0 {
		return Result{}
	}

	var ops []OpType
	i, j := bestI, bestJ
	for i > 0 && j > 0 {
		idx := i*cols + j
		hHere := h[idx]
		if hHere == 0 {
			break
		}
		diagIdx := (i-1)*cols + (j - 1)

		subst := p.Mismatch * -1
		if query[i-1] == ref[j-1] {
			subst = p.Match
		}
		diagVal := h[diagIdx] + subst

		switch {
		case hHere == diagVal:
			ops = append(ops, OpMatch)
			i--
			j--
		case hHere == e[idx]:
			ops = append(ops, OpIns)
			i--
		case hHere == f[idx]:
			ops = append(ops, OpDel)
			j--
		default:
			i, j = 0, 0
		}
	}
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}

	queryStart, refStart := i, j
	queryEnd, refEnd := bestI, bestJ

	var nm uint32
	qi, rj := queryStart, refStart
	for _, op := range ops {
		switch op {
		case OpMatch:
			if query[qi] != ref[rj] {
				nm++
			}
			qi++
			rj++
		case OpIns:
			nm++
			qi++
		case OpDel:
			nm++
			rj++
		}
	}

	return Result{
		Score:      bestScore,
		QueryStart: queryStart,
		QueryEnd:   queryEnd,
		RefStart:   refStart,
		RefEnd:     refEnd,
		Cigar:      coalesce(ops),
		NM:         nm,
	}
}

// coalesce runs run-length encoding over a flat op sequence.
func coalesce(ops []OpType) []Op {
	if len(ops) == 0 {
		return nil
	}
	out := make([]Op, 0, len(ops))
	cur := ops[0]
	n := 1
	for _, op := range ops[1:] {
		if op == cur {
			n++
			continue
		}
		out = append(out, Op{cur, n})
		cur, n = op, 1
	}
	out = append(out, Op{cur, n})
	return out
}
