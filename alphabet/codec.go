// Package alphabet maps raw DNA bytes to and from the small coded
// alphabet the FM-index operates on: {0:sentinel, 1:A, 2:C, 3:G, 4:T,
// 5:N}. Every index and seeding structure downstream works in coded
// bytes; raw DNA only appears at the I/O boundary (FASTA/FASTQ
// records, SAM SEQ fields).
//
// The complement table is grounded on the teacher corpus's IUPAC
// complement map (soniakeys/bio's dna.go); ToCode/FromCode/Normalize
// add the 6-symbol coding spec.md requires on top of it.
package alphabet

// Sigma is the size of the coded alphabet.
const Sigma = 6

// Sentinel is the code used to terminate the text and separate
// contigs. It never appears in a query pattern.
const Sentinel = 0

const (
	codeA = 1
	codeC = 2
	codeG = 3
	codeT = 4
	codeN = 5
)

var toCodeTable [256]byte

func init() {
	for i := range toCodeTable {
		toCodeTable[i] = codeN
	}
	toCodeTable['A'] = codeA
	toCodeTable['a'] = codeA
	toCodeTable['C'] = codeC
	toCodeTable['c'] = codeC
	toCodeTable['G'] = codeG
	toCodeTable['g'] = codeG
	toCodeTable['T'] = codeT
	toCodeTable['t'] = codeT
	toCodeTable['U'] = codeT
	toCodeTable['u'] = codeT
	toCodeTable['N'] = codeN
	toCodeTable['n'] = codeN
}

var fromCodeTable = [Sigma]byte{'$', 'A', 'C', 'G', 'T', 'N'}

// ToCode maps a raw DNA byte to its small-integer code. A/C/G/T/U (and
// their lowercase forms) map to 1-4 (U folds to T); anything else,
// including IUPAC ambiguity codes, maps to N's code (5). The sentinel
// byte (0) maps to the sentinel code (0).
func ToCode(b byte) byte {
	if b == 0 {
		return Sentinel
	}
	return toCodeTable[b]
}

// FromCode maps a code back to its canonical uppercase DNA byte.
// FromCode(0) returns the sentinel marker '$'.
func FromCode(c byte) byte {
	if int(c) >= len(fromCodeTable) {
		return 'N'
	}
	return fromCodeTable[c]
}

// EncodeSeq maps every byte of seq to its code, returning a new slice.
func EncodeSeq(seq []byte) []byte {
	out := make([]byte, len(seq))
	for i, b := range seq {
		out[i] = ToCode(b)
	}
	return out
}

// DecodeSeq maps every code of coded back to its canonical DNA byte,
// returning a new slice.
func DecodeSeq(coded []byte) []byte {
	out := make([]byte, len(coded))
	for i, c := range coded {
		out[i] = FromCode(c)
	}
	return out
}

// Normalize uppercases seq, folds U to T, and collapses any byte that
// is not A/C/G/T/N (case-insensitive) to N. The input is not modified;
// a new slice is returned.
func Normalize(seq []byte) []byte {
	out := make([]byte, len(seq))
	for i, b := range seq {
		out[i] = FromCode(ToCode(b))
	}
	return out
}

// RevComp returns the reverse complement of seq. N maps to N. The
// input is not modified. Lowercase bases and U/u are accepted; the
// result is always uppercase A/C/G/T/N, any other byte becoming N.
func RevComp(seq []byte) []byte {
	n := len(seq)
	out := make([]byte, n)
	for i, b := range seq {
		var c byte
		switch b {
		case 'A', 'a':
			c = 'T'
		case 'C', 'c':
			c = 'G'
		case 'G', 'g':
			c = 'C'
		case 'T', 't', 'U', 'u':
			c = 'A'
		default:
			c = 'N'
		}
		out[n-1-i] = c
	}
	return out
}

// RevCompCode returns the reverse complement of a coded sequence
// (bytes in [0, Sigma)), operating directly on codes without a
// round-trip through DNA bytes. Sentinel codes complement to
// themselves (they should never appear in read sequences, but the
// mapping is total).
func RevCompCode(coded []byte) []byte {
	n := len(coded)
	out := make([]byte, n)
	for i, c := range coded {
		var rc byte
		switch c {
		case codeA:
			rc = codeT
		case codeC:
			rc = codeG
		case codeG:
			rc = codeC
		case codeT:
			rc = codeA
		case codeN:
			rc = codeN
		default:
			rc = Sentinel
		}
		out[n-1-i] = rc
	}
	return out
}
