// Package fastq reads single-end FASTQ read records. It is adapted
// from the teacher's encoding/fastq/scanner.go: the same line-oriented
// Scanner shape, but single-end only (bio-fusion's PairScanner married
// two Scanners for read-pair stitching, a concern this aligner's
// Non-goals exclude), and reporting errs.Kind-typed errors instead of
// package-local sentinels so callers can tell them apart with errs.Is.
package fastq

import (
	"bufio"
	"io"
	"strings"

	"github.com/grailbio/base/errors"

	"github.com/biosuite/bwamem/errs"
)

// Read is one FASTQ record: the ID line with its leading '@' and any
// trailing description stripped, the raw sequence, and its quality
// string. Line-wrapped (multi-line) sequences are not supported, per
// spec.md's FASTQ contract.
type Read struct {
	ID   string
	Desc string
	Seq  string
	Qual string
}

// Scanner reads FASTQ records from a single stream, four lines per
// record: "@id[ desc]", sequence, "+...", quality. It requires
// len(seq) == len(qual); any violation is reported as errs.ParseError.
// A Scanner is not safe for concurrent use.
type Scanner struct {
	b   *bufio.Scanner
	err error
}

// NewScanner constructs a Scanner reading raw FASTQ text from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{b: bufio.NewScanner(r)}
}

// Scan reads the next record into read, returning false when no more
// records remain (check Err to distinguish clean EOF from a parse
// failure). Once Scan returns false, it never returns true again.
func (s *Scanner) Scan(read *Read) bool {
	if s.err != nil {
		return false
	}
	idLine, ok := s.nextLine()
	if !ok {
		return false
	}
	if len(idLine) == 0 || idLine[0] != '@' {
		s.err = errors.E(errs.ParseError, "fastq: record does not start with '@'")
		return false
	}
	read.ID, read.Desc = splitIDDesc(idLine[1:])

	seqLine, ok := s.nextLine()
	if !ok {
		s.err = errors.E(errs.ParseError, "fastq: truncated record, missing sequence line", read.ID)
		return false
	}
	read.Seq = seqLine

	plusLine, ok := s.nextLine()
	if !ok {
		s.err = errors.E(errs.ParseError, "fastq: truncated record, missing '+' line", read.ID)
		return false
	}
	if len(plusLine) == 0 || plusLine[0] != '+' {
		s.err = errors.E(errs.ParseError, "fastq: expected '+' separator line", read.ID)
		return false
	}

	qualLine, ok := s.nextLine()
	if !ok {
		s.err = errors.E(errs.ParseError, "fastq: truncated record, missing quality line", read.ID)
		return false
	}
	read.Qual = qualLine

	if len(read.Seq) != len(read.Qual) {
		s.err = errors.E(errs.ParseError, "fastq: sequence/quality length mismatch", read.ID)
		return false
	}
	return true
}

func (s *Scanner) nextLine() (string, bool) {
	if !s.b.Scan() {
		if err := s.b.Err(); err != nil {
			s.err = errors.E(errs.IOError, err, "fastq: reading input")
		}
		return "", false
	}
	return s.b.Text(), true
}

// Err returns the error that stopped scanning, or nil if scanning
// stopped at a clean EOF.
func (s *Scanner) Err() error {
	return s.err
}

func splitIDDesc(line string) (id, desc string) {
	if i := strings.IndexByte(line, ' '); i >= 0 {
		return line[:i], line[i+1:]
	}
	return line, ""
}
