// Package fasta reads reference FASTA data one record at a time. It
// is adapted from the teacher's encoding/fasta package: the same
// '>'-header line-scanning loop as fasta.go's newEagerUnindexed, but
// reworked from an eager whole-file map into a streaming Reader (this
// aligner only ever walks a reference once, to build an FM-index, and
// never needs indexed random access), and reporting errs.Kind-typed
// errors instead of github.com/pkg/errors.
package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/grailbio/base/errors"

	"github.com/biosuite/bwamem/errs"
)

// Record is one FASTA sequence: its ID (the text immediately after
// '>' up to the first space), any trailing description, and its
// sequence bytes, whitespace-stripped and uppercased.
type Record struct {
	ID   string
	Desc string
	Seq  []byte
}

// Reader yields FASTA records from a stream, one at a time. It is not
// safe for concurrent use.
type Reader struct {
	b        *bufio.Scanner
	err      error
	done     bool
	nextID   string
	nextDesc string
	haveNext bool
}

// NewReader constructs a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{b: bufio.NewScanner(r)}
}

// Read returns the next record, or ok=false once the stream is
// exhausted or a parse error occurs (check Err to tell the two
// apart). Malformed input — sequence data before any '>' header — is
// reported as errs.ParseError.
func (r *Reader) Read() (rec Record, ok bool) {
	if r.err != nil || r.done {
		return Record{}, false
	}

	var id, desc string
	if r.haveNext {
		id, desc = r.nextID, r.nextDesc
		r.haveNext = false
	} else {
		var header string
		for {
			if !r.b.Scan() {
				if err := r.b.Err(); err != nil {
					r.err = errors.E(errs.IOError, err, "fasta: reading input")
				} else {
					r.done = true
				}
				return Record{}, false
			}
			line := strings.TrimSpace(r.b.Text())
			if line == "" {
				continue
			}
			header = line
			break
		}
		if header[0] != '>' {
			r.err = errors.E(errs.ParseError, "fasta: sequence data before any '>' header")
			return Record{}, false
		}
		id, desc = splitHeader(header[1:])
	}

	var seq bytes.Buffer
	for r.b.Scan() {
		line := strings.TrimSpace(r.b.Text())
		if line == "" {
			continue
		}
		if line[0] == '>' {
			r.nextID, r.nextDesc = splitHeader(line[1:])
			r.haveNext = true
			break
		}
		seq.WriteString(strings.ToUpper(line))
	}
	if err := r.b.Err(); err != nil {
		r.err = errors.E(errs.IOError, err, "fasta: reading input")
		return Record{}, false
	}
	if !r.haveNext {
		r.done = true
	}
	return Record{ID: id, Desc: desc, Seq: seq.Bytes()}, true
}

// Err returns the error that stopped Read, or nil if the stream was
// read to a clean end.
func (r *Reader) Err() error {
	return r.err
}

func splitHeader(s string) (id, desc string) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

// ReadAll reads every record in r, returning errs.EmptyReference if
// the stream yields none.
func ReadAll(r *Reader) ([]Record, error) {
	var recs []Record
	for {
		rec, ok := r.Read()
		if !ok {
			break
		}
		recs = append(recs, rec)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.E(errs.EmptyReference, "fasta: no usable sequences")
	}
	return recs, nil
}
