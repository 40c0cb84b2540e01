// Package errs defines the typed error kinds surfaced by the aligner
// core and its CLI collaborators: I/O failures, malformed FASTA/FASTQ,
// an empty reference, and index envelope mismatches. Kinds are
// sentinel values checked with errors.Is; callers that need additional
// context should wrap them with github.com/grailbio/base/errors.E,
// e.g. errors.E(errs.ParseError, path, "line 12").
package errs

import "errors"

// Kind identifies which of the core's error categories an error
// belongs to.
type Kind struct{ name string }

func (k Kind) Error() string { return k.name }

var (
	// IOError wraps file open/read/write failures.
	IOError = Kind{"io-error"}
	// ParseError wraps malformed FASTA/FASTQ input.
	ParseError = Kind{"parse-error"}
	// EmptyReference is returned when a FASTA has no usable sequences.
	EmptyReference = Kind{"empty-reference"}
	// BadMagic is returned when an index file's magic doesn't match.
	BadMagic = Kind{"bad-index-magic"}
	// UnsupportedVersion is returned when an index file's version
	// field isn't one this build knows how to read.
	UnsupportedVersion = Kind{"unsupported-index-version"}
)

// Is reports whether err (or any error it wraps) is Kind k.
func Is(err error, k Kind) bool {
	return errors.Is(err, k)
}
