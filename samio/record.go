package samio

import (
	"github.com/grailbio/base/errors"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/hts/sam"

	"github.com/biosuite/bwamem/align"
	"github.com/biosuite/bwamem/mem"
)

// cigarOpType maps this module's own align.OpType to the CigarOpType
// sam.Cigar expects.
var cigarOpType = [...]sam.CigarOpType{
	align.OpMatch: sam.CigarMatch,
	align.OpIns:   sam.CigarInsertion,
	align.OpDel:   sam.CigarDeletion,
}

func toSamCigar(ops []align.Op) sam.Cigar {
	if len(ops) == 0 {
		return nil
	}
	c := make(sam.Cigar, len(ops))
	for i, op := range ops {
		c[i] = sam.NewCigarOp(cigarOpType[op.Type], op.Len)
	}
	return c
}

// unmappedCigar is the empty CIGAR ("*") sam.NewRecord expects for a
// record with no reference placement.
var unmappedCigar = sam.Cigar(nil)

// BuildRecord turns one read's name, sequence, quality, and mem.Alignment
// into a *sam.Record ready for MarshalText. refs must be index-aligned
// with the fmindex.Contig slice BuildHeader was given. seq and qual are
// the read exactly as it will appear in the output: callers must
// reverse-complement/reverse them first for a reverse-strand record.
func BuildRecord(name string, refs []*sam.Reference, a mem.Alignment, seq, qual []byte) (*sam.Record, error) {
	flag := sam.Flags(0)
	var ref *sam.Reference
	pos := -1
	cigar := unmappedCigar

	if a.Mapped {
		ref = refs[a.Contig]
		pos = int(a.Pos1) - 1
		cigar = toSamCigar(a.Cigar)
		if a.IsReverse {
			flag |= sam.Reverse
		}
		if a.Secondary {
			flag |= sam.Secondary
		}
	} else {
		flag |= sam.Unmapped
	}

	rec, err := sam.NewRecord(name, ref, nil, pos, -1, 0, byte(a.MAPQ), cigar, seq, qual, nil)
	if err != nil {
		return nil, errors.E(err, "samio: building record", name)
	}
	rec.Flags = flag

	if a.Mapped {
		if err := addAux(rec, "AS", int(a.Score)); err != nil {
			return nil, err
		}
		if err := addAux(rec, "XS", int(a.NextBest)); err != nil {
			return nil, err
		}
		if err := addAux(rec, "NM", int(a.NM)); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

func addAux(rec *sam.Record, tag string, v int) error {
	aux, err := sam.NewAux(sam.NewTag(tag), v)
	if err != nil {
		return errors.E(err, "samio: building aux tag", tag)
	}
	rec.AuxFields = append(rec.AuxFields, aux)
	return nil
}

// FormatRecord renders rec as one tab-separated SAM text line, without
// a trailing newline. The returned string aliases b's freshly
// allocated backing array (gunsafe.BytesToString, mirrored from
// fusion/util.go's StringToBytes/BytesToString round trip) rather
// than copying it, since b is never reused after this call.
func FormatRecord(rec *sam.Record) (string, error) {
	b, err := rec.MarshalText()
	if err != nil {
		return "", errors.E(err, "samio: formatting record", rec.Name)
	}
	return gunsafe.BytesToString(b), nil
}
