// Package samio builds SAM header and record values on top of
// github.com/grailbio/hts/sam and renders them as SAM text lines. It
// is grounded on the teacher's header/record construction idiom in
// encoding/bampair/distant_mates_test.go (sam.NewReference +
// sam.NewHeader) and encoding/pam/pam_e2e_test.go (sam.NewRecord),
// generalized from test fixtures into a production writer.
package samio

import (
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"

	"github.com/biosuite/bwamem/fmindex"
)

// progID and progName identify the @PG line this package writes.
const (
	progID   = "bwamem"
	progName = "bio-align"
)

// BuildHeader constructs a *sam.Header carrying one sam.Reference per
// contig, in contig order. The returned references (index-aligned
// with contigs) are what BuildRecord needs to place a mapped read.
func BuildHeader(contigs []fmindex.Contig) (*sam.Header, []*sam.Reference, error) {
	refs := make([]*sam.Reference, len(contigs))
	for i, c := range contigs {
		ref, err := sam.NewReference(c.Name, "", "", int(c.Len), nil, nil)
		if err != nil {
			return nil, nil, errors.E(err, "samio: building reference", c.Name)
		}
		refs[i] = ref
	}
	hdr, err := sam.NewHeader(nil, refs)
	if err != nil {
		return nil, nil, errors.E(err, "samio: building header")
	}
	return hdr, refs, nil
}

// WriteHeader writes the @HD/@SQ/@PG header lines spec.md's external
// SAM interface calls for: VN:1.6 SO:unsorted, one @SQ per contig in
// refs's order, and one @PG identifying this program.
func WriteHeader(w io.Writer, refs []*sam.Reference, progVersion string) error {
	var b strings.Builder
	b.WriteString("@HD\tVN:1.6\tSO:unsorted\n")
	for _, ref := range refs {
		fmt.Fprintf(&b, "@SQ\tSN:%s\tLN:%d\n", ref.Name(), ref.Len())
	}
	fmt.Fprintf(&b, "@PG\tID:%s\tPN:%s\tVN:%s\n", progID, progName, progVersion)
	_, err := io.WriteString(w, b.String())
	if err != nil {
		return errors.E(err, "samio: writing header")
	}
	return nil
}
