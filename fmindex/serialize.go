package fmindex

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/grailbio/base/errors"

	"github.com/biosuite/bwamem/errs"
)

// magic and version define the on-disk envelope: a fixed 64-bit magic
// followed by a 32-bit version. Save always writes the current
// version; Load rejects any other magic or version with a typed
// error (errs.BadMagic / errs.UnsupportedVersion).
const (
	magic   uint64 = 0x42574146_4d475321 // "BWAFMGS!" (ASCII, twiddled)
	version uint32 = 1
)

// Save writes idx to w using the index file envelope: magic, version,
// sigma, block, C, BWT, occ samples, SA, contigs, text.
func Save(w io.Writer, idx *Index) error {
	bw := bufio.NewWriter(w)
	enc := &encoder{w: bw}
	enc.u64(magic)
	enc.u32(version)
	enc.u8(idx.Sigma)
	enc.u32(idx.Block)
	enc.u32(uint32(len(idx.C)))
	for _, v := range idx.C {
		enc.u32(v)
	}
	enc.u32(uint32(len(idx.BWT)))
	enc.bytes(idx.BWT)
	enc.u32(uint32(len(idx.OccSamples)))
	for _, v := range idx.OccSamples {
		enc.u32(v)
	}
	enc.u32(uint32(len(idx.SA)))
	for _, v := range idx.SA {
		enc.u32(v)
	}
	enc.u32(uint32(len(idx.Contigs)))
	for _, c := range idx.Contigs {
		enc.str(c.Name)
		enc.u32(c.Len)
		enc.u32(c.Offset)
	}
	enc.u32(uint32(len(idx.Text)))
	enc.bytes(idx.Text)
	if enc.err != nil {
		return errors.E(enc.err, "fmindex: write failed")
	}
	return bw.Flush()
}

// Load reads an Index previously written by Save. It returns
// errs.BadMagic or errs.UnsupportedVersion (wrapped via
// github.com/grailbio/base/errors) if the envelope doesn't match this
// build's expectations.
func Load(r io.Reader) (*Index, error) {
	br := bufio.NewReader(r)
	dec := &decoder{r: br}

	gotMagic := dec.u64()
	if dec.err != nil {
		return nil, errors.E(dec.err, "fmindex: read magic")
	}
	if gotMagic != magic {
		return nil, errors.E(errs.BadMagic, "fmindex: bad magic number")
	}
	gotVersion := dec.u32()
	if gotVersion != version {
		return nil, errors.E(errs.UnsupportedVersion, "fmindex: unsupported version", gotVersion)
	}

	idx := &Index{}
	idx.Sigma = dec.u8()
	idx.Block = dec.u32()

	nc := dec.u32()
	idx.C = make([]uint32, nc)
	for i := range idx.C {
		idx.C[i] = dec.u32()
	}

	nbwt := dec.u32()
	idx.BWT = dec.bytes(int(nbwt))

	nocc := dec.u32()
	idx.OccSamples = make([]uint32, nocc)
	for i := range idx.OccSamples {
		idx.OccSamples[i] = dec.u32()
	}

	nsa := dec.u32()
	idx.SA = make([]uint32, nsa)
	for i := range idx.SA {
		idx.SA[i] = dec.u32()
	}

	ncontig := dec.u32()
	idx.Contigs = make([]Contig, ncontig)
	for i := range idx.Contigs {
		idx.Contigs[i].Name = dec.str()
		idx.Contigs[i].Len = dec.u32()
		idx.Contigs[i].Offset = dec.u32()
	}

	ntext := dec.u32()
	idx.Text = dec.bytes(int(ntext))

	if dec.err != nil {
		return nil, errors.E(dec.err, "fmindex: truncated or corrupt index file")
	}
	return idx, nil
}

type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

func (e *encoder) u8(v byte)    { e.write([]byte{v}) }
func (e *encoder) u32(v uint32) { var b [4]byte; binary.LittleEndian.PutUint32(b[:], v); e.write(b[:]) }
func (e *encoder) u64(v uint64) { var b [8]byte; binary.LittleEndian.PutUint64(b[:], v); e.write(b[:]) }
func (e *encoder) bytes(p []byte) { e.write(p) }
func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	e.write([]byte(s))
}

type decoder struct {
	r   io.Reader
	err error
}

func (d *decoder) read(n int) []byte {
	if d.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		d.err = errs.ParseError
		return nil
	}
	return buf
}

func (d *decoder) u8() byte {
	b := d.read(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u32() uint32 {
	b := d.read(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) u64() uint64 {
	b := d.read(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *decoder) bytes(n int) []byte {
	if n == 0 {
		return nil
	}
	return d.read(n)
}

func (d *decoder) str() string {
	n := d.u32()
	b := d.read(int(n))
	if b == nil {
		return ""
	}
	return string(b)
}
