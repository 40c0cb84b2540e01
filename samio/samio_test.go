package samio

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosuite/bwamem/align"
	"github.com/biosuite/bwamem/fmindex"
	"github.com/biosuite/bwamem/mem"
)

func testContigs() []fmindex.Contig {
	return []fmindex.Contig{
		{Name: "chr1", Len: 1000, Offset: 0},
		{Name: "chr2", Len: 2000, Offset: 1001},
	}
}

func TestBuildHeaderProducesIndexAlignedReferences(t *testing.T) {
	_, refs, err := BuildHeader(testContigs())
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "chr1", refs[0].Name())
	assert.Equal(t, 1000, refs[0].Len())
	assert.Equal(t, "chr2", refs[1].Name())
	assert.Equal(t, 2000, refs[1].Len())
}

func TestWriteHeaderEmitsHDSQPGLines(t *testing.T) {
	_, refs, err := BuildHeader(testContigs())
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, WriteHeader(&b, refs, "0.1"))

	out := b.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "@HD\tVN:1.6\tSO:unsorted", lines[0])
	assert.Equal(t, "@SQ\tSN:chr1\tLN:1000", lines[1])
	assert.Equal(t, "@SQ\tSN:chr2\tLN:2000", lines[2])
	assert.Equal(t, "@PG\tID:bwamem\tPN:bio-align\tVN:0.1", lines[3])
}

func TestBuildRecordUnmappedSetsUnmappedFlag(t *testing.T) {
	_, refs, err := BuildHeader(testContigs())
	require.NoError(t, err)

	a := mem.Alignment{Mapped: false}
	rec, err := BuildRecord("read1", refs, a, []byte("ACGT"), []byte("IIII"))
	require.NoError(t, err)

	line, err := FormatRecord(rec)
	require.NoError(t, err)
	fields := strings.Split(line, "\t")
	require.GreaterOrEqual(t, len(fields), 9)
	assert.Equal(t, "read1", fields[0])
	assert.Equal(t, "4", fields[1]) // sam.Unmapped flag bit
	assert.Equal(t, "*", fields[2]) // no reference
}

func TestBuildRecordMappedForwardPrimary(t *testing.T) {
	_, refs, err := BuildHeader(testContigs())
	require.NoError(t, err)

	a := mem.Alignment{
		Mapped: true,
		Contig: 0,
		Pos1:   101,
		MAPQ:   42,
		Score:  50,
		Cigar:  []align.Op{{Type: align.OpMatch, Len: 4}},
	}
	rec, err := BuildRecord("read2", refs, a, []byte("ACGT"), []byte("IIII"))
	require.NoError(t, err)

	line, err := FormatRecord(rec)
	require.NoError(t, err)
	fields := strings.Split(line, "\t")
	assert.Equal(t, "read2", fields[0])
	assert.Equal(t, "0", fields[1])
	assert.Equal(t, "chr1", fields[2])
	assert.Equal(t, "101", fields[3])
	assert.Equal(t, "42", fields[4])
	assert.Equal(t, "4M", fields[5])
}

func TestBuildRecordMappedReverseSecondarySetsFlags(t *testing.T) {
	_, refs, err := BuildHeader(testContigs())
	require.NoError(t, err)

	a := mem.Alignment{
		Mapped:    true,
		Contig:    1,
		Pos1:      5,
		IsReverse: true,
		Secondary: true,
		Score:     30,
		Cigar:     []align.Op{{Type: align.OpMatch, Len: 3}},
	}
	rec, err := BuildRecord("read3", refs, a, []byte("TTT"), []byte("III"))
	require.NoError(t, err)

	line, err := FormatRecord(rec)
	require.NoError(t, err)
	fields := strings.Split(line, "\t")
	var flag int
	_, err = fmt.Sscan(fields[1], &flag)
	require.NoError(t, err)
	assert.NotZero(t, flag&16)  // reverse
	assert.NotZero(t, flag&256) // secondary
}
