package batch

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosuite/bwamem/align"
	"github.com/biosuite/bwamem/alphabet"
	"github.com/biosuite/bwamem/encoding/fastq"
	"github.com/biosuite/bwamem/fmindex"
	"github.com/biosuite/bwamem/mem"
	"github.com/biosuite/bwamem/samio"
)

func buildTestIndex(t *testing.T, seq string) *fmindex.Index {
	t.Helper()
	text, contigs := fmindex.Concat([]string{"chr1"}, [][]byte{alphabet.EncodeSeq([]byte(seq))})
	return fmindex.Build(text, contigs, fmindex.DefaultBlockSize)
}

func TestAlignBatchPreservesInputOrder(t *testing.T) {
	ref := "ACGTACGTTTTTGGGGCCCCAAAATTTTGGGGCCCCACGTACGT"
	idx := buildTestIndex(t, ref)
	reads := []Read{
		{Name: "r0", Seq: []byte("TTTTGGGGCCCCAAAATTTTGGGGCCCC"), Qual: bytes.Repeat([]byte{'I'}, 28)},
		{Name: "r1", Seq: []byte("NNNNNNNNNNNNNNNNNNNNNNNNNNNN"), Qual: bytes.Repeat([]byte{'I'}, 28)},
		{Name: "r2", Seq: []byte("TTTTGGGGCCCCAAAATTTTGGGGCCCC"), Qual: bytes.Repeat([]byte{'I'}, 28)},
	}

	results, stats := AlignBatch(idx, reads, mem.DefaultParams(), 4, align.NewScratchPool())
	require.Len(t, results, 3)
	assert.Equal(t, "r0", results[0].Read.Name)
	assert.Equal(t, "r1", results[1].Read.Name)
	assert.Equal(t, "r2", results[2].Read.Name)
	assert.True(t, results[0].Alignments[0].Mapped)
	assert.True(t, results[2].Alignments[0].Mapped)
	assert.Equal(t, int64(3), stats.ReadsTotal)
}

func TestAlignBatchEmpty(t *testing.T) {
	idx := buildTestIndex(t, "ACGTACGT")
	results, stats := AlignBatch(idx, nil, mem.DefaultParams(), 4, align.NewScratchPool())
	assert.Empty(t, results)
	assert.Equal(t, int64(0), stats.ReadsTotal)
}

func TestRunWritesSamRecordsInOrder(t *testing.T) {
	ref := "GCTAAAGACAATTACATAACATACACGTCAGCACGAAACTTGTT"
	idx := buildTestIndex(t, ref)

	fq := "@r0\nCAATTACATAACATACACGTCAGCACGA\n+\n" + strings.Repeat("I", 28) + "\n" +
		"@r1\nNNNNNNNNNNNNNNNNNNNNNNNNNNNN\n+\n" + strings.Repeat("I", 28) + "\n"
	sc := fastq.NewScanner(strings.NewReader(fq))

	_, refs, err := samio.BuildHeader(idx.Contigs)
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := Run(idx, sc, &out, refs, mem.DefaultParams(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.ReadsTotal)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "r0\t"))
	assert.True(t, strings.HasPrefix(lines[1], "r1\t"))
}

func TestRunRespectsBatchSizeAcrossMultipleBatches(t *testing.T) {
	ref := "GCTAAAGACAATTACATAACATACACGTCAGCACGAAACTTGTT"
	idx := buildTestIndex(t, ref)

	var fq strings.Builder
	for i := 0; i < 5; i++ {
		fq.WriteString("@r")
		fq.WriteByte(byte('0' + i))
		fq.WriteString("\nCAATTACATAACATACACGTCAGCACGA\n+\n")
		fq.WriteString(strings.Repeat("I", 28))
		fq.WriteByte('\n')
	}
	sc := fastq.NewScanner(strings.NewReader(fq.String()))

	_, refs, err := samio.BuildHeader(idx.Contigs)
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := Run(idx, sc, &out, refs, mem.DefaultParams(), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.ReadsTotal)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	for i, line := range lines {
		assert.True(t, strings.HasPrefix(line, "r"+string(rune('0'+i))+"\t"))
	}
}
