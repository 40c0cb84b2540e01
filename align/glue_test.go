package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosuite/bwamem/chain"
	"github.com/biosuite/bwamem/seed"
)

func TestExtendChainSingleSeedNoGaps(t *testing.T) {
	query := []byte("ACGTACGT")
	ref := []byte("ACGTACGT")
	c := chain.Chain{
		Contig: 0,
		Seeds:  []seed.Seed{{Contig: 0, QBeg: 0, QEnd: 8, RBeg: 0, REnd: 8}},
		Score:  8,
	}
	res := ExtendChain(query, ref, c, defaultParams(), NewBuffer())
	assert.Equal(t, "8M", cigarString(res.Cigar))
	assert.Equal(t, uint32(0), res.NM)
	assert.Equal(t, int32(16), res.Score)
}

func TestExtendChainFillsInsertionGap(t *testing.T) {
	// read has an extra base between two seeds that match the reference.
	query := []byte("ACGT" + "X" + "ACGT")
	ref := []byte("ACGT" + "ACGT")
	c := chain.Chain{
		Contig: 0,
		Seeds: []seed.Seed{
			{Contig: 0, QBeg: 0, QEnd: 4, RBeg: 0, REnd: 4},
			{Contig: 0, QBeg: 5, QEnd: 9, RBeg: 4, REnd: 8},
		},
		Score: 8,
	}
	res := ExtendChain(query, ref, c, defaultParams(), NewBuffer())
	require.NotEmpty(t, res.Cigar)
	assert.Equal(t, 0, res.QueryStart)
	assert.Equal(t, 9, res.QueryEnd)
	assert.Equal(t, 0, res.RefStart)
	assert.Equal(t, 8, res.RefEnd)
	assert.GreaterOrEqual(t, res.NM, uint32(1))
}

func TestExtendChainFillsDeletionGap(t *testing.T) {
	query := []byte("ACGT" + "ACGT")
	ref := []byte("ACGT" + "X" + "ACGT")
	c := chain.Chain{
		Contig: 0,
		Seeds: []seed.Seed{
			{Contig: 0, QBeg: 0, QEnd: 4, RBeg: 0, REnd: 4},
			{Contig: 0, QBeg: 4, QEnd: 8, RBeg: 5, REnd: 9},
		},
		Score: 8,
	}
	res := ExtendChain(query, ref, c, defaultParams(), NewBuffer())
	assert.Equal(t, 0, res.QueryStart)
	assert.Equal(t, 8, res.QueryEnd)
	assert.Equal(t, 0, res.RefStart)
	assert.Equal(t, 9, res.RefEnd)
}

func TestExtendChainEmptyChain(t *testing.T) {
	res := ExtendChain([]byte("ACGT"), []byte("ACGT"), chain.Chain{}, defaultParams(), NewBuffer())
	assert.Equal(t, Result{}, res)
}
