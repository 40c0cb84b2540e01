package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosuite/bwamem/seed"
)

func sd(contig, qb, qe int, rb, re uint32) seed.Seed {
	return seed.Seed{Contig: contig, QBeg: qb, QEnd: qe, RBeg: rb, REnd: re}
}

func TestBestChainSimpleDiagonal(t *testing.T) {
	seeds := []seed.Seed{
		sd(0, 0, 4, 0, 4),
		sd(0, 4, 8, 4, 8),
	}
	c, ok := BestChain(seeds, 10)
	require.True(t, ok)
	assert.Equal(t, 0, c.Contig)
	assert.Len(t, c.Seeds, 2)
	assert.Equal(t, uint32(8), c.Score)
}

func TestBestChainAvoidsOverlappingAndFarGaps(t *testing.T) {
	seeds := []seed.Seed{
		sd(0, 0, 4, 0, 4),
		sd(0, 3, 6, 3, 6),
		sd(0, 20, 24, 20, 24),
		sd(0, 4, 8, 4, 8),
	}
	c, ok := BestChain(seeds, 10)
	require.True(t, ok)
	require.Len(t, c.Seeds, 2)
	assert.Equal(t, 0, c.Seeds[0].QBeg)
	assert.Equal(t, 4, c.Seeds[1].QBeg)
	assert.Equal(t, uint32(8), c.Score)
}

func TestBestChainEmpty(t *testing.T) {
	_, ok := BestChain(nil, 10)
	assert.False(t, ok)
}

func TestBuildChainsMulti(t *testing.T) {
	seeds := []seed.Seed{
		sd(0, 0, 4, 0, 4),
		sd(0, 4, 8, 4, 8),
		sd(0, 0, 4, 100, 104),
		sd(0, 4, 8, 104, 108),
	}
	chains := BuildChains(seeds, 10)
	assert.GreaterOrEqual(t, len(chains), 2)
	// sorted descending by score
	for i := 1; i < len(chains); i++ {
		assert.GreaterOrEqual(t, chains[i-1].Score, chains[i].Score)
	}
}

func TestBuildChainsSeparatesContigs(t *testing.T) {
	seeds := []seed.Seed{
		sd(0, 0, 10, 0, 10),
		sd(1, 0, 6, 0, 6),
	}
	chains := BuildChains(seeds, 10)
	require.Len(t, chains, 2)
	contigs := map[int]bool{chains[0].Contig: true, chains[1].Contig: true}
	assert.True(t, contigs[0])
	assert.True(t, contigs[1])
}

func TestFilterChainsRemovesWeak(t *testing.T) {
	chains := []Chain{
		{Contig: 0, Seeds: []seed.Seed{sd(0, 0, 20, 0, 20)}, Score: 20},
		{Contig: 0, Seeds: []seed.Seed{sd(0, 0, 3, 100, 103)}, Score: 3},
	}
	out := FilterChains(chains, 0.5)
	require.Len(t, out, 1)
	assert.Equal(t, uint32(20), out[0].Score)
}

func TestFilterChainsRemovesOverlappingRedundant(t *testing.T) {
	chains := []Chain{
		{Contig: 0, Seeds: []seed.Seed{sd(0, 0, 20, 0, 20)}, Score: 20},
		{Contig: 0, Seeds: []seed.Seed{sd(0, 1, 19, 500, 518)}, Score: 18},
		{Contig: 0, Seeds: []seed.Seed{sd(0, 40, 60, 1000, 1020)}, Score: 20},
	}
	out := FilterChains(chains, 0.1)
	require.Len(t, out, 2)
	lo, hi := out[0].QueryRange()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 20, hi)
	lo2, hi2 := out[1].QueryRange()
	assert.Equal(t, 40, lo2)
	assert.Equal(t, 60, hi2)
}

func TestFilterChainsEmpty(t *testing.T) {
	assert.Empty(t, FilterChains(nil, 0.5))
}

func TestChainQueryRangeSpansAllSeeds(t *testing.T) {
	c := Chain{Seeds: []seed.Seed{sd(0, 5, 10, 0, 5), sd(0, 20, 30, 15, 25)}}
	lo, hi := c.QueryRange()
	assert.Equal(t, 5, lo)
	assert.Equal(t, 30, hi)
}
