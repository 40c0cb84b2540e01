// Package chain groups seed.Seed values into colinear chains with a
// 1-D dynamic program, extracts multiple candidate chains per contig
// by greedy seed removal, and filters weak or redundant chains. It is
// grounded on original_source/bwa-rust's src/align/chain.rs, reworked
// around the Go seed.Seed type.
package chain

import (
	"sort"

	"github.com/biosuite/bwamem/seed"
)

// Chain is a colinear run of seeds on one contig, ordered by
// increasing read position. Score is the DP chaining score (the sum
// of the seed lengths that make up the chain).
type Chain struct {
	Contig int
	Seeds  []seed.Seed
	Score  uint32
}

// QueryRange returns the [min qb, max qe) span the chain covers on
// the read.
func (c Chain) QueryRange() (min, max int) {
	min, max = c.Seeds[0].QBeg, c.Seeds[0].QEnd
	for _, s := range c.Seeds[1:] {
		if s.QBeg < min {
			min = s.QBeg
		}
		if s.QEnd > max {
			max = s.QEnd
		}
	}
	return min, max
}

// BestChain runs the 1-D chaining DP over seeds and returns the single
// highest-scoring chain, or ok=false if seeds is empty. Two seeds i
// (earlier) then j (later) may chain only if they don't overlap on
// either the read or the reference, and if the gap on both axes is at
// most maxGap.
func BestChain(seeds []seed.Seed, maxGap int) (Chain, bool) {
	if len(seeds) == 0 {
		return Chain{}, false
	}

	order := make([]int, len(seeds))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		sa, sb := seeds[order[a]], seeds[order[b]]
		if sa.Contig != sb.Contig {
			return sa.Contig < sb.Contig
		}
		if sa.QBeg != sb.QBeg {
			return sa.QBeg < sb.QBeg
		}
		return sa.RBeg < sb.RBeg
	})

	n := len(order)
	dp := make([]uint32, n)
	prev := make([]int, n)
	for i := range prev {
		prev[i] = -1
	}
	bestT := -1

	for t, i := range order {
		si := seeds[i]
		lenI := uint32(si.Len())
		dp[t] = lenI

		for u := 0; u < t; u++ {
			j := order[u]
			sj := seeds[j]
			if sj.Contig != si.Contig {
				continue
			}
			if sj.QEnd > si.QBeg || sj.REnd > si.RBeg {
				continue
			}
			gapQ := si.QBeg - sj.QEnd
			gapR := int(si.RBeg - sj.REnd)
			if gapQ > maxGap || gapR > maxGap {
				continue
			}
			cand := dp[u] + lenI
			if cand > dp[t] {
				dp[t] = cand
				prev[t] = u
			}
		}

		if bestT < 0 || dp[t] > dp[bestT] {
			bestT = t
		}
	}

	var chainOrder []int
	for t := bestT; t >= 0; t = prev[t] {
		chainOrder = append(chainOrder, order[t])
	}
	for l, r := 0, len(chainOrder)-1; l < r; l, r = l+1, r-1 {
		chainOrder[l], chainOrder[r] = chainOrder[r], chainOrder[l]
	}

	chainSeeds := make([]seed.Seed, len(chainOrder))
	for i, idx := range chainOrder {
		chainSeeds[i] = seeds[idx]
	}

	return Chain{
		Contig: seeds[chainOrder[0]].Contig,
		Seeds:  chainSeeds,
		Score:  dp[bestT],
	}, true
}

// maxChainsPerContig bounds how many chains greedy extraction pulls
// out of a single contig's seed set before giving up; beyond this the
// remaining seeds are assumed to be noise rather than real secondary
// loci.
const maxChainsPerContig = 5

// BuildChains groups seeds by contig and, within each contig,
// greedily extracts up to maxChainsPerContig chains: find the best
// chain, remove its seeds, repeat. The result is sorted by descending
// score.
func BuildChains(seeds []seed.Seed, maxGap int) []Chain {
	if len(seeds) == 0 {
		return nil
	}

	byContig := make(map[int][]seed.Seed)
	for _, s := range seeds {
		byContig[s.Contig] = append(byContig[s.Contig], s)
	}

	var chains []Chain
	for _, contigSeeds := range byContig {
		remaining := append([]seed.Seed(nil), contigSeeds...)
		for i := 0; i < maxChainsPerContig && len(remaining) > 0; i++ {
			c, ok := BestChain(remaining, maxGap)
			if !ok {
				break
			}
			used := make(map[seed.Seed]bool, len(c.Seeds))
			for _, s := range c.Seeds {
				used[s] = true
			}
			kept := remaining[:0]
			for _, s := range remaining {
				if !used[s] {
					kept = append(kept, s)
				}
			}
			remaining = kept
			chains = append(chains, c)
		}
	}

	sort.Slice(chains, func(i, j int) bool { return chains[i].Score > chains[j].Score })
	return chains
}

// maxOverlapFraction is FilterChains's redundant-chain threshold.
const maxOverlapFraction = 0.8

// FilterChains drops chains scoring below minScoreRatio of the best
// chain's score, then drops any remaining chain whose read-coverage
// span overlaps an earlier (higher- or equal-scoring) surviving
// chain's span by more than 80% of the shorter span — a near-
// duplicate alignment locus rather than an independent one. chains
// must already be sorted by descending score (BuildChains's
// postcondition).
func FilterChains(chains []Chain, minScoreRatio float64) []Chain {
	if len(chains) == 0 {
		return chains
	}

	bestScore := chains[0].Score
	threshold := float64(bestScore) * minScoreRatio

	filtered := chains[:0]
	for _, c := range chains {
		if float64(c.Score) >= threshold {
			filtered = append(filtered, c)
		}
	}
	chains = filtered

	keep := make([]bool, len(chains))
	for i := range keep {
		keep[i] = true
	}
	ranges := make([][2]int, len(chains))
	for i, c := range chains {
		lo, hi := c.QueryRange()
		ranges[i] = [2]int{lo, hi}
	}

	for i := range chains {
		if !keep[i] {
			continue
		}
		qiMin, qiMax := ranges[i][0], ranges[i][1]
		for j := i + 1; j < len(chains); j++ {
			if !keep[j] {
				continue
			}
			qjMin, qjMax := ranges[j][0], ranges[j][1]

			overlapStart := qiMin
			if qjMin > overlapStart {
				overlapStart = qjMin
			}
			overlapEnd := qiMax
			if qjMax < overlapEnd {
				overlapEnd = qjMax
			}
			if overlapEnd <= overlapStart {
				continue
			}
			overlapLen := overlapEnd - overlapStart
			shorterLen := qiMax - qiMin
			if l := qjMax - qjMin; l < shorterLen {
				shorterLen = l
			}
			if shorterLen > 0 && float64(overlapLen)/float64(shorterLen) > maxOverlapFraction {
				keep[j] = false
			}
		}
	}

	out := chains[:0]
	for i, c := range chains {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}
