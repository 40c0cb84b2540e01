package fmindex

import "sort"

// BuildSuffixArray computes the suffix array of coded text by
// prefix doubling: rank pairs (rank[i], rank[i+k]) are sorted at each
// round, with rank[i+k] treated as -1 past the end of the text (an
// implicit sentinel lower than any real rank). Sentinel bytes (code 0)
// participate as ordinary characters, matching the rest of the coded
// alphabet. Determinism across repeated calls on the same text is
// required for index round-trip tests.
func BuildSuffixArray(text []byte) []uint32 {
	n := len(text)
	if n == 0 {
		return nil
	}

	sa := make([]int, n)
	rank := make([]int32, n)
	tmp := make([]int32, n)
	for i := range sa {
		sa[i] = i
		rank[i] = int32(text[i])
	}

	rankAt := func(i, k int) int32 {
		if i+k < n {
			return rank[i+k]
		}
		return -1
	}

	for k := 1; k < n; k *= 2 {
		sort.Slice(sa, func(x, y int) bool {
			i, j := sa[x], sa[y]
			if rank[i] != rank[j] {
				return rank[i] < rank[j]
			}
			return rankAt(i, k) < rankAt(j, k)
		})

		tmp[sa[0]] = 0
		distinct := int32(0)
		for i := 1; i < n; i++ {
			a, b := sa[i-1], sa[i]
			sameHead := rank[a] == rank[b]
			sameTail := rankAt(a, k) == rankAt(b, k)
			if !(sameHead && sameTail) {
				distinct++
			}
			tmp[b] = distinct
		}
		copy(rank, tmp)
		if int(rank[sa[n-1]]) == n-1 {
			break
		}
	}

	out := make([]uint32, n)
	for i, v := range sa {
		out[i] = uint32(v)
	}
	return out
}
