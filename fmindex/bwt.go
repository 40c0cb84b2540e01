package fmindex

// BuildBWT derives the Burrows-Wheeler transform of text from its
// suffix array: BWT[i] = text[(sa[i] - 1) mod N]. A single pass,
// constant memory beyond the output.
func BuildBWT(text []byte, sa []uint32) []byte {
	n := len(text)
	bwt := make([]byte, n)
	for i, pos := range sa {
		if pos == 0 {
			bwt[i] = text[n-1]
		} else {
			bwt[i] = text[pos-1]
		}
	}
	return bwt
}
