package fmindex

// Stats summarizes a built Index for reporting purposes: bio-index
// logs these after a successful build the way the original Rust
// implementation's main.rs prints a summary line after indexing.
type Stats struct {
	TextLen      int
	NumContigs   int
	BlockSize    uint32
	NumOccBlocks int
}

// ComputeStats derives a Stats snapshot from idx.
func ComputeStats(idx *Index) Stats {
	numBlocks := 0
	if idx.Block > 0 {
		numBlocks = len(idx.OccSamples) / int(idx.Sigma)
	}
	return Stats{
		TextLen:      len(idx.Text),
		NumContigs:   len(idx.Contigs),
		BlockSize:    idx.Block,
		NumOccBlocks: numBlocks,
	}
}
