package mem

// Stats accumulates per-batch alignment counters. It is grounded on
// the accumulate-and-merge pattern of the teacher's fusion.Stats:
// each worker keeps its own Stats and the orchestrator folds them
// together with Merge once a batch completes.
type Stats struct {
	ReadsTotal     int64
	ReadsMapped    int64
	ReadsUnmapped  int64
	SeedsGenerated int64
	ChainsBuilt    int64
	SwInvocations  int64
}

// Merge folds other's counters into s.
func (s *Stats) Merge(other Stats) {
	s.ReadsTotal += other.ReadsTotal
	s.ReadsMapped += other.ReadsMapped
	s.ReadsUnmapped += other.ReadsUnmapped
	s.SeedsGenerated += other.SeedsGenerated
	s.ChainsBuilt += other.ChainsBuilt
	s.SwInvocations += other.SwInvocations
}
