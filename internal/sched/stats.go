package sched

import "gonum.org/v1/gonum/stat"

// Snapshot reports simple distributional diagnostics over the ready lists,
// in the spirit of the original Scheduler::Print but quantitative rather
// than a dump of thread names.
type Snapshot struct {
	ReadyCount int

	MeanWaitTicks   float64
	StdDevWaitTicks float64

	MeanBurst   float64
	StdDevBurst float64
}

// Stats computes a Snapshot over every thread currently on L1, L2, or L3.
// Called for operator/debug visibility only; never consulted by dispatch or
// aging logic.
func (s *Scheduler) Stats() Snapshot {
	var waits, bursts []float64
	for _, l := range []*readyList{&s.level1, &s.level2, &s.level3} {
		for cur := l.head; cur != nil; cur = cur.next {
			waits = append(waits, float64(cur.val.WaitingTicks()))
			bursts = append(bursts, float64(cur.val.RemainBurst()))
		}
	}

	snap := Snapshot{ReadyCount: len(waits)}
	if len(waits) == 0 {
		return snap
	}

	snap.MeanWaitTicks = stat.Mean(waits, nil)
	snap.StdDevWaitTicks = stat.StdDev(waits, nil)
	snap.MeanBurst = stat.Mean(bursts, nil)
	snap.StdDevBurst = stat.StdDev(bursts, nil)
	return snap
}
