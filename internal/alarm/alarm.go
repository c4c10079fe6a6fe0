// Package alarm implements the preemption policy invoked on every timer
// tick: it updates accounting, runs aging, and decides whether to request a
// deferred yield.
package alarm

import (
	"shamsched/internal/interrupt"
	"shamsched/internal/sched"
	"shamsched/internal/tcb"
)

// Alarm holds nothing beyond what CallBack needs to close over; all
// mutable scheduling state lives in the Scheduler it is given.
type Alarm struct {
	quantum int
}

// New builds an Alarm enforcing the given L3 round-robin quantum.
func New(quantum int) *Alarm {
	return &Alarm{quantum: quantum}
}

// CallBack is the timer interrupt handler. Precondition: interrupts
// disabled; called once per tick with the current thread and the scheduler
// it should consult.
func (a *Alarm) CallBack(now int, gate *interrupt.Gate, s *sched.Scheduler, current *tcb.TCB) {
	gate.AssertOff("alarm: CallBack requires interrupts disabled")

	if current.Status() == tcb.Blocked {
		current.UpdateWaitingTicks(now)
		current.ResetStartWaitingTick(now)
	} else {
		current.UpdateRunningTicks(now)
		current.ResetStartRunningTick(now)
	}

	s.UpdateAllWaitTicks(now)
	s.Aging(now)

	switch current.QueueLevel() {
	case 3:
		if current.RunningTicks() >= a.quantum {
			gate.YieldOnReturn()
		} else if !s.Level2Empty() || !s.Level1Empty() {
			// Any higher band being non-empty should preempt L3; the
			// original only checks L2, relying on an invariant that does
			// not actually hold in every state (see DESIGN.md). We check
			// both bands explicitly, per the spec's own clarification.
			gate.YieldOnReturn()
		}
	case 2:
		if !s.Level1Empty() {
			gate.YieldOnReturn()
		}
	case 1:
		if front := s.GetLevel1Front(); front != nil && sched.Level1Comp(front, current) == -1 {
			gate.YieldOnReturn()
		}
	}
}
