// Package sched implements the three-level multilevel-feedback ready queue:
// L1 (SRTF), L2 (priority), L3 (round-robin/FIFO), plus aging and dispatch.
//
// The dispatch entry points (ReadyToRun, FindNextToRun, Run) assert that
// interrupts are disabled. This
// package never disables interrupts itself and never blocks — that is the
// caller's (internal/kernel's) job; see spec §5 for why locks have no place
// here.
package sched

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"shamsched/internal/config"
	"shamsched/internal/interrupt"
	"shamsched/internal/machine"
	"shamsched/internal/tcb"
)

// Scheduler owns the three ready lists, the waiting-set membership list,
// and the pending-reclamation slot.
type Scheduler struct {
	cfg config.Constants

	level1 readyList // sorted ascending by burst time (SRTF)
	level2 readyList // sorted descending by priority
	level3 readyList // FIFO

	waiting   readyList // membership only; order is irrelevant
	destroyed *tcb.TCB
}

// New builds an empty scheduler configured with cfg.
func New(cfg config.Constants) *Scheduler {
	return &Scheduler{cfg: cfg}
}

// Level1Comp orders by ascending remaining burst (shortest first). Returns
// -1/0/+1 like the reference implementation's comparator. Used both by the
// alarm's SRTF preemption check and by InsertToReadyList's L1 ordering
// (via level1Less), so the two never drift out of sync.
func Level1Comp(x, y *tcb.TCB) int {
	return cmp(x.RemainBurst(), y.RemainBurst())
}

// Level2Comp orders by descending priority (highest first). Used by
// InsertToReadyList's L2 ordering (via level2Less).
func Level2Comp(x, y *tcb.TCB) int {
	return cmp(y.Priority(), x.Priority())
}

func level1Less(a, b *tcb.TCB) bool { return Level1Comp(a, b) < 0 }
func level2Less(a, b *tcb.TCB) bool { return Level2Comp(a, b) < 0 }

// Level1Empty, Level2Empty, Level3Empty report whether the given ready list
// is empty. Used by the alarm to decide preemption.
func (s *Scheduler) Level1Empty() bool { return s.level1.IsEmpty() }
func (s *Scheduler) Level2Empty() bool { return s.level2.IsEmpty() }
func (s *Scheduler) Level3Empty() bool { return s.level3.IsEmpty() }

// GetLevel1Front, GetLevel2Front, GetLevel3Front peek at the head of the
// named ready list without removing it, or return nil if empty.
func (s *Scheduler) GetLevel1Front() *tcb.TCB { return s.level1.Front() }
func (s *Scheduler) GetLevel2Front() *tcb.TCB { return s.level2.Front() }
func (s *Scheduler) GetLevel3Front() *tcb.TCB { return s.level3.Front() }

// InsertToReadyList assigns t's queue level by its current priority band
// and inserts it into the matching ready list under that list's ordering
// discipline.
func (s *Scheduler) InsertToReadyList(now int, t *tcb.TCB) {
	band := s.cfg.Band(t.Priority())
	t.UpdateQueueLevel(band)

	switch band {
	case 1:
		s.level1.InsertSorted(t, level1Less)
	case 2:
		s.level2.InsertSorted(t, level2Less)
	default:
		s.level3.Append(t)
	}

	log.Info(fmt.Sprintf("[A] Tick [%d]: Thread [%d] is inserted into queue L[%d]", now, t.ID, band))
}

// ReadyToRun moves t onto a ready list. Precondition: interrupts disabled;
// t.Status() in {Running, Blocked, JustCreated}. Panics if t is already on a
// ready list.
func (s *Scheduler) ReadyToRun(now int, gate *interrupt.Gate, t *tcb.TCB) {
	gate.AssertOff("sched: operation requires interrupts disabled")
	if s.level1.Contains(t) || s.level2.Contains(t) || s.level3.Contains(t) {
		panic("sched: ReadyToRun called for a thread already on a ready list")
	}

	t.SetStatus(tcb.Ready)
	s.waiting.Remove(t)
	s.InsertToReadyList(now, t)
}

// FindNextToRun returns and removes the highest-priority dispatchable TCB:
// L1 front, else L2 front, else L3 front, else nil. Precondition: interrupts
// disabled.
func (s *Scheduler) FindNextToRun(now int, gate *interrupt.Gate) *tcb.TCB {
	gate.AssertOff("sched: operation requires interrupts disabled")

	var next *tcb.TCB
	var level int
	switch {
	case !s.level1.IsEmpty():
		next, level = s.level1.RemoveFront(), 1
	case !s.level2.IsEmpty():
		next, level = s.level2.RemoveFront(), 2
	case !s.level3.IsEmpty():
		next, level = s.level3.RemoveFront(), 3
	default:
		return nil
	}

	log.Info(fmt.Sprintf("[B] Tick [%d]: Thread [%d] is removed from queue L[%d]", now, next.ID, level))
	return next
}

// Run dispatches next onto the (simulated) CPU. Precondition: interrupts
// disabled; next is not presently linked into any ready list; the caller
// has already transitioned current's status to Ready, Blocked, or Zombie
// (any other status panics).
//
// If finishing is true, current is marked for reclamation once next begins
// running; toBeDestroyed must currently be empty.
func (s *Scheduler) Run(now int, gate *interrupt.Gate, current, next *tcb.TCB, finishing bool) {
	gate.AssertOff("sched: operation requires interrupts disabled")
	switch current.Status() {
	case tcb.Ready, tcb.Blocked, tcb.Zombie:
	default:
		panic(fmt.Sprintf("sched: Run called with outgoing thread in status %v", current.Status()))
	}

	if next != current {
		current.UpdateRunningTicks(now)
		log.Info(fmt.Sprintf(
			"[E] Tick [%d]: Thread [%d] is now selected for execution, thread [%d] is replaced, and it has executed [%d] ticks",
			now, next.ID, current.ID, current.RunningTicks()))
	}

	if current.Status() == tcb.Blocked {
		// UpdateRemainBurst already consumed T at the RUNNING->BLOCKED
		// transition; T is reset here, not recomputed from.
		current.ResetRunningTicks()
	}

	if current.Space != nil {
		current.Space.SaveState()
	}

	current.ResetWaitingTicks()

	if finishing {
		if s.destroyed != nil {
			panic("sched: Run(finishing=true) called with toBeDestroyed already set")
		}
		s.destroyed = current
	}

	next.ResetStartRunningTick(now)
	next.SetStatus(tcb.Running)

	machine.Switch(current, next)

	s.CheckToBeDestroyed()

	// On resumption this call is, conceptually, running again as current
	// (the thread that invoked Run) — restore its user state, not next's,
	// matching the original's "we're back, running oldThread".
	if current.Space != nil {
		current.Space.RestoreState()
	}
}

// CheckToBeDestroyed reclaims the pending thread, if any.
func (s *Scheduler) CheckToBeDestroyed() {
	if s.destroyed != nil {
		log.WithField("thread_id", s.destroyed.ID).Debug("[SCHED] reclaiming finished thread")
		s.destroyed = nil
	}
}

// UpdateAllWaitTicks advances W for every TCB sitting in L1, L2, L3, or the
// waiting set, then resets each one's waiting-tick start marker. Idempotent
// per tick: calling it twice at the same now adds zero the second time.
func (s *Scheduler) UpdateAllWaitTicks(now int) {
	for _, l := range []*readyList{&s.level1, &s.level2, &s.level3, &s.waiting} {
		for cur := l.head; cur != nil; cur = cur.next {
			cur.val.UpdateWaitingTicks(now)
			cur.val.ResetStartWaitingTick(now)
		}
	}
}

// Aging drains L3, then L2, then L1 into a scratch buffer, promoting any
// thread whose W has reached the aging threshold, then reinserts every
// drained thread via InsertToReadyList so promoted threads migrate bands.
//
// W is never reset here: a thread that stays above the threshold is
// promoted again on every subsequent tick until it hits PriorityMax or is
// dispatched. This is the spec's documented (if surprising) behavior, not a
// bug to be fixed.
func (s *Scheduler) Aging(now int) {
	var scratch []*tcb.TCB

	for _, l := range []*readyList{&s.level3, &s.level2, &s.level1} {
		for _, cur := range l.drainAll() {
			level := s.cfg.Band(cur.Priority())
			log.Info(fmt.Sprintf("[B] Tick [%d]: Thread [%d] is removed from queue L[%d]", now, cur.ID, level))
			if cur.WaitingTicks() >= s.cfg.AgingThreshold {
				cur.UpdatePriority(s.cfg.PromotionStep, s.cfg.PriorityMax)
			}
			scratch = append(scratch, cur)
		}
	}

	for _, cur := range scratch {
		s.InsertToReadyList(now, cur)
	}
}

// WaitAppend adds t to the waiting set. The caller is responsible for
// setting t.Status() to Blocked and for marking its wait-start tick. Panics
// if t is already in the waiting set.
func (s *Scheduler) WaitAppend(t *tcb.TCB) {
	if s.waiting.Contains(t) {
		panic("sched: WaitAppend called for a thread already in the waiting set")
	}
	s.waiting.Append(t)
}

