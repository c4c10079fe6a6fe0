// Package kernel wires the scheduler, alarm, and interrupt gate together
// behind a single explicit Context, replacing the original's ambient
// globals (kernel->currentThread, kernel->stats->totalTicks, the scheduler
// singleton) with values passed through every call — see spec §9.
package kernel

import (
	log "github.com/sirupsen/logrus"

	"shamsched/internal/alarm"
	"shamsched/internal/config"
	"shamsched/internal/interrupt"
	"shamsched/internal/sched"
	"shamsched/internal/tcb"
)

// Context bundles current thread, tick count, scheduler, alarm, and
// interrupt gate: everything a scheduling decision needs, passed
// explicitly instead of read from package-level state.
type Context struct {
	cfg config.Constants

	Sched *sched.Scheduler
	Alarm *alarm.Alarm
	Gate  *interrupt.Gate

	Current    *tcb.TCB
	TotalTicks int

	threads map[int]*tcb.TCB
	nextID  int
}

// NewContext builds a Context with an initial bootstrap thread as Current,
// already RUNNING, at the lowest L2 priority.
func NewContext(cfg config.Constants) *Context {
	ctx := &Context{
		cfg:     cfg,
		Sched:   sched.New(cfg),
		Alarm:   alarm.New(cfg.Quantum),
		Gate:    interrupt.New(),
		threads: make(map[int]*tcb.TCB),
	}

	main := ctx.newTCB("main", cfg.Band2Min)
	main.UpdateQueueLevel(cfg.Band(main.Priority()))
	main.SetStatus(tcb.Running)
	main.ResetStartRunningTick(0)
	ctx.Current = main
	return ctx
}

func (ctx *Context) newTCB(name string, priority int) *tcb.TCB {
	ctx.nextID++
	t := tcb.New(ctx.nextID, name, priority)
	ctx.threads[t.ID] = t
	return t
}

// Thread looks up a previously Fork'd (or the bootstrap) thread by id.
func (ctx *Context) Thread(id int) *tcb.TCB { return ctx.threads[id] }

// Fork creates a new JUST_CREATED thread at the given priority and makes it
// ready to run. space may be nil for a kernel-only thread.
func (ctx *Context) Fork(name string, priority int, space tcb.AddressSpace) *tcb.TCB {
	t := ctx.newTCB(name, priority)
	t.Space = space

	old := ctx.Gate.SetLevel(interrupt.Off)
	ctx.Sched.ReadyToRun(ctx.TotalTicks, ctx.Gate, t)
	ctx.Gate.SetLevel(old)
	return t
}

// Yield relinquishes the CPU if another thread is ready to run. If none is,
// Current simply keeps running — matching the reference scheduler, which
// never re-enqueues a lone running thread just to immediately redispatch
// it (spec §8 scenario 4: a solitary L3 thread's quantum expiring is an
// observable no-op).
func (ctx *Context) Yield() {
	old := ctx.Gate.SetLevel(interrupt.Off)
	defer ctx.Gate.SetLevel(old)

	next := ctx.Sched.FindNextToRun(ctx.TotalTicks, ctx.Gate)
	if next == nil {
		return
	}

	current := ctx.Current
	ctx.Sched.ReadyToRun(ctx.TotalTicks, ctx.Gate, current)
	ctx.dispatch(next, false)
}

// Sleep puts Current to sleep and dispatches the next ready thread.
// Precondition: interrupts disabled; if this is a genuine block (not a
// Finish), the caller has already set Current's status to Blocked.
func (ctx *Context) Sleep(finishing bool) {
	ctx.Gate.AssertOff("kernel: Sleep requires interrupts disabled")

	current := ctx.Current
	if current.Status() == tcb.Blocked {
		// The burst estimator consumes T exactly once, here, at the
		// RUNNING->BLOCKED transition — never inside sched.Run.
		current.UpdateRemainBurst()
		current.ResetStartWaitingTick(ctx.TotalTicks)
		ctx.Sched.WaitAppend(current)
	}

	next := ctx.Sched.FindNextToRun(ctx.TotalTicks, ctx.Gate)
	if next == nil {
		panic("kernel: deadlock — no thread ready to run")
	}
	ctx.dispatch(next, finishing)
}

// Finish marks Current as finished and relinquishes the CPU for the last
// time; the scheduler reclaims it once the next thread begins running.
func (ctx *Context) Finish() {
	ctx.Gate.SetLevel(interrupt.Off)
	ctx.Current.SetStatus(tcb.Zombie)
	ctx.Sleep(true)
}

// dispatch runs Sched.Run and updates Current to next.
func (ctx *Context) dispatch(next *tcb.TCB, finishing bool) {
	ctx.Sched.Run(ctx.TotalTicks, ctx.Gate, ctx.Current, next, finishing)
	ctx.Current = next
}

// Tick drives one timer interrupt: advances TotalTicks, runs the alarm with
// interrupts disabled, restores the interrupt level, then performs the
// deferred yield if the alarm requested one. This is the deterministic
// tick-driven harness spec §9 calls for; cmd/shamsched drives the scheduler
// only through repeated calls to Tick, as do the kernel tests of tick-driven
// preemption and aging.
func (ctx *Context) Tick() {
	ctx.TotalTicks++

	old := ctx.Gate.SetLevel(interrupt.Off)
	ctx.Alarm.CallBack(ctx.TotalTicks, ctx.Gate, ctx.Sched, ctx.Current)
	ctx.Gate.SetLevel(old)

	if ctx.Gate.ConsumeYieldOnReturn() {
		log.WithField("tick", ctx.TotalTicks).Debug("[KERNEL] yield on return")
		ctx.Yield()
	}
}
