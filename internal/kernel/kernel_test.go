package kernel

import (
	"testing"

	"shamsched/internal/config"
)

func TestNewContextBootstrapsMainAsRunning(t *testing.T) {
	ctx := NewContext(config.Default())
	if ctx.Current == nil {
		t.Fatalf("expected a bootstrap Current thread")
	}
	if ctx.Current.Name != "main" {
		t.Fatalf("Current.Name = %q, want \"main\"", ctx.Current.Name)
	}
}

func TestForkMakesThreadReadyWithoutPreemptingCurrent(t *testing.T) {
	ctx := NewContext(config.Default())
	main := ctx.Current

	ctx.Fork("worker", 60, nil)

	if ctx.Current != main {
		t.Fatalf("Fork must not itself dispatch the new thread")
	}
}

func TestYieldDispatchesHigherBandThread(t *testing.T) {
	ctx := NewContext(config.Default())

	worker := ctx.Fork("worker", 120, nil) // L1, above main's L2 priority

	ctx.Yield()

	if ctx.Current != worker {
		t.Fatalf("expected Yield to dispatch the L1 thread, got %v", ctx.Current.Name)
	}
}

func TestYieldIsNoOpWhenNoOtherThreadReady(t *testing.T) {
	ctx := NewContext(config.Default())
	main := ctx.Current

	ctx.Yield()

	if ctx.Current != main {
		t.Fatalf("expected Yield to be a no-op with no other ready thread")
	}
}

func TestTickYieldsL3ThreadWhenHigherBandContenderArrives(t *testing.T) {
	cfg := config.Default()
	ctx := NewContext(cfg)

	batch := ctx.Fork("batch", 10, nil) // L3
	ctx.Yield()
	if ctx.Current != batch {
		t.Fatalf("expected batch dispatched onto the CPU, got %v", ctx.Current.Name)
	}

	urgent := ctx.Fork("urgent", 120, nil) // L1, should preempt batch on the next tick

	ctx.Tick()

	if ctx.Current != urgent {
		t.Fatalf("expected the L1 contender to preempt the running L3 thread, got %v", ctx.Current.Name)
	}
}

func TestTickAgesAndPromotesAStarvedReadyThread(t *testing.T) {
	cfg := config.Default()
	ctx := NewContext(cfg)

	starved := ctx.Fork("starved", 40, nil) // L3

	for i := 0; i < cfg.AgingThreshold; i++ {
		ctx.Tick()
	}

	if got := starved.Priority(); got <= 40 {
		t.Fatalf("expected starved thread to have been promoted by aging, priority = %d", got)
	}
}

func TestFinishReclaimsAndSwitchesAway(t *testing.T) {
	ctx := NewContext(config.Default())
	_ = ctx.Fork("successor", 120, nil)

	ctx.Finish()

	if ctx.Current.Name != "successor" {
		t.Fatalf("expected successor to be dispatched after Finish, got %v", ctx.Current.Name)
	}
}
