// Package machine stands in for the machine-dependent register/stack swap
// the scheduler calls but never implements itself. The address-space
// save/restore hooks are not here: they are the AddressSpace interface in
// package tcb. Real context switching is explicitly out of scope for this
// repository (see spec §1); Switch exists only so sched.Run has a
// concrete call site shaped like the original's SWITCH(old, new).
package machine

import (
	log "github.com/sirupsen/logrus"

	"shamsched/internal/tcb"
)

// Switch simulates the machine-dependent context switch. There is no real
// stack or register file in this simulation, so Switch is a synchronous,
// logged no-op: by the time it is called, sched.Run has already moved every
// piece of visible TCB state, so nothing further needs to happen for the
// "switch" to be observably complete.
func Switch(old, next *tcb.TCB) {
	log.WithFields(log.Fields{
		"from": old.ID,
		"to":   next.ID,
	}).Debug("[MACHINE] SWITCH")
}
