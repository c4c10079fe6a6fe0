package sched

import (
	"golang.org/x/exp/constraints"

	"shamsched/internal/tcb"
)

// node is one link in a readyList.
type node struct {
	val        *tcb.TCB
	prev, next *node
}

// readyList is a hand-rolled doubly linked list of TCBs with O(1) front
// removal and linear-scan insertion, matching the reference scheduler's
// List<Thread*>/SortedList<Thread*>: a library sorted container would not
// preserve the stable "new element goes after existing equals" tie-break
// this scheduler's L1/L2 insertion order depends on.
type readyList struct {
	head, tail *node
	size       int
}

func (l *readyList) Len() int      { return l.size }
func (l *readyList) IsEmpty() bool { return l.size == 0 }

// Front returns the first element without removing it, or nil if empty.
func (l *readyList) Front() *tcb.TCB {
	if l.head == nil {
		return nil
	}
	return l.head.val
}

// Append adds t at the tail (FIFO insertion, used by L3).
func (l *readyList) Append(t *tcb.TCB) {
	n := &node{val: t}
	if l.tail == nil {
		l.head, l.tail = n, n
	} else {
		n.prev = l.tail
		l.tail.next = n
		l.tail = n
	}
	l.size++
}

// InsertSorted inserts t keeping the list ordered by less: the element is
// placed immediately before the first existing element y for which
// less(t, y) holds, or at the tail if none. Ties (less(t,y) and less(y,t)
// both false) place t after y, preserving stable arrival order.
func (l *readyList) InsertSorted(t *tcb.TCB, less func(a, b *tcb.TCB) bool) {
	n := &node{val: t}
	for cur := l.head; cur != nil; cur = cur.next {
		if less(t, cur.val) {
			n.next = cur
			n.prev = cur.prev
			if cur.prev != nil {
				cur.prev.next = n
			} else {
				l.head = n
			}
			cur.prev = n
			l.size++
			return
		}
	}
	// no place found: append at tail
	l.Append(t)
}

// RemoveFront removes and returns the first element, or nil if empty.
func (l *readyList) RemoveFront() *tcb.TCB {
	if l.head == nil {
		return nil
	}
	n := l.head
	l.remove(n)
	return n.val
}

// Remove deletes t from the list if present; returns whether it was found.
func (l *readyList) Remove(t *tcb.TCB) bool {
	for cur := l.head; cur != nil; cur = cur.next {
		if cur.val == t {
			l.remove(cur)
			return true
		}
	}
	return false
}

// Contains reports whether t is currently linked into the list.
func (l *readyList) Contains(t *tcb.TCB) bool {
	for cur := l.head; cur != nil; cur = cur.next {
		if cur.val == t {
			return true
		}
	}
	return false
}

func (l *readyList) remove(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	l.size--
}

// drainAll removes every element, in order, and returns them.
func (l *readyList) drainAll() []*tcb.TCB {
	out := make([]*tcb.TCB, 0, l.size)
	for cur := l.head; cur != nil; cur = cur.next {
		out = append(out, cur.val)
	}
	l.head, l.tail, l.size = nil, nil, 0
	return out
}

// ascending reports whether a orders strictly before b under a generic
// Ordered key, used to build both Level1Comp (ascending burst time) and
// Level2Comp (descending priority) from a single helper.
func ascending[T constraints.Ordered](a, b T) bool { return a < b }

// cmp returns -1/0/+1 for a<b/a==b/a>b, the shared signum builder behind
// both Level1Comp and Level2Comp.
func cmp[T constraints.Ordered](a, b T) int {
	switch {
	case ascending(a, b):
		return -1
	case ascending(b, a):
		return 1
	default:
		return 0
	}
}
