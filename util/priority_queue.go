package util

import (
	"golang.org/x/exp/constraints"
)

//*******************************************
// priority queue (binary min-heap)
//*******************************************

type _PQEntry[T any, P constraints.Ordered] struct {
	item T
	prio P
}

type PriorityQueue[T any, P constraints.Ordered] struct {
	entries []_PQEntry[T, P]
}

func NewPriorityQueue[T any, P constraints.Ordered](capacity int) PriorityQueue[T, P] {
	return PriorityQueue[T, P]{
		entries: make([]_PQEntry[T, P], 0, capacity),
	}
}

func (self *PriorityQueue[T, P]) Enqueue(item T, prio P) {
	self.entries = append(self.entries, _PQEntry[T, P]{item, prio})
	self._Up(len(self.entries) - 1)
}

// Removes and returns the item with the lowest priority, false if the queue is empty.
func (self *PriorityQueue[T, P]) Dequeue() (T, bool) {
	if len(self.entries) == 0 {
		var t T
		return t, false
	}
	top := self.entries[0]
	last := len(self.entries) - 1
	self.entries[0] = self.entries[last]
	self.entries = self.entries[:last]
	if last > 0 {
		self._Down(0)
	}
	return top.item, true
}

func (self *PriorityQueue[T, P]) Length() int {
	return len(self.entries)
}

func (self *PriorityQueue[T, P]) _Up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if self.entries[parent].prio <= self.entries[i].prio {
			break
		}
		self.entries[parent], self.entries[i] = self.entries[i], self.entries[parent]
		i = parent
	}
}

func (self *PriorityQueue[T, P]) _Down(i int) {
	n := len(self.entries)
	for {
		smallest := i
		left := 2*i + 1
		right := left + 1
		if left < n && self.entries[left].prio < self.entries[smallest].prio {
			smallest = left
		}
		if right < n && self.entries[right].prio < self.entries[smallest].prio {
			smallest = right
		}
		if smallest == i {
			return
		}
		self.entries[smallest], self.entries[i] = self.entries[i], self.entries[smallest]
		i = smallest
	}
}
