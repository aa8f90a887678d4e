package vm

import (
	"fmt"

	"github.com/woupiestek/rlox/internal/value"
)

// pool is a typed arena: objects are addressed by compact handles, freed
// slots go on a free list, and mark bits live outside the objects. Slots
// hold pointers so object addresses stay stable across pool growth.
type pool[T any] struct {
	slots []*T
	alive bitset
	marks bitset
	free  []uint32
	live  int
}

func (p *pool[T]) allocate(obj T) value.Handle {
	p.live++
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		p.slots[idx] = &obj
		p.alive.set(idx)
		return value.Handle(idx)
	}
	idx := uint32(len(p.slots))
	p.slots = append(p.slots, &obj)
	p.alive.set(idx)
	return value.Handle(idx)
}

func (p *pool[T]) get(h value.Handle) *T {
	if !p.alive.has(uint32(h)) {
		panic(fmt.Sprintf("dangling handle %d", h))
	}
	return p.slots[h]
}

func (p *pool[T]) freeSlot(h value.Handle) {
	idx := uint32(h)
	p.alive.clear(idx)
	p.slots[idx] = nil
	p.free = append(p.free, idx)
	p.live--
}

// mark sets the mark bit and reports whether the handle was unmarked, so
// the marker only grays each object once.
func (p *pool[T]) mark(h value.Handle) bool {
	idx := uint32(h)
	if p.marks.has(idx) {
		return false
	}
	p.marks.set(idx)
	return true
}

func (p *pool[T]) isMarked(h value.Handle) bool {
	return p.marks.has(uint32(h))
}

func (p *pool[T]) clearMarks() {
	p.marks.reset()
}

// sweep frees every live, unmarked slot, invoking onFree before release so
// the heap can adjust byte accounting.
func (p *pool[T]) sweep(onFree func(h value.Handle, obj *T)) {
	for idx := range p.slots {
		i := uint32(idx)
		if !p.alive.has(i) || p.marks.has(i) {
			continue
		}
		h := value.Handle(i)
		if onFree != nil {
			onFree(h, p.slots[idx])
		}
		p.freeSlot(h)
	}
}

// iterLive calls fn for every live handle.
func (p *pool[T]) iterLive(fn func(h value.Handle, obj *T)) {
	for idx := range p.slots {
		i := uint32(idx)
		if p.alive.has(i) {
			fn(value.Handle(i), p.slots[idx])
		}
	}
}
