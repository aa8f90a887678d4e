package vm

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"

	"github.com/woupiestek/rlox/internal/value"
)

// openUpvalues tracks open upvalue cells by stack slot, ordered so closing
// everything at or above a slot is a suffix walk. At most one open cell
// exists per slot; closures capturing the same variable share it.
type openUpvalues struct {
	bySlot *treemap.Map
}

func newOpenUpvalues() openUpvalues {
	return openUpvalues{bySlot: treemap.NewWith(utils.IntComparator)}
}

// capture returns the open upvalue for slot, allocating one if none exists.
func (o *openUpvalues) capture(heap *Heap, slot int) value.Handle {
	if existing, ok := o.bySlot.Get(slot); ok {
		return existing.(value.Handle)
	}
	uv := heap.AllocUpvalue(slot)
	o.bySlot.Put(slot, uv.H)
	return uv.H
}

// closeFrom closes every open upvalue at or above slot: the stack value is
// copied into the cell and the cell leaves the open set.
func (o *openUpvalues) closeFrom(heap *Heap, stack []value.Value, slot int) {
	var doomed []int
	it := o.bySlot.Iterator()
	for it.End(); it.Prev(); {
		s := it.Key().(int)
		if s < slot {
			break
		}
		h := it.Value().(value.Handle)
		uv := heap.Upvalue(h)
		uv.Closed = stack[s]
		uv.Open = false
		doomed = append(doomed, s)
	}
	for _, s := range doomed {
		o.bySlot.Remove(s)
	}
}

// markAll grays every open cell so captured-but-unclosed variables survive
// collection even when no closure on the stack references them yet.
func (o *openUpvalues) markAll(m *Marker) {
	it := o.bySlot.Iterator()
	for it.Next() {
		m.MarkHandle(value.KindUpvalue, it.Value().(value.Handle))
	}
}

func (o *openUpvalues) reset() {
	o.bySlot.Clear()
}
