package vm

import (
	"fmt"
	"testing"

	"github.com/woupiestek/rlox/internal/value"
)

func TestFNV1a32KnownVectors(t *testing.T) {
	cases := []struct {
		in   string
		want uint32
	}{
		{"", 2166136261},
		{"a", 0xe40c292c},
		{"foobar", 0xbf9cf968},
	}
	for _, tc := range cases {
		if got := fnv1a32(tc.in); got != tc.want {
			t.Errorf("fnv1a32(%q) = %#x, want %#x", tc.in, got, tc.want)
		}
	}
}

func TestStringPoolGrowthKeepsHandles(t *testing.T) {
	h := NewHeap(HeapOptions{}, nil)
	roots := &handleRoots{}
	h.AddRoots(roots)

	// Enough strings to force several index doublings past the initial
	// capacity.
	handles := make(map[string]value.Handle)
	for i := 0; i < initialStringCap*4; i++ {
		s := fmt.Sprintf("str-%d", i)
		v := h.Intern(s)
		handles[s] = v.H
		roots.vals = append(roots.vals, v)
	}
	for s, want := range handles {
		got := h.Intern(s)
		if got.H != want {
			t.Fatalf("%q re-interned to %d, want %d", s, got.H, want)
		}
	}
}

func TestStringPoolCollisionsProbe(t *testing.T) {
	var sp stringPool
	// Force every entry onto the same probe start by faking equal hashes.
	a := sp.objs.allocate(StringObj{Bytes: "first", Hash: 7})
	sp.insert(a)
	b := sp.objs.allocate(StringObj{Bytes: "second", Hash: 7})
	sp.insert(b)

	if got, ok := sp.lookup("first", 7); !ok || got != a {
		t.Fatalf("lookup(first) = %d,%v", got, ok)
	}
	if got, ok := sp.lookup("second", 7); !ok || got != b {
		t.Fatalf("lookup(second) = %d,%v", got, ok)
	}
	if _, ok := sp.lookup("third", 7); ok {
		t.Fatal("absent content with a colliding hash must miss")
	}
}

func TestRebuildIndexDropsUnmarked(t *testing.T) {
	var sp stringPool
	keep := sp.objs.allocate(StringObj{Bytes: "keep", Hash: fnv1a32("keep")})
	sp.insert(keep)
	drop := sp.objs.allocate(StringObj{Bytes: "drop", Hash: fnv1a32("drop")})
	sp.insert(drop)

	sp.objs.mark(keep)
	sp.rebuildIndex()
	sp.objs.clearMarks()

	if _, ok := sp.lookup("drop", fnv1a32("drop")); ok {
		t.Fatal("unmarked string still in index after rebuild")
	}
	if got, ok := sp.lookup("keep", fnv1a32("keep")); !ok || got != keep {
		t.Fatalf("marked string lost: %d,%v", got, ok)
	}
	if sp.count != 1 {
		t.Fatalf("count = %d, want 1", sp.count)
	}
}

func TestPoolFreeListReusesSlots(t *testing.T) {
	var p pool[Upvalue]
	a := p.allocate(Upvalue{Slot: 1})
	b := p.allocate(Upvalue{Slot: 2})
	p.freeSlot(a)

	c := p.allocate(Upvalue{Slot: 3})
	if c != a {
		t.Fatalf("freed slot %d not reused, got %d", a, c)
	}
	if p.get(b).Slot != 2 {
		t.Fatalf("neighbor slot corrupted")
	}
	if p.get(c).Slot != 3 {
		t.Fatalf("reused slot holds stale data")
	}
}
