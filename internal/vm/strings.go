package vm

import (
	"github.com/woupiestek/rlox/internal/value"
)

const (
	initialStringCap = 64
	// Index grows when count exceeds 3/4 of capacity.
	stringLoadNum = 3
	stringLoadDen = 4
)

// fnv1a32 hashes a string with 32-bit FNV-1a.
func fnv1a32(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// stringPool interns strings: an arena of StringObj plus an open-addressed
// index from content hash to handle. The hash is never bumped on collision;
// distinct content sharing a hash just probes further. Entries store
// handle+1 so zero means empty. The index has no tombstones: deletion only
// happens during GC, which rebuilds the index from the surviving strings.
type stringPool struct {
	objs    pool[StringObj]
	entries []uint32
	count   int
}

func (sp *stringPool) lookup(s string, hash uint32) (value.Handle, bool) {
	if len(sp.entries) == 0 {
		return 0, false
	}
	mask := uint32(len(sp.entries) - 1)
	for i := hash & mask; ; i = (i + 1) & mask {
		e := sp.entries[i]
		if e == 0 {
			return 0, false
		}
		h := value.Handle(e - 1)
		obj := sp.objs.get(h)
		if obj.Hash == hash && obj.Bytes == s {
			return h, true
		}
	}
}

func (sp *stringPool) insert(h value.Handle) {
	if sp.entries == nil {
		sp.entries = make([]uint32, initialStringCap)
	}
	if (sp.count+1)*stringLoadDen > len(sp.entries)*stringLoadNum {
		sp.grow(len(sp.entries) * 2)
	}
	sp.place(h)
	sp.count++
}

func (sp *stringPool) place(h value.Handle) {
	hash := sp.objs.get(h).Hash
	mask := uint32(len(sp.entries) - 1)
	for i := hash & mask; ; i = (i + 1) & mask {
		if sp.entries[i] == 0 {
			sp.entries[i] = uint32(h) + 1
			return
		}
	}
}

func (sp *stringPool) grow(capacity int) {
	old := sp.entries
	sp.entries = make([]uint32, capacity)
	for _, e := range old {
		if e != 0 {
			sp.place(value.Handle(e - 1))
		}
	}
}

// rebuildIndex reinserts only marked strings. Called between unmark removal
// and the sweep of the string arena so the index never dangles.
func (sp *stringPool) rebuildIndex() {
	for i := range sp.entries {
		sp.entries[i] = 0
	}
	sp.count = 0
	sp.objs.iterLive(func(h value.Handle, _ *StringObj) {
		if sp.objs.isMarked(h) {
			sp.place(h)
			sp.count++
		}
	})
}
