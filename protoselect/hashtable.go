// Copyright 2015 Matthew Holt and The Caddy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package protoselect

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// slotState is the occupancy state of one hashTable slot.
type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

type tableSlot struct {
	state slotState
	key   SelectParam
	elem  SelectElem
}

// hashTable is an open-addressing map from SelectParam to SelectElem,
// storing values inline in a growable slice rather than as
// separately-heap-allocated objects behind a builtin Go map.
//
// This is a deliberate departure from the obvious "map[SelectParam]*SelectElem"
// Go encoding: a Go map stores pointer *values* unchanged across
// resizes, so pointer identity into it never breaks and the whole
// invalidation discipline described below would be vacuous. By
// keeping SelectElem values inline in growable, in-place-reusable
// slots (the way the source's hash table actually stores its entries),
// a pointer obtained from LookupFast before a later rehash or slot
// reuse can silently end up aliased to a different key's data — which
// is exactly the hazard the MRU cache's reset discipline exists to
// prevent.
type hashTable struct {
	slots []tableSlot
	count int // live entries
	tomb  int // tombstoned slots, counted against the load factor
}

const hashTableMinCap = 8

func newHashTable() *hashTable {
	return &hashTable{slots: make([]tableSlot, hashTableMinCap)}
}

func hashParam(p SelectParam) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], p.pack())
	return xxhash.Sum64(buf[:])
}

// find returns the slot index holding key, if occupied.
func (h *hashTable) find(key SelectParam) (int, bool) {
	mask := uint64(len(h.slots) - 1)
	i := hashParam(key) & mask
	for n := uint64(0); n < uint64(len(h.slots)); n++ {
		s := &h.slots[(i+n)&mask]
		switch s.state {
		case slotEmpty:
			return -1, false
		case slotOccupied:
			if s.key == key {
				return int((i + n) & mask), true
			}
		}
	}
	return -1, false
}

// reserve returns the slot index for key, inserting an empty entry if
// key is absent (growing the table first if the load factor demands
// it). The bool result reports whether key was already present.
//
// Growing reallocates the backing slice, so any index or pointer into
// the table obtained before a call to reserve that grows must be
// considered stale immediately after — this is why ProtoSelect resets
// its MRU cache right after every call to reserve.
func (h *hashTable) reserve(key SelectParam) (idx int, existed bool) {
	if idx, ok := h.find(key); ok {
		return idx, true
	}
	if (h.count+h.tomb+1)*2 > len(h.slots) {
		h.rehash(len(h.slots) * 2)
	}
	mask := uint64(len(h.slots) - 1)
	i := hashParam(key) & mask
	for h.slots[i].state == slotOccupied {
		i = (i + 1) & mask
	}
	h.slots[i] = tableSlot{state: slotOccupied, key: key}
	h.count++
	return int(i), false
}

func (h *hashTable) rehash(newSize int) {
	old := h.slots
	h.slots = make([]tableSlot, newSize)
	h.count, h.tomb = 0, 0
	mask := uint64(newSize - 1)
	for _, s := range old {
		if s.state != slotOccupied {
			continue
		}
		i := hashParam(s.key) & mask
		for h.slots[i].state == slotOccupied {
			i = (i + 1) & mask
		}
		h.slots[i] = s
		h.count++
	}
}

// at returns a pointer to the SelectElem stored at idx. The pointer is
// only valid until the next call to reserve (which may rehash) or
// deleteAt (which may reuse idx's memory for an unrelated key).
func (h *hashTable) at(idx int) *SelectElem {
	return &h.slots[idx].elem
}

// deleteAt tombstones idx so its slot can be reused by a future
// reserve, and clears its SelectElem so stale references don't keep
// its buffers alive.
func (h *hashTable) deleteAt(idx int) {
	h.slots[idx] = tableSlot{state: slotTombstone}
	h.count--
	h.tomb++
}

// forEach visits every live entry. It must not be called while
// mutating the table.
func (h *hashTable) forEach(f func(key SelectParam, elem *SelectElem)) {
	for i := range h.slots {
		if h.slots[i].state == slotOccupied {
			f(h.slots[i].key, &h.slots[i].elem)
		}
	}
}
