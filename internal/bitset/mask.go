// Package bitset implements the small fixed-width protocol-id sets used
// throughout protoselect: sets of protocols as bit masks in a single
// machine word, with stable ascending-id iteration.
package bitset

import "math/bits"

// MaxProtocols is the bound on registry size: one bit per protocol id
// in a single uint64 mask word.
const MaxProtocols = 64

// Mask is a set of protocol ids in [0, MaxProtocols).
type Mask uint64

// Set returns the mask with id added.
func (m Mask) Set(id int) Mask { return m | 1<<uint(id) }

// Clear returns the mask with id removed.
func (m Mask) Clear(id int) Mask { return m &^ (1 << uint(id)) }

// Has reports whether id is a member.
func (m Mask) Has(id int) bool { return m&(1<<uint(id)) != 0 }

// Empty reports whether the mask has no members.
func (m Mask) Empty() bool { return m == 0 }

// PopCount returns the number of members.
func (m Mask) PopCount() int { return bits.OnesCount64(uint64(m)) }

// Intersect returns the members common to both masks.
func (m Mask) Intersect(o Mask) Mask { return m & o }

// Union returns the members of either mask.
func (m Mask) Union(o Mask) Mask { return m | o }

// ForEach calls f for every member id, in ascending order (lowest
// protocol id first), stopping early if f returns false.
func (m Mask) ForEach(f func(id int) bool) {
	for m != 0 {
		id := bits.TrailingZeros64(uint64(m))
		if !f(id) {
			return
		}
		m = m.Clear(id)
	}
}
