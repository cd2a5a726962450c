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
	"math"

	"github.com/hic4sh1e/protoselect/internal/bitset"
)

// narrowed is the result of select_next: the sub-range
// [start, maxLength] in which the given active set competes, with each
// member's affine cost model at start already resolved.
type narrowed struct {
	active    bitset.Mask
	maxLength uint64
	perf      [bitset.MaxProtocols]Perf
}

// selectNext narrows the range starting at msgLength to the widest
// sub-range in which the set of candidate protocols and their cost
// models don't change, applying cfg_thresh overrides along the way.
func selectNext(mask bitset.Mask, caps *collected, msgLength uint64) (narrowed, error) {
	var n narrowed
	n.maxLength = MaxLength

	var validMask, forcedMask bitset.Mask

	mask.ForEach(func(id int) bool {
		c := caps.caps[id]

		if c.CfgThresh.IsInf() {
			// disabled for all message lengths; never joins valid_mask
			return true
		}
		if c.CfgThresh.IsFinite() {
			t := c.CfgThresh.Length()
			if t <= msgLength {
				forcedMask = forcedMask.Set(id)
			} else {
				// disabled below its threshold; bounds this sub-range
				if t-1 < n.maxLength {
					n.maxLength = t - 1
				}
				return true
			}
		}

		if msgLength < c.MinLength {
			// not yet active; bounds this sub-range the same way a
			// not-yet-forced cfg_thresh override does above, so the
			// protocol is picked up by selectNext's next call once
			// msgLength reaches MinLength.
			if c.MinLength-1 < n.maxLength {
				n.maxLength = c.MinLength - 1
			}
			return true
		}
		r, ok := c.rangeAt(msgLength)
		if !ok {
			return true
		}

		validMask = validMask.Set(id)
		n.perf[id] = r.Perf
		if r.MaxLength < n.maxLength {
			n.maxLength = r.MaxLength
		}
		return true
	})

	if validMask.Empty() {
		return narrowed{}, unsupportedAt(msgLength)
	}

	n.active = validMask
	if forced := forcedMask.Intersect(validMask); !forced.Empty() {
		n.active = forced
	}
	return n, nil
}

// rawEntry is one committed sub-interval from select_best, before
// priv-pointer resolution (which happens once, in initThresh, after
// the whole sweep completes).
type rawEntry struct {
	maxMsgLength uint64
	protoID      int
}

// selectBest implements the lower-envelope routine over
// [start, end] (both inclusive) for the given active set and their
// affine cost models.
func selectBest(start, end uint64, active bitset.Mask, perf *[bitset.MaxProtocols]Perf) []rawEntry {
	var entries []rawEntry
	cur := start

	for {
		x0 := float64(cur) + 0.5

		best := -1
		var bestVal float64
		active.ForEach(func(id int) bool {
			v := perf[id].Eval(x0)
			if best == -1 || v < bestVal {
				best, bestVal = id, v
			}
			return true
		})

		// nearest intersection with any other active protocol strictly
		// greater than start
		haveX := false
		var nearestX float64
		active.ForEach(func(id int) bool {
			if id == best {
				return true
			}
			x, ok := intersectX(perf[best], perf[id])
			if !ok {
				return true
			}
			if x <= float64(cur) {
				return true
			}
			if !haveX || x < nearestX {
				haveX, nearestX = true, x
			}
			return true
		})

		mid := end
		if haveX && nearestX < float64(end) && nearestX < math.MaxUint64 {
			floored := uint64(math.Floor(nearestX))
			if floored < end {
				mid = floored
			}
		}
		// guard against producing midpoint < start from float error
		// progress is still guaranteed
		// because the next start is midpoint+1.
		if mid < cur {
			mid = cur
		}

		entries = append(entries, rawEntry{maxMsgLength: mid, protoID: best})

		active = active.Clear(best)
		if mid >= end || active.Empty() {
			break
		}
		cur = mid + 1
	}

	return entries
}

// intersectX solves f_a(x) = f_b(x) for affine cost models a, b. It
// reports false when the lines are parallel (no single crossing
// point).
func intersectX(a, b Perf) (float64, bool) {
	dm := a.PerByte - b.PerByte
	if dm == 0 {
		return 0, false
	}
	return (b.Fixed - a.Fixed) / dm, true
}

// initThresh is the outer sweep over [0, SIZE_MAX] that drives
// selectNext/selectBest and coalesces the resulting entries.
func initThresh(mask bitset.Mask, caps *collected) ([]rawEntry, error) {
	var out []rawEntry
	msgLength := uint64(0)

	for {
		n, err := selectNext(mask, caps, msgLength)
		if err != nil {
			return nil, err
		}

		for _, e := range selectBest(msgLength, n.maxLength, n.active, &n.perf) {
			if len(out) > 0 && out[len(out)-1].protoID == e.protoID {
				out[len(out)-1].maxMsgLength = e.maxMsgLength
				continue
			}
			out = append(out, e)
		}

		if n.maxLength == MaxLength {
			break
		}
		msgLength = n.maxLength + 1
	}

	return out, nil
}
