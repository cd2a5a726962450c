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
	"fmt"
	"math"
)

// MaxLength is the sentinel "infinity" used for the final entry in a
// protocol's range table and in the emitted threshold table. It stands
// in for SIZE_MAX.
const MaxLength uint64 = math.MaxUint64

// cfgThreshKind distinguishes CfgThreshAuto / CfgThreshInf / a finite
// override by tag rather than by value, so a finite threshold of 0
// ("force this protocol on unconditionally, from length 0") is never
// confused with CfgThreshAuto's "no override" — the two would collide
// if CfgThresh were a bare uint64 with 0 doing double duty.
type cfgThreshKind uint8

const (
	cfgThreshKindAuto cfgThreshKind = iota
	cfgThreshKindFinite
	cfgThreshKindInf
)

// CfgThresh is a protocol's user-facing threshold override: AUTO, INF,
// or a finite message length (including 0). The zero value is
// CfgThreshAuto.
type CfgThresh struct {
	kind cfgThreshKind
	n    uint64
}

var (
	// CfgThreshAuto means the override has no effect; the lower
	// envelope alone decides the protocol's range. It is CfgThresh's
	// zero value.
	CfgThreshAuto CfgThresh
	// CfgThreshInf disables the protocol unconditionally.
	CfgThreshInf = CfgThresh{kind: cfgThreshKindInf}
)

// NewCfgThresh builds a finite override forcing the protocol on for
// message lengths >= n and off below it. n == 0 is a legitimate,
// distinct override ("force on from length 0"), unlike converting a
// bare integer to CfgThresh would be.
func NewCfgThresh(n uint64) CfgThresh {
	return CfgThresh{kind: cfgThreshKindFinite, n: n}
}

// IsAuto reports whether t carries no override.
func (t CfgThresh) IsAuto() bool { return t.kind == cfgThreshKindAuto }

// IsInf reports whether t disables the protocol entirely.
func (t CfgThresh) IsInf() bool { return t.kind == cfgThreshKindInf }

// IsFinite reports whether t forces the protocol on at a concrete
// message length.
func (t CfgThresh) IsFinite() bool { return t.kind == cfgThreshKindFinite }

// Length returns the message length at which a finite override forces
// the protocol on. Callers must check IsFinite first.
func (t CfgThresh) Length() uint64 { return t.n }

// Perf is a piecewise-affine cost model: time in seconds as a function
// of message length in bytes, f(x) = Fixed + PerByte*x. Both
// coefficients must be non-negative.
type Perf struct {
	Fixed   float64 // seconds
	PerByte float64 // seconds/byte
}

// Eval returns the modeled cost, in seconds, of sending a message of
// length bytes using this cost model.
func (p Perf) Eval(length float64) float64 {
	return p.Fixed + p.PerByte*length
}

// String renders the affine model for diagnostics, e.g. "1us + 0.1ns/B".
func (p Perf) String() string {
	return fmt.Sprintf("%.3gus + %.3gns/B", p.Fixed*1e6, p.PerByte*1e9)
}

// Range is one contiguous capability range: the protocol models its
// cost as Perf for every message length up to and including MaxLength.
type Range struct {
	MaxLength uint64
	Perf      Perf
}

// ProtoCaps is what a protocol's init reports about itself for one
// SelectParam. Ranges must be non-empty, strictly
// increasing in MaxLength, and contiguous starting at MinLength; the
// last entry's MaxLength may be MaxLength (SIZE_MAX).
type ProtoCaps struct {
	MinLength uint64
	Ranges    []Range
	CfgThresh CfgThresh
}

// Validate checks the structural invariants placed on ProtoCaps. A
// protocol that returns an invalid ProtoCaps from init is treated the
// same as a failed init: it is excluded, not fatal.
func (c ProtoCaps) Validate() error {
	if len(c.Ranges) == 0 {
		return fmt.Errorf("protoselect: caps has no ranges")
	}
	prev := c.MinLength
	for i, r := range c.Ranges {
		if r.MaxLength < prev {
			return fmt.Errorf("protoselect: range %d max_length %d precedes previous bound %d", i, r.MaxLength, prev)
		}
		if i > 0 && r.MaxLength <= c.Ranges[i-1].MaxLength {
			return fmt.Errorf("protoselect: range %d max_length %d not strictly increasing", i, r.MaxLength)
		}
		if r.Perf.Fixed < 0 || r.Perf.PerByte < 0 {
			return fmt.Errorf("protoselect: range %d has negative cost coefficient", i)
		}
		prev = r.MaxLength
	}
	return nil
}

// rangeAt returns the Range containing length, and whether one exists.
// length must already be known to be >= c.MinLength.
func (c ProtoCaps) rangeAt(length uint64) (Range, bool) {
	for _, r := range c.Ranges {
		if length <= r.MaxLength {
			return r, true
		}
	}
	return Range{}, false
}

// validAt reports whether the protocol covers length at all, ignoring
// any cfg_thresh override (those are applied separately in select_next).
func (c ProtoCaps) validAt(length uint64) bool {
	if length < c.MinLength {
		return false
	}
	_, ok := c.rangeAt(length)
	return ok
}
