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

import "fmt"

// OpID enumerates the operations the surrounding system can request a
// protocol selection for. The core treats these as opaque tags; their
// meaning is fixed by the system that embeds this package.
type OpID uint8

// OpFlags is a bit set of operation attributes that influence selection.
// Only attributes that actually affect the chosen protocol belong here.
type OpFlags uint8

const (
	// OpFlagFastCompletion asks the selector to prefer protocols whose
	// affine cost model favors low fixed latency over throughput.
	OpFlagFastCompletion OpFlags = 1 << iota
)

// DatatypeClass groups message layouts that a protocol's cost model
// treats identically.
type DatatypeClass uint8

const (
	DatatypeContig DatatypeClass = iota
	DatatypeIOV
	DatatypeGeneric
)

// MemType enumerates the memory domain a message buffer lives in.
type MemType uint8

const (
	MemHost MemType = iota
	MemCUDA
	MemROCM
	MemCUDAManaged
)

// maxSGCount is the saturating ceiling for SelectParam.SGCount: beyond
// this many scatter-gather entries, selection no longer distinguishes
// counts (every protocol's cost model treats them the same).
const maxSGCount = 255

// SelectParam is the cache key for a protocol selection: the tuple of
// attributes that fully determines which threshold table applies.
// It is deliberately small and comparable so it can be used directly
// as a hash-table key and copied by value into ProtoConfig.
type SelectParam struct {
	OpID     OpID
	OpFlags  OpFlags
	DTClass  DatatypeClass
	MemType  MemType
	SGCount  uint8
}

// NewSelectParam builds a SelectParam, saturating sgCount at
// maxSGCount (the cache key only distinguishes sg_count up to the
// point where it stops influencing any protocol's cost model).
func NewSelectParam(op OpID, flags OpFlags, dt DatatypeClass, mem MemType, sgCount int) SelectParam {
	if sgCount < 0 {
		sgCount = 0
	}
	if sgCount > maxSGCount {
		sgCount = maxSGCount
	}
	return SelectParam{
		OpID:    op,
		OpFlags: flags,
		DTClass: dt,
		MemType: mem,
		SGCount: uint8(sgCount),
	}
}

// pack returns the raw bit pattern of the parameter, byte-packed into
// a single 64-bit word. Equality and hashing over SelectParam are
// defined to be equality and hashing over this word.
func (p SelectParam) pack() uint64 {
	return uint64(p.OpID) |
		uint64(p.OpFlags)<<8 |
		uint64(p.DTClass)<<16 |
		uint64(p.MemType)<<24 |
		uint64(p.SGCount)<<32
}

// String renders a compact, stable diagnostic representation of the
// parameter set. This backs the param-str CLI output and is what the
// NO_ELEM/UNSUPPORTED log lines attach as context.
func (p SelectParam) String() string {
	return fmt.Sprintf("op=%d flags=0x%x dt=%d mem=%d sg=%d",
		p.OpID, p.OpFlags, p.DTClass, p.MemType, p.SGCount)
}
