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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hic4sh1e/protoselect/internal/bitset"
)

const (
	fixtureP0 = 0
	fixtureP1 = 1
)

// buildRaw is a test-only shortcut around initThresh that takes caps
// directly, bypassing the Capability Collector, for the pure
// lower-envelope scenarios.
func buildRaw(t *testing.T, caps map[int]ProtoCaps) []rawEntry {
	t.Helper()
	c := &collected{}
	for id, cp := range caps {
		c.caps[id] = cp
		c.mask = c.mask.Set(id)
	}
	raw, err := initThresh(c.mask, c)
	require.NoError(t, err)
	return raw
}

func TestS1_TwoProtocolCrossover(t *testing.T) {
	raw := buildRaw(t, map[int]ProtoCaps{
		fixtureP0: straightLine(1.0e-6, 1e-9),
		fixtureP1: straightLine(10.0e-6, 0.1e-9),
	})
	require.Len(t, raw, 2)
	assert.Equal(t, rawEntry{maxMsgLength: 10000, protoID: fixtureP0}, raw[0])
	assert.Equal(t, rawEntry{maxMsgLength: MaxLength, protoID: fixtureP1}, raw[1])
}

func TestS2_ForcedThreshold(t *testing.T) {
	p1 := straightLine(10.0e-6, 0.1e-9)
	p1.CfgThresh = NewCfgThresh(1024)
	raw := buildRaw(t, map[int]ProtoCaps{
		fixtureP0: straightLine(1.0e-6, 1e-9),
		fixtureP1: p1,
	})
	require.Len(t, raw, 2)
	assert.Equal(t, rawEntry{maxMsgLength: 1023, protoID: fixtureP0}, raw[0])
	assert.Equal(t, rawEntry{maxMsgLength: MaxLength, protoID: fixtureP1}, raw[1])
}

func TestS3_DisabledProtocol(t *testing.T) {
	p1 := straightLine(10.0e-6, 0.1e-9)
	p1.CfgThresh = CfgThreshInf
	raw := buildRaw(t, map[int]ProtoCaps{
		fixtureP0: straightLine(1.0e-6, 1e-9),
		fixtureP1: p1,
	})
	require.Len(t, raw, 1)
	assert.Equal(t, rawEntry{maxMsgLength: MaxLength, protoID: fixtureP0}, raw[0])
}

func TestS4_RangeSplit(t *testing.T) {
	p0 := ProtoCaps{Ranges: []Range{{MaxLength: 4096, Perf: Perf{Fixed: 1e-9, PerByte: 1e-12}}}}
	p1 := straightLine(1.0e-3, 1e-9) // deliberately expensive everywhere
	raw := buildRaw(t, map[int]ProtoCaps{
		fixtureP0: p0,
		fixtureP1: p1,
	})
	require.Len(t, raw, 2)
	assert.Equal(t, rawEntry{maxMsgLength: 4096, protoID: fixtureP0}, raw[0])
	assert.Equal(t, rawEntry{maxMsgLength: MaxLength, protoID: fixtureP1}, raw[1])
}

// TestMinLengthBoundsNarrowing guards against a protocol whose
// MinLength is only reached after some other already-valid protocol's
// unbounded range has already set n.maxLength to MaxLength: selectNext
// must re-narrow on MinLength the same way it does on a not-yet-forced
// cfg_thresh override, or the higher-MinLength protocol is never
// reached by selectBest no matter how cheap it is.
func TestMinLengthBoundsNarrowing(t *testing.T) {
	p0 := straightLine(1.0e-6, 1e-9) // valid everywhere, not free
	p1 := ProtoCaps{
		MinLength: 5000,
		Ranges:    []Range{{MaxLength: MaxLength, Perf: Perf{Fixed: 0, PerByte: 0}}}, // effectively free once active
	}
	raw := buildRaw(t, map[int]ProtoCaps{
		fixtureP0: p0,
		fixtureP1: p1,
	})
	require.Len(t, raw, 2)
	assert.Equal(t, rawEntry{maxMsgLength: 4999, protoID: fixtureP0}, raw[0])
	assert.Equal(t, rawEntry{maxMsgLength: MaxLength, protoID: fixtureP1}, raw[1])
}

func TestS5_NoCoverage(t *testing.T) {
	c := &collected{}
	c.caps[fixtureP0] = ProtoCaps{Ranges: []Range{{MaxLength: 4096, Perf: Perf{Fixed: 1e-9, PerByte: 1e-12}}}}
	c.mask = c.mask.Set(fixtureP0)

	_, err := initThresh(c.mask, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestS6_MRUInvalidationAcrossRehash(t *testing.T) {
	protos := map[int]Protocol{
		fixtureP0: fixtureProtocol{id: fixtureP0, name: "p0"},
		fixtureP1: fixtureProtocol{id: fixtureP1, name: "p1"},
	}
	withRegistry(t, protos)

	sc := newScenario().set(fixtureP0, straightLine(1e-6, 1e-9))
	ps := NewProtoSelect()
	defer ps.Cleanup()

	// force several rehashes by inserting many distinct keys
	var keys []SelectParam
	for sg := 0; sg < 40; sg++ {
		keys = append(keys, NewSelectParam(OpID(sg), 0, DatatypeContig, MemHost, sg))
	}
	for _, k := range keys {
		_, err := ps.LookupSlow(sc, 0, 0, k)
		require.NoError(t, err)
	}

	// every key must still resolve correctly via lookup_slow (hash
	// lookup), and lookup_fast must never return a pointer for the
	// wrong key.
	for _, k := range keys {
		elem, err := ps.LookupSlow(sc, 0, 0, k)
		require.NoError(t, err)
		require.NotNil(t, elem)

		if fast := ps.LookupFast(k); fast != nil {
			assert.Same(t, elem, fast)
		}
	}
}

// TestLowerEnvelopeMatchesBruteForce checks that at every sampled
// message length, the protocol selected
// is the one minimizing cost at (length + 0.5) among valid protocols,
// ties broken by ascending id.
func TestLowerEnvelopeMatchesBruteForce(t *testing.T) {
	caps := map[int]ProtoCaps{
		0: straightLine(1.0e-6, 1e-9),
		1: straightLine(5.0e-6, 0.5e-9),
		2: straightLine(20.0e-6, 0.05e-9),
	}
	raw := buildRaw(t, caps)

	lookup := func(length uint64) int {
		for _, e := range raw {
			if length <= e.maxMsgLength {
				return e.protoID
			}
		}
		t.Fatalf("no entry covers length %d", length)
		return -1
	}

	for _, length := range []uint64{0, 1, 100, 1000, 4999, 5000, 5001, 50000, 100000, 1000000} {
		x0 := float64(length) + 0.5
		best, bestVal := -1, 0.0
		for id := 0; id < 3; id++ {
			v := caps[id].Ranges[0].Perf.Eval(x0)
			if best == -1 || v < bestVal {
				best, bestVal = id, v
			}
		}
		assert.Equal(t, best, lookup(length), "length=%d", length)
	}
}

func TestThresholdsStrictlyIncreasingAndTerminated(t *testing.T) {
	raw := buildRaw(t, map[int]ProtoCaps{
		0: straightLine(1.0e-6, 1e-9),
		1: straightLine(5.0e-6, 0.5e-9),
		2: straightLine(20.0e-6, 0.05e-9),
	})
	require.NotEmpty(t, raw)
	assert.Equal(t, MaxLength, raw[len(raw)-1].maxMsgLength)
	for i := 1; i < len(raw); i++ {
		assert.Less(t, raw[i-1].maxMsgLength, raw[i].maxMsgLength)
		assert.NotEqual(t, raw[i-1].protoID, raw[i].protoID, "adjacent entries must not share a protocol id (coalescing incomplete)")
	}
}

func TestSelectNextUnsupportedBelowMinLength(t *testing.T) {
	// a single protocol configured AUTO but only valid starting at
	// MinLength=10 means lengths [0,9] are unsupported.
	c := &collected{}
	c.caps[fixtureP0] = ProtoCaps{MinLength: 10, Ranges: []Range{{MaxLength: MaxLength, Perf: Perf{}}}}
	c.mask = c.mask.Set(fixtureP0)

	_, err := selectNext(c.mask, c, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)

	n, err := selectNext(c.mask, c, 10)
	require.NoError(t, err)
	assert.True(t, n.active.Has(fixtureP0))
	assert.Equal(t, MaxLength, n.maxLength)
}

func TestEmptyRegistryMask(t *testing.T) {
	var m bitset.Mask
	assert.True(t, m.Empty())
}
