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
)

func TestNewSelectParamSaturatesSGCount(t *testing.T) {
	p := NewSelectParam(1, 0, DatatypeContig, MemHost, 9999)
	assert.Equal(t, uint8(maxSGCount), p.SGCount)

	p = NewSelectParam(1, 0, DatatypeContig, MemHost, -5)
	assert.Equal(t, uint8(0), p.SGCount)

	p = NewSelectParam(1, 0, DatatypeContig, MemHost, 3)
	assert.Equal(t, uint8(3), p.SGCount)
}

func TestSelectParamComparableAndPackDistinguishesFields(t *testing.T) {
	a := NewSelectParam(1, OpFlagFastCompletion, DatatypeIOV, MemCUDA, 2)
	b := NewSelectParam(1, OpFlagFastCompletion, DatatypeIOV, MemCUDA, 2)
	c := NewSelectParam(2, OpFlagFastCompletion, DatatypeIOV, MemCUDA, 2)

	assert.Equal(t, a, b)
	assert.Equal(t, a.pack(), b.pack())
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a.pack(), c.pack())
}

func TestSelectParamStringIsStable(t *testing.T) {
	p := NewSelectParam(5, OpFlagFastCompletion, DatatypeGeneric, MemROCM, 7)
	assert.Equal(t, p.String(), p.String())
	assert.Contains(t, p.String(), "op=5")
	assert.Contains(t, p.String(), "sg=7")
}
