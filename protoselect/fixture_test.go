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
	"testing"

	"github.com/hic4sh1e/protoselect/internal/bitset"
)

// withRegistry replaces the package-level protocol registry for the
// duration of the test, restoring it afterward. This mirrors caddy's
// own modules_test.go, which manipulates the package-level `modules`
// map directly under its mutex rather than going through the public
// registration API, to get a controlled, isolated fixture.
func withRegistry(t *testing.T, protos map[int]Protocol) {
	t.Helper()
	registryMu.Lock()
	savedTable := registry
	savedMask := registered
	registry = [bitset.MaxProtocols]Protocol{}
	registered = 0
	for id, p := range protos {
		registry[id] = p
		registered = registered.Set(id)
	}
	registryMu.Unlock()

	t.Cleanup(func() {
		registryMu.Lock()
		registry = savedTable
		registered = savedMask
		registryMu.Unlock()
	})
}

// scenario supplies per-protocol ProtoCaps to fixtureProtocol.Init via
// InitParams.Worker, so the same small set of fixture protocols can
// model any cost landscape a test needs without re-registering.
type scenario struct {
	caps map[int]func() (ProtoCaps, error)
}

func newScenario() *scenario {
	return &scenario{caps: make(map[int]func() (ProtoCaps, error))}
}

func (s *scenario) set(id int, c ProtoCaps) *scenario {
	s.caps[id] = func() (ProtoCaps, error) { return c, nil }
	return s
}

// fixtureProtocol is a test-only Protocol whose capabilities are
// supplied entirely by the scenario passed through InitParams.Worker.
type fixtureProtocol struct {
	id   int
	name string
}

func (p fixtureProtocol) Name() string { return p.name }

func (p fixtureProtocol) Init(params InitParams, priv []byte) (ProtoCaps, int, error) {
	s, ok := params.Worker.(*scenario)
	if !ok {
		return ProtoCaps{}, 0, fmt.Errorf("fixture %s: no scenario supplied", p.name)
	}
	f, ok := s.caps[p.id]
	if !ok {
		return ProtoCaps{}, 0, fmt.Errorf("fixture %s: not part of this scenario", p.name)
	}
	caps, err := f()
	if err != nil {
		return ProtoCaps{}, 0, err
	}
	n := 0
	if len(priv) >= 1 {
		priv[0] = byte(p.id)
		n = 1
	}
	return caps, n, nil
}

func (p fixtureProtocol) ConfigStr(priv []byte) string {
	return fmt.Sprintf("%s(fixture)", p.name)
}

// straightLine is a convenience constructor for a single-range, affine
// ProtoCaps covering [0, SIZE_MAX] unless overridden.
func straightLine(fixed, perByte float64) ProtoCaps {
	return ProtoCaps{
		Ranges: []Range{{MaxLength: MaxLength, Perf: Perf{Fixed: fixed, PerByte: perByte}}},
	}
}
