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
	"sort"
	"sync"

	"github.com/hic4sh1e/protoselect/internal/bitset"
)

// InitParams are the opaque collaborators passed to a protocol's Init
// The core never
// inspects these beyond passing them through; they are handles owned
// by the surrounding system.
type InitParams struct {
	Worker       any
	EndpointCfg  int
	RemoteKeyCfg int
	Select       SelectParam
}

// Protocol is the plugin contract external transport implementations
// satisfy. The core treats every
// registered Protocol as an opaque, independently-failing candidate.
type Protocol interface {
	// Name is a constant string used only for diagnostics.
	Name() string

	// Init populates caps for the given parameters and writes this
	// protocol's private runtime configuration into priv, returning
	// the number of bytes actually written. A non-nil error excludes
	// this protocol for these parameters without failing the overall
	// selection — a single protocol init failure is swallowed, not
	// fatal to the whole lookup.
	Init(params InitParams, priv []byte) (caps ProtoCaps, privSize int, err error)

	// ConfigStr renders priv (as written by Init) for diagnostic dumps.
	ConfigStr(priv []byte) string
}

// MaxPriv bounds the private configuration blob a single protocol may
// write during Init.
const MaxPriv = 256

// registry is the process-lifetime, link-time-fixed protocol table.
// Modeled on caddy's module registry (modules.go): a package-level
// table indexed by protocol id, guarded by a mutex, populated by side-effecting registration calls,
// normally from each protocol package's init().
var (
	registryMu sync.RWMutex
	registry   [bitset.MaxProtocols]Protocol
	registered bitset.Mask
)

// RegisterProtocol adds proto to the registry under the given id and
// panics on misuse, exactly as caddy.RegisterModule panics on a
// malformed or duplicate module (modules.go) — registration happens at
// init time, where a panic surfaces immediately rather than being
// silently swallowed at runtime.
func RegisterProtocol(id int, proto Protocol) {
	if id < 0 || id >= bitset.MaxProtocols {
		panic(fmt.Sprintf("protoselect: protocol id %d out of range [0,%d)", id, bitset.MaxProtocols))
	}
	if proto == nil {
		panic("protoselect: nil protocol")
	}
	if proto.Name() == "" {
		panic("protoselect: protocol name missing")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if registered.Has(id) {
		panic(fmt.Sprintf("protoselect: protocol id %d already registered (%s)", id, registry[id].Name()))
	}
	registry[id] = proto
	registered = registered.Set(id)
}

// protocolAt returns the protocol registered at id, if any.
func protocolAt(id int) (Protocol, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if !registered.Has(id) {
		return nil, false
	}
	return registry[id], true
}

// registeredMask returns the set of all currently-registered protocol
// ids.
func registeredMask() bitset.Mask {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registered
}

// RegisteredProtocols returns the names of all registered protocols
// sorted by name, mirroring caddy.Modules()'s deterministic, sorted
// listing.
func RegisteredProtocols() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, registered.PopCount())
	registered.ForEach(func(id int) bool {
		names = append(names, registry[id].Name())
		return true
	})
	sort.Strings(names)
	return names
}
