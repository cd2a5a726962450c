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
	"go.uber.org/zap"

	"github.com/hic4sh1e/protoselect/internal/bitset"
)

// collected is the scratch result of running every registered
// protocol's Init against one SelectParam. It owns privBuf until
// threshold construction either succeeds (ownership transfers to the
// SelectElem) or fails (the builder frees it).
type collected struct {
	mask        bitset.Mask
	caps        [bitset.MaxProtocols]ProtoCaps
	privOffsets [bitset.MaxProtocols]int
	privSizes   [bitset.MaxProtocols]int
	privBuf     []byte
}

// collect runs the Capability Collector for the given
// worker/endpoint/remote-key handles and selection parameters.
func collect(worker any, epCfg, rkeyCfg int, param SelectParam) (*collected, error) {
	mask := registeredMask()
	if mask.Empty() {
		return nil, ErrNoElem
	}

	scratch := make([]byte, mask.PopCount()*MaxPriv)
	c := &collected{}
	running := 0

	mask.ForEach(func(id int) bool {
		proto, ok := protocolAt(id)
		if !ok {
			return true
		}

		params := InitParams{Worker: worker, EndpointCfg: epCfg, RemoteKeyCfg: rkeyCfg, Select: param}
		window := scratch[running : running+MaxPriv]
		caps, privSize, err := proto.Init(params, window)
		if err != nil {
			// a single protocol init failure is swallowed, not fatal
			return true
		}
		if err := caps.Validate(); err != nil {
			Log().Debug("protocol init produced invalid caps, excluding",
				zap.String("protocol", proto.Name()), zap.Error(err))
			return true
		}
		if privSize < 0 || privSize > MaxPriv {
			return true
		}

		c.caps[id] = caps
		c.privOffsets[id] = running
		c.privSizes[id] = privSize
		c.mask = c.mask.Set(id)
		running += privSize
		return true
	})

	if c.mask.Empty() {
		return nil, ErrNoElem
	}

	if running == 0 {
		c.privBuf = nil
	} else {
		// shrink scratch to exactly what was written
		c.privBuf = make([]byte, running)
		copy(c.privBuf, scratch[:running])
	}

	return c, nil
}

// privFor returns the sub-slice of c.privBuf holding protocol id's
// private configuration, as written during Init.
func (c *collected) privFor(id int) []byte {
	off := c.privOffsets[id]
	size := c.privSizes[id]
	return c.privBuf[off : off+size]
}
