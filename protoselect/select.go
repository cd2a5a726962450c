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

import "go.uber.org/zap"

// mruCache is the single-entry MRU pointer cache sitting above the
// hash table. It must be reset on every hash mutation, before the
// caller obtains any new value pointer.
type mruCache struct {
	valid bool
	key   SelectParam
	elem  *SelectElem
}

func (c *mruCache) get(key SelectParam) *SelectElem {
	if c.valid && c.key == key {
		return c.elem
	}
	return nil
}

func (c *mruCache) set(key SelectParam, elem *SelectElem) {
	c.valid = true
	c.key = key
	c.elem = elem
}

func (c *mruCache) reset() {
	c.valid = false
	c.elem = nil
}

// ProtoSelect is the selection cache: a hash map from SelectParam to
// SelectElem, with a one-entry MRU cache on top. It is not safe for
// concurrent use; callers that need concurrent lookups must wrap
// access (including LookupFast) in their own lock.
type ProtoSelect struct {
	hash  *hashTable
	cache mruCache
}

// NewProtoSelect returns an empty, ready-to-use selection cache.
func NewProtoSelect() *ProtoSelect {
	return &ProtoSelect{hash: newHashTable()}
}

// LookupFast checks only the MRU cache. It never touches the hash
// table and never builds anything.
func (ps *ProtoSelect) LookupFast(param SelectParam) *SelectElem {
	if elem := ps.cache.get(param); elem != nil {
		selectMetrics.fastHits.Inc()
		return elem
	}
	return nil
}

// LookupSlow resolves param to a hash-table slot (inserting one if
// absent), resets the MRU cache immediately (the insert may have
// rehashed), and — for a fresh slot — runs the Capability Collector
// and Threshold Builder to populate it. On failure the slot is removed
// and nil is returned.
func (ps *ProtoSelect) LookupSlow(worker any, epIdx, rkeyIdx int, param SelectParam) (*SelectElem, error) {
	idx, existed := ps.hash.reserve(param)
	// the reserve above may have rehashed, invalidating any earlier
	// pointer into the table; reset before anyone can observe one.
	ps.cache.reset()

	if existed {
		elem := ps.hash.at(idx)
		ps.cache.set(param, elem)
		selectMetrics.slowHits.Inc()
		return elem, nil
	}

	elem, err := ps.build(worker, epIdx, rkeyIdx, param)
	if err != nil {
		ps.hash.deleteAt(idx)
		ps.cache.reset()
		return nil, err
	}

	*ps.hash.at(idx) = *elem
	builtElem := ps.hash.at(idx)
	ps.cache.set(param, builtElem)
	selectMetrics.misses.WithLabelValues("ok").Inc()
	selectMetrics.tableSize.Observe(float64(len(builtElem.Thresholds)))
	return builtElem, nil
}

// build runs the Capability Collector and Threshold Builder for
// param, logging the two failure kinds it can produce.
func (ps *ProtoSelect) build(worker any, epIdx, rkeyIdx int, param SelectParam) (*SelectElem, error) {
	c, err := collect(worker, epIdx, rkeyIdx, param)
	if err != nil {
		Log().Debug("no protocol supports these parameters",
			zap.String("params", param.String()), zap.Error(err))
		selectMetrics.misses.WithLabelValues("no_elem").Inc()
		selectMetrics.buildFailed.WithLabelValues("no_elem").Inc()
		return nil, err
	}

	raw, err := initThresh(c.mask, c)
	if err != nil {
		Log().Warn("threshold sweep produced no valid protocol",
			zap.String("params", param.String()), zap.Error(err))
		selectMetrics.misses.WithLabelValues("unsupported").Inc()
		selectMetrics.buildFailed.WithLabelValues("unsupported").Inc()
		return nil, err
	}

	thresholds := make([]ThresholdEntry, len(raw))
	for i, e := range raw {
		thresholds[i] = ThresholdEntry{
			MaxMsgLength: e.maxMsgLength,
			Config: ProtoConfig{
				Param:   param,
				ProtoID: e.protoID,
				Priv:    c.privFor(e.protoID),
			},
		}
	}

	return &SelectElem{Thresholds: thresholds, PrivBuf: c.privBuf}, nil
}

// Cleanup walks every cached entry and releases it, then destroys the
// hash. After Cleanup, ps must not be reused.
func (ps *ProtoSelect) Cleanup() {
	ps.cache.reset()
	ps.hash.forEach(func(_ SelectParam, elem *SelectElem) {
		elem.Thresholds = nil
		elem.PrivBuf = nil
	})
	ps.hash = newHashTable()
}

// Len reports the number of cached selections; exposed for tests and
// diagnostics only.
func (ps *ProtoSelect) Len() int {
	return ps.hash.count
}
