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

// Package protoselect is the protocol selection core of a
// high-performance communication middleware.
//
// For any given combination of (operation, datatype class, memory
// type, scatter-gather count), it decides ahead of time which internal
// transport protocol will service messages of each possible length, so
// that at send time the decision is a single lookup rather than a
// re-evaluation. It does this by partitioning [0, SIZE_MAX] into
// contiguous intervals, each labeled with the protocol that minimizes
// a piecewise-affine cost model within that interval, and caching the
// result per selection parameter.
//
// The concrete transport protocols, the worker/endpoint/remote-key
// objects the core threads through to them, and any listener or
// connection code are all external collaborators; this package treats
// them as opaque. See the protocols package for a minimal,
// self-contained set of sample protocols used to exercise this core in
// its own tests.
package protoselect
