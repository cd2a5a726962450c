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

// ProtoConfig is one resolved (select parameters, protocol, private
// config) triple. Priv points into the owning SelectElem's
// PrivBuf and must not be retained past the SelectElem's lifetime.
type ProtoConfig struct {
	Param   SelectParam
	ProtoID int
	Priv    []byte
}

// ThresholdEntry is one row of a threshold table: every message length
// up to and including MaxMsgLength is serviced by Config.
type ThresholdEntry struct {
	MaxMsgLength uint64
	Config       ProtoConfig
}

// SelectElem is the immutable result of building a threshold table for
// one SelectParam. Thresholds is non-empty, strictly
// increasing in MaxMsgLength, and ends with MaxLength. SelectElem
// exclusively owns Thresholds and PrivBuf; it is destroyed only when
// its containing ProtoSelect is torn down.
type SelectElem struct {
	Thresholds []ThresholdEntry
	PrivBuf    []byte
}
