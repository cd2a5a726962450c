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

// SearchThresholds finds the smallest index i such that
// msgLength <= thresholds[i].MaxMsgLength,
// returning that entry's ProtoConfig. Because the final entry's
// MaxMsgLength is always MaxLength (SIZE_MAX), this always finds a
// match; thresholds must be non-empty.
func SearchThresholds(thresholds []ThresholdEntry, msgLength uint64) ProtoConfig {
	for _, t := range thresholds {
		if msgLength <= t.MaxMsgLength {
			return t.Config
		}
	}
	// unreachable if thresholds was built by initThresh, whose last
	// entry always carries MaxMsgLength == MaxLength.
	return thresholds[len(thresholds)-1].Config
}
