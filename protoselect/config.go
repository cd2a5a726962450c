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
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Overrides holds the user-facing cfg_thresh override for each
// protocol, by name. It is the one piece of end-user
// configuration the core actually specifies; everything else about a
// protocol's capabilities comes from its own Init.
type Overrides map[string]CfgThresh

// Threshold returns the configured override for name, or
// CfgThreshAuto if none was set. Protocol Init implementations call
// this to populate ProtoCaps.CfgThresh.
func (o Overrides) Threshold(name string) CfgThresh {
	if o == nil {
		return CfgThreshAuto
	}
	if t, ok := o[name]; ok {
		return t
	}
	return CfgThreshAuto
}

// LoadOverrides reads a YAML document mapping protocol name to
// threshold override from path, e.g.:
//
//	rendezvous: 16384
//	shmem: inf
//	eager: auto
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("protoselect: reading override config: %w", err)
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("protoselect: parsing override config: %w", err)
	}

	out := make(Overrides, len(raw))
	for name, val := range raw {
		t, err := parseCfgThresh(val)
		if err != nil {
			return nil, fmt.Errorf("protoselect: override for %q: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func parseCfgThresh(val string) (CfgThresh, error) {
	switch val {
	case "", "auto":
		return CfgThreshAuto, nil
	case "inf", "infinity":
		return CfgThreshInf, nil
	default:
		n, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return CfgThresh{}, fmt.Errorf("invalid threshold %q (want \"auto\", \"inf\", or a byte count)", val)
		}
		// n == 0 is a legitimate finite override ("force on from
		// length 0"), distinct from the empty-string/"auto" case
		// above — it is not coerced to CfgThreshAuto.
		return NewCfgThresh(n), nil
	}
}
