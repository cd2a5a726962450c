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
	"io"
	"sort"

	humanize "github.com/dustin/go-humanize"
)

// protoName resolves a registry id to its diagnostic name, falling
// back to the numeric id if the protocol has since been unregistered
// (registration is link-time-fixed in practice, but dump must not
// panic on a stale reference).
func protoName(id int) string {
	if p, ok := protocolAt(id); ok {
		return p.Name()
	}
	return fmt.Sprintf("proto#%d", id)
}

func humanizeLength(n uint64) string {
	if n == MaxLength {
		return "inf"
	}
	return humanize.Bytes(n)
}

// Dump writes a diagnostic table: first the chosen threshold table
// for every cached SelectParam, then the full candidate matrix.
// Formatting is not part of the public contract except that every
// protocol with at least one successful Init must appear.
//
// The candidate matrix is produced by re-running Init fresh for each
// cached SelectParam rather than reusing the cached SelectElem's
// state — the collection code is shared, but dump-time state is never
// cached.
func Dump(w io.Writer, worker any, epIdx, rkeyIdx int, ps *ProtoSelect) error {
	type row struct {
		param SelectParam
		elem  SelectElem
	}
	var rows []row
	ps.hash.forEach(func(key SelectParam, elem *SelectElem) {
		rows = append(rows, row{param: key, elem: *elem})
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].param.pack() < rows[j].param.pack() })

	for _, r := range rows {
		fmt.Fprintf(w, "=== selection for %s ===\n", r.param.String())
		fmt.Fprintf(w, "%-14s %s\n", "max_length", "protocol")
		for _, t := range r.elem.Thresholds {
			fmt.Fprintf(w, "%-14s %s\n", humanizeLength(t.MaxMsgLength), protoName(t.Config.ProtoID))
		}

		c, err := collect(worker, epIdx, rkeyIdx, r.param)
		if err != nil {
			fmt.Fprintf(w, "  (no candidate matrix: %v)\n\n", err)
			continue
		}
		fmt.Fprintln(w, "--- candidates ---")
		c.mask.ForEach(func(id int) bool {
			caps := c.caps[id]
			name := protoName(id)
			for _, rg := range caps.Ranges {
				estTime := rg.Perf.Eval(float64(rg.MaxLength))
				var bw string
				if rg.MaxLength > 0 && estTime > 0 {
					bw = humanize.Bytes(uint64(float64(rg.MaxLength)/estTime)) + "/s"
				} else {
					bw = "n/a"
				}
				fmt.Fprintf(w, "  %-12s up_to=%-10s cost=%-16s est=%-12s bw=%-12s thresh=%-8s cfg=%q\n",
					name, humanizeLength(rg.MaxLength), rg.Perf.String(),
					fmt.Sprintf("%.3gus", estTime*1e6), bw,
					cfgThreshString(caps.CfgThresh), protoConfigString(id, c.privFor(id)))
			}
			return true
		})
		fmt.Fprintln(w)
	}
	return nil
}

func cfgThreshString(t CfgThresh) string {
	switch {
	case t.IsAuto():
		return "auto"
	case t.IsInf():
		return "inf"
	default:
		return humanize.Bytes(t.Length())
	}
}

func protoConfigString(id int, priv []byte) string {
	p, ok := protocolAt(id)
	if !ok {
		return ""
	}
	return p.ConfigStr(priv)
}
