// Package protocols contains sample transport protocols that exercise
// the protoselect registry, capability collector and threshold
// builder. The core treats concrete protocols as external
// collaborators it never implements itself; these are deliberately
// thin, clearly-labeled tenants standing in for real transports.
package protocols

import (
	"github.com/klauspost/cpuid/v2"

	"github.com/hic4sh1e/protoselect/protoselect"
)

// ProtoEager is the lowest-latency, lowest-fixed-cost protocol: it
// copies the message inline into a pre-posted buffer, so it has the
// highest per-byte cost and its cost grows fastest with message length.
const ProtoEager = 0

func init() {
	protoselect.RegisterProtocol(ProtoEager, eagerProtocol{})
}

type eagerProtocol struct{}

func (eagerProtocol) Name() string { return "eager" }

// eagerPriv is the private runtime configuration eager writes for
// itself: which copy routine to use, decided once at Init time from
// the host's actual vector capabilities rather than re-probed per
// message.
type eagerPriv struct {
	avx2 bool
}

func (eagerProtocol) Init(params protoselect.InitParams, priv []byte) (protoselect.ProtoCaps, int, error) {
	p := eagerPriv{avx2: cpuid.CPU.Supports(cpuid.AVX2)}
	n := encodeEagerPriv(priv, p)

	perByte := 1e-9 // 1 ns/byte baseline memcpy cost
	if p.avx2 {
		perByte = 0.4e-9
	}

	caps := protoselect.ProtoCaps{
		MinLength: 0,
		Ranges: []protoselect.Range{
			{MaxLength: protoselect.MaxLength, Perf: protoselect.Perf{Fixed: 1.0e-6, PerByte: perByte}},
		},
		CfgThresh: overridesFor(params).Threshold("eager"),
	}
	return caps, n, nil
}

func (eagerProtocol) ConfigStr(priv []byte) string {
	p := decodeEagerPriv(priv)
	if p.avx2 {
		return "eager(copy=avx2)"
	}
	return "eager(copy=scalar)"
}

func encodeEagerPriv(buf []byte, p eagerPriv) int {
	if len(buf) < 1 {
		return 0
	}
	if p.avx2 {
		buf[0] = 1
	} else {
		buf[0] = 0
	}
	return 1
}

func decodeEagerPriv(buf []byte) eagerPriv {
	if len(buf) < 1 {
		return eagerPriv{}
	}
	return eagerPriv{avx2: buf[0] == 1}
}
