package protocols

import "github.com/hic4sh1e/protoselect/protoselect"

// ProtoRendezvous is the pipelined, zero-copy protocol: a higher fixed
// handshake cost than eager, but a much lower per-byte cost once the
// pipeline is filled, so it wins on large messages.
const ProtoRendezvous = 1

func init() {
	protoselect.RegisterProtocol(ProtoRendezvous, rendezvousProtocol{})
}

type rendezvousProtocol struct{}

func (rendezvousProtocol) Name() string { return "rendezvous" }

func (rendezvousProtocol) Init(params protoselect.InitParams, priv []byte) (protoselect.ProtoCaps, int, error) {
	n := 0
	if len(priv) >= 1 {
		priv[0] = 1 // marks "pipelined" in the dump; no other state needed
		n = 1
	}

	caps := protoselect.ProtoCaps{
		MinLength: 0,
		Ranges: []protoselect.Range{
			{MaxLength: protoselect.MaxLength, Perf: protoselect.Perf{Fixed: 10.0e-6, PerByte: 0.1e-9}},
		},
		CfgThresh: overridesFor(params).Threshold("rendezvous"),
	}
	return caps, n, nil
}

func (rendezvousProtocol) ConfigStr(priv []byte) string {
	return "rendezvous(pipelined)"
}
