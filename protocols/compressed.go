package protocols

import (
	"github.com/klauspost/compress/zstd"

	"github.com/hic4sh1e/protoselect/protoselect"
)

// ProtoCompressed trades CPU time for wire bytes: below a compression
// floor it never competes (the encoder's own fixed cost would dominate
// any message that small), but past that point its fixed cost, lower
// than rendezvous's and shmem's, and its per-byte cost, lower than
// eager's, let it win a middle range of message lengths.
const ProtoCompressed = 2

// compressionFloor is the minimum message length this protocol ever
// applies to; ProtoCaps.MinLength models exactly this kind of
// protocol-intrinsic lower bound.
const compressionFloor = 4096

func init() {
	protoselect.RegisterProtocol(ProtoCompressed, compressedProtocol{})
}

type compressedProtocol struct{}

func (compressedProtocol) Name() string { return "compressed" }

func (compressedProtocol) Init(params protoselect.InitParams, priv []byte) (protoselect.ProtoCaps, int, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return protoselect.ProtoCaps{}, 0, err
	}
	defer enc.Close()

	n := 0
	if len(priv) >= 1 {
		priv[0] = byte(zstd.SpeedFastest)
		n = 1
	}

	caps := protoselect.ProtoCaps{
		MinLength: compressionFloor,
		Ranges: []protoselect.Range{
			{MaxLength: protoselect.MaxLength, Perf: protoselect.Perf{Fixed: 5.0e-6, PerByte: 0.3e-9}},
		},
		CfgThresh: overridesFor(params).Threshold("compressed"),
	}
	return caps, n, nil
}

func (compressedProtocol) ConfigStr(priv []byte) string {
	level := zstd.SpeedFastest
	if len(priv) >= 1 {
		level = zstd.EncoderLevel(priv[0])
	}
	return "compressed(zstd," + level.String() + ")"
}
