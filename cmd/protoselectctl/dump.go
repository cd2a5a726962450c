package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hic4sh1e/protoselect/protocols"
	"github.com/hic4sh1e/protoselect/protoselect"
)

// sampleParams is the fixed set of selection parameters this CLI
// exercises; a real host would derive these from live traffic instead.
func sampleParams() []protoselect.SelectParam {
	return []protoselect.SelectParam{
		protoselect.NewSelectParam(0, 0, protoselect.DatatypeContig, protoselect.MemHost, 1),
		protoselect.NewSelectParam(0, protoselect.OpFlagFastCompletion, protoselect.DatatypeContig, protoselect.MemHost, 1),
		protoselect.NewSelectParam(1, 0, protoselect.DatatypeIOV, protoselect.MemHost, 4),
	}
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Build selections for the sample parameter set and print their threshold tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := loadOverrides()
			if err != nil {
				return err
			}
			worker := &protocols.Worker{Overrides: overrides}

			ps := protoselect.NewProtoSelect()
			defer ps.Cleanup()

			for _, p := range sampleParams() {
				if _, err := ps.LookupSlow(worker, 0, 0, p); err != nil {
					fmt.Fprintf(os.Stderr, "selection for %s failed: %v\n", p, err)
				}
			}

			return protoselect.Dump(cmd.OutOrStdout(), worker, 0, 0, ps)
		},
	}
}
