// Command protoselectctl is a small diagnostic front-end over the
// protoselect core: it builds selections for a fixed
// set of sample parameter combinations against the registered sample
// protocols (protocols), then dumps the result.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hic4sh1e/protoselect/protoselect"
	// blank-imported so each sample protocol's init() registers it,
	// mirroring how caddy's main.go blank-imports plugin packages
	// purely for their registration side effects.
	_ "github.com/hic4sh1e/protoselect/protocols"
)

var overridesPath string

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "protoselectctl",
		Short: "Inspect protocol selection threshold tables",
		Long: `protoselectctl drives the protoselect core against the registered
sample protocols and prints the resulting threshold tables.

It exists to exercise and demonstrate proto_select_dump and
the parameter string renderer; it is not part of the core's
contract.`,
	}
	root.PersistentFlags().StringVar(&overridesPath, "overrides", "", "path to a cfg_thresh override YAML file")
	root.AddCommand(newDumpCmd())
	root.AddCommand(newParamStrCmd())
	return root
}

func loadOverrides() (protoselect.Overrides, error) {
	if overridesPath == "" {
		return nil, nil
	}
	return protoselect.LoadOverrides(overridesPath)
}
