package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hic4sh1e/protoselect/protoselect"
)

func newParamStrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "param-str <op_id> <op_flags> <dt_class> <mem_type> <sg_count>",
		Short: "Render a SelectParam the way proto_select_param_str would",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals := make([]int, len(args))
			for i, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("argument %d (%q): %w", i+1, a, err)
				}
				vals[i] = n
			}
			p := protoselect.NewSelectParam(
				protoselect.OpID(vals[0]),
				protoselect.OpFlags(vals[1]),
				protoselect.DatatypeClass(vals[2]),
				protoselect.MemType(vals[3]),
				vals[4],
			)
			fmt.Fprintln(cmd.OutOrStdout(), p.String())
			return nil
		},
	}
	return cmd
}
