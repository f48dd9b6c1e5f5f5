package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLayoutCmd(g *globals) *cobra.Command {
	var collapsed []string
	cmd := &cobra.Command{
		Use:   "layout FILE",
		Short: "Print node positions for a roadmap document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _, err := g.open(args[0])
			if err != nil {
				return err
			}
			for _, id := range collapsed {
				if err := v.Collapse(id); err != nil {
					return err
				}
			}
			res := v.Layout()

			out := cmd.OutOrStdout()
			if g.jsonOutput {
				return writeJSON(out, res)
			}
			fmt.Fprintf(out, "%s layout, %.0fx%.0f\n", v.Mode(), res.Width, res.Height)
			for _, p := range res.Nodes {
				fmt.Fprintf(out, "  %-20s x=%-7.1f y=%-7.1f depth=%d\n", p.ID, p.X, p.Y, p.Depth)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&collapsed, "collapse", nil, "node ids to collapse (tree mode)")
	return cmd
}
