package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meikuraledutech/roadmap/loader"
)

func newValidateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a roadmap document for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loader.FromFile(args[0])
			if err != nil {
				return err
			}
			issues, verr := doc.Roadmap.Validate()

			out := cmd.OutOrStdout()
			if g.jsonOutput {
				body := map[string]any{"warnings": doc.Warnings, "issues": issues, "valid": verr == nil}
				if verr != nil {
					body["error"] = verr.Error()
				}
				if err := writeJSON(out, body); err != nil {
					return err
				}
				return verr
			}
			for _, w := range doc.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			for _, is := range issues {
				fmt.Fprintf(out, "%s: %s\n", is.Kind, is.Detail)
			}
			if verr != nil {
				return verr
			}
			fmt.Fprintf(out, "ok: %d nodes, %d edges\n", len(doc.Roadmap.NodeIDs()), len(doc.Roadmap.Edges))
			return nil
		},
	}
}
