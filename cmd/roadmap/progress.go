package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProgressCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "progress FILE",
		Short: "Summarize learner progress on a roadmap document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _, err := g.open(args[0])
			if err != nil {
				return err
			}
			sum, groups := v.Progress(), v.GroupProgress()

			out := cmd.OutOrStdout()
			if g.jsonOutput {
				return writeJSON(out, map[string]any{"summary": sum, "groups": groups, "statuses": v.Statuses()})
			}
			doc := v.Document()
			fmt.Fprintf(out, "%s: %d/%d done (%d%%)\n", doc.Title, sum.Done, sum.Total, sum.Percentage)
			fmt.Fprintf(out, "  Learning: %d  Skipped: %d  Locked: %d\n", sum.Learning, sum.Skipped, sum.Locked)
			index := doc.Index()
			for i, grp := range doc.ResolveGroups() {
				gs := groups[i]
				title := grp.Title
				if title == "" {
					title = "Other"
				}
				fmt.Fprintf(out, "\n%s  %d/%d (%d%%)\n", title, gs.Done, gs.Total, gs.Percentage)
				for _, id := range grp.NodeIDs {
					fmt.Fprintf(out, "  %s %s\n", statusLabel(v.Status(id)), index[id].Title)
				}
			}
			return nil
		},
	}
}
