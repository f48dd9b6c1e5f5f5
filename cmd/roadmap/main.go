package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/meikuraledutech/roadmap"
	"github.com/meikuraledutech/roadmap/layout"
	"github.com/meikuraledutech/roadmap/loader"
	"github.com/meikuraledutech/roadmap/viewer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globals are the flags shared by every subcommand.
type globals struct {
	jsonOutput   bool
	progressFile string
	optionsFile  string
	mode         string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "roadmap",
		Short:         "Lay out, render and track learning roadmaps",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&g.jsonOutput, "json", false, "output as JSON")
	root.PersistentFlags().StringVar(&g.progressFile, "progress", "", "progress file ({node_id: status} or a list of records)")
	root.PersistentFlags().StringVar(&g.optionsFile, "options", os.Getenv("ROADMAP_LAYOUT_FILE"), "YAML layout options")
	root.PersistentFlags().StringVar(&g.mode, "mode", "auto", "layout engine: auto, tree or phases")

	root.AddCommand(newLayoutCmd(g))
	root.AddCommand(newRenderCmd(g))
	root.AddCommand(newProgressCmd(g))
	root.AddCommand(newValidateCmd(g))
	return root
}

// open decodes the document at path, merges the progress file over the
// statuses embedded in the document, and builds a viewer.
func (g *globals) open(path string, extra ...viewer.Option) (*viewer.Viewer, *loader.Document, error) {
	doc, err := loader.FromFile(path)
	if err != nil {
		return nil, nil, err
	}
	statuses := doc.Progress.Clone()
	if g.progressFile != "" {
		f, err := os.Open(g.progressFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open progress: %w", err)
		}
		defer f.Close()
		m, err := loader.DecodeProgress(f, loader.FormatOf(g.progressFile))
		if err != nil {
			return nil, nil, err
		}
		for id, s := range m {
			statuses[id] = s
		}
	}

	opts := layout.DefaultOptions()
	if g.optionsFile != "" {
		if opts, err = layout.LoadOptions(g.optionsFile); err != nil {
			return nil, nil, err
		}
	}

	v, err := viewer.New(doc.Roadmap, append([]viewer.Option{
		viewer.WithMode(viewer.ParseMode(g.mode)),
		viewer.WithLayout(opts),
		viewer.WithInitialProgress(statuses),
	}, extra...)...)
	if err != nil {
		return nil, nil, err
	}
	return v, doc, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func statusLabel(s roadmap.Status) string {
	switch s {
	case roadmap.StatusCompleted:
		return "[x]"
	case roadmap.StatusInProgress:
		return "[~]"
	case roadmap.StatusSkipped:
		return "[-]"
	case roadmap.StatusLocked:
		return "[#]"
	}
	return "[ ]"
}
