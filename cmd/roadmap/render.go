package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/meikuraledutech/roadmap/render"
)

func newRenderCmd(g *globals) *cobra.Command {
	var (
		output string
		format string
		watch  bool
	)
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Draw a roadmap document as SVG or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = "svg"
				if strings.EqualFold(filepath.Ext(output), ".png") {
					format = "png"
				}
			}
			if format != "svg" && format != "png" {
				return fmt.Errorf("unknown format %q", format)
			}
			draw := func() error { return renderFile(g, args[0], output, format) }
			if err := draw(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			watched := []string{args[0]}
			if g.progressFile != "" {
				watched = append(watched, g.progressFile)
			}
			return watchFiles(ctx, watched, 200*time.Millisecond, func() {
				if err := draw(); err != nil {
					slog.Error("render failed", "file", args[0], "error", err)
					return
				}
				slog.Info("rendered", "output", output)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "roadmap.svg", "output file")
	cmd.Flags().StringVar(&format, "format", "", "svg or png (default from the output extension)")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-render whenever the document or progress file changes")
	return cmd
}

func renderFile(g *globals, input, output, format string) error {
	v, _, err := g.open(input)
	if err != nil {
		return err
	}
	tmp := output + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	draw := render.SVG
	if format == "png" {
		draw = render.PNG
	}
	if err := draw(f, v.Layout(), v.Document(), v.Statuses()); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return os.Rename(tmp, output)
}

// watchFiles calls onChange after writes to any of paths settle for debounce.
// Directories are watched so that editors replacing files atomically are seen.
func watchFiles(ctx context.Context, paths []string, debounce time.Duration, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(ev.Name)] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		}
	}
}
