package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zjrosen/gutterblame/internal/annotation"
	"github.com/zjrosen/gutterblame/internal/annotator"
	"github.com/zjrosen/gutterblame/internal/git"
	"github.com/zjrosen/gutterblame/internal/log"
	"github.com/zjrosen/gutterblame/internal/pubsub"
	"github.com/zjrosen/gutterblame/internal/render"
	"github.com/zjrosen/gutterblame/internal/textdiff"
	"github.com/zjrosen/gutterblame/internal/watcher"
)

var watchLineNumbers bool

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-annotate a file whenever HEAD, the index, or the file changes",
	Long: `Print a file with its blame gutter, then print it again each time the
repository's HEAD or index moves (commit, checkout, stage) or the file is
saved. Bursts of changes are debounced by blame.debounce. Stop with Ctrl+C.

Examples:
  gutterblame watch main.go
  gutterblame watch -n main.go`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchLineNumbers, "line-numbers", "n", false, "prefix lines with their number")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	abs, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", file, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gitDir, err := git.NewRealExecutor(filepath.Dir(abs)).GitDir(ctx)
	if err != nil {
		return fmt.Errorf("locating git directory: %w", err)
	}

	ann, path, err := newAnnotator(file)
	if err != nil {
		return err
	}
	defer ann.Shutdown()

	events := ann.Subscribe(ctx)

	id, view, content, err := openFile(ctx, ann, file, path)
	if err != nil {
		return err
	}
	defer ann.Close(id)

	wcfg := watcher.DefaultConfig(gitDir, abs)
	wcfg.DebounceDur = cfg.Blame.Debounce
	w, err := watcher.New(wcfg)
	if err != nil {
		return err
	}
	changes, err := w.Start()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	r := newRenderer(cmd)
	r.LineNumbers = watchLineNumbers
	if err := r.Render(cmd.OutOrStdout(), view, render.SplitLines(content)); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return refreshLoop(gctx, cmd, ann, r, id, file, content, changes)
	})
	g.Go(func() error {
		logEvents(gctx, events)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// refreshLoop re-reads and re-blames file on every watcher signal until ctx
// ends. Differences from the last read are applied as edits first.
func refreshLoop(
	ctx context.Context,
	cmd *cobra.Command,
	ann *annotator.Annotator,
	r *render.Renderer,
	id annotation.BufferID,
	file string,
	last string,
	changes <-chan struct{},
) error {
	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				return nil
			}
		}

		content, err := os.ReadFile(file)
		if err != nil {
			// Retried on the next signal.
			log.Warn(log.CatWatcher, "reading watched file", "path", file, "error", err)
			continue
		}

		text := string(content)
		if edits := textdiff.Edits(last, text); len(edits) > 0 {
			if _, err := ann.ApplyEdit(id, edits...); err != nil {
				log.ErrorErr(log.CatAnnotator, "applying saved changes", err, "path", file, "edits", len(edits))
			}
		}
		last = text

		view, err := ann.Refresh(ctx, id, annotator.Snapshot{Text: text})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Show the edit-shifted annotations until a refresh succeeds.
			log.ErrorErr(log.CatAnnotator, "refresh failed", err, "path", file)
			fmt.Fprintf(cmd.ErrOrStderr(), "refresh failed: %v\n", err)
			if view, err = ann.View(id); err != nil {
				return err
			}
		}

		fmt.Fprintf(out, "\n== %s %s ==\n", filepath.Base(file), time.Now().Format(time.TimeOnly))
		if err := r.Render(out, view, render.SplitLines(text)); err != nil {
			return err
		}
	}
}

func logEvents(ctx context.Context, events <-chan pubsub.Event[annotation.BufferID]) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			log.Debug(log.CatAnnotator, "buffer event", "type", ev.Type, "buffer", ev.Payload)
		}
	}
}
