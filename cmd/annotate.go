package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/gutterblame/internal/annotation"
	"github.com/zjrosen/gutterblame/internal/annotator"
	"github.com/zjrosen/gutterblame/internal/presentation"
	"github.com/zjrosen/gutterblame/internal/render"
)

var (
	annotateLineNumbers bool
	annotateMaxCols     int
	annotateJSON        bool
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <file>",
	Short: "Print a file with its blame gutter",
	Long: `Print a file with a gutter showing the commit date and author of every line.

Lines that are not committed (new files, untracked files, files outside a
repository) print with an empty gutter. Colors are only used when at least
two commits are visible.

Examples:
  gutterblame annotate main.go
  gutterblame annotate -n --cols 100 internal/blame/parser.go
  gutterblame annotate --format incremental --max-width 18 README.md
  gutterblame annotate --json main.go | jq '.lines[] | select(.committed) | .author'`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().BoolVarP(&annotateLineNumbers, "line-numbers", "n", false, "prefix lines with their number")
	annotateCmd.Flags().IntVar(&annotateMaxCols, "cols", 0, "clip line text to this many columns (0 disables)")
	annotateCmd.Flags().BoolVar(&annotateJSON, "json", false, "print annotations as JSON instead of the rendered file")
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	ann, path, err := newAnnotator(args[0])
	if err != nil {
		return err
	}
	defer ann.Shutdown()

	id, view, content, err := openFile(cmd.Context(), ann, args[0], path)
	if err != nil {
		return err
	}
	defer ann.Close(id)

	if annotateJSON {
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatAnnotation(presentation.FromView(args[0], view))
	}

	r := newRenderer(cmd)
	r.LineNumbers = annotateLineNumbers
	r.MaxCols = annotateMaxCols
	return r.Render(cmd.OutOrStdout(), view, render.SplitLines(content))
}

// openFile reads file from disk and opens it in ann as a clean buffer.
func openFile(ctx context.Context, ann *annotator.Annotator, file, path string) (annotation.BufferID, *annotator.View, string, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return "", nil, "", fmt.Errorf("reading %s: %w", file, err)
	}
	id := annotation.NewBufferID()
	view, err := ann.Open(ctx, id, path, annotator.Snapshot{Text: string(content)})
	if err != nil {
		return "", nil, "", err
	}
	return id, view, string(content), nil
}
