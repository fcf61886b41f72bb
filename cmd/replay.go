package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/gutterblame/internal/annotator"
	"github.com/zjrosen/gutterblame/internal/editscript"
	"github.com/zjrosen/gutterblame/internal/log"
	"github.com/zjrosen/gutterblame/internal/render"
)

var replayLineNumbers bool

var replayCmd = &cobra.Command{
	Use:   "replay <file> <script.yaml>",
	Short: "Apply scripted edits to a file and print the gutter after each step",
	Long: `Open a file, then play back a YAML edit script against it. Each step applies
one batch of edits the way an editor reports a change event, optionally
followed by a re-blame of the edited (unsaved) text. The file on disk is
never written.

Script format:
  steps:
    - name: add a line above line 2
      edits:
        - {start_line: 1, start_char: 0, end_line: 1, end_char: 0, text: "new line\n"}
    - name: blame the edited text
      refresh: true

Positions are 0-based; characters count runes within a line.

Examples:
  gutterblame replay main.go edits.yaml
  gutterblame replay -n main.go edits.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVarP(&replayLineNumbers, "line-numbers", "n", false, "prefix lines with their number")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	file, scriptPath := args[0], args[1]

	scriptAbs, err := filepath.Abs(scriptPath)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", scriptPath, err)
	}
	script, err := editscript.Load(os.DirFS(filepath.Dir(scriptAbs)), filepath.Base(scriptAbs))
	if err != nil {
		return err
	}

	ann, path, err := newAnnotator(file)
	if err != nil {
		return err
	}
	defer ann.Shutdown()

	ctx := cmd.Context()
	id, view, content, err := openFile(ctx, ann, file, path)
	if err != nil {
		return err
	}
	defer ann.Close(id)

	out := cmd.OutOrStdout()
	r := newRenderer(cmd)
	r.LineNumbers = replayLineNumbers

	doc := editscript.NewDocument(content)
	if err := printStep(cmd, r, "open", view, doc); err != nil {
		return err
	}

	for i, step := range script.Steps {
		label := step.Label(i)

		if len(step.Edits) > 0 {
			if err := doc.Apply(step.Edits...); err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			changed, err := ann.ApplyEdit(id, step.Edits...)
			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			log.Debug(log.CatAnnotator, "replayed edits", "step", label, "edits", len(step.Edits), "changed", changed)
		}

		if step.Refresh {
			view, err = ann.Refresh(ctx, id, annotator.Snapshot{Text: doc.Text(), Dirty: true})
		} else {
			view, err = ann.View(id)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}

		fmt.Fprintln(out)
		if err := printStep(cmd, r, label, view, doc); err != nil {
			return err
		}
	}
	return nil
}

func printStep(cmd *cobra.Command, r *render.Renderer, label string, view *annotator.View, doc *editscript.Document) error {
	fmt.Fprintf(cmd.OutOrStdout(), "== %s ==\n", label)
	return r.Render(cmd.OutOrStdout(), view, render.SplitLines(doc.Text()))
}
