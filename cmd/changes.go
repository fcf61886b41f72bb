package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zjrosen/gutterblame/internal/annotator"
	"github.com/zjrosen/gutterblame/internal/changelist"
	"github.com/zjrosen/gutterblame/internal/git"
	"github.com/zjrosen/gutterblame/internal/presentation"
)

var changesJSON bool

var changesCmd = &cobra.Command{
	Use:   "changes [commit]",
	Short: "List the files a commit touched",
	Long: `List the files a commit added, modified, deleted, or renamed. Paths are
absolute. The commit defaults to HEAD.

Examples:
  gutterblame changes
  gutterblame changes 4b825dc
  gutterblame changes --json HEAD~2 | jq '.[].path'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChanges,
}

func init() {
	changesCmd.Flags().BoolVar(&changesJSON, "json", false, "print the change list as JSON")
	rootCmd.AddCommand(changesCmd)
}

func runChanges(cmd *cobra.Command, args []string) error {
	commit := "HEAD"
	if len(args) == 1 {
		commit = args[0]
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	opts, err := annotator.OptionsFromConfig(cfg, tracer())
	if err != nil {
		return err
	}
	ann := annotator.New(git.NewRealExecutor(wd), opts)
	defer ann.Shutdown()

	changes, err := ann.Changes(cmd.Context(), commit)
	if err != nil {
		return fmt.Errorf("listing changes for %s: %w", commit, err)
	}

	if changesJSON {
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatChanges(presentation.FromChanges(changes))
	}
	return printChanges(cmd, changes)
}

func printChanges(cmd *cobra.Command, changes []changelist.Change) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, c := range changes {
		if c.Status == changelist.Renamed {
			fmt.Fprintf(tw, "%s\t%s\t-> %s\n", c.Status.Code(), c.OriginalPath, c.RenamedToPath)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", c.Status.Code(), c.Path)
	}
	return tw.Flush()
}
