package git

import (
	"context"

	"github.com/zjrosen/gutterblame/internal/blame"
)

// Executor runs the git commands the annotator depends on.
// This abstraction allows for easy testing with mock implementations.
type Executor interface {
	IsGitRepo(ctx context.Context) bool
	// RepoRoot returns the absolute path of the working tree root.
	RepoRoot(ctx context.Context) (string, error)
	// GitDir returns the absolute path of the repository's git directory.
	GitDir(ctx context.Context) (string, error)

	// Blame returns raw blame output for path in the given format. When
	// contents is non-nil it is blamed instead of the file on disk, so
	// unsaved buffer edits show up as uncommitted lines.
	Blame(ctx context.Context, path string, format blame.Format, contents *string) (string, error)

	// ChangedFiles returns the NUL-delimited name-status list for commit.
	ChangedFiles(ctx context.Context, commit string) (string, error)
}
