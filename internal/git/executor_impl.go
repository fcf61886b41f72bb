// Package git runs git on behalf of the annotator and classifies its
// failures.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/zjrosen/gutterblame/internal/blame"
	"github.com/zjrosen/gutterblame/internal/log"
)

// Git-specific errors.
var (
	// ErrNotGitRepo indicates the directory is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrPathNotInRepo indicates the file is untracked or outside the repository.
	ErrPathNotInRepo = errors.New("path not in repository")

	// ErrUnknownRevision indicates a commit or ref that does not exist.
	ErrUnknownRevision = errors.New("unknown revision")
)

// CommandError is a git invocation that exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
	cause    error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git %s: exit %d: %s", strings.Join(e.Args, " "), e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("git %s: exit %d", strings.Join(e.Args, " "), e.ExitCode)
}

// Unwrap exposes the classified sentinel, if any.
func (e *CommandError) Unwrap() error {
	return e.cause
}

// IsSilent reports whether err is the expected "repository or path not
// found" condition that callers should swallow instead of showing.
func IsSilent(err error) bool {
	return errors.Is(err, ErrNotGitRepo) || errors.Is(err, ErrPathNotInRepo)
}

// Compile-time check that RealExecutor implements Executor.
var _ Executor = (*RealExecutor)(nil)

// RealExecutor implements Executor by executing actual git commands.
type RealExecutor struct {
	workDir string
}

// NewRealExecutor creates a new RealExecutor.
func NewRealExecutor(workDir string) *RealExecutor {
	return &RealExecutor{workDir: workDir}
}

// run executes git with optional stdin and returns raw stdout.
func (e *RealExecutor) run(ctx context.Context, stdin *string, args ...string) (string, error) {
	//nolint:gosec // G204: args come from controlled sources
	cmd := exec.CommandContext(ctx, "git", args...)
	if e.workDir != "" {
		cmd.Dir = e.workDir
	}
	if stdin != nil {
		cmd.Stdin = strings.NewReader(*stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), ctxErr)
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
		}
		cmdErr := &CommandError{
			Args:     args,
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(stderr.String()),
		}
		cmdErr.cause = parseGitError(cmdErr.Stderr)
		log.Debug(log.CatGit, "git failed", "args", strings.Join(args, " "), "exit", cmdErr.ExitCode, "stderr", cmdErr.Stderr)
		return "", cmdErr
	}

	return stdout.String(), nil
}

// runTrimmed executes git and trims surrounding whitespace from stdout.
func (e *RealExecutor) runTrimmed(ctx context.Context, args ...string) (string, error) {
	out, err := e.run(ctx, nil, args...)
	return strings.TrimSpace(out), err
}

// parseGitError converts git stderr messages to sentinel errors. It returns
// nil when the message is not recognized.
func parseGitError(stderr string) error {
	stderrLower := strings.ToLower(stderr)

	switch {
	case strings.Contains(stderrLower, "not a git repository"):
		return ErrNotGitRepo
	case strings.Contains(stderrLower, "no such path"),
		strings.Contains(stderrLower, "is outside repository"),
		strings.Contains(stderrLower, "does not exist"):
		return ErrPathNotInRepo
	case strings.Contains(stderrLower, "bad revision"),
		strings.Contains(stderrLower, "unknown revision"),
		strings.Contains(stderrLower, "bad object"):
		return ErrUnknownRevision
	}
	return nil
}

// IsGitRepo checks if the working directory is inside a git repository.
func (e *RealExecutor) IsGitRepo(ctx context.Context) bool {
	_, err := e.run(ctx, nil, "rev-parse", "--git-dir")
	return err == nil
}

// RepoRoot returns the root directory of the git repository.
func (e *RealExecutor) RepoRoot(ctx context.Context) (string, error) {
	return e.runTrimmed(ctx, "rev-parse", "--show-toplevel")
}

// GitDir returns the absolute git directory, which differs from
// <root>/.git inside worktrees.
func (e *RealExecutor) GitDir(ctx context.Context) (string, error) {
	return e.runTrimmed(ctx, "rev-parse", "--absolute-git-dir")
}

// blameArgs builds the argument list for a blame invocation.
func blameArgs(path string, format blame.Format, withContents bool) []string {
	args := []string{"blame"}
	switch format {
	case blame.FormatIncremental:
		args = append(args, "--incremental")
	default:
		args = append(args, "--line-porcelain")
	}
	if withContents {
		args = append(args, "--contents", "-")
	}
	return append(args, "--", path)
}

// Blame runs git blame for path.
func (e *RealExecutor) Blame(ctx context.Context, path string, format blame.Format, contents *string) (string, error) {
	return e.run(ctx, contents, blameArgs(path, format, contents != nil)...)
}

// ChangedFiles lists the files touched by commit, with rename detection.
func (e *RealExecutor) ChangedFiles(ctx context.Context, commit string) (string, error) {
	return e.run(ctx, nil, "diff-tree", "--root", "--no-commit-id", "-r", "-z", "-M", "--name-status", commit)
}
