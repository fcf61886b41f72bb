package annotator

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/gutterblame/internal/changelist"
	"github.com/zjrosen/gutterblame/internal/git"
	"github.com/zjrosen/gutterblame/internal/log"
	"github.com/zjrosen/gutterblame/internal/tracing"
)

// Changes returns the files touched by commit, with paths resolved against
// the repository root. Full commit ids are cached since their change list
// never changes; symbolic revisions such as HEAD are always re-read.
func (a *Annotator) Changes(ctx context.Context, commit string) ([]changelist.Change, error) {
	ctx, span := tracing.Start(ctx, a.opts.Tracer, tracing.SpanChanges,
		attribute.String(tracing.AttrCommitID, commit),
	)

	var (
		changes []changelist.Change
		err     error
	)
	if isFullHash(commit) {
		changes, err = a.changes.Get(ctx, commit)
	} else {
		changes, err = a.loadChanges(ctx, commit)
	}
	if err == nil {
		span.SetAttributes(attribute.Int(tracing.AttrChangeCount, len(changes)))
	}
	tracing.End(span, err)
	return changes, err
}

func (a *Annotator) loadChanges(ctx context.Context, commit string) ([]changelist.Change, error) {
	root, err := a.repoRoot(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := a.git.ChangedFiles(ctx, commit)
	if err != nil {
		return nil, fmt.Errorf("listing changes of %s: %w", commit, err)
	}

	changes := changelist.Parse(raw, root)
	log.Debug(log.CatAnnotator, "loaded change list", "commit", commit, "changes", len(changes))
	return changes, nil
}

func (a *Annotator) repoRoot(ctx context.Context) (string, error) {
	a.rootMu.Lock()
	defer a.rootMu.Unlock()

	if a.root != "" {
		return a.root, nil
	}
	if !a.git.IsGitRepo(ctx) {
		return "", git.ErrNotGitRepo
	}
	root, err := a.git.RepoRoot(ctx)
	if err != nil {
		return "", err
	}
	a.root = root
	return root, nil
}

func isFullHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}
