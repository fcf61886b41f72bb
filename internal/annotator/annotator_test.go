package annotator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/gutterblame/internal/annotation"
	"github.com/zjrosen/gutterblame/internal/blame"
	"github.com/zjrosen/gutterblame/internal/changelist"
	"github.com/zjrosen/gutterblame/internal/git"
	"github.com/zjrosen/gutterblame/internal/mocks"
	"github.com/zjrosen/gutterblame/internal/pubsub"
	"github.com/zjrosen/gutterblame/internal/tracing"
)

var _ git.Executor = (*mocks.MockGitExecutor)(nil)

const (
	commitA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	commitB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

// porcelain renders --line-porcelain output attributing line i+1 to ids[i].
func porcelain(ids ...string) string {
	var b strings.Builder
	for i, id := range ids {
		fmt.Fprintf(&b, "%s %d %d 1\n", id, i+1, i+1)
		if id == blame.UncommittedID {
			b.WriteString("author Not Committed Yet\nauthor-time 1700000000\nsummary Version of main.go from main.go\n")
		} else {
			author := "Alice"
			if id == commitB {
				author = "Bob"
			}
			fmt.Fprintf(&b, "author %s\nauthor-mail <%s@example.com>\nauthor-time 1700000000\nauthor-tz +0000\nsummary change %d\n",
				author, strings.ToLower(author), i)
		}
		fmt.Fprintf(&b, "filename main.go\n\tline %d\n", i+1)
	}
	return b.String()
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Location = time.UTC
	return opts
}

func newAnnotator(t *testing.T, opts Options) (*Annotator, *mocks.MockGitExecutor) {
	t.Helper()
	executor := mocks.NewMockGitExecutor(t)
	a := New(executor, opts)
	t.Cleanup(a.Shutdown)
	return a, executor
}

func commitIDs(v *View) []string {
	ids := make([]string, len(v.Lines))
	for i, l := range v.Lines {
		if l.Record.Committed {
			ids[i] = l.Record.CommitID[:1]
		} else {
			ids[i] = "-"
		}
	}
	return ids
}

func TestOpen_CleanBuffer(t *testing.T) {
	a, executor := newAnnotator(t, testOptions())
	executor.EXPECT().Blame(mock.Anything, "main.go", blame.FormatPorcelain, (*string)(nil)).
		Return(porcelain(commitA, commitB), nil).Once()

	view, err := a.Open(context.Background(), "buf", "main.go", Snapshot{Text: "line 1\nline 2\n"})
	require.NoError(t, err)

	require.Len(t, view.Lines, 3, "trailing newline opens an unblamed line")
	require.Equal(t, []string{"a", "b", "-"}, commitIDs(view))
	require.Equal(t, "2023/11/14 Alice", view.Lines[0].Record.Title)
	require.Equal(t, "2023/11/14 Bob", view.Lines[1].Record.Title)
	require.Empty(t, view.Lines[2].Record.Title)
	require.Equal(t, 16, view.Width)
	require.True(t, view.Distinguishable)
	require.False(t, view.Pending)
	require.False(t, view.Lines[0].Color.IsTransparent())
	require.True(t, view.Lines[2].Color.IsTransparent())
	require.NotEqual(t, view.Lines[0].Color, view.Lines[1].Color)
	require.Equal(t, 1, a.Len())
}

func TestOpen_DirtyBufferBlamesContents(t *testing.T) {
	a, executor := newAnnotator(t, testOptions())
	text := "line 1\nedited\n"
	executor.EXPECT().Blame(mock.Anything, "main.go", blame.FormatPorcelain,
		mock.MatchedBy(func(c *string) bool { return c != nil && *c == text })).
		Return(porcelain(commitA, blame.UncommittedID), nil).Once()

	view, err := a.Open(context.Background(), "buf", "main.go", Snapshot{Text: text, Dirty: true})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "-", "-"}, commitIDs(view))
	require.False(t, view.Distinguishable, "one commit carries no color information")
}

func TestOpen_IncrementalFormat(t *testing.T) {
	opts := testOptions()
	opts.Format = blame.FormatIncremental
	a, executor := newAnnotator(t, opts)

	raw := commitA + " 1 1 2\nauthor Alice\nauthor-time 1700000000\nsummary init\nfilename main.go\n"
	executor.EXPECT().Blame(mock.Anything, "main.go", blame.FormatIncremental, (*string)(nil)).Return(raw, nil).Once()

	view, err := a.Open(context.Background(), "buf", "main.go", Snapshot{Text: "x\ny"})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "a"}, commitIDs(view))
}

func TestOpen_SilentErrorYieldsEmptyView(t *testing.T) {
	for _, sentinel := range []error{git.ErrNotGitRepo, git.ErrPathNotInRepo} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			a, executor := newAnnotator(t, testOptions())
			executor.EXPECT().Blame(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return("", fmt.Errorf("git blame: %w", sentinel)).Once()

			view, err := a.Open(context.Background(), "buf", "notes.txt", Snapshot{Text: "a\nb"})
			require.NoError(t, err)
			require.True(t, view.Empty())
			require.Len(t, view.Lines, 2, "store still tracks the buffer")

			changed, err := a.ApplyEdit("buf", annotation.Edit{StartLine: 0, StartChar: 1, EndLine: 0, EndChar: 1, Text: "\n"})
			require.NoError(t, err)
			require.True(t, changed)
		})
	}
}

func TestOpen_HardErrorClosesBuffer(t *testing.T) {
	a, executor := newAnnotator(t, testOptions())
	executor.EXPECT().Blame(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("exit status 129")).Once()

	_, err := a.Open(context.Background(), "buf", "main.go", Snapshot{Text: "a"})
	require.Error(t, err)
	require.Equal(t, 0, a.Len())

	_, err = a.View("buf")
	require.ErrorIs(t, err, ErrUnknownBuffer)
}

func TestApplyEdit(t *testing.T) {
	a, executor := newAnnotator(t, testOptions())
	executor.EXPECT().Blame(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(porcelain(commitA, commitA, commitB, commitB), nil).Once()

	_, err := a.Open(context.Background(), "buf", "main.go", Snapshot{Text: "1\n2\n3\n4"})
	require.NoError(t, err)

	changed, err := a.ApplyEdit("buf", annotation.Edit{StartLine: 1, StartChar: 1, EndLine: 1, EndChar: 1, Text: "\n"})
	require.NoError(t, err)
	require.True(t, changed)

	view, err := a.View("buf")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "a", "-", "b", "b"}, commitIDs(view))

	changed, err = a.ApplyEdit("buf", annotation.Edit{StartLine: 1, StartChar: 0, EndLine: 4, EndChar: 0})
	require.NoError(t, err)
	require.True(t, changed)

	view, err = a.View("buf")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, commitIDs(view))
}

func TestApplyEdit_Errors(t *testing.T) {
	a, executor := newAnnotator(t, testOptions())

	_, err := a.ApplyEdit("missing", annotation.Edit{Text: "x"})
	require.ErrorIs(t, err, ErrUnknownBuffer)

	executor.EXPECT().Blame(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(porcelain(commitA), nil).Once()
	_, err = a.Open(context.Background(), "buf", "main.go", Snapshot{Text: "only"})
	require.NoError(t, err)

	_, err = a.ApplyEdit("buf", annotation.Edit{StartLine: 3, EndLine: 3, Text: "x"})
	require.ErrorIs(t, err, annotation.ErrIndexOutOfRange)
}

func TestRefresh_ReplaysEditsMadeDuringBlame(t *testing.T) {
	a, executor := newAnnotator(t, testOptions())
	executor.EXPECT().Blame(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(porcelain(commitA, commitA), nil).Once()

	_, err := a.Open(context.Background(), "buf", "main.go", Snapshot{Text: "1\n2"})
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	executor.EXPECT().Blame(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, string, blame.Format, *string) (string, error) {
			close(started)
			<-release
			return porcelain(commitB, commitB), nil
		}).Once()

	var (
		wg      sync.WaitGroup
		view    *View
		refresh error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		view, refresh = a.Refresh(context.Background(), "buf", Snapshot{Text: "1\n2"})
	}()

	<-started
	pending, err := a.View("buf")
	require.NoError(t, err)
	require.True(t, pending.Pending)

	changed, err := a.ApplyEdit("buf", annotation.Edit{StartLine: 0, StartChar: 0, EndLine: 0, EndChar: 0, Text: "\n"})
	require.NoError(t, err)
	require.True(t, changed)

	close(release)
	wg.Wait()

	require.NoError(t, refresh)
	require.False(t, view.Pending)
	require.Equal(t, []string{"-", "b", "b"}, commitIDs(view), "new baseline with the queued insertion replayed")
}

func TestRefresh_HardErrorKeepsCurrentRecords(t *testing.T) {
	a, executor := newAnnotator(t, testOptions())
	executor.EXPECT().Blame(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(porcelain(commitA, commitB), nil).Once()
	_, err := a.Open(context.Background(), "buf", "main.go", Snapshot{Text: "1\n2"})
	require.NoError(t, err)

	executor.EXPECT().Blame(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("fatal: unable to read")).Once()
	_, err = a.Refresh(context.Background(), "buf", Snapshot{Text: "1\n2"})
	require.Error(t, err)

	view, err := a.View("buf")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, commitIDs(view))
}

func TestRefresh_UnknownBuffer(t *testing.T) {
	a, _ := newAnnotator(t, testOptions())

	_, err := a.Refresh(context.Background(), "missing", Snapshot{})
	require.ErrorIs(t, err, ErrUnknownBuffer)
}

func TestSubscribe_Lifecycle(t *testing.T) {
	a, executor := newAnnotator(t, testOptions())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	events := a.Subscribe(ctx)

	executor.EXPECT().Blame(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(porcelain(commitA), nil).Once()
	_, err := a.Open(context.Background(), "buf", "main.go", Snapshot{Text: "x"})
	require.NoError(t, err)
	_, err = a.ApplyEdit("buf", annotation.Edit{StartLine: 0, StartChar: 0, EndLine: 0, EndChar: 1, Text: "y"})
	require.NoError(t, err)
	a.Close("buf")

	var got []pubsub.EventType
	for range 4 {
		select {
		case ev := <-events:
			require.Equal(t, annotation.BufferID("buf"), ev.Payload)
			got = append(got, ev.Type)
		case <-time.After(time.Second):
			t.Fatalf("timed out after events %v", got)
		}
	}
	require.Equal(t, []pubsub.EventType{pubsub.CreatedEvent, pubsub.RefreshedEvent, pubsub.UpdatedEvent, pubsub.DeletedEvent}, got)
	require.Equal(t, 0, a.Len())
}

func TestChanges_CachesFullCommitIDs(t *testing.T) {
	a, executor := newAnnotator(t, testOptions())
	executor.EXPECT().IsGitRepo(mock.Anything).Return(true).Once()
	executor.EXPECT().RepoRoot(mock.Anything).Return("/repo", nil).Once()
	executor.EXPECT().ChangedFiles(mock.Anything, commitA).
		Return("M\x00main.go\x00R100\x00old.go\x00new.go\x00", nil).Once()

	for range 2 {
		changes, err := a.Changes(context.Background(), commitA)
		require.NoError(t, err)
		require.Equal(t, []changelist.Change{
			{Status: changelist.Modified, Path: "/repo/main.go", OriginalPath: "/repo/main.go"},
			{Status: changelist.Renamed, Path: "/repo/old.go", OriginalPath: "/repo/old.go", RenamedToPath: "/repo/new.go"},
		}, changes)
	}
}

func TestChanges_SymbolicRevisionNotCached(t *testing.T) {
	a, executor := newAnnotator(t, testOptions())
	executor.EXPECT().IsGitRepo(mock.Anything).Return(true).Once()
	executor.EXPECT().RepoRoot(mock.Anything).Return("/repo", nil).Once()
	executor.EXPECT().ChangedFiles(mock.Anything, "HEAD").Return("A\x00new.go\x00", nil).Times(2)

	for range 2 {
		changes, err := a.Changes(context.Background(), "HEAD")
		require.NoError(t, err)
		require.Len(t, changes, 1)
	}
}

func TestChanges_NotARepository(t *testing.T) {
	a, executor := newAnnotator(t, testOptions())
	executor.EXPECT().IsGitRepo(mock.Anything).Return(false).Once()

	_, err := a.Changes(context.Background(), commitA)
	require.ErrorIs(t, err, git.ErrNotGitRepo)
}

func TestOpen_RecordsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	opts := testOptions()
	opts.Tracer = tp.Tracer("test")
	a, executor := newAnnotator(t, opts)
	executor.EXPECT().Blame(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(porcelain(commitA), nil).Once()

	_, err := a.Open(context.Background(), "buf", "main.go", Snapshot{Text: "x"})
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	require.Equal(t, tracing.SpanBlame, spans[0].Name, "child ends first")
	require.Equal(t, tracing.SpanOpen, spans[1].Name)
	require.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

func TestIsFullHash(t *testing.T) {
	require.True(t, isFullHash(commitA))
	require.False(t, isFullHash("HEAD"))
	require.False(t, isFullHash(strings.ToUpper(commitA)))
	require.False(t, isFullHash(commitA[:39]+"g"))
}
