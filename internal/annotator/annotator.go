// Package annotator drives blame annotations for open buffers: it runs git,
// parses the output, keeps each buffer's store aligned with edits, and
// produces renderable views.
package annotator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/gutterblame/internal/annotation"
	"github.com/zjrosen/gutterblame/internal/blame"
	"github.com/zjrosen/gutterblame/internal/cachemanager"
	"github.com/zjrosen/gutterblame/internal/changelist"
	"github.com/zjrosen/gutterblame/internal/color"
	"github.com/zjrosen/gutterblame/internal/git"
	"github.com/zjrosen/gutterblame/internal/label"
	"github.com/zjrosen/gutterblame/internal/log"
	"github.com/zjrosen/gutterblame/internal/pubsub"
	"github.com/zjrosen/gutterblame/internal/tracing"
)

// ErrUnknownBuffer is returned for buffers that are not open.
var ErrUnknownBuffer = annotation.ErrUnknownBuffer

// Snapshot is the buffer text at the moment a blame is requested. Dirty
// buffers are blamed through stdin so unsaved lines show as uncommitted.
type Snapshot struct {
	Text  string
	Dirty bool
}

// LineCount returns the number of lines the host shows for Text. A trailing
// newline opens one more, empty, line.
func (s Snapshot) LineCount() int {
	return strings.Count(s.Text, "\n") + 1
}

type buffer struct {
	path string

	// generation increments on every fetch so a slow fetch that was
	// overtaken by a newer one is discarded.
	generation uint64
	fetching   bool
	queued     [][]annotation.Edit
}

// Annotator owns every open buffer. It is safe for concurrent use; edits and
// refreshes for a buffer are applied one at a time.
type Annotator struct {
	mu sync.Mutex

	git       git.Executor
	opts      Options
	registry  *annotation.Registry
	formatter *label.Formatter
	colors    *color.Assigner
	buffers   map[annotation.BufferID]*buffer

	changes  *cachemanager.ReadThroughCache[string, []changelist.Change]
	rootMu   sync.Mutex
	root     string
}

// New creates an annotator that runs git through executor.
func New(executor git.Executor, opts Options) *Annotator {
	formatter := label.NewFormatter(opts.MaxWidth)
	if opts.DateLayout != "" {
		formatter.DateLayout = opts.DateLayout
	}
	if opts.Location != nil {
		formatter.Location = opts.Location
	}

	colors := color.NewAssigner(opts.ColorMode)
	if opts.Saturation > 0 {
		colors.Saturation = opts.Saturation
	}
	colors.Floor = opts.SaturationFloor
	colors.HalfLifeDays = opts.DecayHalfLifeDays

	a := &Annotator{
		git:       executor,
		opts:      opts,
		registry:  annotation.NewRegistry(),
		formatter: formatter,
		colors:    colors,
		buffers:   make(map[annotation.BufferID]*buffer),
	}

	cache := cachemanager.NewInMemoryCacheManager[string, []changelist.Change](
		"changes", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	a.changes = cachemanager.NewReadThroughCache(cache, a.loadChanges, opts.CacheTTL, opts.DisableCache)

	return a
}

// Subscribe streams buffer lifecycle events: created on Open, updated after
// an edit changed the sequence, refreshed after a new baseline, deleted on
// Close.
func (a *Annotator) Subscribe(ctx context.Context) <-chan pubsub.Event[annotation.BufferID] {
	return a.registry.Subscribe(ctx)
}

// Open registers a buffer and blames it. Until the blame completes the
// buffer shows no annotations and edits are held for replay.
//
// Files outside a repository or untracked by it yield a view with no
// annotations and a nil error.
func (a *Annotator) Open(ctx context.Context, id annotation.BufferID, path string, snap Snapshot) (*View, error) {
	ctx, span := tracing.Start(ctx, a.opts.Tracer, tracing.SpanOpen,
		attribute.String(tracing.AttrBufferID, string(id)),
		attribute.String(tracing.AttrFilePath, path),
		attribute.Int(tracing.AttrBufferLines, snap.LineCount()),
	)

	a.mu.Lock()
	buf, ok := a.buffers[id]
	if !ok {
		buf = &buffer{}
		a.buffers[id] = buf
	}
	buf.path = path
	a.registry.Open(id, nil, snap.LineCount())
	a.mu.Unlock()

	view, err := a.fetch(ctx, id, buf, snap)
	if err != nil {
		a.Close(id)
	}
	tracing.End(span, err)
	return view, err
}

// Refresh re-blames an open buffer and replaces its records. Edits applied
// while git runs are replayed on the new baseline.
func (a *Annotator) Refresh(ctx context.Context, id annotation.BufferID, snap Snapshot) (*View, error) {
	ctx, span := tracing.Start(ctx, a.opts.Tracer, tracing.SpanRefresh,
		attribute.String(tracing.AttrBufferID, string(id)),
		attribute.Int(tracing.AttrBufferLines, snap.LineCount()),
	)

	a.mu.Lock()
	buf, ok := a.buffers[id]
	a.mu.Unlock()

	var (
		view *View
		err  error
	)
	if !ok {
		err = fmt.Errorf("refresh %s: %w", id, ErrUnknownBuffer)
	} else {
		view, err = a.fetch(ctx, id, buf, snap)
	}
	tracing.End(span, err)
	return view, err
}

func (a *Annotator) fetch(ctx context.Context, id annotation.BufferID, buf *buffer, snap Snapshot) (*View, error) {
	a.mu.Lock()
	buf.generation++
	gen := buf.generation
	buf.fetching = true
	buf.queued = nil
	path := buf.path
	a.mu.Unlock()

	records, err := a.blame(ctx, path, snap)

	a.mu.Lock()
	defer a.mu.Unlock()

	if buf.generation != gen {
		log.Debug(log.CatAnnotator, "discarding superseded blame", "buffer", id, "generation", gen)
		return a.viewLocked(id)
	}
	queued := buf.queued
	buf.fetching = false
	buf.queued = nil

	if err != nil {
		if !git.IsSilent(err) {
			log.ErrorErr(log.CatAnnotator, "blame failed", err, "buffer", id, "path", path)
			return nil, err
		}
		log.Debug(log.CatAnnotator, "no annotations for buffer", "buffer", id, "path", path, "reason", err.Error())
		records = nil
	}

	if _, err := a.registry.Refresh(id, records, snap.LineCount(), queued); err != nil {
		// The queued edits no longer describe this baseline. Drop them and
		// keep the fresh records; the next refresh realigns.
		log.ErrorErr(log.CatAnnotator, "replaying queued edits", err, "buffer", id, "queued", len(queued))
		if _, rerr := a.registry.Refresh(id, records, snap.LineCount(), nil); rerr != nil {
			return nil, rerr
		}
	}
	log.Debug(log.CatAnnotator, "buffer annotated", "buffer", id, "records", len(records), "replayed", len(queued))
	return a.viewLocked(id)
}

func (a *Annotator) blame(ctx context.Context, path string, snap Snapshot) ([]blame.Record, error) {
	ctx, span := tracing.Start(ctx, a.opts.Tracer, tracing.SpanBlame,
		attribute.String(tracing.AttrFilePath, path),
		attribute.String(tracing.AttrBlameFormat, a.opts.Format.String()),
		attribute.Bool(tracing.AttrDirty, snap.Dirty),
	)

	var contents *string
	if snap.Dirty {
		contents = &snap.Text
	}
	raw, err := a.git.Blame(ctx, path, a.opts.Format, contents)
	if err != nil {
		tracing.End(span, err)
		return nil, err
	}

	records := blame.Parse(a.opts.Format, raw)
	span.SetAttributes(attribute.Int(tracing.AttrRecordCount, len(records)))
	tracing.End(span, nil)
	return records, nil
}

// ApplyEdit applies one batch of edits reported by the host. It reports
// whether the record sequence changed. While a blame for the buffer is in
// flight the batch is also queued for replay on the incoming baseline.
//
// An ErrIndexOutOfRange error means the host and store disagree on the
// buffer's shape; the buffer should be refreshed.
func (a *Annotator) ApplyEdit(id annotation.BufferID, edits ...annotation.Edit) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	buf, ok := a.buffers[id]
	if !ok {
		return false, fmt.Errorf("apply edit to %s: %w", id, ErrUnknownBuffer)
	}

	changed, err := a.registry.ApplyEdit(id, edits...)
	if err != nil {
		log.ErrorErr(log.CatAnnotator, "edit rejected", err, "buffer", id, "edits", len(edits))
		return changed, err
	}
	if buf.fetching {
		buf.queued = append(buf.queued, append([]annotation.Edit(nil), edits...))
	}
	return changed, nil
}

// View returns the current annotations of an open buffer.
func (a *Annotator) View(id annotation.BufferID) (*View, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.viewLocked(id)
}

func (a *Annotator) viewLocked(id annotation.BufferID) (*View, error) {
	store, ok := a.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("view %s: %w", id, ErrUnknownBuffer)
	}
	buf := a.buffers[id]

	records := store.Records()
	width := a.formatter.Compute(records)
	store.SetTitles(records)

	lines := make([]Line, len(records))
	for i, r := range records {
		lines[i] = Line{Record: r, Color: a.colors.ColorForRecord(r)}
	}

	v := &View{
		ID:              id,
		Lines:           lines,
		Width:           max(width, 0),
		Distinguishable: color.Distinguishable(records),
		Pending:         buf != nil && buf.fetching,
	}
	if buf != nil {
		v.Path = buf.path
	}
	return v, nil
}

// Close forgets a buffer. Closing an unknown buffer is a no-op.
func (a *Annotator) Close(id annotation.BufferID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if buf, ok := a.buffers[id]; ok {
		// Any fetch still running for this buffer finds a newer generation
		// and drops its result.
		buf.generation++
		delete(a.buffers, id)
	}
	a.registry.Close(id)
}

// Len returns the number of open buffers.
func (a *Annotator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buffers)
}

// Shutdown closes every subscription channel.
func (a *Annotator) Shutdown() {
	a.registry.Shutdown()
}
