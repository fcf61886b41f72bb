package annotation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zjrosen/gutterblame/internal/blame"
	"github.com/zjrosen/gutterblame/internal/log"
	"github.com/zjrosen/gutterblame/internal/pubsub"
)

// ErrUnknownBuffer is returned for operations on a buffer that was never
// opened or has been closed.
var ErrUnknownBuffer = errors.New("unknown buffer")

// BufferID identifies an open buffer.
type BufferID string

// NewBufferID returns a random id for hosts that have no natural buffer key.
func NewBufferID() BufferID {
	return BufferID(uuid.NewString())
}

// Registry holds one Store per open buffer. A store is created on the first
// Open and destroyed by Close.
//
// Registry is not safe for concurrent use. Subscribers receive a created,
// updated or deleted event carrying the buffer id whenever a store changes.
type Registry struct {
	stores map[BufferID]*Store
	broker *pubsub.Broker[BufferID]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[BufferID]*Store),
		broker: pubsub.NewBroker[BufferID](),
	}
}

// Open creates or replaces the store for id.
func (r *Registry) Open(id BufferID, records []blame.Record, lineCount int) *Store {
	if s, ok := r.stores[id]; ok {
		s.Replace(records, lineCount)
		r.broker.Publish(pubsub.UpdatedEvent, id)
		return s
	}

	s := NewStore(records, lineCount)
	r.stores[id] = s
	log.Debug(log.CatStore, "buffer opened", "buffer", id, "lines", lineCount)
	r.broker.Publish(pubsub.CreatedEvent, id)
	return s
}

// Refresh swaps in a fresh baseline for id and replays edits made while it
// was being fetched, publishing a single refreshed event. Replay stops at the
// first batch that no longer fits the baseline and returns its error; the
// batches before it stay applied.
func (r *Registry) Refresh(id BufferID, records []blame.Record, lineCount int, replay [][]Edit) (*Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, fmt.Errorf("refresh %s: %w", id, ErrUnknownBuffer)
	}

	s.Replace(records, lineCount)
	var replayErr error
	for i, batch := range replay {
		if _, err := s.ApplyEdit(batch...); err != nil {
			replayErr = fmt.Errorf("replaying batch %d of %d: %w", i+1, len(replay), err)
			break
		}
	}
	r.broker.Publish(pubsub.RefreshedEvent, id)
	return s, replayErr
}

// Get returns the store for id.
func (r *Registry) Get(id BufferID) (*Store, bool) {
	s, ok := r.stores[id]
	return s, ok
}

// ApplyEdit applies edits to the store for id and notifies subscribers when
// the sequence changed.
func (r *Registry) ApplyEdit(id BufferID, edits ...Edit) (bool, error) {
	s, ok := r.stores[id]
	if !ok {
		return false, nil
	}
	changed, err := s.ApplyEdit(edits...)
	if changed {
		r.broker.Publish(pubsub.UpdatedEvent, id)
	}
	return changed, err
}

// Close destroys the store for id.
func (r *Registry) Close(id BufferID) {
	if _, ok := r.stores[id]; !ok {
		return
	}
	delete(r.stores, id)
	log.Debug(log.CatStore, "buffer closed", "buffer", id)
	r.broker.Publish(pubsub.DeletedEvent, id)
}

// Len returns the number of open buffers.
func (r *Registry) Len() int {
	return len(r.stores)
}

// Subscribe returns a channel of store events, closed when ctx is done.
func (r *Registry) Subscribe(ctx context.Context) <-chan pubsub.Event[BufferID] {
	return r.broker.Subscribe(ctx)
}

// Shutdown closes the event broker.
func (r *Registry) Shutdown() {
	r.broker.Close()
}
