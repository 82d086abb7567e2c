// Package store provides the in-memory relational data layer of the blog:
// one store per record type, each owning an ordered collection and an id
// counter.
//
// Stores never return errors. Absence is reported through return values and
// each operation keeps its own convention:
//
//   - GetByID on an unknown id returns the zero record and false
//   - PostStore.Update on an unknown id returns a nil pointer
//   - PostStore.Delete on an unknown id returns false
//   - relation queries with no matches return an empty, non-nil slice
//
// Cross references (a post's category, a comment's post) are plain ids and
// are never validated. Callers join records by matching ids.
//
// Each store guards its state with its own sync.RWMutex. The only operation
// spanning more than one store is Store.Replace, which swaps all of them
// under their locks at once.
package store

import (
	"sync"
	"time"

	"github.com/conneroisu/inkpot/internal/types"
)

// Store bundles the three record stores and the event hub they share.
type Store struct {
	Categories *CategoryStore
	Posts      *PostStore
	Comments   *CommentStore

	events *Events
}

// New creates an empty store set whose ids all start at 1.
func New() *Store {
	events := NewEvents()
	return &Store{
		Categories: newCategoryStore(events),
		Posts:      newPostStore(events),
		Comments:   newCommentStore(events),
		events:     events,
	}
}

// Reset empties every store and restarts every id counter at 1.
func (s *Store) Reset() {
	s.Categories.Reset()
	s.Posts.Reset()
	s.Comments.Reset()
}

// Replace swaps the records and id counters of every store in s for those
// of src. All three stores are locked together, so no reader observes a mix
// of old and new records in a single store or an empty store in between.
// src must not be used afterwards.
func (s *Store) Replace(src *Store) {
	s.Categories.mutex.Lock()
	s.Posts.mutex.Lock()
	s.Comments.mutex.Lock()

	src.Categories.mutex.RLock()
	s.Categories.categories, s.Categories.nextID = src.Categories.categories, src.Categories.nextID
	src.Categories.mutex.RUnlock()

	src.Posts.mutex.RLock()
	s.Posts.posts, s.Posts.nextID = src.Posts.posts, src.Posts.nextID
	src.Posts.mutex.RUnlock()

	src.Comments.mutex.RLock()
	s.Comments.comments, s.Comments.nextID = src.Comments.comments, src.Comments.nextID
	src.Comments.mutex.RUnlock()

	s.Comments.mutex.Unlock()
	s.Posts.mutex.Unlock()
	s.Categories.mutex.Unlock()

	s.events.notify(types.EventTypeReset, types.EntityCategory, 0)
	s.events.notify(types.EventTypeReset, types.EntityPost, 0)
	s.events.notify(types.EventTypeReset, types.EntityComment, 0)
}

// Watch returns a channel that receives events from all three stores.
func (s *Store) Watch() <-chan types.StoreEvent {
	return s.events.Watch()
}

// Unwatch removes a watcher channel and closes it.
func (s *Store) Unwatch(ch <-chan types.StoreEvent) {
	s.events.Unwatch(ch)
}

// Events fans store changes out to watchers. Delivery never blocks a store
// operation: a watcher whose buffer is full misses the event.
type Events struct {
	watchers []chan types.StoreEvent
	mutex    sync.RWMutex
}

// watchBuffer is the per-watcher channel capacity.
const watchBuffer = 100

// NewEvents creates an event hub with no watchers.
func NewEvents() *Events {
	return &Events{
		watchers: make([]chan types.StoreEvent, 0),
	}
}

// Watch returns a channel that receives store events
func (e *Events) Watch() <-chan types.StoreEvent {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	ch := make(chan types.StoreEvent, watchBuffer)
	e.watchers = append(e.watchers, ch)
	return ch
}

// Unwatch removes a watcher channel and closes it
func (e *Events) Unwatch(ch <-chan types.StoreEvent) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	for i, watcher := range e.watchers {
		if watcher == ch {
			close(watcher)
			e.watchers = append(e.watchers[:i], e.watchers[i+1:]...)
			break
		}
	}
}

func (e *Events) notify(eventType types.EventType, entity types.EntityKind, id int) {
	if e == nil {
		return
	}

	event := types.StoreEvent{
		Type:      eventType,
		Entity:    entity,
		ID:        id,
		Timestamp: time.Now(),
	}

	e.mutex.RLock()
	defer e.mutex.RUnlock()

	for _, watcher := range e.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
