package store

import (
	"sync"

	"github.com/conneroisu/inkpot/internal/types"
)

// CategoryStore holds categories in creation order. Categories are never
// updated or deleted.
type CategoryStore struct {
	categories []types.Category
	nextID     int
	mutex      sync.RWMutex
	events     *Events
}

// NewCategoryStore creates an empty category store with its own event hub.
func NewCategoryStore() *CategoryStore {
	return newCategoryStore(NewEvents())
}

func newCategoryStore(events *Events) *CategoryStore {
	return &CategoryStore{
		categories: make([]types.Category, 0),
		nextID:     1,
		events:     events,
	}
}

// Create appends a category under the next id and returns it.
func (s *CategoryStore) Create(name string) types.Category {
	s.mutex.Lock()
	category := types.Category{ID: s.nextID, Name: name}
	s.categories = append(s.categories, category)
	s.nextID++
	s.mutex.Unlock()

	s.events.notify(types.EventTypeCreated, types.EntityCategory, category.ID)
	return category
}

// GetAll returns every category in creation order.
func (s *CategoryStore) GetAll() []types.Category {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]types.Category, len(s.categories))
	copy(result, s.categories)
	return result
}

// GetByID looks a category up by id. The second result is false when no
// category has that id.
func (s *CategoryStore) GetByID(id int) (types.Category, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, category := range s.categories {
		if category.ID == id {
			return category, true
		}
	}
	return types.Category{}, false
}

// Count returns the number of stored categories.
func (s *CategoryStore) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.categories)
}

// NextID returns the id the next Create will assign.
func (s *CategoryStore) NextID() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.nextID
}

// Reset drops every category and restarts ids at 1.
func (s *CategoryStore) Reset() {
	s.mutex.Lock()
	s.categories = make([]types.Category, 0)
	s.nextID = 1
	s.mutex.Unlock()

	s.events.notify(types.EventTypeReset, types.EntityCategory, 0)
}
