package store

import (
	"sync"

	"github.com/conneroisu/inkpot/internal/types"
)

// PostStore holds posts in creation order.
type PostStore struct {
	posts  []types.Post
	nextID int
	mutex  sync.RWMutex
	events *Events
}

// NewPostStore creates an empty post store with its own event hub.
func NewPostStore() *PostStore {
	return newPostStore(NewEvents())
}

func newPostStore(events *Events) *PostStore {
	return &PostStore{
		posts:  make([]types.Post, 0),
		nextID: 1,
		events: events,
	}
}

// Create appends a post under the next id and returns it. categoryID is
// stored as given, whether or not such a category exists.
func (s *PostStore) Create(title, content string, categoryID int) types.Post {
	s.mutex.Lock()
	post := types.Post{
		ID:         s.nextID,
		Title:      title,
		Content:    content,
		CategoryID: categoryID,
	}
	s.posts = append(s.posts, post)
	s.nextID++
	s.mutex.Unlock()

	s.events.notify(types.EventTypeCreated, types.EntityPost, post.ID)
	return post
}

// GetAll returns every post in creation order.
func (s *PostStore) GetAll() []types.Post {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]types.Post, len(s.posts))
	copy(result, s.posts)
	return result
}

// GetByID looks a post up by id. The second result is false when no post
// has that id.
func (s *PostStore) GetByID(id int) (types.Post, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.posts[i], true
	}
	return types.Post{}, false
}

// GetByCategory returns the posts filed under categoryID in creation order.
// The result is empty, never nil, when nothing matches.
func (s *PostStore) GetByCategory(categoryID int) []types.Post {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]types.Post, 0)
	for _, post := range s.posts {
		if post.CategoryID == categoryID {
			result = append(result, post)
		}
	}
	return result
}

// Update replaces the title and content of a post in place and returns a
// copy of the updated record. The id and category are left untouched.
// It returns nil when no post has that id.
func (s *PostStore) Update(id int, title, content string) *types.Post {
	s.mutex.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mutex.Unlock()
		return nil
	}
	s.posts[i].Title = title
	s.posts[i].Content = content
	updated := s.posts[i]
	s.mutex.Unlock()

	s.events.notify(types.EventTypeUpdated, types.EntityPost, id)
	return &updated
}

// Delete removes a post and reports whether it existed. Comments that
// reference the post are left alone.
func (s *PostStore) Delete(id int) bool {
	s.mutex.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mutex.Unlock()
		return false
	}
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	s.mutex.Unlock()

	s.events.notify(types.EventTypeDeleted, types.EntityPost, id)
	return true
}

// Count returns the number of stored posts.
func (s *PostStore) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.posts)
}

// NextID returns the id the next Create will assign.
func (s *PostStore) NextID() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.nextID
}

// Reset drops every post and restarts ids at 1.
func (s *PostStore) Reset() {
	s.mutex.Lock()
	s.posts = make([]types.Post, 0)
	s.nextID = 1
	s.mutex.Unlock()

	s.events.notify(types.EventTypeReset, types.EntityPost, 0)
}

// indexOf must be called with the mutex held.
func (s *PostStore) indexOf(id int) int {
	for i, post := range s.posts {
		if post.ID == id {
			return i
		}
	}
	return -1
}
