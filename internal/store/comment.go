package store

import (
	"sync"

	"github.com/conneroisu/inkpot/internal/types"
)

// CommentStore holds comments in creation order. Comments are never
// updated or deleted.
type CommentStore struct {
	comments []types.Comment
	nextID   int
	mutex    sync.RWMutex
	events   *Events
}

// NewCommentStore creates an empty comment store with its own event hub.
func NewCommentStore() *CommentStore {
	return newCommentStore(NewEvents())
}

func newCommentStore(events *Events) *CommentStore {
	return &CommentStore{
		comments: make([]types.Comment, 0),
		nextID:   1,
		events:   events,
	}
}

// Create appends a comment under the next id and returns it. postID is
// stored as given, whether or not such a post exists.
func (s *CommentStore) Create(postID int, author, content string) types.Comment {
	s.mutex.Lock()
	comment := types.Comment{
		ID:      s.nextID,
		PostID:  postID,
		Author:  author,
		Content: content,
	}
	s.comments = append(s.comments, comment)
	s.nextID++
	s.mutex.Unlock()

	s.events.notify(types.EventTypeCreated, types.EntityComment, comment.ID)
	return comment
}

// GetByPostID returns the comments left on postID in creation order. The
// result is empty, never nil, when nothing matches.
func (s *CommentStore) GetByPostID(postID int) []types.Comment {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]types.Comment, 0)
	for _, comment := range s.comments {
		if comment.PostID == postID {
			result = append(result, comment)
		}
	}
	return result
}

// GetAll returns every comment in creation order.
func (s *CommentStore) GetAll() []types.Comment {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]types.Comment, len(s.comments))
	copy(result, s.comments)
	return result
}

// Count returns the number of stored comments.
func (s *CommentStore) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.comments)
}

// NextID returns the id the next Create will assign.
func (s *CommentStore) NextID() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.nextID
}

// Reset drops every comment and restarts ids at 1.
func (s *CommentStore) Reset() {
	s.mutex.Lock()
	s.comments = make([]types.Comment, 0)
	s.nextID = 1
	s.mutex.Unlock()

	s.events.notify(types.EventTypeReset, types.EntityComment, 0)
}
