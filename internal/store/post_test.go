package store

import (
	"testing"

	"github.com/conneroisu/inkpot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostStore_Create(t *testing.T) {
	s := NewPostStore()

	post := s.Create("New Post", "This is a test post", 1)

	assert.Equal(t, types.Post{ID: 1, Title: "New Post", Content: "This is a test post", CategoryID: 1}, post)
	assert.Equal(t, 1, s.Count())
}

func TestPostStore_CreateAcceptsDanglingCategory(t *testing.T) {
	s := NewPostStore()

	post := s.Create("Orphan", "no such category", 404)

	stored, ok := s.GetByID(post.ID)
	require.True(t, ok)
	assert.Equal(t, 404, stored.CategoryID)
}

func TestPostStore_GetAll(t *testing.T) {
	s := NewPostStore()
	require.NotNil(t, s.GetAll())

	s.Create("Post 1", "body", 1)
	s.Create("Post 2", "body", 2)
	s.Create("Post 3", "body", 1)

	all := s.GetAll()
	require.Len(t, all, 3)
	for i, post := range all {
		assert.Equal(t, i+1, post.ID)
	}
}

func TestPostStore_GetByID(t *testing.T) {
	s := NewPostStore()
	created := s.Create("Post 1", "body", 1)

	post, ok := s.GetByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, created, post)

	missing, ok := s.GetByID(999)
	assert.False(t, ok)
	assert.Equal(t, types.Post{}, missing)
}

func TestPostStore_GetByCategory(t *testing.T) {
	s := NewPostStore()
	s.Create("Post 1", "body", 1)
	s.Create("Post 2", "body", 2)
	s.Create("Post 3", "body", 1)

	t.Run("matching posts in creation order", func(t *testing.T) {
		posts := s.GetByCategory(1)
		require.Len(t, posts, 2)
		assert.Equal(t, "Post 1", posts[0].Title)
		assert.Equal(t, "Post 3", posts[1].Title)
	})

	t.Run("single match", func(t *testing.T) {
		posts := s.GetByCategory(2)
		require.Len(t, posts, 1)
		assert.Equal(t, "Post 2", posts[0].Title)
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		posts := s.GetByCategory(999)
		require.NotNil(t, posts)
		assert.Empty(t, posts)
	})
}

func TestPostStore_Update(t *testing.T) {
	s := NewPostStore()
	created := s.Create("Post 1", "body", 7)

	t.Run("existing post", func(t *testing.T) {
		updated := s.Update(created.ID, "Updated Post Title", "Updated content for the post")
		require.NotNil(t, updated)

		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, 7, updated.CategoryID)
		assert.Equal(t, "Updated Post Title", updated.Title)
		assert.Equal(t, "Updated content for the post", updated.Content)

		stored, ok := s.GetByID(created.ID)
		require.True(t, ok)
		assert.Equal(t, *updated, stored)
	})

	t.Run("unknown id returns nil", func(t *testing.T) {
		assert.Nil(t, s.Update(999, "x", "y"))
	})

	t.Run("returned pointer does not alias the store", func(t *testing.T) {
		updated := s.Update(created.ID, "Again", "again")
		require.NotNil(t, updated)
		updated.Title = "mutated"

		stored, _ := s.GetByID(created.ID)
		assert.Equal(t, "Again", stored.Title)
	})
}

func TestPostStore_Delete(t *testing.T) {
	s := NewPostStore()
	post := s.Create("Post 1", "body", 1)

	assert.True(t, s.Delete(post.ID))
	assert.False(t, s.Delete(post.ID))
	assert.Empty(t, s.GetAll())

	_, ok := s.GetByID(post.ID)
	assert.False(t, ok)
}

func TestPostStore_DeleteKeepsOrder(t *testing.T) {
	s := NewPostStore()
	s.Create("Post 1", "body", 1)
	middle := s.Create("Post 2", "body", 1)
	s.Create("Post 3", "body", 1)

	require.True(t, s.Delete(middle.ID))

	all := s.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "Post 1", all[0].Title)
	assert.Equal(t, "Post 3", all[1].Title)
}

func TestPostStore_IDsAreNeverReused(t *testing.T) {
	s := NewPostStore()
	first := s.Create("Post 1", "body", 1)
	second := s.Create("Post 2", "body", 1)

	require.True(t, s.Delete(second.ID))
	require.True(t, s.Delete(first.ID))

	third := s.Create("Post 3", "body", 1)
	assert.Equal(t, 3, third.ID)
}

func TestPostStore_Reset(t *testing.T) {
	s := NewPostStore()
	s.Create("Post 1", "body", 1)
	s.Create("Post 2", "body", 1)

	s.Reset()

	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 1, s.NextID())
	assert.Equal(t, 1, s.Create("Post", "body", 1).ID)
}
