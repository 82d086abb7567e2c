package server

import (
	"net/http"
	"strconv"

	inkerrors "github.com/conneroisu/inkpot/internal/errors"
	"github.com/conneroisu/inkpot/internal/views"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	categories := s.store.Categories.GetAll()
	posts := s.store.Posts.GetAll()

	page := views.IndexPage{
		Posts:      make([]views.PostSummary, 0, len(posts)),
		Categories: categories,
	}
	for _, post := range posts {
		page.Posts = append(page.Posts, views.PostSummary{
			Post:         post,
			CategoryName: views.CategoryName(categories, post.CategoryID),
		})
	}

	s.render(w, r, http.StatusOK, views.Index(page))
}

func (s *Server) handleShowPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "post")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	post, ok := s.store.Posts.GetByID(id)
	if !ok {
		s.fail(w, r, inkerrors.NotFound("Post %d not found", id))
		return
	}

	categoryName := views.Uncategorized
	if category, ok := s.store.Categories.GetByID(post.CategoryID); ok {
		categoryName = category.Name
	}

	s.render(w, r, http.StatusOK, views.ShowPost(views.PostPage{
		Post:         post,
		CategoryName: categoryName,
		Comments:     s.store.Comments.GetByPostID(post.ID),
	}))
}

// handleCreateComment stores the comment against the id in the path
// whether or not that post exists.
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "post")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	values, err := formValues(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.store.Comments.Create(id, values.Get("author"), values.Get("content"))
	http.Redirect(w, r, "/post/"+strconv.Itoa(id), http.StatusFound)
}

func (s *Server) handleCreatePostForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, views.CreatePost(s.store.Categories.GetAll()))
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	values, err := formValues(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.store.Posts.Create(values.Get("title"), values.Get("content"), categoryID(values))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleEditPostForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "post")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	post, ok := s.store.Posts.GetByID(id)
	if !ok {
		s.fail(w, r, inkerrors.NotFound("Post %d not found", id))
		return
	}

	s.render(w, r, http.StatusOK, views.EditPost(post))
}

// handleEditPost updates title and content only; a submitted categoryId is
// ignored because a post's category never changes.
func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "post")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	values, err := formValues(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if updated := s.store.Posts.Update(id, values.Get("title"), values.Get("content")); updated == nil {
		s.fail(w, r, inkerrors.NotFound("Post %d not found", id))
		return
	}

	http.Redirect(w, r, "/post/"+strconv.Itoa(id), http.StatusFound)
}

// handleDeletePost always redirects home; deleting a missing post is not
// an error.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if id, err := pathID(r, "post"); err == nil {
		if !s.store.Posts.Delete(id) {
			s.logger.Debug(r.Context(), "Delete of unknown post", "id", id)
		}
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleCreateCategoryForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, views.CreateCategory())
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	values, err := formValues(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.store.Categories.Create(values.Get("name"))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleShowCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "category")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	category, ok := s.store.Categories.GetByID(id)
	if !ok {
		s.fail(w, r, inkerrors.NotFound("Category %d not found", id))
		return
	}

	s.render(w, r, http.StatusOK, views.ShowCategory(views.CategoryPage{
		Category: category,
		Posts:    s.store.Posts.GetByCategory(category.ID),
	}))
}
