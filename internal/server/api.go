package server

import (
	"net/http"
	"time"

	inkerrors "github.com/conneroisu/inkpot/internal/errors"
	"github.com/conneroisu/inkpot/internal/version"
)

func (s *Server) handleAPIPosts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.store.Posts.GetAll())
}

func (s *Server) handleAPIPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "post")
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}

	post, ok := s.store.Posts.GetByID(id)
	if !ok {
		s.writeJSONError(w, r, inkerrors.NotFound("post %d not found", id))
		return
	}
	s.writeJSON(w, r, http.StatusOK, post)
}

// handleAPIPostComments lists comments by post id without checking that the
// post exists, so comments of a deleted post stay reachable.
func (s *Server) handleAPIPostComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "post")
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.store.Comments.GetByPostID(id))
}

func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.store.Categories.GetAll())
}

func (s *Server) handleAPICategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "category")
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}

	category, ok := s.store.Categories.GetByID(id)
	if !ok {
		s.writeJSONError(w, r, inkerrors.NotFound("category %d not found", id))
		return
	}
	s.writeJSON(w, r, http.StatusOK, category)
}

// handleAPICategoryPosts filters posts by category id. Posts may reference
// ids no category has, so a missing category is not an error.
func (s *Server) handleAPICategoryPosts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "category")
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.store.Posts.GetByCategory(id))
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status           string        `json:"status"`
	Version          string        `json:"version"`
	Timestamp        time.Time     `json:"timestamp"`
	Uptime           time.Duration `json:"uptime"`
	Posts            int           `json:"posts"`
	Categories       int           `json:"categories"`
	Comments         int           `json:"comments"`
	WebSocketClients int           `json:"websocket_clients"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:     "healthy",
		Version:    version.Get().Short(),
		Timestamp:  time.Now(),
		Uptime:     time.Since(s.started),
		Posts:      s.store.Posts.Count(),
		Categories: s.store.Categories.Count(),
		Comments:   s.store.Comments.Count(),
	}
	if s.hub != nil {
		resp.WebSocketClients = s.hub.ConnectedClients()
	}

	w.Header().Set("Cache-Control", "no-cache")
	s.writeJSON(w, r, http.StatusOK, resp)
}
