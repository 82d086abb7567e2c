package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/a-h/templ"

	inkerrors "github.com/conneroisu/inkpot/internal/errors"
	"github.com/conneroisu/inkpot/internal/middleware"
	"github.com/conneroisu/inkpot/internal/views"
)

// render writes c with the given status through templ's handler.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	ctx := views.WithLiveReload(r.Context(), s.config.Development.LiveReload && s.hub != nil)

	templ.Handler(c,
		templ.WithStatus(status),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				s.logger.Error(r.Context(), err, "Failed to render page",
					"request_id", middleware.RequestIDFromContext(r.Context()),
					"path", r.URL.Path)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			})
		}),
	).ServeHTTP(w, r.WithContext(ctx))
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request, message string) {
	s.render(w, r, http.StatusNotFound, views.NotFound(message))
}

func (s *Server) renderPanic(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusInternalServerError, views.ServerError(middleware.RequestIDFromContext(r.Context())))
}

// fail renders the error page matching err.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr *inkerrors.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
		s.renderNotFound(w, r, httpErr.Message)
		return
	}

	status := inkerrors.StatusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), err, "Request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()))
	} else {
		s.logger.Debug(r.Context(), "Request rejected", "error", err.Error())
	}
	s.render(w, r, status, views.ServerError(middleware.RequestIDFromContext(r.Context())))
}

type apiError struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn(r.Context(), err, "Failed to write JSON response")
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	message := http.StatusText(inkerrors.StatusOf(err))
	var httpErr *inkerrors.HTTPError
	if errors.As(err, &httpErr) {
		message = httpErr.Message
	}
	s.writeJSON(w, r, inkerrors.StatusOf(err), apiError{Error: message})
}
