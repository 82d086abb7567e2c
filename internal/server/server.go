// Package server wires the stores to HTTP: the HTML pages of the blog, the
// read-only JSON API, health, metrics and the live-update socket.
//
// Handlers read from one or more stores, join records by id and render a
// views component. Mutating handlers call the store and redirect with 302.
package server

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/conneroisu/inkpot/internal/config"
	"github.com/conneroisu/inkpot/internal/logging"
	"github.com/conneroisu/inkpot/internal/metrics"
	"github.com/conneroisu/inkpot/internal/middleware"
	"github.com/conneroisu/inkpot/internal/store"
	"github.com/conneroisu/inkpot/internal/views"
	"github.com/conneroisu/inkpot/internal/websocket"
)

// Dependencies holds what the server needs. Config and Store are required;
// a nil Metrics or Hub disables the matching endpoint.
type Dependencies struct {
	Config  *config.Config
	Store   *store.Store
	Logger  logging.Logger
	Metrics *metrics.Metrics
	Hub     *websocket.Hub
}

// Server is the http.Handler for the whole application.
type Server struct {
	config  *config.Config
	store   *store.Store
	logger  logging.Logger
	metrics *metrics.Metrics
	hub     *websocket.Hub
	router  chi.Router
	started time.Time
}

// New builds the router with every route registered.
func New(deps Dependencies) *Server {
	if deps.Config == nil {
		panic("server.New: config cannot be nil")
	}
	if deps.Store == nil {
		panic("server.New: store cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}

	s := &Server{
		config:  deps.Config,
		store:   deps.Store,
		logger:  deps.Logger.WithComponent("server"),
		metrics: deps.Metrics,
		hub:     deps.Hub,
		started: time.Now(),
	}
	s.router = s.routes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	mwDeps := middleware.Dependencies{
		Config:  s.config,
		Logger:  s.logger,
		OnPanic: s.renderPanic,
	}
	if s.metrics != nil {
		mwDeps.Observer = s.metrics
	}
	r.Use(middleware.NewChain(mwDeps).Middlewares()...)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderNotFound(w, r, "Page not found")
	})

	// Blog pages
	r.Get("/", s.handleIndex)
	r.Get("/post/{id}", s.handleShowPost)
	r.Post("/post/{id}/comment", s.handleCreateComment)
	r.Get("/create", s.handleCreatePostForm)
	r.Post("/create", s.handleCreatePost)
	r.Get("/edit/{id}", s.handleEditPostForm)
	r.Post("/edit/{id}", s.handleEditPost)
	r.Get("/delete/{id}", s.handleDeletePost)
	r.Get("/createCategory", s.handleCreateCategoryForm)
	r.Post("/createCategory", s.handleCreateCategory)
	r.Get("/category/{id}", s.handleShowCategory)

	// Read-only JSON API
	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", s.handleAPIPosts)
		r.Get("/posts/{id}", s.handleAPIPost)
		r.Get("/posts/{id}/comments", s.handleAPIPostComments)
		r.Get("/categories", s.handleAPICategories)
		r.Get("/categories/{id}", s.handleAPICategory)
		r.Get("/categories/{id}/posts", s.handleAPICategoryPosts)
	})

	r.Handle("/static/*", staticHandler())
	r.Get("/health", s.handleHealth)

	if s.metrics != nil && s.config.Metrics.Enabled {
		r.Handle(s.config.Metrics.Path, s.metrics.Handler())
	}
	if s.hub != nil {
		r.Handle("/ws", s.hub)
	}

	return r
}

func staticHandler() http.Handler {
	assets, err := fs.Sub(views.Static, "static")
	if err != nil {
		// The embedded directory is fixed at compile time
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(assets)))
}
