package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/inkpot/internal/config"
	"github.com/conneroisu/inkpot/internal/logging"
)

type observation struct {
	method string
	route  string
	status int
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *recordingObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{method, route, status})
}

func newRouter(t *testing.T, deps Dependencies) *chi.Mux {
	t.Helper()
	if deps.Config == nil {
		deps.Config = config.Default()
	}

	r := chi.NewRouter()
	r.Use(NewChain(deps).Middlewares()...)
	r.Get("/post/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("post " + chi.URLParam(r, "id")))
	})
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	return r
}

func TestChainDefaultStack(t *testing.T) {
	chain := NewChain(Dependencies{Config: config.Default()})
	assert.Equal(t, 5, chain.Len())

	chain.Add(func(next http.Handler) http.Handler { return next })
	assert.Equal(t, 6, chain.Len())
	assert.Len(t, chain.Middlewares(), 6)

	assert.Panics(t, func() { NewChain(Dependencies{}) })
	assert.Panics(t, func() { chain.Apply(nil) })
}

func TestChainApplyOrder(t *testing.T) {
	chain := &Chain{}
	var order []string
	for _, name := range []string{"outer", "inner"} {
		name := name
		chain.Add(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	handler := chain.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, id)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, id, seen)
	})

	t.Run("garbage replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "not\nan id")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.NotEqual(t, "not\nan id", seen)
	})

	assert.Empty(t, RequestIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestLoggingReportsRoutePattern(t *testing.T) {
	observer := &recordingObserver{}
	var logs bytes.Buffer
	logger, err := logging.New("info", "json", &logs)
	require.NoError(t, err)

	r := newRouter(t, Dependencies{Logger: logger, Observer: observer})

	for _, path := range []string{"/post/1", "/post/2", "/missing", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, observer.seen, 4)
	assert.Equal(t, observation{"GET", "/post/{id}", 200}, observer.seen[0])
	assert.Equal(t, observation{"GET", "/post/{id}", 200}, observer.seen[1])
	assert.Equal(t, observation{"GET", "/missing", 404}, observer.seen[2])
	assert.Equal(t, 404, observer.seen[3].status)

	assert.Contains(t, logs.String(), `"route":"/post/{id}"`)
	assert.Contains(t, logs.String(), `"request_id"`)
}

func TestRecover(t *testing.T) {
	t.Run("default response", func(t *testing.T) {
		r := newRouter(t, Dependencies{})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("custom page", func(t *testing.T) {
		observer := &recordingObserver{}
		r := newRouter(t, Dependencies{
			Observer: observer,
			OnPanic: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("sorry " + RequestIDFromContext(r.Context())))
			},
		})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "sorry "+rec.Header().Get(RequestIDHeader), rec.Body.String())
		require.Len(t, observer.seen, 1)
		assert.Equal(t, 500, observer.seen[0].status)
	})
}

func TestSecurityHeaders(t *testing.T) {
	r := newRouter(t, Dependencies{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/post/1", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		name        string
		allowed     []string
		development bool
		origin      string
		want        string
	}{
		{name: "listed origin", allowed: []string{"http://localhost:3000"}, origin: "http://localhost:3000", want: "http://localhost:3000"},
		{name: "listed host", allowed: []string{"localhost:3000"}, origin: "http://localhost:3000", want: "http://localhost:3000"},
		{name: "unlisted in production", allowed: []string{"localhost:3000"}, origin: "http://evil.example", want: ""},
		{name: "wildcard in development", development: true, origin: "http://anything.example", want: "*"},
		{name: "no wildcard when list given", allowed: []string{"a.example"}, development: true, origin: "http://b.example", want: ""},
		{name: "same origin request", allowed: nil, origin: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tt.allowed, tt.development)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		CORS([]string{"localhost:3000"}, false)(ok).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
