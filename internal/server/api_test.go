package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/inkpot/internal/config"
	"github.com/conneroisu/inkpot/internal/metrics"
	"github.com/conneroisu/inkpot/internal/store"
	"github.com/conneroisu/inkpot/internal/types"
	"github.com/conneroisu/inkpot/internal/websocket"
)

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestAPIPosts(t *testing.T) {
	srv, st := setupTestServer(t)

	empty := get(t, srv, "/api/posts")
	assert.Equal(t, http.StatusOK, empty.Code)
	assert.Equal(t, "application/json", empty.Header().Get("Content-Type"))
	assert.JSONEq(t, `[]`, empty.Body.String())

	st.Categories.Create("Technology")
	st.Posts.Create("A", "a", 1)
	st.Posts.Create("B", "b", 2)

	posts := decode[[]types.Post](t, get(t, srv, "/api/posts").Body.Bytes())
	require.Len(t, posts, 2)
	assert.Equal(t, "B", posts[1].Title)

	one := get(t, srv, "/api/posts/2")
	assert.Equal(t, http.StatusOK, one.Code)
	assert.JSONEq(t, `{"id":2,"title":"B","content":"b","categoryId":2}`, one.Body.String())

	missing := get(t, srv, "/api/posts/9")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.JSONEq(t, `{"error":"post 9 not found"}`, missing.Body.String())

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/posts/x").Code)
}

func TestAPIComments(t *testing.T) {
	srv, st := setupTestServer(t)
	post := st.Posts.Create("A", "a", 1)
	st.Comments.Create(post.ID, "Ada", "one")
	st.Comments.Create(post.ID, "Bob", "two")
	st.Posts.Delete(post.ID)

	comments := decode[[]types.Comment](t, get(t, srv, "/api/posts/1/comments").Body.Bytes())
	require.Len(t, comments, 2, "comments survive their post")
	assert.Equal(t, "Bob", comments[1].Author)

	assert.JSONEq(t, `[]`, get(t, srv, "/api/posts/5/comments").Body.String())
}

func TestAPICategories(t *testing.T) {
	srv, st := setupTestServer(t)
	st.Categories.Create("Technology")
	st.Categories.Create("Travel")
	st.Posts.Create("A", "a", 2)
	st.Posts.Create("B", "b", 1)
	st.Posts.Create("C", "c", 2)

	categories := decode[[]types.Category](t, get(t, srv, "/api/categories").Body.Bytes())
	require.Len(t, categories, 2)

	assert.JSONEq(t, `{"id":2,"name":"Travel"}`, get(t, srv, "/api/categories/2").Body.String())
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/categories/3").Code)

	posts := decode[[]types.Post](t, get(t, srv, "/api/categories/2/posts").Body.Bytes())
	require.Len(t, posts, 2)
	assert.Equal(t, "A", posts[0].Title)
	assert.Equal(t, "C", posts[1].Title)

	assert.JSONEq(t, `[]`, get(t, srv, "/api/categories/7/posts").Body.String())
}

func TestHealth(t *testing.T) {
	srv, st := setupTestServer(t)
	st.Categories.Create("Technology")
	st.Posts.Create("A", "a", 1)

	w := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	health := decode[HealthResponse](t, w.Body.Bytes())
	assert.Equal(t, "healthy", health.Status)
	assert.NotEmpty(t, health.Version)
	assert.Equal(t, 1, health.Posts)
	assert.Equal(t, 1, health.Categories)
	assert.Equal(t, 0, health.Comments)
}

func TestMetricsEndpoint(t *testing.T) {
	st := store.New()
	m, err := metrics.New(st, nil)
	require.NoError(t, err)

	srv := New(Dependencies{Config: config.Default(), Store: st, Metrics: m})

	get(t, srv, "/post/1")
	get(t, srv, "/post/2")

	w := get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `inkpot_http_requests_total{method="GET",route="/post/{id}",status="404"} 2`)

	cfg := config.Default()
	cfg.Metrics.Enabled = false
	disabled := New(Dependencies{Config: cfg, Store: st, Metrics: m})
	assert.Equal(t, http.StatusNotFound, get(t, disabled, "/metrics").Code)
}

func TestLiveReloadScript(t *testing.T) {
	st := store.New()
	hub := websocket.NewHub(nil, nil)
	defer hub.Shutdown(context.Background())

	withHub := New(Dependencies{Config: config.Default(), Store: st, Hub: hub})
	assert.Contains(t, get(t, withHub, "/").Body.String(), "/static/live.js")

	withoutHub := New(Dependencies{Config: config.Default(), Store: st})
	assert.NotContains(t, get(t, withoutHub, "/").Body.String(), "/static/live.js")
	assert.Equal(t, http.StatusNotFound, get(t, withoutHub, "/ws").Code)
}

func TestNewPanics(t *testing.T) {
	assert.Panics(t, func() { New(Dependencies{Store: store.New()}) })
	assert.Panics(t, func() { New(Dependencies{Config: config.Default()}) })
}

func TestHealthUptime(t *testing.T) {
	srv, _ := setupTestServer(t)
	srv.started = time.Now().Add(-time.Minute)

	health := decode[HealthResponse](t, get(t, srv, "/health").Body.Bytes())
	assert.GreaterOrEqual(t, health.Uptime, time.Minute)
}
