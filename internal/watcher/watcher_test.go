package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/inkpot/internal/logging"
	"github.com/conneroisu/inkpot/internal/store"
	"github.com/conneroisu/inkpot/internal/testutils"
)

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "created", EventTypeCreated.String())
	assert.Equal(t, "modified", EventTypeModified.String())
	assert.Equal(t, "deleted", EventTypeDeleted.String())
	assert.Equal(t, "renamed", EventTypeRenamed.String())
	assert.Equal(t, "unknown", EventType(42).String())
}

func TestFilters(t *testing.T) {
	byName := NameFilter("seed.yml")
	assert.True(t, byName("/tmp/blog/seed.yml"))
	assert.False(t, byName("/tmp/blog/seed.yml.bak"))
	assert.False(t, byName("/tmp/blog/other.yml"))

	assert.True(t, NoTempFilter("seed.yml"))
	assert.False(t, NoTempFilter(".seed.yml.swp"))
	assert.False(t, NoTempFilter("seed.yml~"))
	assert.False(t, NoTempFilter("#seed.yml#"))
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.start(ctx)

	d.submit(ChangeEvent{Type: EventTypeCreated, Path: "a"})
	d.submit(ChangeEvent{Type: EventTypeModified, Path: "b"})
	d.submit(ChangeEvent{Type: EventTypeModified, Path: "a"})

	select {
	case batch := <-d.output:
		require.Len(t, batch, 2)
		assert.Equal(t, "a", batch[0].Path)
		assert.Equal(t, EventTypeModified, batch[0].Type, "last event per path wins")
		assert.Equal(t, "b", batch[1].Path)
	case <-time.After(time.Second):
		t.Fatal("debouncer never flushed")
	}

	select {
	case batch := <-d.output:
		t.Fatalf("unexpected second batch: %v", batch)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestSeedReloader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yml")
	testutils.WriteFile(t, path, "categories:\n  - name: News\nposts:\n  - title: First\n    content: x\n    category: news\n")

	st := store.New()
	reload := SeedReloader(path, st, logging.Nop())

	require.NoError(t, reload(context.Background(), []ChangeEvent{{Type: EventTypeModified, Path: path}}))
	assert.Equal(t, 1, st.Posts.Count())
	assert.Equal(t, 1, st.Categories.Count())

	t.Run("broken file keeps content", func(t *testing.T) {
		testutils.WriteFile(t, path, "posts: [\n")
		err := reload(context.Background(), []ChangeEvent{{Type: EventTypeModified, Path: path}})
		assert.Error(t, err)
		assert.Equal(t, 1, st.Posts.Count())
	})

	t.Run("deleted file keeps content", func(t *testing.T) {
		require.NoError(t, os.Remove(path))
		err := reload(context.Background(), []ChangeEvent{{Type: EventTypeDeleted, Path: path}})
		assert.NoError(t, err)
		assert.Equal(t, 1, st.Posts.Count())
	})
}

func TestWatchSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yml")
	testutils.WriteFile(t, path, "posts:\n  - title: One\n    content: x\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.New()
	fw, err := WatchSeed(ctx, path, st, 20*time.Millisecond, logging.Nop())
	require.NoError(t, err)
	defer fw.Stop()

	testutils.WriteFile(t, filepath.Join(dir, "unrelated.yml"), "posts: []\n")
	testutils.WriteFile(t, path, "posts:\n  - title: One\n    content: x\n  - title: Two\n    content: y\n")

	assert.Eventually(t, func() bool {
		return st.Posts.Count() == 2
	}, 2*time.Second, 10*time.Millisecond)

	titles := []string{}
	for _, post := range st.Posts.GetAll() {
		titles = append(titles, post.Title)
	}
	assert.Equal(t, []string{"One", "Two"}, titles)
}

func TestWatchSeedMissingDirectory(t *testing.T) {
	_, err := WatchSeed(context.Background(), filepath.Join(t.TempDir(), "nope", "seed.yml"), store.New(), DefaultDebounce, nil)
	assert.Error(t, err)
}
