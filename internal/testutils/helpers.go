// Package testutils holds helpers shared by the package tests: a loopback
// configuration, a populated store and seed file fixtures.
package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/conneroisu/inkpot/internal/config"
	"github.com/conneroisu/inkpot/internal/store"
)

// SampleSeed is a seed file with one dangling category reference.
const SampleSeed = `categories:
  - name: Go
  - name: Travel
posts:
  - title: Channels
    content: on channels
    category: go
    comments:
      - author: ann
        content: nice
      - author: bob
        content: agreed
  - title: Lost
    content: no category
    category: Cooking
`

// CreateTestConfig returns a configuration that binds a system-assigned
// port on the loopback interface and shuts down quickly.
func CreateTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = time.Second
	return cfg
}

// CreateTestStore returns a store holding the records of SampleSeed:
// categories Go(1) and Travel(2), post 1 in Go with two comments and post 2
// pointing at category 9, which does not exist.
func CreateTestStore() *store.Store {
	st := store.New()
	st.Categories.Create("Go")
	st.Categories.Create("Travel")
	first := st.Posts.Create("Channels", "on channels", 1)
	st.Posts.Create("Lost", "no category", 9)
	st.Comments.Create(first.ID, "ann", "nice")
	st.Comments.Create(first.ID, "bob", "agreed")
	return st
}

// WriteFile writes content to path, failing the test on error.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// WriteSeedFile writes content to dir/seed.yml and returns its path.
func WriteSeedFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "seed.yml")
	WriteFile(t, path, content)
	return path
}

// AssertFilePermissions checks the permission bits of the file at path.
func AssertFilePermissions(t *testing.T, path string, expectedMode os.FileMode) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)

	actualMode := info.Mode()
	require.Equal(t, expectedMode, actualMode&os.FileMode(0o777),
		"File %s has incorrect permissions: got %o, want %o",
		path, actualMode&os.FileMode(0o777), expectedMode)
}
