package testutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/inkpot/internal/seed"
	"github.com/conneroisu/inkpot/internal/store"
)

func TestCreateTestConfig(t *testing.T) {
	cfg := CreateTestConfig()
	assert.Equal(t, "127.0.0.1:0", cfg.Addr())
	assert.False(t, cfg.IsProduction())
}

func TestSampleSeedMatchesTestStore(t *testing.T) {
	path := WriteSeedFile(t, t.TempDir(), SampleSeed)
	AssertFilePermissions(t, path, 0o644)

	file, err := seed.LoadFile(path)
	require.NoError(t, err)

	st := store.New()
	result := file.Apply(st)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "Lost", result.Warnings[0].Post)

	want := CreateTestStore()
	assert.Equal(t, want.Categories.GetAll(), st.Categories.GetAll())
	assert.Equal(t, want.Comments.GetAll(), st.Comments.GetAll())
	assert.Len(t, st.Posts.GetAll(), 2)
}
