package mockdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/inkpot/internal/store"
)

func TestGenerate(t *testing.T) {
	file := NewGeneratorWithSeed(42).Generate(3, 10, 4)

	require.Len(t, file.Categories, 3)
	assert.Equal(t, "Technology", file.Categories[0].Name)
	require.Len(t, file.Posts, 10)

	for _, post := range file.Posts {
		assert.NotEmpty(t, post.Title)
		assert.LessOrEqual(t, len(post.Comments), 4)
	}

	// Every generated reference resolves, so loading produces no warnings.
	assert.Empty(t, file.Validate())

	st := store.New()
	result := file.Apply(st)
	assert.Equal(t, 10, st.Posts.Count())
	assert.Equal(t, result.Comments, st.Comments.Count())
}

func TestGenerateClampsCategories(t *testing.T) {
	g := NewGeneratorWithSeed(1)

	assert.Len(t, g.Generate(0, 1, 0).Categories, 1)
	assert.Len(t, g.Generate(100, 1, 0).Categories, len(topics))
	assert.Empty(t, g.Generate(2, 3, 0).Posts[0].Comments)
}

func TestGenerateDeterministic(t *testing.T) {
	a := NewGeneratorWithSeed(7).Generate(2, 5, 2)
	b := NewGeneratorWithSeed(7).Generate(2, 5, 2)
	assert.Equal(t, a, b)
}
