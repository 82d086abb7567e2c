package seed

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/inkpot/internal/store"
)

const sampleSeed = `
categories:
  - name: Technology
  - name: Travel
posts:
  - title: Go tips
    content: Use interfaces sparingly
    category: technology
    comments:
      - author: Ada
        content: Agreed
      - author: Linus
        content: Hmm
  - title: Lisbon
    content: Trams everywhere
    category: "2"
  - title: Orphan
    content: Nobody owns me
    category: Cooking
`

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		posts   int
	}{
		{name: "sample", input: sampleSeed, posts: 3},
		{name: "empty document", input: "", posts: 0},
		{name: "comments only", input: "# nothing yet\n", posts: 0},
		{name: "unknown key", input: "articles: []\n", wantErr: true},
		{name: "broken yaml", input: "posts: [\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, f.Posts, tt.posts)
		})
	}
}

func TestApply(t *testing.T) {
	f, err := Parse([]byte(sampleSeed))
	require.NoError(t, err)

	st := store.New()
	st.Categories.Create("left over from before")

	result := f.Apply(st)

	assert.Equal(t, 2, result.Categories)
	assert.Equal(t, 3, result.Posts)
	assert.Equal(t, 2, result.Comments)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "Orphan", result.Warnings[0].Post)

	// Apply resets first, so ids restart at 1.
	categories := st.Categories.GetAll()
	require.Len(t, categories, 2)
	assert.Equal(t, 1, categories[0].ID)
	assert.Equal(t, "Technology", categories[0].Name)

	posts := st.Posts.GetAll()
	require.Len(t, posts, 3)
	assert.Equal(t, 1, posts[0].CategoryID, "names match case-insensitively")
	assert.Equal(t, 2, posts[1].CategoryID, "numeric references are ids")
	assert.Equal(t, 0, posts[2].CategoryID, "unknown names dangle")

	comments := st.Comments.GetByPostID(posts[0].ID)
	require.Len(t, comments, 2)
	assert.Equal(t, "Ada", comments[0].Author)
	assert.Empty(t, st.Comments.GetByPostID(posts[1].ID))
}

func TestApplyTwiceIsIdempotent(t *testing.T) {
	f, err := Parse([]byte(sampleSeed))
	require.NoError(t, err)

	st := store.New()
	f.Apply(st)
	f.Apply(st)

	assert.Equal(t, 2, st.Categories.Count())
	assert.Equal(t, 3, st.Posts.Count())
	assert.Equal(t, 4, st.Posts.NextID())
}

func TestApplyKeepsContentVisibleDuringReload(t *testing.T) {
	f, err := Parse([]byte(sampleSeed))
	require.NoError(t, err)

	st := store.New()
	f.Apply(st)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				f.Apply(st)
			}
		}
	}()

	for range 500 {
		assert.Equal(t, 2, st.Categories.Count())
		assert.Equal(t, 3, st.Posts.Count())
		assert.Equal(t, 2, st.Comments.Count())
	}
	close(stop)
	wg.Wait()
}

func TestValidate(t *testing.T) {
	f := &File{
		Categories: []CategoryEntry{{Name: "News"}, {Name: "news"}},
		Posts: []PostEntry{
			{Title: "ok by name", Category: "NEWS"},
			{Title: "ok by id", Category: "2"},
			{Title: "bad id", Category: "9"},
			{Title: "zero id", Category: "0"},
			{Title: "missing", Category: ""},
		},
	}

	warnings := f.Validate()
	require.Len(t, warnings, 3)
	assert.Equal(t, "bad id", warnings[0].Post)
	assert.Contains(t, warnings[0].String(), "category id 9 does not exist")
	assert.Equal(t, "zero id", warnings[1].Post)
	assert.Equal(t, "missing", warnings[2].Post)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSeed), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Categories, 2)

	_, err = LoadFile(filepath.Join(dir, "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStarterRoundTrip(t *testing.T) {
	data, err := Marshal(Starter())
	require.NoError(t, err)

	f, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Starter(), f)
	assert.Empty(t, f.Validate())
}
