// Package seed loads blog content from a YAML file into the in-memory
// stores. Seed files are how a fresh process gets content, since nothing
// is persisted between runs.
//
// A seed file looks like:
//
//	categories:
//	  - name: Technology
//	posts:
//	  - title: Hello
//	    content: First post
//	    category: Technology
//	    comments:
//	      - author: Ada
//	        content: Nice
//
// A post's category may be given by name (matched case-insensitively) or by
// numeric id. References that match nothing are kept as dangling ids and
// reported as warnings, never as errors.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/inkpot/internal/store"
)

// File is the decoded form of a seed file.
type File struct {
	Categories []CategoryEntry `yaml:"categories"`
	Posts      []PostEntry     `yaml:"posts"`
}

// CategoryEntry declares one category.
type CategoryEntry struct {
	Name string `yaml:"name"`
}

// PostEntry declares one post and the comments attached to it.
type PostEntry struct {
	Title    string         `yaml:"title"`
	Content  string         `yaml:"content"`
	Category string         `yaml:"category,omitempty"`
	Comments []CommentEntry `yaml:"comments,omitempty"`
}

// CommentEntry declares one comment on the enclosing post.
type CommentEntry struct {
	Author  string `yaml:"author"`
	Content string `yaml:"content"`
}

// Warning describes a reference in the seed file that resolves to nothing.
type Warning struct {
	Post    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("post %q: %s", w.Post, w.Message)
}

// Result summarises what Apply loaded.
type Result struct {
	Categories int
	Posts      int
	Comments   int
	Warnings   []Warning
}

// Parse decodes seed data. Unknown keys are rejected so typos surface early.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		// A document with no content decodes to io.EOF.
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}
	return &f, nil
}

// LoadFile reads and parses the seed file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Marshal encodes f as YAML with two-space indentation.
func Marshal(f *File) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("failed to encode seed yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode seed yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate reports the dangling category references in f without touching
// any store. Categories receive ids in file order starting at 1, exactly as
// Apply would assign them.
func (f *File) Validate() []Warning {
	resolver := newResolver(f.Categories)
	var warnings []Warning
	for _, post := range f.Posts {
		if _, warning := resolver.resolve(post); warning != nil {
			warnings = append(warnings, *warning)
		}
	}
	return warnings
}

// Apply replaces the contents of st with the contents of f. Categories are
// created first, then each post followed by its comments, so ids follow
// file order and restart at 1. The records are built in a fresh store and
// swapped in with store.Replace, so readers see either the old content or
// the new, never a partial load.
func (f *File) Apply(st *store.Store) Result {
	fresh := store.New()
	result := f.load(fresh)
	st.Replace(fresh)
	return result
}

func (f *File) load(st *store.Store) Result {
	for _, category := range f.Categories {
		st.Categories.Create(category.Name)
	}

	resolver := newResolver(f.Categories)
	result := Result{Categories: len(f.Categories)}

	for _, entry := range f.Posts {
		categoryID, warning := resolver.resolve(entry)
		if warning != nil {
			result.Warnings = append(result.Warnings, *warning)
		}

		post := st.Posts.Create(entry.Title, entry.Content, categoryID)
		result.Posts++

		for _, comment := range entry.Comments {
			st.Comments.Create(post.ID, comment.Author, comment.Content)
			result.Comments++
		}
	}

	return result
}

// resolver maps a post's category reference onto the id the category
// store assigns.
type resolver struct {
	ids   map[string]int
	count int
	fold  cases.Caser
}

func newResolver(categories []CategoryEntry) *resolver {
	r := &resolver{
		ids:   make(map[string]int, len(categories)),
		count: len(categories),
		fold:  cases.Fold(),
	}
	for i, category := range categories {
		key := r.fold.String(strings.TrimSpace(category.Name))
		// Duplicate names resolve to the first category with that name.
		if _, exists := r.ids[key]; !exists {
			r.ids[key] = i + 1
		}
	}
	return r
}

func (r *resolver) resolve(post PostEntry) (int, *Warning) {
	ref := strings.TrimSpace(post.Category)
	if ref == "" {
		return 0, &Warning{Post: post.Title, Message: "no category given"}
	}

	if id, err := strconv.Atoi(ref); err == nil {
		if id < 1 || id > r.count {
			return id, &Warning{Post: post.Title, Message: fmt.Sprintf("category id %d does not exist", id)}
		}
		return id, nil
	}

	if id, ok := r.ids[r.fold.String(ref)]; ok {
		return id, nil
	}
	return 0, &Warning{Post: post.Title, Message: fmt.Sprintf("category %q does not exist", ref)}
}

// Starter returns the content written by "inkpot init".
func Starter() *File {
	return &File{
		Categories: []CategoryEntry{
			{Name: "Technology"},
			{Name: "Travel"},
		},
		Posts: []PostEntry{
			{
				Title:    "Welcome to inkpot",
				Content:  "This post was loaded from seed.yml. Edit the file and restart, or run with --watch-seed.",
				Category: "Technology",
				Comments: []CommentEntry{
					{Author: "inkpot", Content: "Comments live in memory too."},
				},
			},
			{
				Title:    "A trip to the coast",
				Content:  "Posts reference their category by name or by id.",
				Category: "travel",
			},
		},
	}
}
