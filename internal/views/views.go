// Package views renders the blog pages as templ components. Handlers build
// the view-models declared here from the stores and pass them to a page
// component; the Layout component wraps every page.
package views

import (
	"context"
	"embed"
	"strconv"

	"github.com/a-h/templ"

	"github.com/conneroisu/inkpot/internal/types"
)

// Static holds the stylesheet and the live-update script served under
// /static/.
//
//go:embed static
var Static embed.FS

// Uncategorized is shown for posts whose category id matches no category.
const Uncategorized = "Uncategorized"

// PostSummary is a post joined with the name of its category.
type PostSummary struct {
	Post         types.Post
	CategoryName string
}

// IndexPage lists every post and every category.
type IndexPage struct {
	Posts      []PostSummary
	Categories []types.Category
}

// PostPage shows one post with its comments.
type PostPage struct {
	Post         types.Post
	CategoryName string
	Comments     []types.Comment
}

// CategoryPage lists the posts filed under one category.
type CategoryPage struct {
	Category types.Category
	Posts    []types.Post
}

// CategoryName returns the name of the category with the given id, or
// Uncategorized when there is none.
func CategoryName(categories []types.Category, id int) string {
	for _, category := range categories {
		if category.ID == id {
			return category.Name
		}
	}
	return Uncategorized
}

type liveReloadKey struct{}

// WithLiveReload marks ctx so that Layout includes the live-update script.
func WithLiveReload(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, liveReloadKey{}, enabled)
}

func liveReloadEnabled(ctx context.Context) bool {
	enabled, _ := ctx.Value(liveReloadKey{}).(bool)
	return enabled
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func postURL(id int) templ.SafeURL {
	return templ.SafeURL("/post/" + itoa(id))
}

func commentURL(id int) templ.SafeURL {
	return templ.SafeURL("/post/" + itoa(id) + "/comment")
}

func editURL(id int) templ.SafeURL {
	return templ.SafeURL("/edit/" + itoa(id))
}

func deleteURL(id int) templ.SafeURL {
	return templ.SafeURL("/delete/" + itoa(id))
}

func categoryURL(id int) templ.SafeURL {
	return templ.SafeURL("/category/" + itoa(id))
}
