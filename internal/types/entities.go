// Package types provides the blog records shared by the stores, the seed
// loader, the views and the CLI. Keeping them here avoids import cycles
// between the store and its consumers.
package types

import "time"

// Category groups posts. Categories are created once and never change.
type Category struct {
	// ID is assigned by the category store, starting at 1
	ID int `json:"id" yaml:"id"`
	// Name is stored exactly as given; duplicates are allowed
	Name string `json:"name" yaml:"name"`
}

// Post is a blog entry. CategoryID is a weak reference: it is never checked
// against the category store and may point at nothing.
type Post struct {
	ID         int    `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Content    string `json:"content" yaml:"content"`
	CategoryID int    `json:"categoryId" yaml:"categoryId"`
}

// Comment belongs to a post by id only. Deleting the post leaves its
// comments in place.
type Comment struct {
	ID      int    `json:"id" yaml:"id"`
	PostID  int    `json:"postId" yaml:"postId"`
	Author  string `json:"author" yaml:"author"`
	Content string `json:"content" yaml:"content"`
}

// EntityKind names the record type an event refers to.
type EntityKind string

const (
	EntityCategory EntityKind = "category"
	EntityPost     EntityKind = "post"
	EntityComment  EntityKind = "comment"
)

// EventType represents the type of store change event.
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	EventTypeReset   EventType = "reset"
)

// StoreEvent represents a change in one of the stores, used for live
// updates to connected browsers and for metrics.
type StoreEvent struct {
	// Type indicates the kind of change
	Type EventType `json:"type"`
	// Entity is the record type that changed
	Entity EntityKind `json:"entity"`
	// ID is the affected record id; zero for reset events
	ID int `json:"id,omitempty"`
	// Timestamp records when the change happened
	Timestamp time.Time `json:"timestamp"`
}
