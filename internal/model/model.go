package model

import (
	"time"
)

const (
	// AppName is used as the env var prefix and the config directory name.
	AppName = "linistrate"

	// DefaultGroupColor matches the color the backend assigns to groups
	// created without one.
	DefaultGroupColor = "#3b82f6"
)

// User is the authenticated account identity returned by the user endpoints.
type User struct {
	ID       int    `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is the client-held authenticated identity and its bearer token.
//
// User and Token are always set and cleared together - a session with one
// but not the other is never persisted or observable.
type Session struct {
	User  *User  `json:"user,omitempty"`
	Token string `json:"token,omitempty"`
}

// Group is a named, colored tag used to cluster assets.
//
// Groups are created implicitly by the backend when an asset create or
// update names a group that does not exist yet - an upsert contract, there
// is no separate group create endpoint.
type Group struct {
	ID    int    `json:"group_id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Technology identifies an asset OS/platform, a read-only reference
// vocabulary owned by the backend.
type Technology struct {
	ID   int    `json:"technology_id"`
	Name string `json:"name"`
}

// Blog is a journal entry, optionally attached to an asset.
type Blog struct {
	ID        int       `json:"blog_id"`
	Title     string    `json:"blog_title"`
	Content   string    `json:"blog_content"`
	CreatedAt time.Time `json:"blog_created_at"`
}
