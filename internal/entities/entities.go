// Package entities contains main entities of service.
package entities

import (
	"time"
)

// Post is the aggregate root: likes and comments only exist inside it.
type Post struct {
	ID        string
	AuthorID  string
	Text      string
	Name      string
	Avatar    string
	Likes     []Like
	Comments  []Comment
	CreatedAt time.Time
}

// Like ...
type Like struct {
	ID     string
	UserID string
}

// Comment ...
type Comment struct {
	ID        string
	UserID    string
	Text      string
	Name      string
	Avatar    string
	CreatedAt time.Time
}

// Profile ...
// Name and Avatar on Post/Comment are captured at write time and are not
// refreshed when the profile changes.
type Profile struct {
	UserID    string
	Handle    string
	FirstName string
	LastName  string
	Bio       string
	Avatar    string
	CreatedAt time.Time
}
