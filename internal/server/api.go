package server

import (
	"encoding/json"
	"net/http"

	"github.com/agora-net/agora/internal/entities"
)

// Post ...
type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt uint64    `json:"createdAt"`
}

// Like ...
type Like struct {
	ID   string `json:"id"`
	User string `json:"user"`
}

// Comment ...
type Comment struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Text      string `json:"text"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	CreatedAt uint64 `json:"createdAt"`
}

// Profile ...
type Profile struct {
	User      string `json:"user"`
	Handle    string `json:"handle"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio"`
	Avatar    string `json:"avatar"`
	CreatedAt uint64 `json:"createdAt"`
}

// CreatePostRequest ...
type CreatePostRequest struct {
	Text   string `json:"text"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// AddCommentRequest ...
type AddCommentRequest struct {
	Text   string `json:"text"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// SetProfileRequest ...
type SetProfileRequest struct {
	Handle    string `json:"handle"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio"`
	Avatar    string `json:"avatar"`
}

func toAPIPost(p *entities.Post) *Post {
	if p == nil {
		return nil
	}

	out := Post{
		ID:        p.ID,
		Author:    p.AuthorID,
		Text:      p.Text,
		Name:      p.Name,
		Avatar:    p.Avatar,
		Likes:     make([]Like, len(p.Likes)),
		Comments:  make([]Comment, len(p.Comments)),
		CreatedAt: uint64(p.CreatedAt.Unix()),
	}

	for i, l := range p.Likes {
		out.Likes[i] = Like{ID: l.ID, User: l.UserID}
	}

	for i, c := range p.Comments {
		out.Comments[i] = Comment{
			ID:        c.ID,
			User:      c.UserID,
			Text:      c.Text,
			Name:      c.Name,
			Avatar:    c.Avatar,
			CreatedAt: uint64(c.CreatedAt.Unix()),
		}
	}

	return &out
}

func toAPIProfile(p *entities.Profile) *Profile {
	if p == nil {
		return nil
	}

	return &Profile{
		User:      p.UserID,
		Handle:    p.Handle,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Bio:       p.Bio,
		Avatar:    p.Avatar,
		CreatedAt: uint64(p.CreatedAt.Unix()),
	}
}

func writeOK(w http.ResponseWriter, status int, v interface{}) {
	b, _ := json.Marshal(v)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// writeError writes a single-key error body, e.g. {"alreadyliked": "..."}.
func writeError(w http.ResponseWriter, status int, key, message string) {
	writeOK(w, status, map[string]string{key: message})
}
