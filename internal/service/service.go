// Package service contains interface for service business-logic.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/agora-net/agora/internal/entities"
	"github.com/agora-net/agora/internal/validation"
)

//go:generate mockgen -destination=./mock/service.go -package=mock -source=service.go

var (
	// ErrPostNotFound ...
	ErrPostNotFound = errors.New("post not found")
	// ErrNotPostOwner returned when somebody but the author tries to delete a post.
	ErrNotPostOwner = errors.New("requester is not the post owner")
	// ErrAlreadyLiked ...
	ErrAlreadyLiked = errors.New("post is already liked by this user")
	// ErrNotLiked ...
	ErrNotLiked = errors.New("post is not liked by this user")
	// ErrCommentNotFound ...
	ErrCommentNotFound = errors.New("comment not found")
	// ErrProfileNotFound ...
	ErrProfileNotFound = errors.New("profile not found")
)

// ValidationError carries the per-field messages returned to the client.
type ValidationError struct {
	Fields validation.Errors
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %v", e.Fields)
}

// CreatePostParams ...
type CreatePostParams struct {
	AuthorID string
	Text     string
	Name     string
	Avatar   string
}

// AddCommentParams ...
type AddCommentParams struct {
	PostID string
	UserID string
	Text   string
	Name   string
	Avatar string
}

// Service is the post aggregate service. All mutations are read-modify-persist
// against the storage, there is no optimistic concurrency control.
type Service interface {
	CreatePost(ctx context.Context, p CreatePostParams) (*entities.Post, error)
	GetPost(ctx context.Context, postID string) (*entities.Post, error)
	ListPosts(ctx context.Context) ([]*entities.Post, error)
	DeletePost(ctx context.Context, postID, requesterID string) error

	AddLike(ctx context.Context, postID, userID string) (*entities.Post, error)
	RemoveLike(ctx context.Context, postID, userID string) (*entities.Post, error)

	AddComment(ctx context.Context, p AddCommentParams) (*entities.Post, error)
	RemoveComment(ctx context.Context, postID, commentID, requesterID string) (*entities.Post, error)

	GetProfile(ctx context.Context, userID string) (*entities.Profile, error)
	SetProfile(ctx context.Context, p *entities.Profile) (*entities.Profile, error)
}
