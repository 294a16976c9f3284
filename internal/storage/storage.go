// Package storage contains a storage interface.
package storage

import (
	"context"
	"errors"

	"github.com/agora-net/agora/internal/entities"
)

//go:generate mockgen -destination=./mock/storage.go -package=mock -source=storage.go

// ErrNotFound ...
var ErrNotFound = errors.New("not found")

// Storage provides methods for interacting with database.
//
// Posts are stored and replaced as whole documents: every mutation of the
// aggregate is a GetPost followed by an UpdatePost, last write wins.
type Storage interface {
	CreatePost(ctx context.Context, p *entities.Post) error
	GetPost(ctx context.Context, id string) (*entities.Post, error)
	UpdatePost(ctx context.Context, p *entities.Post) error
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context) ([]*entities.Post, error)

	GetProfile(ctx context.Context, userID string) (*entities.Profile, error)
	SetProfile(ctx context.Context, p *entities.Profile) error
}
