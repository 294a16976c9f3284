// Package impl is implementation of service interface.
package impl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agora-net/agora/internal/entities"
	"github.com/agora-net/agora/internal/service"
	"github.com/agora-net/agora/internal/storage"
	"github.com/agora-net/agora/internal/validation"
)

type srv struct {
	s   storage.Storage
	now func() time.Time
}

// New creates new instance of service.
func New(s storage.Storage) service.Service {
	return srv{
		s:   s,
		now: time.Now,
	}
}

func (s srv) CreatePost(ctx context.Context, p service.CreatePostParams) (*entities.Post, error) {
	if errs := validation.Post(p.Text); !errs.Valid() {
		return nil, service.ValidationError{Fields: errs}
	}

	post := &entities.Post{
		ID:        uuid.NewString(),
		AuthorID:  p.AuthorID,
		Text:      p.Text,
		Name:      p.Name,
		Avatar:    p.Avatar,
		Likes:     []entities.Like{},
		Comments:  []entities.Comment{},
		CreatedAt: s.now().UTC(),
	}

	if err := s.s.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

func (s srv) GetPost(ctx context.Context, postID string) (*entities.Post, error) {
	return s.getPost(ctx, postID)
}

func (s srv) ListPosts(ctx context.Context) ([]*entities.Post, error) {
	posts, err := s.s.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

func (s srv) DeletePost(ctx context.Context, postID, requesterID string) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != requesterID {
		return service.ErrNotPostOwner
	}

	if err := s.s.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return service.ErrPostNotFound
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

func (s srv) AddLike(ctx context.Context, postID, userID string) (*entities.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	for _, l := range post.Likes {
		if l.UserID == userID {
			return nil, service.ErrAlreadyLiked
		}
	}

	// newest first
	post.Likes = append([]entities.Like{{
		ID:     uuid.NewString(),
		UserID: userID,
	}}, post.Likes...)

	if err := s.update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s srv) RemoveLike(ctx context.Context, postID, userID string) (*entities.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, l := range post.Likes {
		if l.UserID == userID {
			idx = i
			break
		}
	}

	if idx == -1 {
		return nil, service.ErrNotLiked
	}

	post.Likes = append(post.Likes[:idx], post.Likes[idx+1:]...)

	if err := s.update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s srv) AddComment(ctx context.Context, p service.AddCommentParams) (*entities.Post, error) {
	if errs := validation.Comment(p.Text); !errs.Valid() {
		return nil, service.ValidationError{Fields: errs}
	}

	post, err := s.getPost(ctx, p.PostID)
	if err != nil {
		return nil, err
	}

	// newest first
	post.Comments = append([]entities.Comment{{
		ID:        uuid.NewString(),
		UserID:    p.UserID,
		Text:      p.Text,
		Name:      p.Name,
		Avatar:    p.Avatar,
		CreatedAt: s.now().UTC(),
	}}, post.Comments...)

	if err := s.update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// RemoveComment deletes a comment by its id. Comment deletion is not gated on
// ownership: any authenticated requester may remove any comment, unlike
// DeletePost.
func (s srv) RemoveComment(ctx context.Context, postID, commentID, requesterID string) (*entities.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, c := range post.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}

	if idx == -1 {
		return nil, service.ErrCommentNotFound
	}

	post.Comments = append(post.Comments[:idx], post.Comments[idx+1:]...)

	if err := s.update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s srv) GetProfile(ctx context.Context, userID string) (*entities.Profile, error) {
	p, err := s.s.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, service.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return p, nil
}

func (s srv) SetProfile(ctx context.Context, p *entities.Profile) (*entities.Profile, error) {
	if errs := validation.Profile(p.Handle); !errs.Valid() {
		return nil, service.ValidationError{Fields: errs}
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}

	if err := s.s.SetProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to set profile: %w", err)
	}

	// The upsert keeps the original created_at on updates, so read the row
	// back instead of echoing the input.
	out, err := s.s.GetProfile(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return out, nil
}

func (s srv) getPost(ctx context.Context, postID string) (*entities.Post, error) {
	post, err := s.s.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, service.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

func (s srv) update(ctx context.Context, post *entities.Post) error {
	if err := s.s.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return service.ErrPostNotFound
		}
		return fmt.Errorf("failed to update post: %w", err)
	}

	return nil
}
