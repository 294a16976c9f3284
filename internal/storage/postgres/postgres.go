// Package postgres is implementation of storage interface.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/agora-net/agora/internal/entities"
	"github.com/agora-net/agora/internal/storage"
)

var log = logrus.WithField("layer", "storage").WithField("package", "postgres")

type pg struct {
	ext sqlx.ExtContext
}

// New creates new instance of storage.
func New(db *sql.DB) storage.Storage {
	return pg{ext: sqlx.NewDb(db, "postgres")}
}

type postRow struct {
	ID        string    `db:"id"`
	Author    string    `db:"author"`
	CreatedAt time.Time `db:"created_at"`
	Doc       string    `db:"doc"`
}

type profileRow struct {
	UserID    string    `db:"user_id"`
	Handle    string    `db:"handle"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Bio       string    `db:"bio"`
	Avatar    string    `db:"avatar"`
	CreatedAt time.Time `db:"created_at"`
}

// postDoc is the persisted form of the aggregate, likes and comments included.
type postDoc struct {
	ID        string       `json:"id"`
	Author    string       `json:"author"`
	Text      string       `json:"text"`
	Name      string       `json:"name"`
	Avatar    string       `json:"avatar"`
	Likes     []likeDoc    `json:"likes"`
	Comments  []commentDoc `json:"comments"`
	CreatedAt time.Time    `json:"createdAt"`
}

type likeDoc struct {
	ID   string `json:"id"`
	User string `json:"user"`
}

type commentDoc struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s pg) CreatePost(ctx context.Context, p *entities.Post) error {
	doc, err := marshalPost(p)
	if err != nil {
		return err
	}

	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO post(id, author, created_at, doc)
			VALUES(:id, :author, :created_at, :doc)
		`, postRow{
			ID:        p.ID,
			Author:    p.AuthorID,
			CreatedAt: p.CreatedAt.UTC(),
			Doc:       string(doc),
		},
	); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) GetPost(ctx context.Context, id string) (*entities.Post, error) {
	var r postRow

	if err := sqlx.GetContext(ctx, s.ext, &r,
		`SELECT id, author, created_at, doc FROM post WHERE id=$1`, id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return unmarshalPost([]byte(r.Doc))
}

func (s pg) UpdatePost(ctx context.Context, p *entities.Post) error {
	doc, err := marshalPost(p)
	if err != nil {
		return err
	}

	res, err := s.ext.ExecContext(ctx, `UPDATE post SET doc=$1 WHERE id=$2`, string(doc), p.ID)
	if err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get rows affected count: %w", err)
	} else if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s pg) DeletePost(ctx context.Context, id string) error {
	res, err := s.ext.ExecContext(ctx, `DELETE FROM post WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get rows affected count: %w", err)
	} else if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s pg) ListPosts(ctx context.Context) ([]*entities.Post, error) {
	var rows []postRow

	if err := sqlx.SelectContext(ctx, s.ext, &rows,
		`SELECT id, author, created_at, doc FROM post ORDER BY created_at DESC, id DESC`,
	); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]*entities.Post, len(rows))
	for i, r := range rows {
		p, err := unmarshalPost([]byte(r.Doc))
		if err != nil {
			log.WithError(err).WithField("post_id", r.ID).Error("broken post document")
			return nil, err
		}
		out[i] = p
	}

	return out, nil
}

func (s pg) GetProfile(ctx context.Context, userID string) (*entities.Profile, error) {
	var r profileRow

	if err := sqlx.GetContext(ctx, s.ext, &r,
		`
			SELECT user_id, handle, first_name, last_name, bio, avatar, created_at FROM profile
			WHERE user_id=$1
		`, userID,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return &entities.Profile{
		UserID:    r.UserID,
		Handle:    r.Handle,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
		Avatar:    r.Avatar,
		CreatedAt: r.CreatedAt,
	}, nil
}

func (s pg) SetProfile(ctx context.Context, p *entities.Profile) error {
	profile := profileRow{
		UserID:    p.UserID,
		Handle:    p.Handle,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Bio:       p.Bio,
		Avatar:    p.Avatar,
		CreatedAt: p.CreatedAt.UTC(),
	}

	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO profile(user_id, handle, first_name, last_name, bio, avatar, created_at)
			VALUES(:user_id, :handle, :first_name, :last_name, :bio, :avatar, :created_at)
			ON CONFLICT(user_id) DO UPDATE SET
			handle=excluded.handle, first_name=excluded.first_name, last_name=excluded.last_name,
			bio=excluded.bio, avatar=excluded.avatar
		`, profile,
	); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func marshalPost(p *entities.Post) ([]byte, error) {
	doc := postDoc{
		ID:        p.ID,
		Author:    p.AuthorID,
		Text:      p.Text,
		Name:      p.Name,
		Avatar:    p.Avatar,
		Likes:     make([]likeDoc, len(p.Likes)),
		Comments:  make([]commentDoc, len(p.Comments)),
		CreatedAt: p.CreatedAt.UTC(),
	}

	for i, l := range p.Likes {
		doc.Likes[i] = likeDoc{ID: l.ID, User: l.UserID}
	}

	for i, c := range p.Comments {
		doc.Comments[i] = commentDoc{
			ID:        c.ID,
			User:      c.UserID,
			Text:      c.Text,
			Name:      c.Name,
			Avatar:    c.Avatar,
			CreatedAt: c.CreatedAt.UTC(),
		}
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal post document: %w", err)
	}

	return b, nil
}

func unmarshalPost(b []byte) (*entities.Post, error) {
	var doc postDoc

	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post document: %w", err)
	}

	p := entities.Post{
		ID:        doc.ID,
		AuthorID:  doc.Author,
		Text:      doc.Text,
		Name:      doc.Name,
		Avatar:    doc.Avatar,
		Likes:     make([]entities.Like, len(doc.Likes)),
		Comments:  make([]entities.Comment, len(doc.Comments)),
		CreatedAt: doc.CreatedAt,
	}

	for i, l := range doc.Likes {
		p.Likes[i] = entities.Like{ID: l.ID, UserID: l.User}
	}

	for i, c := range doc.Comments {
		p.Comments[i] = entities.Comment{
			ID:        c.ID,
			UserID:    c.User,
			Text:      c.Text,
			Name:      c.Name,
			Avatar:    c.Avatar,
			CreatedAt: c.CreatedAt,
		}
	}

	return &p, nil
}
