//go:build integration
// +build integration

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	m "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/agora-net/agora/internal/entities"
	"github.com/agora-net/agora/internal/storage"
)

var (
	db  *sql.DB
	ctx = context.Background()
	s   storage.Storage
)

func TestMain(t *testing.M) {
	shutdown := setup()

	s = New(db)

	code := t.Run()
	shutdown()
	os.Exit(code)
}

func setup() func() {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:12",
		Env:          map[string]string{"POSTGRES_PASSWORD": "root"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
	})
	if err != nil {
		logrus.WithError(err).Fatalf("failed to create container")
	}

	if err := c.Start(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to start container")
	}

	host, err := c.Host(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("failed to get host")
	}

	port, err := c.MappedPort(ctx, "5432")
	if err != nil {
		logrus.WithError(err).Fatal("failed to map port")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=postgres password=root sslmode=disable", host, port.Int())

	db, err = sql.Open("postgres", dsn)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open connection")
	}

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("failed to ping postgres")
	}

	shutdownFn := func() {
		if c != nil {
			c.Terminate(ctx)
		}
	}

	migrate("postgres", "root", host, "postgres", port.Int())

	return shutdownFn
}

func migrate(username, password, hostname, dbname string, port int) {
	_, currFile, _, ok := runtime.Caller(0)
	if !ok {
		logrus.Fatal("failed to get current file location")
	}

	migrations := filepath.Join(currFile, "../../../../migrations/postgres/")

	migrator, err := m.New(
		fmt.Sprintf("file://%s", migrations),
		fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			username, password, hostname, port, dbname),
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		logrus.WithError(err).Fatal("failed to migrate")
	}
}

func cleanup(t *testing.T) {
	_, err := db.ExecContext(ctx, `DELETE FROM post`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `DELETE FROM profile`)
	require.NoError(t, err)
}

func newPost(id string, createdAt time.Time) *entities.Post {
	return &entities.Post{
		ID:        id,
		AuthorID:  "user-a",
		Text:      "Hello world",
		Name:      "Alice",
		Avatar:    "http://a/1.png",
		Likes:     []entities.Like{},
		Comments:  []entities.Comment{},
		CreatedAt: createdAt,
	}
}

func TestPg_CreatePost_GetPost(t *testing.T) {
	defer cleanup(t)

	p := newPost("00000000-0000-0000-0000-000000000001", time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.CreatePost(ctx, p))

	out, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, out)

	_, err = s.GetPost(ctx, "00000000-0000-0000-0000-0000000000ff")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPg_UpdatePost(t *testing.T) {
	defer cleanup(t)

	p := newPost("00000000-0000-0000-0000-000000000001", time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.CreatePost(ctx, p))

	p.Likes = []entities.Like{{ID: "like-1", UserID: "user-b"}}
	p.Comments = []entities.Comment{{
		ID:        "comment-1",
		UserID:    "user-b",
		Text:      "nice post",
		Name:      "Bob",
		Avatar:    "http://a/2.png",
		CreatedAt: time.Date(2023, 5, 1, 13, 0, 0, 0, time.UTC),
	}}

	require.NoError(t, s.UpdatePost(ctx, p))

	out, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, out)

	assert.ErrorIs(t, s.UpdatePost(ctx, newPost("00000000-0000-0000-0000-0000000000ff", time.Now().UTC())), storage.ErrNotFound)
}

func TestPg_DeletePost(t *testing.T) {
	defer cleanup(t)

	p := newPost("00000000-0000-0000-0000-000000000001", time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.CreatePost(ctx, p))

	require.NoError(t, s.DeletePost(ctx, p.ID))

	_, err := s.GetPost(ctx, p.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, s.DeletePost(ctx, p.ID), storage.ErrNotFound)
}

func TestPg_ListPosts(t *testing.T) {
	defer cleanup(t)

	base := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

	older := newPost("00000000-0000-0000-0000-000000000001", base)
	newer := newPost("00000000-0000-0000-0000-000000000002", base.Add(time.Hour))

	require.NoError(t, s.CreatePost(ctx, older))
	require.NoError(t, s.CreatePost(ctx, newer))

	out, err := s.ListPosts(ctx)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, newer.ID, out[0].ID)
	assert.Equal(t, older.ID, out[1].ID)
}

func TestPg_ListPosts_empty(t *testing.T) {
	defer cleanup(t)

	out, err := s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPg_Profile(t *testing.T) {
	defer cleanup(t)

	p := &entities.Profile{
		UserID:    "user-a",
		Handle:    "alice",
		FirstName: "Alice",
		LastName:  "Doe",
		Bio:       "hello",
		Avatar:    "http://a/1.png",
		CreatedAt: time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, s.SetProfile(ctx, p))

	out, err := s.GetProfile(ctx, p.UserID)
	require.NoError(t, err)
	assert.Equal(t, p.Handle, out.Handle)
	assert.Equal(t, p.FirstName, out.FirstName)
	assert.Equal(t, p.Bio, out.Bio)
	assert.Equal(t, p.CreatedAt.Unix(), out.CreatedAt.Unix())

	// upsert keeps created_at
	p.Handle = "alice2"
	p.Bio = "updated"
	require.NoError(t, s.SetProfile(ctx, p))

	out, err = s.GetProfile(ctx, p.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", out.Handle)
	assert.Equal(t, "updated", out.Bio)
	assert.Equal(t, time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC).Unix(), out.CreatedAt.Unix())

	_, err = s.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
