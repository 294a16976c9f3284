package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratep "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/agora-net/agora/internal/entities"
	"github.com/agora-net/agora/internal/service"
	"github.com/agora-net/agora/internal/service/impl"
	"github.com/agora-net/agora/internal/storage/postgres"
)

var opts = struct {
	Fixture            string `long:"fixture" env:"FIXTURE" default:"fixture.json" description:"path to fixture file"`
	Postgres           string `long:"postgres" env:"POSTGRES" default:"host=localhost port=5432 user=postgres password=root sslmode=disable" description:"postgres dsn"`
	PostgresMigrations string `long:"postgres.migrations" env:"POSTGRES_MIGRATIONS" default:"migrations/postgres" description:"postgres migrations directory"`
}{}

type fixture struct {
	Profiles []struct {
		User      string `json:"user"`
		Handle    string `json:"handle"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Bio       string `json:"bio"`
		Avatar    string `json:"avatar"`
	} `json:"profiles"`
	Posts []struct {
		Author string `json:"author"`
		Text   string `json:"text"`
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	} `json:"posts"`
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "seed"
	parser.LongDescription = "Fixture to database importer"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	logrus.Info("seed started")
	logrus.Infof("%+v", opts)

	b, err := ioutil.ReadFile(opts.Fixture)
	if err != nil {
		logrus.WithError(err).Fatal("failed to read fixture")
	}

	var f fixture

	if err := json.Unmarshal(b, &f); err != nil {
		logrus.WithError(err).Fatal("failed to unmarshal fixture")
	}

	db := mustGetDB()
	svc := impl.New(postgres.New(db))

	ctx := context.Background()

	logrus.Info("import profiles")
	for _, p := range f.Profiles {
		if _, err := svc.SetProfile(ctx, &entities.Profile{
			UserID:    p.User,
			Handle:    p.Handle,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Bio:       p.Bio,
			Avatar:    p.Avatar,
		}); err != nil {
			logrus.WithError(err).Fatal("failed to put profile into db")
		}
	}
	logrus.Infof("%d profiles imported", len(f.Profiles))

	logrus.Info("import posts")
	for _, p := range f.Posts {
		if _, err := svc.CreatePost(ctx, service.CreatePostParams{
			AuthorID: p.Author,
			Text:     p.Text,
			Name:     p.Name,
			Avatar:   p.Avatar,
		}); err != nil {
			logrus.WithError(err).Fatal("failed to put post into db")
		}
	}
	logrus.Infof("%d posts imported", len(f.Posts))
}

func mustGetDB() *sql.DB {
	db, err := sql.Open("postgres", opts.Postgres)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create postgres connection")
	}

	if err := db.PingContext(context.Background()); err != nil {
		logrus.WithError(err).Fatal("failed to ping postgres")
	}

	driver, err := migratep.WithInstance(db, &migratep.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to create database migrate driver")
	}

	migrator, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", opts.PostgresMigrations), "postgres", driver)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}

	switch err := migrator.Up(); err {
	case nil:
		logrus.Info("database was migrated")
	case migrate.ErrNoChange:
		logrus.Info("database is up-to-date")
	default:
		logrus.WithError(err).Fatal("failed to migrate db")
	}

	return db
}
