// Command seed fills an empty database with demo authors, books and users.
// It can be run repeatedly: rows that already exist are left alone.
package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/user"
	"library-backend/internal/shared/pagination"
	"library-backend/pkg/container"
	"library-backend/pkg/logger"
)

const demoPassword = "password123"

type seedUser struct {
	email string
	name  string
}

type seedAuthor struct {
	name        string
	nationality string
}

type seedBook struct {
	title       string
	genre       string
	authorIndex int
}

var (
	users = []seedUser{
		{"admin@library.com", "Admin"},
		{"user@library.com", "Demo User"},
	}

	authors = []seedAuthor{
		{"Gabriel García Márquez", "Colombian"},
		{"Isabel Allende", "Chilean"},
		{"Jorge Luis Borges", "Argentine"},
		{"Mario Vargas Llosa", "Peruvian"},
	}

	books = []seedBook{
		{"Cien años de soledad", "Magical realism", 0},
		{"El amor en los tiempos del cólera", "Romance", 0},
		{"La casa de los espíritus", "Magical realism", 1},
		{"Eva Luna", "Fiction", 1},
		{"Ficciones", "Short stories", 2},
		{"El Aleph", "Short stories", 2},
		{"La ciudad y los perros", "Novel", 3},
		{"Conversación en La Catedral", "Novel", 3},
	}
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid configuration")
	}
	logger.Init(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	c, err := container.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize container")
	}
	err = run(ctx, c)
	c.Cleanup(30 * time.Second)
	if err != nil {
		logger.Error("❌ Seeding failed", err)
		os.Exit(1)
	}

	log.Info().Msg("🎉 Seeding completed")
	for _, u := range users {
		logger.Info("Demo credentials", map[string]interface{}{
			"email":    u.email,
			"password": demoPassword,
		})
	}
}

func run(ctx context.Context, c *container.Container) error {
	created := 0
	for _, u := range users {
		name := u.name
		_, err := c.UserService.Register(ctx, user.RegisterRequest{
			Email:    u.email,
			Password: demoPassword,
			Name:     &name,
		})
		switch {
		case err == nil:
			created++
		case errors.Is(err, user.ErrEmailAlreadyExists):
		default:
			return err
		}
	}
	log.Info().Int("created", created).Int("total", len(users)).Msg("✅ Users ready")

	authorIDs := make([]int64, len(authors))
	for i, a := range authors {
		id, err := ensureAuthor(ctx, c, a)
		if err != nil {
			return err
		}
		authorIDs[i] = id
	}
	log.Info().Int("total", len(authorIDs)).Msg("✅ Authors ready")

	created = 0
	for _, b := range books {
		ok, err := ensureBook(ctx, c, b, authorIDs[b.authorIndex])
		if err != nil {
			return err
		}
		if ok {
			created++
		}
	}
	log.Info().Int("created", created).Msg("✅ Books ready")

	// Book creation already queued recounts; this covers authors whose
	// books predate the counter.
	c.Bus.Wait()
	all, err := c.AuthorRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, a := range all {
		if err := c.BookCountJob.Run(ctx, a.ID); err != nil {
			return err
		}
	}
	log.Info().Int("authors", len(all)).Msg("✅ Author book counts updated")

	return nil
}

func ensureAuthor(ctx context.Context, c *container.Container, a seedAuthor) (int64, error) {
	existing, err := c.AuthorRepo.List(ctx,
		author.ListFilter{Name: a.name, Nationality: a.nationality},
		pagination.New(1, 100),
	)
	if err != nil {
		return 0, err
	}
	for _, e := range existing {
		if e.Name == a.name && e.Nationality != nil && *e.Nationality == a.nationality {
			return e.ID, nil
		}
	}

	nationality := a.nationality
	created, err := c.AuthorService.Create(ctx, author.CreateAuthorRequest{
		Name:        a.name,
		Nationality: &nationality,
	})
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

func ensureBook(ctx context.Context, c *container.Container, b seedBook, authorID int64) (bool, error) {
	existing, err := c.BookRepo.List(ctx,
		model.ListFilter{Title: b.title, AuthorID: authorID},
		pagination.New(1, 100),
	)
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if strings.EqualFold(e.Title, b.title) {
			return false, nil
		}
	}

	genre := b.genre
	if _, err := c.BookService.CreateBook(ctx, model.CreateBookRequest{
		Title:    b.title,
		Genre:    &genre,
		AuthorID: authorID,
	}); err != nil {
		return false, err
	}
	return true, nil
}
