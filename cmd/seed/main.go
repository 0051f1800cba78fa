package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"mesto/internal/app"
	"mesto/internal/config"
	apperrors "mesto/internal/errors"
	"mesto/internal/handler"
	"mesto/internal/logger"
	"mesto/internal/service"
	"mesto/internal/validation"
)

// Fixture is the layout of the seed file.
type Fixture struct {
	Users []FixtureUser `json:"users"`
}

// FixtureUser is a user together with the cards they own.
type FixtureUser struct {
	handler.SignupRequest
	Cards []handler.CreateCardRequest `json:"cards"`
}

// Summary counts what a seed run did.
type Summary struct {
	UsersCreated int
	UsersSkipped int
	CardsCreated int
}

func main() {
	file := flag.String("file", "fixtures.json", "path to the JSON fixture file")
	flag.Parse()

	cfg := config.MustLoad()
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	err = run(context.Background(), cfg, log, *file)
	_ = log.Sync()
	if err != nil {
		log.Error("seed failed", zap.Error(err))
		os.Exit(1)
	}
}

// run loads the fixture and seeds it. Every connection it opens is closed
// before it returns.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	fixture, err := readFixture(f)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", file, err)
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer a.Close()

	summary, err := seed(ctx, a, fixture, log)
	if err != nil {
		return err
	}
	log.Info("seed completed",
		zap.Int("users_created", summary.UsersCreated),
		zap.Int("users_skipped", summary.UsersSkipped),
		zap.Int("cards_created", summary.CardsCreated),
	)
	return nil
}

// readFixture decodes and validates a fixture with the same rules as the API.
func readFixture(r io.Reader) (*Fixture, error) {
	var fixture Fixture
	if err := json.NewDecoder(r).Decode(&fixture); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	v := validation.New()
	for i := range fixture.Users {
		u := &fixture.Users[i]
		if err := v.Validate(&u.SignupRequest); err != nil {
			return nil, fmt.Errorf("user %d (%s): %w", i, u.Email, err)
		}
		for j := range u.Cards {
			if err := v.Validate(&u.Cards[j]); err != nil {
				return nil, fmt.Errorf("user %s card %d: %w", u.Email, j, err)
			}
		}
	}
	return &fixture, nil
}

// seed registers every fixture user and creates their cards. Users whose
// email already exists are reused, so running the seed twice only adds cards.
func seed(ctx context.Context, a *app.App, fixture *Fixture, log *zap.Logger) (Summary, error) {
	var summary Summary
	for _, u := range fixture.Users {
		user, err := a.AuthService.Register(ctx, service.RegisterInput{
			Email:    u.Email,
			Password: u.Password,
			Name:     u.Name,
			About:    u.About,
			Avatar:   u.Avatar,
		})
		switch {
		case err == nil:
			summary.UsersCreated++
		case apperrors.Is(err, apperrors.KindConflict):
			log.Info("user exists, skipping registration", zap.String("email", u.Email))
			summary.UsersSkipped++
			if user, err = a.Users.FindByEmail(ctx, u.Email); err != nil {
				return summary, fmt.Errorf("find %s: %w", u.Email, err)
			}
		default:
			return summary, fmt.Errorf("register %s: %w", u.Email, err)
		}

		for _, c := range u.Cards {
			if _, err := a.CardService.CreateCard(ctx, user.ID, c.Name, c.Link); err != nil {
				return summary, fmt.Errorf("card %q for %s: %w", c.Name, u.Email, err)
			}
			summary.CardsCreated++
		}
	}
	return summary, nil
}
