package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/musicchallenge/internal/dependencies/clock"
	"github.com/mcoot/musicchallenge/internal/dependencies/random"
	"github.com/mcoot/musicchallenge/internal/model"
	"github.com/mcoot/musicchallenge/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// DemoPlayerName is the account signed in by the mocked OAuth provider
const DemoPlayerName = "demo_user"

// Service owns player credentials: registration, password checks and lookups
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	cfg     Config

	// dummyHash is compared against when a login names no account,
	// so unknown names cost the same bcrypt work as wrong passwords
	dummyHash []byte
}

// Config holds configuration for the auth service
type Config struct {
	BcryptCost            int
	RequireStrongPassword bool
	MaxNameLength         int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost:    bcrypt.DefaultCost,
		MaxNameLength: 32,
	}
}

// New creates a new auth service
func New(storage storage.Storage, clock clock.Clock, rnd random.Random, logger *slog.Logger, cfg Config) (*Service, error) {
	defaults := DefaultConfig()
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}
	if cfg.MaxNameLength == 0 {
		cfg.MaxNameLength = defaults.MaxNameLength
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(rnd.Token()), cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	return &Service{
		storage:   storage,
		clock:     clock,
		random:    rnd,
		logger:    logger,
		cfg:       cfg,
		dummyHash: dummy,
	}, nil
}

// RegisterInput is the data needed to create an account
type RegisterInput struct {
	Name     string
	Country  string
	Gender   model.Gender
	Password string
}

// Register validates the input and creates a player with a hashed password
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.Player, error) {
	in, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	// Fast path only; the store's unique constraint decides races
	_, err = s.storage.GetPlayerByName(ctx, in.Name)
	if err == nil {
		return nil, model.ErrDuplicateName
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	player := &model.Player{
		Name:         in.Name,
		Country:      in.Country,
		Gender:       in.Gender,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player registered", slog.Int64("player_id", int64(player.ID)), slog.String("name", player.Name))
	return player, nil
}

// Authenticate checks a name and password pair.
// An unknown name and a wrong password both return ErrInvalidCredentials.
// The name is trimmed the same way Register stores it.
func (s *Service) Authenticate(ctx context.Context, name, password string) (*model.Player, error) {
	player, err := s.storage.GetPlayerByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if !errors.Is(err, model.ErrPlayerNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return player, nil
}

// FindByID returns the player with the given ID
func (s *Service) FindByID(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// DemoPlayer returns the demo account, creating it on first use.
// Its password is a random secret nobody knows, so it can only be entered through OAuth.
func (s *Service) DemoPlayer(ctx context.Context) (*model.Player, error) {
	player, err := s.storage.GetPlayerByName(ctx, DemoPlayerName)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.random.Token()), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	player = &model.Player{
		Name:         DemoPlayerName,
		Country:      "Demo Country",
		Gender:       model.GenderMale,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	err = s.storage.CreatePlayer(ctx, player)
	if errors.Is(err, model.ErrDuplicateName) {
		// Lost a concurrent first login; use the winner's row
		return s.storage.GetPlayerByName(ctx, DemoPlayerName)
	}
	if err != nil {
		return nil, err
	}
	return player, nil
}
