package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/vendas/internal/config"
	db "github.com/JonMunkholm/vendas/internal/database"
	"golang.org/x/crypto/bcrypt"
)

// Opener hands out connections scoped to a single operation.
// *database.Provider satisfies it.
type Opener interface {
	Open(ctx context.Context) (db.Conn, error)
}

// Service provides the business logic of the sales manager.
type Service struct {
	db         Opener
	location   *time.Location
	bcryptCost int
	now        func() time.Time
}

// NewService creates a new Service instance.
func NewService(opener Opener, cfg *config.Config) (*Service, error) {
	loc, err := cfg.Display.Location()
	if err != nil {
		return nil, err
	}

	cost := cfg.Auth.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &Service{
		db:         opener,
		location:   loc,
		bcryptCost: cost,
		now:        time.Now,
	}, nil
}

// Today returns the current calendar date in the configured timezone.
func (s *Service) Today() time.Time {
	return dateOnly(s.now().In(s.location))
}

// open acquires a connection for one operation. The caller must Close it.
func (s *Service) open(ctx context.Context) (db.Conn, *db.Queries, error) {
	conn, err := s.db.Open(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return conn, db.New(conn), nil
}

// Ping checks that a connection can be acquired.
func (s *Service) Ping(ctx context.Context) error {
	conn, _, err := s.open(ctx)
	if err != nil {
		return err
	}
	conn.Close()
	return nil
}
