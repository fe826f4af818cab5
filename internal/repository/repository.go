package repository

import (
	"context"
	"database/sql"
	"time"

	pc "parachute_control"
	"parachute_control/internal/chute"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*pc.User, error)
}

// ParamsRepo persists the single chute parameter row (id=1).
type ParamsRepo interface {
	Save(ctx context.Context, p chute.Params) error
	// Load returns the persisted parameters; found is false when no row
	// has been written yet.
	Load(ctx context.Context) (p chute.Params, found bool, err error)
}

// EventRepo is the append-only status/event log.
type EventRepo interface {
	Append(ctx context.Context, e pc.ChuteEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]pc.ChuteEvent, error)
}

type Repository struct {
	Params ParamsRepo
	Events EventRepo
	Auth   Authorization
}

func NewRepository(database *sql.DB) *Repository {
	return &Repository{
		Params: NewParamsSQLite(database),
		Events: NewEventSQLite(database),
		Auth:   NewUserRepository(database),
	}
}
