package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is the shared not-found sentinel for repositories
var ErrNotFound = errors.New("not found")

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so repository
// methods that must run inside a caller-owned transaction accept it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	TokenRepository       *TokenRepository
	ChoirRepository       *ChoirRepository
	HolidayRepository     *HolidayRepository
	ListOfValueRepository *ListOfValueRepository
	MemberRepository      *MemberRepository
	EventRepository       *EventRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		TokenRepository:       NewTokenRepository(db),
		ChoirRepository:       NewChoirRepository(db),
		HolidayRepository:     NewHolidayRepository(db),
		ListOfValueRepository: NewListOfValueRepository(db),
		MemberRepository:      NewMemberRepository(db),
		EventRepository:       NewEventRepository(db),
	}
}
