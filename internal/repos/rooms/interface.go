package rooms

import (
	"context"
	"fmt"
	"time"

	"github.com/fastprodman/fliprooms/internal/domain"
)

var (
	ErrRoomNotFound     = fmt.Errorf("room %w", domain.ErrNotFound)
	ErrStatusConflict   = fmt.Errorf("room status changed concurrently: %w", domain.ErrInvalidState)
	ErrGameNotFound     = fmt.Errorf("game %w", domain.ErrNotFound)
	ErrGameExists       = fmt.Errorf("room already has a game: %w", domain.ErrInvalidState)
	ErrWinnerAlreadySet = fmt.Errorf("game winner already set: %w", domain.ErrInvalidState)
)

type Rooms interface {
	Insert(ctx context.Context, room domain.Room) error
	Get(ctx context.Context, id string) (domain.Room, error)
	LockAndGet(ctx context.Context, id string) (domain.Room, error)
	// ListActive returns WAITING and PLAYING rooms, newest first.
	ListActive(ctx context.Context) ([]domain.Room, error)
	// CompareAndSetStatus moves the room from one status to another and fails with
	// ErrStatusConflict if the room is not in from.
	CompareAndSetStatus(ctx context.Context, id string, from, to domain.RoomStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type Games interface {
	Insert(ctx context.Context, game domain.Game) error
	GetByRoom(ctx context.Context, roomID string) (domain.Game, error)
	// SetWinner assigns the winner once; a second call returns ErrWinnerAlreadySet.
	SetWinner(ctx context.Context, roomID, winnerID string, result domain.GameResult, at time.Time) error
	DeleteByRoom(ctx context.Context, roomID string) error
}
