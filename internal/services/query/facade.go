package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/fastprodman/fliprooms/internal/domain"
	roomrepo "github.com/fastprodman/fliprooms/internal/repos/rooms"
)

// AccountReader is the read side of the account manager.
type AccountReader interface {
	Get(ctx context.Context, identity string) (domain.Account, error)
	GetByID(ctx context.Context, accountID string) (domain.Account, error)
	ListEntries(ctx context.Context, identity string, limit int) ([]domain.Entry, error)
}

// RoomReader is the read side of the room registry.
type RoomReader interface {
	GetRoom(ctx context.Context, roomID string) (domain.Room, error)
	GetGame(ctx context.Context, roomID string) (domain.Game, error)
	ListActiveRooms(ctx context.Context) ([]domain.Room, error)
}

type HostSummary struct {
	ID          string `json:"id"`
	Identity    string `json:"identity"`
	DisplayName string `json:"displayName"`
}

// RoomSummary is a room as shown in the lobby. Game is only set for rooms
// that have been joined.
type RoomSummary struct {
	domain.Room
	Host HostSummary  `json:"host"`
	Game *domain.Game `json:"game,omitempty"`
}

type Balance struct {
	Identity string `json:"identity"`
	Balance  int64  `json:"balance"`
}

// Facade serves read-only views. It reads through to the store on every call.
type Facade struct {
	accounts AccountReader
	rooms    RoomReader
}

func New(accounts AccountReader, rooms RoomReader) *Facade {
	return &Facade{accounts: accounts, rooms: rooms}
}

func (f *Facade) ListActiveRooms(ctx context.Context) ([]RoomSummary, error) {
	list, err := f.rooms.ListActiveRooms(ctx)
	if err != nil {
		return nil, err
	}

	hosts := make(map[string]HostSummary)
	out := make([]RoomSummary, 0, len(list))

	for _, room := range list {
		host, ok := hosts[room.HostID]
		if !ok {
			host, err = f.host(ctx, room.HostID)
			if err != nil {
				return nil, err
			}

			hosts[room.HostID] = host
		}

		out = append(out, RoomSummary{Room: room, Host: host})
	}

	return out, nil
}

func (f *Facade) GetRoom(ctx context.Context, roomID string) (RoomSummary, error) {
	room, err := f.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return RoomSummary{}, err
	}

	host, err := f.host(ctx, room.HostID)
	if err != nil {
		return RoomSummary{}, err
	}

	sum := RoomSummary{Room: room, Host: host}

	game, err := f.rooms.GetGame(ctx, roomID)
	switch {
	case err == nil:
		sum.Game = &game
	case errors.Is(err, roomrepo.ErrGameNotFound):
	default:
		return RoomSummary{}, err
	}

	return sum, nil
}

func (f *Facade) GetBalance(ctx context.Context, identity string) (Balance, error) {
	acc, err := f.accounts.Get(ctx, identity)
	if err != nil {
		return Balance{}, err
	}

	return Balance{Identity: acc.Identity, Balance: acc.Balance}, nil
}

func (f *Facade) GetAccount(ctx context.Context, identity string) (domain.Account, error) {
	return f.accounts.Get(ctx, identity)
}

func (f *Facade) ListEntries(ctx context.Context, identity string, limit int) ([]domain.Entry, error) {
	return f.accounts.ListEntries(ctx, identity, limit)
}

func (f *Facade) host(ctx context.Context, accountID string) (HostSummary, error) {
	acc, err := f.accounts.GetByID(ctx, accountID)
	if err != nil {
		return HostSummary{}, fmt.Errorf("get host: %w", err)
	}

	return HostSummary{ID: acc.ID, Identity: acc.Identity, DisplayName: acc.DisplayName}, nil
}
