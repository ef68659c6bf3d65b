package rooms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fastprodman/fliprooms/internal/dependencies/clock"
	"github.com/fastprodman/fliprooms/internal/domain"
	"github.com/fastprodman/fliprooms/internal/repos"
	roomrepo "github.com/fastprodman/fliprooms/internal/repos/rooms"
)

// AccountDirectory resolves identities to accounts, creating them on first use.
type AccountDirectory interface {
	GetOrCreate(ctx context.Context, identity string) (domain.Account, bool, error)
	Get(ctx context.Context, identity string) (domain.Account, error)
}

// Registry owns rooms and games and drives the
// WAITING -> PLAYING -> FINISHED lifecycle. It never moves balances.
type Registry struct {
	store    repos.Store
	accounts AccountDirectory
	clock    clock.Clock
	log      *slog.Logger
}

func New(store repos.Store, accounts AccountDirectory, clk clock.Clock, log *slog.Logger) *Registry {
	return &Registry{store: store, accounts: accounts, clock: clk, log: log}
}

// RoomUpdate is a partial update. Winner, when set, finishes the room.
type RoomUpdate struct {
	Status *domain.RoomStatus
	Winner string
}

// CreateRoom opens a WAITING room. The host must be able to cover the stake
// now; nothing is reserved.
func (r *Registry) CreateRoom(ctx context.Context, hostIdentity string, stake int64) (domain.Room, error) {
	if stake <= 0 {
		return domain.Room{}, fmt.Errorf("%w: stake must be positive", domain.ErrInvalidArgument)
	}

	host, _, err := r.accounts.GetOrCreate(ctx, hostIdentity)
	if err != nil {
		return domain.Room{}, fmt.Errorf("resolve host: %w", err)
	}

	if host.Balance < stake {
		return domain.Room{}, fmt.Errorf("host balance %d below stake %d: %w", host.Balance, stake, domain.ErrInsufficientFunds)
	}

	now := r.clock.Now()
	room := domain.Room{
		ID:        uuid.NewString(),
		HostID:    host.ID,
		Stake:     stake,
		Status:    domain.RoomWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = r.store.Rooms().Insert(ctx, room)
	if err != nil {
		return domain.Room{}, fmt.Errorf("insert room: %w", err)
	}

	r.log.Info("room created", "room_id", room.ID, "host", host.Identity, "stake", stake)

	return room, nil
}

// JoinRoom seats the joiner and moves the room to PLAYING in one transaction:
//
// 1) Lock the room; it must be WAITING.
// 2) Lock the joiner's balance; it must cover the stake.
// 3) CAS WAITING -> PLAYING and record the game.
func (r *Registry) JoinRoom(ctx context.Context, roomID, joinerIdentity string) (domain.Game, error) {
	err := checkRoomID(roomID)
	if err != nil {
		return domain.Game{}, err
	}

	joiner, _, err := r.accounts.GetOrCreate(ctx, joinerIdentity)
	if err != nil {
		return domain.Game{}, fmt.Errorf("resolve joiner: %w", err)
	}

	var game domain.Game

	err = r.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		// 1) Room
		room, err := tx.Rooms().LockAndGet(ctx, roomID)
		if err != nil {
			return fmt.Errorf("lock room: %w", err)
		}

		if room.Status != domain.RoomWaiting {
			return fmt.Errorf("%w: room is %s", domain.ErrInvalidState, room.Status)
		}

		if room.HostID == joiner.ID {
			return fmt.Errorf("%w: host cannot join own room", domain.ErrInvalidArgument)
		}

		// 2) Joiner funds
		balance, err := tx.Accounts().LockAndGetBalance(ctx, joiner.Identity)
		if err != nil {
			return fmt.Errorf("lock joiner balance: %w", err)
		}

		if balance < room.Stake {
			return fmt.Errorf("joiner balance %d below stake %d: %w", balance, room.Stake, domain.ErrInsufficientFunds)
		}

		// 3) Transition
		now := r.clock.Now()

		err = tx.Rooms().CompareAndSetStatus(ctx, roomID, domain.RoomWaiting, domain.RoomPlaying, now)
		if err != nil {
			return fmt.Errorf("start room: %w", err)
		}

		game = domain.Game{
			ID:        uuid.NewString(),
			RoomID:    roomID,
			Player1ID: room.HostID,
			Player2ID: joiner.ID,
			Stake:     room.Stake,
			PlayedAt:  now,
		}

		err = tx.Games().Insert(ctx, game)
		if err != nil {
			return fmt.Errorf("insert game: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Game{}, fmt.Errorf("join room: %w", err)
	}

	r.log.Info("room joined", "room_id", roomID, "joiner", joiner.Identity)

	return game, nil
}

func (r *Registry) GetRoom(ctx context.Context, roomID string) (domain.Room, error) {
	err := checkRoomID(roomID)
	if err != nil {
		return domain.Room{}, err
	}

	room, err := r.store.Rooms().Get(ctx, roomID)
	if err != nil {
		return domain.Room{}, fmt.Errorf("get room: %w", err)
	}

	return room, nil
}

func (r *Registry) GetGame(ctx context.Context, roomID string) (domain.Game, error) {
	err := checkRoomID(roomID)
	if err != nil {
		return domain.Game{}, err
	}

	game, err := r.store.Games().GetByRoom(ctx, roomID)
	if err != nil {
		return domain.Game{}, fmt.Errorf("get game: %w", err)
	}

	return game, nil
}

// ListActiveRooms returns WAITING and PLAYING rooms, newest first.
func (r *Registry) ListActiveRooms(ctx context.Context) ([]domain.Room, error) {
	list, err := r.store.Rooms().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active rooms: %w", err)
	}

	return list, nil
}

// CloseRoom finishes a PLAYING room with the given winner. No balance moves.
func (r *Registry) CloseRoom(ctx context.Context, roomID, winnerIdentity string) (domain.Game, error) {
	err := checkRoomID(roomID)
	if err != nil {
		return domain.Game{}, err
	}

	// An unknown winner cannot be a player. It is left empty so the room is
	// still looked up first and a missing room reports NotFound.
	winner, err := r.accounts.Get(ctx, winnerIdentity)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Game{}, fmt.Errorf("resolve winner: %w", err)
	}

	var game domain.Game

	err = r.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		game, err = r.CloseRoomTx(ctx, tx, roomID, winner.ID)
		return err
	})
	if err != nil {
		return domain.Game{}, fmt.Errorf("close room: %w", err)
	}

	r.log.Info("room closed", "room_id", roomID, "winner", winner.Identity)

	return game, nil
}

// CloseRoomTx moves a PLAYING room to FINISHED and records winnerID (an
// account ID) inside the caller's transaction.
func (r *Registry) CloseRoomTx(ctx context.Context, tx repos.Tx, roomID, winnerID string) (domain.Game, error) {
	room, err := tx.Rooms().LockAndGet(ctx, roomID)
	if err != nil {
		return domain.Game{}, fmt.Errorf("lock room: %w", err)
	}

	if room.Status != domain.RoomPlaying {
		return domain.Game{}, fmt.Errorf("%w: room is %s", domain.ErrInvalidState, room.Status)
	}

	game, err := tx.Games().GetByRoom(ctx, roomID)
	if err != nil {
		return domain.Game{}, fmt.Errorf("get game: %w", err)
	}

	if !game.HasPlayer(winnerID) {
		return domain.Game{}, fmt.Errorf("%w: winner is not a player of this room", domain.ErrInvalidArgument)
	}

	now := r.clock.Now()

	err = tx.Rooms().CompareAndSetStatus(ctx, roomID, domain.RoomPlaying, domain.RoomFinished, now)
	if err != nil {
		return domain.Game{}, fmt.Errorf("finish room: %w", err)
	}

	result := game.ResultFor(winnerID)

	err = tx.Games().SetWinner(ctx, roomID, winnerID, result, now)
	if err != nil {
		return domain.Game{}, fmt.Errorf("set winner: %w", err)
	}

	game.WinnerID = winnerID
	game.Result = result
	game.ResolvedAt = &now

	return game, nil
}

// UpdateRoom applies an administrative status/winner change. Only forward
// moves that keep the game and winner consistent are accepted: a winner closes
// the room, the current status is a no-op, anything else is rejected.
func (r *Registry) UpdateRoom(ctx context.Context, roomID string, upd RoomUpdate) (domain.Room, error) {
	if upd.Winner != "" {
		if upd.Status != nil && *upd.Status != domain.RoomFinished {
			return domain.Room{}, fmt.Errorf("%w: a winner implies status %s", domain.ErrInvalidArgument, domain.RoomFinished)
		}

		_, err := r.CloseRoom(ctx, roomID, upd.Winner)
		if err != nil {
			return domain.Room{}, err
		}

		return r.GetRoom(ctx, roomID)
	}

	if upd.Status == nil {
		return domain.Room{}, fmt.Errorf("%w: nothing to update", domain.ErrInvalidArgument)
	}

	if !upd.Status.Valid() {
		return domain.Room{}, fmt.Errorf("%w: unknown room status %q", domain.ErrInvalidArgument, *upd.Status)
	}

	room, err := r.GetRoom(ctx, roomID)
	if err != nil {
		return domain.Room{}, err
	}

	switch {
	case *upd.Status == room.Status:
		return room, nil
	case upd.Status.Before(room.Status):
		return domain.Room{}, fmt.Errorf("%w: room cannot go back from %s to %s", domain.ErrInvalidState, room.Status, *upd.Status)
	case *upd.Status == domain.RoomPlaying:
		return domain.Room{}, fmt.Errorf("%w: a room starts playing only when joined", domain.ErrInvalidArgument)
	default:
		return domain.Room{}, fmt.Errorf("%w: finishing a room requires a winner", domain.ErrInvalidArgument)
	}
}

// DeleteRoom removes the room and its game regardless of state.
func (r *Registry) DeleteRoom(ctx context.Context, roomID string) error {
	err := checkRoomID(roomID)
	if err != nil {
		return err
	}

	err = r.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		err := tx.Games().DeleteByRoom(ctx, roomID)
		if err != nil {
			return fmt.Errorf("delete game: %w", err)
		}

		return tx.Rooms().Delete(ctx, roomID)
	})
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	r.log.Info("room deleted", "room_id", roomID)

	return nil
}

// Room IDs are UUIDs; anything else cannot name a room.
func checkRoomID(id string) error {
	if uuid.Validate(id) != nil {
		return roomrepo.ErrRoomNotFound
	}

	return nil
}
