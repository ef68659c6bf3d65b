package outcome

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/fastprodman/fliprooms/internal/dependencies/random"
	"github.com/fastprodman/fliprooms/internal/domain"
	"github.com/fastprodman/fliprooms/internal/repos"
	roomrepo "github.com/fastprodman/fliprooms/internal/repos/rooms"
	"github.com/fastprodman/fliprooms/internal/services/accounts"
)

// Ledger is the part of the account manager the resolver settles through.
type Ledger interface {
	Get(ctx context.Context, identity string) (domain.Account, error)
	ApplyDeltaTx(ctx context.Context, tx repos.Tx, adj accounts.Adjustment) (domain.BalanceChange, error)
}

// RoomCloser finishes a PLAYING room inside an open transaction.
type RoomCloser interface {
	CloseRoomTx(ctx context.Context, tx repos.Tx, roomID, winnerID string) (domain.Game, error)
}

type Resolver struct {
	store  repos.Store
	ledger Ledger
	rooms  RoomCloser
	rnd    random.Random
	log    *slog.Logger
}

func New(store repos.Store, ledger Ledger, rooms RoomCloser, rnd random.Random, log *slog.Logger) *Resolver {
	return &Resolver{store: store, ledger: ledger, rooms: rooms, rnd: rnd, log: log}
}

type SoloResult struct {
	Win             bool   `json:"win"`
	Amount          int64  `json:"amount"`
	Delta           int64  `json:"balanceChange"`
	PreviousBalance int64  `json:"previousBalance"`
	NewBalance      int64  `json:"newBalance"`
	Identity        string `json:"identity"`
}

type RoomResult struct {
	Room   domain.Room          `json:"room"`
	Game   domain.Game          `json:"game"`
	Winner domain.BalanceChange `json:"winner"`
	Loser  domain.BalanceChange `json:"loser"`
}

// ResolveSolo flips against the house: a win credits amount, a loss debits it.
// The balance must cover amount before the coin is flipped.
func (r *Resolver) ResolveSolo(ctx context.Context, identity string, amount int64) (SoloResult, error) {
	if amount <= 0 {
		return SoloResult{}, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidArgument)
	}

	acc, err := r.ledger.Get(ctx, identity)
	if err != nil {
		return SoloResult{}, fmt.Errorf("resolve solo: %w", err)
	}

	flip := r.newFlip()

	var res SoloResult

	err = r.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		balance, err := tx.Accounts().LockAndGetBalance(ctx, acc.Identity)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		if balance < amount {
			return fmt.Errorf("balance %d below amount %d: %w", balance, amount, domain.ErrInsufficientFunds)
		}

		win := flip()

		adj := accounts.Adjustment{Identity: acc.Identity, Delta: -amount, Kind: domain.EntrySoloLoss}
		if win {
			adj.Delta, adj.Kind = amount, domain.EntrySoloWin
		}

		change, err := r.ledger.ApplyDeltaTx(ctx, tx, adj)
		if err != nil {
			return fmt.Errorf("settle: %w", err)
		}

		res = SoloResult{
			Win:             win,
			Amount:          amount,
			Delta:           change.Delta,
			PreviousBalance: change.Previous,
			NewBalance:      change.New,
			Identity:        acc.Identity,
		}

		return nil
	})
	if err != nil {
		return SoloResult{}, fmt.Errorf("resolve solo: %w", err)
	}

	r.log.Info("solo wager resolved", "identity", acc.Identity, "amount", amount, "win", res.Win, "balance", res.NewBalance)

	return res, nil
}

// ResolveRoom settles a PLAYING room in one transaction:
//
// 1) Lock the room; it must be PLAYING.
// 2) Lock both balances in account-ID order; both must cover the stake.
// 3) Flip once; Player1 wins on 0.
// 4) Finish the room with the winner and move the stake from loser to winner.
func (r *Resolver) ResolveRoom(ctx context.Context, roomID string) (RoomResult, error) {
	if uuid.Validate(roomID) != nil {
		return RoomResult{}, fmt.Errorf("resolve room: %w", roomrepo.ErrRoomNotFound)
	}

	flip := r.newFlip()

	var res RoomResult

	err := r.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		// 1) Room
		room, err := tx.Rooms().LockAndGet(ctx, roomID)
		if err != nil {
			return fmt.Errorf("lock room: %w", err)
		}

		if room.Status != domain.RoomPlaying {
			return fmt.Errorf("%w: room is %s", domain.ErrInvalidState, room.Status)
		}

		game, err := tx.Games().GetByRoom(ctx, roomID)
		if err != nil {
			return fmt.Errorf("get game: %w", err)
		}

		// 2) Players
		p1, err := tx.Accounts().GetByID(ctx, game.Player1ID)
		if err != nil {
			return fmt.Errorf("get player1: %w", err)
		}

		p2, err := tx.Accounts().GetByID(ctx, game.Player2ID)
		if err != nil {
			return fmt.Errorf("get player2: %w", err)
		}

		players := []domain.Account{p1, p2}
		sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })

		for _, p := range players {
			balance, err := tx.Accounts().LockAndGetBalance(ctx, p.Identity)
			if err != nil {
				return fmt.Errorf("lock balance of %s: %w", p.Identity, err)
			}

			if balance < game.Stake {
				return fmt.Errorf("%s balance %d below stake %d: %w", p.Identity, balance, game.Stake, domain.ErrInsufficientFunds)
			}
		}

		// 3) Flip
		winner, loser := p1, p2
		if !flip() {
			winner, loser = p2, p1
		}

		// 4) Settle
		res.Game, err = r.rooms.CloseRoomTx(ctx, tx, roomID, winner.ID)
		if err != nil {
			return fmt.Errorf("close room: %w", err)
		}

		res.Winner, err = r.ledger.ApplyDeltaTx(ctx, tx, accounts.Adjustment{
			Identity: winner.Identity,
			Delta:    game.Stake,
			Kind:     domain.EntryRoomWin,
			RoomID:   roomID,
		})
		if err != nil {
			return fmt.Errorf("credit winner: %w", err)
		}

		res.Loser, err = r.ledger.ApplyDeltaTx(ctx, tx, accounts.Adjustment{
			Identity: loser.Identity,
			Delta:    -game.Stake,
			Kind:     domain.EntryRoomLoss,
			RoomID:   roomID,
		})
		if err != nil {
			return fmt.Errorf("debit loser: %w", err)
		}

		res.Room, err = tx.Rooms().Get(ctx, roomID)
		if err != nil {
			return fmt.Errorf("reload room: %w", err)
		}

		return nil
	})
	if err != nil {
		return RoomResult{}, fmt.Errorf("resolve room: %w", err)
	}

	r.log.Info("room resolved",
		"room_id", roomID,
		"winner", res.Winner.Identity,
		"loser", res.Loser.Identity,
		"stake", res.Game.Stake,
	)

	return res, nil
}

// newFlip draws at most once per call site, so a transaction rerun after an
// optimistic conflict reuses the first outcome.
func (r *Resolver) newFlip() func() bool {
	return sync.OnceValue(func() bool {
		return r.rnd.Intn(2) == 0
	})
}
