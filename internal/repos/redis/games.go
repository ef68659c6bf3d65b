package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/fastprodman/fliprooms/internal/domain"
	"github.com/fastprodman/fliprooms/internal/repos/rooms"
)

var _ rooms.Games = (*gamesRepo)(nil)

type gamesRepo struct{ sc scope }

func (r *gamesRepo) Insert(ctx context.Context, g domain.Game) error {
	return r.sc.run(ctx, func(s *session) error {
		_, roomExists, err := s.get(ctx, roomKey(g.RoomID))
		if err != nil {
			return err
		}

		if !roomExists {
			return fmt.Errorf("insert game: room: %w", domain.ErrNotFound)
		}

		_, exists, err := s.get(ctx, gameKey(g.RoomID))
		if err != nil {
			return err
		}

		if exists {
			return rooms.ErrGameExists
		}

		return s.setJSON(ctx, gameKey(g.RoomID), g)
	})
}

func (r *gamesRepo) GetByRoom(ctx context.Context, roomID string) (domain.Game, error) {
	var g domain.Game

	err := r.sc.run(ctx, func(s *session) error {
		var err error
		g, err = loadGame(ctx, s, roomID)
		return err
	})

	return g, err
}

func (r *gamesRepo) SetWinner(ctx context.Context, roomID, winnerID string, result domain.GameResult, at time.Time) error {
	return r.sc.run(ctx, func(s *session) error {
		g, err := loadGame(ctx, s, roomID)
		if err != nil {
			return err
		}

		if g.WinnerID != "" {
			return rooms.ErrWinnerAlreadySet
		}

		g.WinnerID = winnerID
		g.Result = result
		g.ResolvedAt = &at

		return s.setJSON(ctx, gameKey(roomID), g)
	})
}

func (r *gamesRepo) DeleteByRoom(ctx context.Context, roomID string) error {
	return r.sc.run(ctx, func(s *session) error {
		s.del(ctx, gameKey(roomID))
		return nil
	})
}

func loadGame(ctx context.Context, s *session, roomID string) (domain.Game, error) {
	g, ok, err := getJSON[domain.Game](ctx, s, gameKey(roomID))
	if err != nil {
		return domain.Game{}, err
	}

	if !ok {
		return domain.Game{}, rooms.ErrGameNotFound
	}

	return g, nil
}
