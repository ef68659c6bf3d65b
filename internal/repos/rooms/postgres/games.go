package rooms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fastprodman/fliprooms/internal/domain"
	"github.com/fastprodman/fliprooms/internal/infra/pgutils"
	"github.com/fastprodman/fliprooms/internal/repos/rooms"
)

func (r *gamesRepo) Insert(ctx context.Context, g domain.Game) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO games (id, room_id, player1_id, player2_id, stake, played_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, g.ID, g.RoomID, g.Player1ID, pgutils.NullString(g.Player2ID), g.Stake, g.PlayedAt)
	if err != nil {
		switch {
		case pgutils.IsUniqueViolation(err):
			return rooms.ErrGameExists
		case pgutils.IsForeignKeyViolation(err):
			return fmt.Errorf("insert game: room or player: %w", domain.ErrNotFound)
		default:
			return fmt.Errorf("insert game: %w", err)
		}
	}

	return nil
}

func (r *gamesRepo) GetByRoom(ctx context.Context, roomID string) (domain.Game, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE room_id = $1
	`, roomID)

	var (
		g                       domain.Game
		player2, winner, result sql.NullString
		resolvedAt              sql.NullTime
	)

	err := row.Scan(&g.ID, &g.RoomID, &g.Player1ID, &player2, &winner, &g.Stake, &result, &g.PlayedAt, &resolvedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Game{}, rooms.ErrGameNotFound
		}

		return domain.Game{}, fmt.Errorf("scan game: %w", err)
	}

	g.Player2ID = player2.String
	g.WinnerID = winner.String
	g.Result = domain.GameResult(result.String)

	if resolvedAt.Valid {
		t := resolvedAt.Time
		g.ResolvedAt = &t
	}

	return g, nil
}

// SetWinner only touches games without a winner, so the first writer wins.
func (r *gamesRepo) SetWinner(ctx context.Context, roomID, winnerID string, result domain.GameResult, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE games
		SET winner_id = $2, result = $3, resolved_at = $4
		WHERE room_id = $1
		  AND winner_id IS NULL
	`, roomID, winnerID, string(result), at)
	if err != nil {
		return fmt.Errorf("set winner: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if n == 1 {
		return nil
	}

	var exists bool

	err = r.q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM games WHERE room_id = $1)
	`, roomID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check game exists: %w", err)
	}

	if !exists {
		return rooms.ErrGameNotFound
	}

	return rooms.ErrWinnerAlreadySet
}

// DeleteByRoom is a no-op for rooms that never got a game.
func (r *gamesRepo) DeleteByRoom(ctx context.Context, roomID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM games WHERE room_id = $1`, roomID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}

	return nil
}
