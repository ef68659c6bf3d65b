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

func (r *roomsRepo) Insert(ctx context.Context, room domain.Room) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO rooms (id, host_id, stake, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, room.ID, room.HostID, room.Stake, string(room.Status), room.CreatedAt, room.UpdatedAt)
	if err != nil {
		if pgutils.IsForeignKeyViolation(err) {
			return fmt.Errorf("insert room: host: %w", domain.ErrNotFound)
		}

		return fmt.Errorf("insert room: %w", err)
	}

	return nil
}

func (r *roomsRepo) Get(ctx context.Context, id string) (domain.Room, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE id = $1
	`, id)

	return scanRoom(row)
}

func (r *roomsRepo) LockAndGet(ctx context.Context, id string) (domain.Room, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE id = $1
		FOR UPDATE
	`, id)

	return scanRoom(row)
}

func (r *roomsRepo) ListActive(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE status <> 'FINISHED'
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list active rooms: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	out := make([]domain.Room, 0)

	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, room)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}

	return out, nil
}

func (r *roomsRepo) CompareAndSetStatus(ctx context.Context, id string, from, to domain.RoomStatus, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE rooms
		SET status = $3, updated_at = $4
		WHERE id = $1
		  AND status = $2
	`, id, string(from), string(to), at)
	if err != nil {
		return fmt.Errorf("update room status: %w", err)
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
		SELECT EXISTS(SELECT 1 FROM rooms WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check room exists: %w", err)
	}

	if !exists {
		return rooms.ErrRoomNotFound
	}

	return rooms.ErrStatusConflict
}

func (r *roomsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if n == 0 {
		return rooms.ErrRoomNotFound
	}

	return nil
}

func scanRoom(row rowScanner) (domain.Room, error) {
	var (
		room   domain.Room
		status string
	)

	err := row.Scan(&room.ID, &room.HostID, &room.Stake, &status, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Room{}, rooms.ErrRoomNotFound
		}

		return domain.Room{}, fmt.Errorf("scan room: %w", err)
	}

	room.Status = domain.RoomStatus(status)

	return room, nil
}
