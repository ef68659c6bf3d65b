package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fastprodman/fliprooms/internal/domain"
	"github.com/fastprodman/fliprooms/internal/repos/rooms"
)

var _ rooms.Rooms = (*roomsRepo)(nil)

type roomsRepo struct{ sc scope }

func (r *roomsRepo) Insert(ctx context.Context, room domain.Room) error {
	return r.sc.run(ctx, func(s *session) error {
		_, hostExists, err := s.get(ctx, accountIDIndexKey(room.HostID))
		if err != nil {
			return err
		}

		if !hostExists {
			return fmt.Errorf("insert room: host: %w", domain.ErrNotFound)
		}

		_, exists, err := s.get(ctx, roomKey(room.ID))
		if err != nil {
			return err
		}

		if exists {
			return fmt.Errorf("insert room: id %s: %w", room.ID, domain.ErrDuplicate)
		}

		err = s.setJSON(ctx, roomKey(room.ID), room)
		if err != nil {
			return err
		}

		if room.Status.Active() {
			s.stage(func(pipe redis.Pipeliner) {
				pipe.ZAdd(ctx, activeRoomsIndexKey(), activeRoomMember(room))
			})
		}

		return nil
	})
}

func (r *roomsRepo) Get(ctx context.Context, id string) (domain.Room, error) {
	var room domain.Room

	err := r.sc.run(ctx, func(s *session) error {
		var err error
		room, err = loadRoom(ctx, s, id)
		return err
	})

	return room, err
}

func (r *roomsRepo) LockAndGet(ctx context.Context, id string) (domain.Room, error) {
	return r.Get(ctx, id)
}

func (r *roomsRepo) ListActive(ctx context.Context) ([]domain.Room, error) {
	out := make([]domain.Room, 0)

	err := r.sc.run(ctx, func(s *session) error {
		out = out[:0]

		err := s.watch(ctx, activeRoomsIndexKey())
		if err != nil {
			return err
		}

		ids, err := s.tx.ZRevRange(ctx, activeRoomsIndexKey(), 0, -1).Result()
		if err != nil {
			return fmt.Errorf("list active rooms: %w", err)
		}

		for _, id := range ids {
			room, ok, err := getJSON[domain.Room](ctx, s, roomKey(id))
			if err != nil {
				return err
			}

			if !ok || !room.Status.Active() {
				continue
			}

			out = append(out, room)
		}

		return nil
	})

	return out, err
}

func (r *roomsRepo) CompareAndSetStatus(ctx context.Context, id string, from, to domain.RoomStatus, at time.Time) error {
	return r.sc.run(ctx, func(s *session) error {
		room, err := loadRoom(ctx, s, id)
		if err != nil {
			return err
		}

		if room.Status != from {
			return rooms.ErrStatusConflict
		}

		room.Status = to
		room.UpdatedAt = at

		err = s.setJSON(ctx, roomKey(id), room)
		if err != nil {
			return err
		}

		if !to.Active() {
			s.stage(func(pipe redis.Pipeliner) {
				pipe.ZRem(ctx, activeRoomsIndexKey(), id)
			})
		}

		return nil
	})
}

// Delete also drops the room's game, matching the cascading foreign key of
// the SQL schema.
func (r *roomsRepo) Delete(ctx context.Context, id string) error {
	return r.sc.run(ctx, func(s *session) error {
		_, err := loadRoom(ctx, s, id)
		if err != nil {
			return err
		}

		s.del(ctx, roomKey(id))
		s.del(ctx, gameKey(id))
		s.stage(func(pipe redis.Pipeliner) {
			pipe.ZRem(ctx, activeRoomsIndexKey(), id)
		})

		return nil
	})
}

func loadRoom(ctx context.Context, s *session, id string) (domain.Room, error) {
	room, ok, err := getJSON[domain.Room](ctx, s, roomKey(id))
	if err != nil {
		return domain.Room{}, err
	}

	if !ok {
		return domain.Room{}, rooms.ErrRoomNotFound
	}

	return room, nil
}

func activeRoomMember(room domain.Room) redis.Z {
	return redis.Z{Score: float64(room.CreatedAt.UnixMicro()), Member: room.ID}
}
