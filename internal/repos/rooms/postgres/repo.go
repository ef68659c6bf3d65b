package rooms

import (
	"github.com/fastprodman/fliprooms/internal/infra/pgutils"
	"github.com/fastprodman/fliprooms/internal/repos/rooms"
)

var (
	_ rooms.Rooms = (*roomsRepo)(nil)
	_ rooms.Games = (*gamesRepo)(nil)
)

type roomsRepo struct{ q pgutils.Querier }

type gamesRepo struct{ q pgutils.Querier }

func NewRooms(q pgutils.Querier) *roomsRepo {
	return &roomsRepo{q: q}
}

func NewGames(q pgutils.Querier) *gamesRepo {
	return &gamesRepo{q: q}
}

const (
	roomColumns = `id, host_id, stake, status, created_at, updated_at`
	gameColumns = `id, room_id, player1_id, player2_id, winner_id, stake, result, played_at, resolved_at`
)

type rowScanner interface {
	Scan(dest ...any) error
}
