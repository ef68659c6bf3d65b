package domain

import (
	"fmt"
	"time"
)

type RoomStatus string

const (
	RoomWaiting  RoomStatus = "WAITING"
	RoomPlaying  RoomStatus = "PLAYING"
	RoomFinished RoomStatus = "FINISHED"
)

// ParseRoomStatus accepts the canonical upper-case names.
func ParseRoomStatus(s string) (RoomStatus, error) {
	st := RoomStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown room status %q", ErrInvalidArgument, s)
	}

	return st, nil
}

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomWaiting, RoomPlaying, RoomFinished:
		return true
	default:
		return false
	}
}

// Active reports whether the room still shows up in the lobby.
func (s RoomStatus) Active() bool {
	return s == RoomWaiting || s == RoomPlaying
}

func (s RoomStatus) rank() int {
	switch s {
	case RoomWaiting:
		return 0
	case RoomPlaying:
		return 1
	case RoomFinished:
		return 2
	default:
		return -1
	}
}

// Next returns the only status reachable from s.
func (s RoomStatus) Next() (RoomStatus, bool) {
	switch s {
	case RoomWaiting:
		return RoomPlaying, true
	case RoomPlaying:
		return RoomFinished, true
	default:
		return "", false
	}
}

// Before reports whether s comes strictly earlier than other in the lifecycle.
func (s RoomStatus) Before(other RoomStatus) bool {
	return s.rank() < other.rank()
}

// Room is a two-player lobby with a fixed stake.
type Room struct {
	ID        string     `json:"id"`
	HostID    string     `json:"hostId"`
	Stake     int64      `json:"stake"`
	Status    RoomStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type GameResult string

const (
	ResultPlayer1 GameResult = "PLAYER1"
	ResultPlayer2 GameResult = "PLAYER2"
)

// Game pairs the host with the joiner of a room. WinnerID is empty until the
// room is finished and is never reassigned afterwards.
type Game struct {
	ID         string     `json:"id"`
	RoomID     string     `json:"roomId"`
	Player1ID  string     `json:"player1Id"`
	Player2ID  string     `json:"player2Id,omitempty"`
	Stake      int64      `json:"stake"`
	WinnerID   string     `json:"winnerId,omitempty"`
	Result     GameResult `json:"result,omitempty"`
	PlayedAt   time.Time  `json:"playedAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

// HasPlayer reports whether accountID sits at the table.
func (g Game) HasPlayer(accountID string) bool {
	return accountID != "" && (g.Player1ID == accountID || g.Player2ID == accountID)
}

// ResultFor maps a winner to PLAYER1/PLAYER2.
func (g Game) ResultFor(winnerID string) GameResult {
	if winnerID == g.Player1ID {
		return ResultPlayer1
	}

	return ResultPlayer2
}

// Opponent returns the other player's ID.
func (g Game) Opponent(accountID string) string {
	if accountID == g.Player1ID {
		return g.Player2ID
	}

	return g.Player1ID
}
