package domain

import "time"

type EntryKind string

const (
	EntryAdjustment EntryKind = "adjustment"
	EntrySoloWin    EntryKind = "solo_win"
	EntrySoloLoss   EntryKind = "solo_loss"
	EntryRoomWin    EntryKind = "room_win"
	EntryRoomLoss   EntryKind = "room_loss"
)

// Entry is one line of the balance journal. Summing Delta over an account's
// entries yields its balance.
type Entry struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"accountId"`
	Kind         EntryKind `json:"kind"`
	Delta        int64     `json:"delta"`
	BalanceAfter int64     `json:"balanceAfter"`
	RoomID       string    `json:"roomId,omitempty"`
	Key          string    `json:"key,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
