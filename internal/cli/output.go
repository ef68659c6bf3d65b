package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output formats results as text or JSON
type Output struct {
	format string
	w      io.Writer
}

func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case Balance:
		fmt.Fprintf(o.w, "%s: %d FLIP\n", v.Identity, v.Balance)
	case BalanceChange:
		o.printBalanceChange(v)
	case []Entry:
		o.printEntries(v)
	case Room:
		o.printRoom(v)
	case RoomSummary:
		o.printRoomSummary(v)
	case []RoomSummary:
		o.printLobby(v)
	case Game:
		o.printGame(v)
	case RoomResult:
		o.printRoomResult(v)
	case SoloResult:
		o.printSoloResult(v)
	case DeleteResult:
		if v.Deleted {
			fmt.Fprintln(o.w, "Room deleted")
		} else {
			fmt.Fprintln(o.w, "Room not found, nothing deleted")
		}
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		o.printJSON(data)
	}
}

// Response types (match the API)

type Account struct {
	ID          string    `json:"id"`
	Identity    string    `json:"identity"`
	DisplayName string    `json:"displayName"`
	Balance     int64     `json:"balance"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Balance struct {
	Identity string `json:"identity"`
	Balance  int64  `json:"balance"`
}

type BalanceChange struct {
	Identity string `json:"identity"`
	Previous int64  `json:"previousBalance"`
	New      int64  `json:"balance"`
	Delta    int64  `json:"change"`
}

type Entry struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Delta        int64     `json:"delta"`
	BalanceAfter int64     `json:"balanceAfter"`
	RoomID       string    `json:"roomId,omitempty"`
	Key          string    `json:"key,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Room struct {
	ID        string    `json:"id"`
	HostID    string    `json:"hostId"`
	Stake     int64     `json:"stake"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Host struct {
	ID          string `json:"id"`
	Identity    string `json:"identity"`
	DisplayName string `json:"displayName"`
}

type RoomSummary struct {
	Room
	Host Host  `json:"host"`
	Game *Game `json:"game,omitempty"`
}

type Game struct {
	ID         string     `json:"id"`
	RoomID     string     `json:"roomId"`
	Player1ID  string     `json:"player1Id"`
	Player2ID  string     `json:"player2Id,omitempty"`
	Stake      int64      `json:"stake"`
	WinnerID   string     `json:"winnerId,omitempty"`
	Result     string     `json:"result,omitempty"`
	PlayedAt   time.Time  `json:"playedAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

type RoomResult struct {
	Room   Room          `json:"room"`
	Game   Game          `json:"game"`
	Winner BalanceChange `json:"winner"`
	Loser  BalanceChange `json:"loser"`
}

type SoloResult struct {
	Win             bool   `json:"win"`
	Amount          int64  `json:"amount"`
	Delta           int64  `json:"balanceChange"`
	PreviousBalance int64  `json:"previousBalance"`
	NewBalance      int64  `json:"newBalance"`
	Identity        string `json:"identity"`
}

type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printAccount(a Account) {
	fmt.Fprintf(o.w, "Account: %s (%s)\n", a.DisplayName, a.Identity)
	fmt.Fprintf(o.w, "ID: %s\n", a.ID)
	fmt.Fprintf(o.w, "Balance: %d FLIP\n", a.Balance)
}

func (o *Output) printBalanceChange(c BalanceChange) {
	fmt.Fprintf(o.w, "%s: %d -> %d (%+d)\n", c.Identity, c.Previous, c.New, c.Delta)
}

func (o *Output) printEntries(list []Entry) {
	if len(list) == 0 {
		fmt.Fprintln(o.w, "No entries")
		return
	}

	for _, e := range list {
		fmt.Fprintf(o.w, "%s  %-10s %+d -> %d", e.CreatedAt.Format(time.RFC3339), e.Kind, e.Delta, e.BalanceAfter)

		if e.RoomID != "" {
			fmt.Fprintf(o.w, "  room=%s", e.RoomID)
		}

		fmt.Fprintln(o.w)
	}
}

func (o *Output) printRoom(r Room) {
	fmt.Fprintf(o.w, "Room: %s\n", r.ID)
	fmt.Fprintf(o.w, "Status: %s\n", r.Status)
	fmt.Fprintf(o.w, "Stake: %d FLIP\n", r.Stake)
}

func (o *Output) printRoomSummary(s RoomSummary) {
	o.printRoom(s.Room)
	fmt.Fprintf(o.w, "Host: %s (%s)\n", s.Host.DisplayName, s.Host.Identity)

	if s.Game != nil {
		o.printGame(*s.Game)
	}
}

func (o *Output) printLobby(list []RoomSummary) {
	if len(list) == 0 {
		fmt.Fprintln(o.w, "No open rooms")
		return
	}

	fmt.Fprintf(o.w, "Rooms (%d):\n", len(list))

	for _, s := range list {
		fmt.Fprintf(o.w, "  - %s  %-8s stake=%d host=%s\n", s.ID, s.Status, s.Stake, s.Host.DisplayName)
	}
}

func (o *Output) printGame(g Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "Players: %s vs %s\n", g.Player1ID, g.Player2ID)

	if g.WinnerID != "" {
		fmt.Fprintf(o.w, "Winner: %s (%s)\n", g.WinnerID, g.Result)
	}
}

func (o *Output) printRoomResult(r RoomResult) {
	fmt.Fprintf(o.w, "Room %s finished\n", r.Room.ID)
	fmt.Fprintf(o.w, "Winner: %s (%d -> %d)\n", r.Winner.Identity, r.Winner.Previous, r.Winner.New)
	fmt.Fprintf(o.w, "Loser: %s (%d -> %d)\n", r.Loser.Identity, r.Loser.Previous, r.Loser.New)
}

func (o *Output) printSoloResult(r SoloResult) {
	verdict := "Lost"
	if r.Win {
		verdict = "Won"
	}

	fmt.Fprintf(o.w, "%s %d FLIP\n", verdict, r.Amount)
	fmt.Fprintf(o.w, "Balance: %d -> %d\n", r.PreviousBalance, r.NewBalance)
}
