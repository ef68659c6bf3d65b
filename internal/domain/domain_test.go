package domain

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "lower_and_trim", in: "  0xAbCdEF01 ", want: "0xabcdef01"},
		{name: "already_normal", in: "wallet1", want: "wallet1"},
		{name: "empty", in: "   ", wantErr: true},
		{name: "inner_space", in: "0xab cd", wantErr: true},
		{name: "too_long", in: strings.Repeat("a", 129), wantErr: true},
		{name: "invalid_utf8", in: "0x\xff\xfe", wantErr: true},
		{name: "truncated_rune", in: "a\xc3", wantErr: true},
		{name: "non_ascii", in: "aÉÉÉÉ", want: "aéééé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeIdentity(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("want ErrInvalidArgument, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDefaultDisplayName(t *testing.T) {
	t.Parallel()

	if got := DefaultDisplayName("0xabcdef01"); got != "Player_0xabcd" {
		t.Fatalf("unexpected display name %q", got)
	}

	if got := DefaultDisplayName("abc"); got != "Player_abc" {
		t.Fatalf("short identity: got %q", got)
	}

	got := DefaultDisplayName("aéééééé")
	if got != "Player_aééééé" {
		t.Fatalf("non-ascii identity: got %q", got)
	}

	if !utf8.ValidString(got) {
		t.Fatalf("display name %q is not valid UTF-8", got)
	}
}

func TestRoomStatusLifecycle(t *testing.T) {
	t.Parallel()

	next, ok := RoomWaiting.Next()
	if !ok || next != RoomPlaying {
		t.Fatalf("WAITING should advance to PLAYING, got %q", next)
	}

	next, ok = RoomPlaying.Next()
	if !ok || next != RoomFinished {
		t.Fatalf("PLAYING should advance to FINISHED, got %q", next)
	}

	if _, ok := RoomFinished.Next(); ok {
		t.Fatal("FINISHED is terminal")
	}

	if !RoomWaiting.Before(RoomFinished) || RoomFinished.Before(RoomPlaying) {
		t.Fatal("ordering broken")
	}

	if RoomFinished.Active() || !RoomPlaying.Active() {
		t.Fatal("active flag broken")
	}

	if _, err := ParseRoomStatus("playing"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("lower-case status should be rejected, got %v", err)
	}
}

func TestGameHelpers(t *testing.T) {
	t.Parallel()

	g := Game{Player1ID: "h", Player2ID: "j"}

	if !g.HasPlayer("h") || !g.HasPlayer("j") || g.HasPlayer("x") || g.HasPlayer("") {
		t.Fatal("HasPlayer broken")
	}

	if g.Opponent("h") != "j" || g.Opponent("j") != "h" {
		t.Fatal("Opponent broken")
	}

	if g.ResultFor("h") != ResultPlayer1 || g.ResultFor("j") != ResultPlayer2 {
		t.Fatal("ResultFor broken")
	}
}
