package e2etests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

const (
	timeout   = 5 * time.Second
	waitReady = 20 * time.Second
)

var (
	baseURL    = envOr("E2E_BASE_URL", "http://localhost:8080")
	httpClient = &http.Client{Timeout: timeout}
)

type balanceChange struct {
	Previous int64 `json:"previousBalance"`
	New      int64 `json:"balance"`
}

type errorBody struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func TestE2E_BalanceFlow(t *testing.T) {
	waitUntilReady(t)

	who := uniq("bal")
	register(t, who)

	t.Run("initial_balance_zero", func(t *testing.T) {
		if got := getBalance(t, who); got != 0 {
			t.Fatalf("initial balance mismatch: want 0, got %d", got)
		}
	})

	t.Run("credit_increases_balance", func(t *testing.T) {
		code, body := send(t, http.MethodPost, "/accounts/"+who+"/balance", map[string]any{"delta": 100})
		if code != http.StatusOK {
			t.Fatalf("credit: want 200, got %d (%s)", code, body)
		}

		if got := getBalance(t, who); got != 100 {
			t.Fatalf("after credit: want 100, got %d", got)
		}
	})

	t.Run("duplicate_key_conflict", func(t *testing.T) {
		key := uniq("dup")

		code, body := send(t, http.MethodPost, "/accounts/"+who+"/balance", map[string]any{"delta": 5, "key": key})
		if code != http.StatusOK {
			t.Fatalf("first send: want 200, got %d (%s)", code, body)
		}

		code, body = send(t, http.MethodPost, "/accounts/"+who+"/balance", map[string]any{"delta": 5, "key": key})
		if code != http.StatusConflict || errCode(body) != "DUPLICATE_REQUEST" {
			t.Fatalf("duplicate send: want 409 DUPLICATE_REQUEST, got %d (%s)", code, body)
		}

		if got := getBalance(t, who); got != 105 {
			t.Fatalf("after duplicate: want 105, got %d", got)
		}
	})

	t.Run("overdraw_rejected", func(t *testing.T) {
		code, body := send(t, http.MethodPost, "/accounts/"+who+"/balance", map[string]any{"delta": -106})
		if code != http.StatusConflict || errCode(body) != "INSUFFICIENT_FUNDS" {
			t.Fatalf("overdraw: want 409 INSUFFICIENT_FUNDS, got %d (%s)", code, body)
		}

		if got := getBalance(t, who); got != 105 {
			t.Fatalf("after overdraw: want 105, got %d", got)
		}
	})

	t.Run("zero_delta_invalid", func(t *testing.T) {
		code, _ := send(t, http.MethodPost, "/accounts/"+who+"/balance", map[string]any{"delta": 0})
		if code != http.StatusBadRequest {
			t.Fatalf("zero delta: want 400, got %d", code)
		}
	})
}

func TestE2E_RoomFlow(t *testing.T) {
	waitUntilReady(t)

	host, joiner := uniq("host"), uniq("joiner")
	register(t, host)
	register(t, joiner)
	credit(t, host, 150)
	credit(t, joiner, 200)

	code, body := send(t, http.MethodPost, "/rooms", map[string]any{"identity": host, "stake": 100})
	if code != http.StatusCreated {
		t.Fatalf("create room: want 201, got %d (%s)", code, body)
	}

	var room struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	mustDecode(t, body, &room)

	code, body = send(t, http.MethodPost, "/rooms/"+room.ID+"/join", map[string]any{"identity": joiner})
	if code != http.StatusOK {
		t.Fatalf("join: want 200, got %d (%s)", code, body)
	}

	code, body = send(t, http.MethodPost, "/rooms/"+room.ID+"/join", map[string]any{"identity": uniq("late")})
	if code != http.StatusConflict || errCode(body) != "INVALID_STATE" {
		t.Fatalf("late join: want 409 INVALID_STATE, got %d (%s)", code, body)
	}

	code, body = send(t, http.MethodPost, "/rooms/"+room.ID+"/resolve", nil)
	if code != http.StatusOK {
		t.Fatalf("resolve: want 200, got %d (%s)", code, body)
	}

	var res struct {
		Winner balanceChange `json:"winner"`
		Loser  balanceChange `json:"loser"`
	}

	mustDecode(t, body, &res)

	// the stake moves from loser to winner, nothing is created or lost
	if res.Winner.New-res.Winner.Previous != 100 || res.Loser.Previous-res.Loser.New != 100 {
		t.Fatalf("unexpected settlement: %+v", res)
	}

	if total := getBalance(t, host) + getBalance(t, joiner); total != 350 {
		t.Fatalf("total balance: want 350, got %d", total)
	}

	code, _ = send(t, http.MethodPost, "/rooms/"+room.ID+"/resolve", nil)
	if code != http.StatusConflict {
		t.Fatalf("second resolve: want 409, got %d", code)
	}
}

func TestE2E_SoloWager(t *testing.T) {
	waitUntilReady(t)

	who := uniq("solo")
	register(t, who)
	credit(t, who, 40)

	code, body := send(t, http.MethodPost, "/wagers", map[string]any{"identity": who, "amount": 50})
	if code != http.StatusConflict || errCode(body) != "INSUFFICIENT_FUNDS" {
		t.Fatalf("oversized wager: want 409 INSUFFICIENT_FUNDS, got %d (%s)", code, body)
	}

	code, body = send(t, http.MethodPost, "/wagers", map[string]any{"identity": who, "amount": 10})
	if code != http.StatusOK {
		t.Fatalf("wager: want 200, got %d (%s)", code, body)
	}

	var res struct {
		Win        bool  `json:"win"`
		NewBalance int64 `json:"newBalance"`
	}

	mustDecode(t, body, &res)

	want := int64(30)
	if res.Win {
		want = 50
	}

	if res.NewBalance != want || getBalance(t, who) != want {
		t.Fatalf("after wager (win=%v): want %d, got %d", res.Win, want, res.NewBalance)
	}
}

/* -------------------- helpers -------------------- */

func register(t *testing.T, identity string) {
	t.Helper()

	code, body := send(t, http.MethodPost, "/accounts", map[string]any{"identity": identity})
	if code != http.StatusCreated {
		t.Fatalf("register %s: want 201, got %d (%s)", identity, code, body)
	}
}

func credit(t *testing.T, identity string, amount int64) {
	t.Helper()

	code, body := send(t, http.MethodPost, "/accounts/"+identity+"/balance", map[string]any{"delta": amount})
	if code != http.StatusOK {
		t.Fatalf("credit %s: want 200, got %d (%s)", identity, code, body)
	}
}

func getBalance(t *testing.T, identity string) int64 {
	t.Helper()

	code, body := send(t, http.MethodGet, "/accounts/"+identity+"/balance", nil)
	if code != http.StatusOK {
		t.Fatalf("GET balance of %s: want 200, got %d (%s)", identity, code, body)
	}

	var payload struct {
		Identity string `json:"identity"`
		Balance  int64  `json:"balance"`
	}

	mustDecode(t, body, &payload)

	if payload.Identity != identity {
		t.Fatalf("identity mismatch: want %s, got %s", identity, payload.Identity)
	}

	return payload.Balance
}

func send(t *testing.T, method, path string, body any) (int, string) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)

	return resp.StatusCode, string(b)
}

func mustDecode(t *testing.T, body string, dst any) {
	t.Helper()

	err := json.Unmarshal([]byte(body), dst)
	if err != nil {
		t.Fatalf("decode json %q: %v", body, err)
	}
}

func errCode(body string) string {
	var e errorBody
	_ = json.Unmarshal([]byte(body), &e)

	return e.Error.Code
}

// waitUntilReady waits until GET /healthz responds 200 or times out.
func waitUntilReady(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("e2e tests need a running server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), waitReady)
	defer cancel()

	u := baseURL + "/healthz"

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("service not ready at %s within %s", u, waitReady)
		case <-tick.C:
			resp, err := httpClient.Get(u)
			if err != nil {
				// server not up yet
				continue
			}

			_ = resp.Body.Close()

			if resp.StatusCode == http.StatusOK {
				return
			}
		}
	}
}

func uniq(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
