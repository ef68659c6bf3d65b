package cli_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/fastprodman/fliprooms/internal/api"
	"github.com/fastprodman/fliprooms/internal/cli"
	"github.com/fastprodman/fliprooms/internal/dependencies/mocks"
	"github.com/fastprodman/fliprooms/internal/infra/logging"
	"github.com/fastprodman/fliprooms/internal/infra/redistestutil"
	"github.com/fastprodman/fliprooms/internal/services/accounts"
	"github.com/fastprodman/fliprooms/internal/services/outcome"
	"github.com/fastprodman/fliprooms/internal/services/query"
	"github.com/fastprodman/fliprooms/internal/services/rooms"
)

type CLISuite struct {
	suite.Suite
	srv *httptest.Server
	rnd *mocks.MockRandom
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	store, _ := redistestutil.NewTestStore(s.T())
	clk := mocks.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	log := logging.Nop()

	s.rnd = mocks.NewMockRandom()

	accs := accounts.New(store, clk, log)
	reg := rooms.New(store, accs, clk, log)

	s.srv = httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:   log,
		Accounts: accs,
		Rooms:    reg,
		Resolver: outcome.New(store, accs, reg, s.rnd, log),
		Query:    query.New(accs, reg),
	}))
	s.T().Cleanup(s.srv.Close)
}

// run executes flipctl with JSON output and returns stdout.
func (s *CLISuite) run(args ...string) (string, error) {
	cmd := cli.NewRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--server", s.srv.URL, "--output", "json"}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func (s *CLISuite) mustRun(dst any, args ...string) {
	out, err := s.run(args...)
	s.Require().NoError(err, out)

	if dst != nil {
		s.Require().NoError(json.Unmarshal([]byte(out), dst), out)
	}
}

func (s *CLISuite) TestHealth() {
	var res cli.HealthResult
	s.mustRun(&res, "health")
	s.Equal("ok", res.Status)
}

func (s *CLISuite) TestAccountCommands() {
	var acc cli.Account
	s.mustRun(&acc, "account", "register", "0xFEED01", "--name", "feeder")
	s.Equal("0xfeed01", acc.Identity)
	s.Equal("feeder", acc.DisplayName)

	var change cli.BalanceChange
	s.mustRun(&change, "account", "adjust", "0xfeed01", "--delta", "75", "--key", "k1")
	s.Equal(int64(75), change.New)

	_, err := s.run("account", "adjust", "0xfeed01", "--delta", "75", "--key", "k1")
	s.Require().Error(err)

	var apiErr *cli.APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal("DUPLICATE_REQUEST", apiErr.Code)

	var bal cli.Balance
	s.mustRun(&bal, "account", "balance", "0xfeed01")
	s.Equal(int64(75), bal.Balance)

	var entries []cli.Entry
	s.mustRun(&entries, "account", "entries", "0xfeed01", "--limit", "10")
	s.Require().Len(entries, 1)
	s.Equal("k1", entries[0].Key)

	_, err = s.run("account", "get", "missing")
	s.Require().ErrorAs(err, &apiErr)
	s.Equal("ACCOUNT_NOT_FOUND", apiErr.Code)
}

func (s *CLISuite) TestRoomLifecycle() {
	s.mustRun(nil, "account", "register", "alice")
	s.mustRun(nil, "account", "register", "bob")
	s.mustRun(nil, "account", "adjust", "alice", "--delta", "150")
	s.mustRun(nil, "account", "adjust", "bob", "--delta", "200")

	var room cli.Room
	s.mustRun(&room, "room", "create", "--identity", "alice", "--stake", "100")
	s.Equal("WAITING", room.Status)

	var lobby []cli.RoomSummary
	s.mustRun(&lobby, "room", "list")
	s.Require().Len(lobby, 1)
	s.Equal("alice", lobby[0].Host.Identity)

	var game cli.Game
	s.mustRun(&game, "room", "join", room.ID, "--identity", "bob")
	s.Equal(room.ID, game.RoomID)

	s.rnd.QueueIntn(1)

	var res cli.RoomResult
	s.mustRun(&res, "room", "resolve", room.ID)
	s.Equal("FINISHED", res.Room.Status)
	s.Equal("bob", res.Winner.Identity)
	s.Equal(int64(300), res.Winner.New)
	s.Equal(int64(50), res.Loser.New)

	var del cli.DeleteResult
	s.mustRun(&del, "room", "delete", room.ID)
	s.True(del.Deleted)

	s.mustRun(&del, "room", "delete", room.ID)
	s.False(del.Deleted)
}

func (s *CLISuite) TestWager() {
	s.mustRun(nil, "account", "register", "carol")
	s.mustRun(nil, "account", "adjust", "carol", "--delta", "20")

	s.rnd.QueueIntn(1)

	var res cli.SoloResult
	s.mustRun(&res, "wager", "carol", "5")
	s.False(res.Win)
	s.Equal(int64(15), res.NewBalance)

	_, err := s.run("wager", "carol", "five")
	s.Error(err)
}

func (s *CLISuite) TestTextOutput() {
	cmd := cli.NewRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--server", s.srv.URL, "account", "register", "dave"})

	s.Require().NoError(cmd.Execute())
	s.Contains(out.String(), "Account: Player_dave (dave)")
	s.Contains(out.String(), "Balance: 0 FLIP")
}

func (s *CLISuite) TestRejectsUnknownOutput() {
	_, err := s.run("--output", "yaml", "health")
	s.Error(err)
}
