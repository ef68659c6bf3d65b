package rooms

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/fastprodman/fliprooms/internal/dependencies/mocks"
	"github.com/fastprodman/fliprooms/internal/domain"
	"github.com/fastprodman/fliprooms/internal/infra/logging"
	"github.com/fastprodman/fliprooms/internal/infra/storetestutil"
	"github.com/fastprodman/fliprooms/internal/repos"
	"github.com/fastprodman/fliprooms/internal/services/accounts"
)

type RegistrySuite struct {
	suite.Suite
	open     func(t *testing.T) repos.Store
	accounts *accounts.Manager
	registry *Registry
	ctx      context.Context
}

func TestRegistrySuite(t *testing.T) {
	storetestutil.Run(t, func(t *testing.T, open func(t *testing.T) repos.Store) {
		suite.Run(t, &RegistrySuite{open: open})
	})
}

func (s *RegistrySuite) SetupTest() {
	store := s.open(s.T())
	clk := mocks.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	s.accounts = accounts.New(store, clk, logging.Nop())
	s.registry = New(store, s.accounts, clk, logging.Nop())
	s.ctx = context.Background()
}

func (s *RegistrySuite) fund(identity string, amount int64) domain.Account {
	acc, _, err := s.accounts.GetOrCreate(s.ctx, identity)
	s.Require().NoError(err)

	if amount > 0 {
		_, err = s.accounts.ApplyDelta(s.ctx, accounts.Adjustment{Identity: identity, Delta: amount})
		s.Require().NoError(err)
	}

	return acc
}

func (s *RegistrySuite) playingRoom(stake int64) (domain.Room, domain.Game) {
	s.fund("0xhost", stake)
	s.fund("0xjoiner", stake)

	room, err := s.registry.CreateRoom(s.ctx, "0xhost", stake)
	s.Require().NoError(err)

	game, err := s.registry.JoinRoom(s.ctx, room.ID, "0xjoiner")
	s.Require().NoError(err)

	return room, game
}

func (s *RegistrySuite) TestCreateRoom() {
	host := s.fund("0xhost", 100)

	room, err := s.registry.CreateRoom(s.ctx, "0xHOST", 60)
	s.Require().NoError(err)
	s.Equal(domain.RoomWaiting, room.Status)
	s.Equal(host.ID, room.HostID)
	s.Equal(int64(60), room.Stake)

	bal, err := s.accounts.GetBalance(s.ctx, "0xhost")
	s.Require().NoError(err)
	s.Equal(int64(100), bal, "creating a room reserves nothing")

	got, err := s.registry.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(room.ID, got.ID)
}

func (s *RegistrySuite) TestCreateRoomRejections() {
	s.fund("0xpoor", 10)

	_, err := s.registry.CreateRoom(s.ctx, "0xpoor", 0)
	s.ErrorIs(err, domain.ErrInvalidArgument)

	_, err = s.registry.CreateRoom(s.ctx, "0xpoor", -5)
	s.ErrorIs(err, domain.ErrInvalidArgument)

	_, err = s.registry.CreateRoom(s.ctx, "0xpoor", 11)
	s.ErrorIs(err, domain.ErrInsufficientFunds)

	// unknown identities are created with a zero balance
	_, err = s.registry.CreateRoom(s.ctx, "0xnewcomer", 1)
	s.ErrorIs(err, domain.ErrInsufficientFunds)

	_, err = s.accounts.Get(s.ctx, "0xnewcomer")
	s.NoError(err)
}

func (s *RegistrySuite) TestJoinRoom() {
	room, game := s.playingRoom(50)

	joiner, err := s.accounts.Get(s.ctx, "0xjoiner")
	s.Require().NoError(err)

	s.Equal(room.HostID, game.Player1ID)
	s.Equal(joiner.ID, game.Player2ID)
	s.Equal(int64(50), game.Stake)
	s.Empty(game.WinnerID)

	got, err := s.registry.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(domain.RoomPlaying, got.Status)

	stored, err := s.registry.GetGame(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(game.ID, stored.ID)
}

func (s *RegistrySuite) TestJoinPlayingRoomIsInvalidState() {
	room, _ := s.playingRoom(50)
	s.fund("0xlate", 500)

	_, err := s.registry.JoinRoom(s.ctx, room.ID, "0xlate")
	s.ErrorIs(err, domain.ErrInvalidState)

	game, err := s.registry.GetGame(s.ctx, room.ID)
	s.Require().NoError(err)
	s.NotEqual("0xlate", game.Player2ID)
}

func (s *RegistrySuite) TestJoinRoomRejections() {
	s.fund("0xhost", 100)
	s.fund("0xpoor", 10)

	room, err := s.registry.CreateRoom(s.ctx, "0xhost", 50)
	s.Require().NoError(err)

	_, err = s.registry.JoinRoom(s.ctx, room.ID, "0xhost")
	s.ErrorIs(err, domain.ErrInvalidArgument)

	_, err = s.registry.JoinRoom(s.ctx, room.ID, "0xpoor")
	s.ErrorIs(err, domain.ErrInsufficientFunds)

	_, err = s.registry.JoinRoom(s.ctx, uuid.NewString(), "0xpoor")
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = s.registry.JoinRoom(s.ctx, "not-a-room", "0xpoor")
	s.ErrorIs(err, domain.ErrNotFound)

	got, err := s.registry.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(domain.RoomWaiting, got.Status, "failed joins leave the room waiting")
}

func (s *RegistrySuite) TestConcurrentJoinsSeatOnePlayer() {
	s.fund("0xhost", 100)

	room, err := s.registry.CreateRoom(s.ctx, "0xhost", 10)
	s.Require().NoError(err)

	const joiners = 6

	identities := make([]string, joiners)
	for i := range identities {
		identities[i] = "0xjoiner" + string(rune('a'+i))
		s.fund(identities[i], 10)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
	)

	for _, id := range identities {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := s.registry.JoinRoom(s.ctx, room.ID, id)
			if err != nil {
				s.ErrorIs(err, domain.ErrInvalidState)
				return
			}

			mu.Lock()
			winners = append(winners, id)
			mu.Unlock()
		}()
	}

	wg.Wait()

	s.Len(winners, 1)
}

func (s *RegistrySuite) TestListActiveRooms() {
	s.fund("0xhost", 100)
	s.fund("0xjoiner", 100)

	first, err := s.registry.CreateRoom(s.ctx, "0xhost", 10)
	s.Require().NoError(err)
	second, err := s.registry.CreateRoom(s.ctx, "0xhost", 20)
	s.Require().NoError(err)
	third, err := s.registry.CreateRoom(s.ctx, "0xhost", 30)
	s.Require().NoError(err)

	_, err = s.registry.JoinRoom(s.ctx, second.ID, "0xjoiner")
	s.Require().NoError(err)
	_, err = s.registry.CloseRoom(s.ctx, second.ID, "0xjoiner")
	s.Require().NoError(err)

	list, err := s.registry.ListActiveRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(third.ID, list[0].ID)
	s.Equal(first.ID, list[1].ID)
}

func (s *RegistrySuite) TestCloseRoom() {
	room, game := s.playingRoom(40)

	closed, err := s.registry.CloseRoom(s.ctx, room.ID, "0xjoiner")
	s.Require().NoError(err)
	s.Equal(game.Player2ID, closed.WinnerID)
	s.Equal(domain.ResultPlayer2, closed.Result)
	s.NotNil(closed.ResolvedAt)

	got, err := s.registry.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(domain.RoomFinished, got.Status)

	// a second close must not reassign the winner
	_, err = s.registry.CloseRoom(s.ctx, room.ID, "0xhost")
	s.ErrorIs(err, domain.ErrInvalidState)

	stored, err := s.registry.GetGame(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(game.Player2ID, stored.WinnerID)

	for _, id := range []string{"0xhost", "0xjoiner"} {
		bal, err := s.accounts.GetBalance(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(int64(40), bal, "closing moves no balance")
	}
}

func (s *RegistrySuite) TestCloseRoomRejections() {
	room, _ := s.playingRoom(40)
	s.fund("0xstranger", 0)

	_, err := s.registry.CloseRoom(s.ctx, room.ID, "0xstranger")
	s.ErrorIs(err, domain.ErrInvalidArgument)

	_, err = s.registry.CloseRoom(s.ctx, room.ID, "0xghost")
	s.ErrorIs(err, domain.ErrInvalidArgument)

	waiting, err := s.registry.CreateRoom(s.ctx, "0xhost", 1)
	s.Require().NoError(err)

	_, err = s.registry.CloseRoom(s.ctx, waiting.ID, "0xhost")
	s.ErrorIs(err, domain.ErrInvalidState)

	_, err = s.registry.CloseRoom(s.ctx, uuid.NewString(), "0xhost")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *RegistrySuite) TestCloseMissingRoomWithUnknownWinnerIsNotFound() {
	_, err := s.registry.CloseRoom(s.ctx, uuid.NewString(), "0xnobody")
	s.ErrorIs(err, domain.ErrNotFound)
	s.NotErrorIs(err, domain.ErrInvalidArgument)
}

func (s *RegistrySuite) TestUpdateRoom() {
	room, _ := s.playingRoom(30)

	status := func(st domain.RoomStatus) *domain.RoomStatus { return &st }

	tests := []struct {
		name string
		upd  RoomUpdate
		want error
	}{
		{name: "same_status_noop", upd: RoomUpdate{Status: status(domain.RoomPlaying)}},
		{name: "regression", upd: RoomUpdate{Status: status(domain.RoomWaiting)}, want: domain.ErrInvalidState},
		{name: "finish_without_winner", upd: RoomUpdate{Status: status(domain.RoomFinished)}, want: domain.ErrInvalidArgument},
		{name: "empty", upd: RoomUpdate{}, want: domain.ErrInvalidArgument},
		{name: "unknown_status", upd: RoomUpdate{Status: status("PAUSED")}, want: domain.ErrInvalidArgument},
		{name: "winner_with_wrong_status", upd: RoomUpdate{Status: status(domain.RoomPlaying), Winner: "0xhost"}, want: domain.ErrInvalidArgument},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, err := s.registry.UpdateRoom(s.ctx, room.ID, tt.upd)
			if tt.want != nil {
				s.ErrorIs(err, tt.want)
				return
			}

			s.Require().NoError(err)
			s.Equal(domain.RoomPlaying, got.Status)
		})
	}

	got, err := s.registry.UpdateRoom(s.ctx, room.ID, RoomUpdate{Status: status(domain.RoomFinished), Winner: "0xhost"})
	s.Require().NoError(err)
	s.Equal(domain.RoomFinished, got.Status)

	game, err := s.registry.GetGame(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(room.HostID, game.WinnerID)
	s.Equal(domain.ResultPlayer1, game.Result)

	_, err = s.registry.UpdateRoom(s.ctx, room.ID, RoomUpdate{Status: status(domain.RoomPlaying)})
	s.ErrorIs(err, domain.ErrInvalidState)
}

func (s *RegistrySuite) TestUpdateWaitingRoomToPlayingNeedsJoin() {
	s.fund("0xhost", 10)

	room, err := s.registry.CreateRoom(s.ctx, "0xhost", 10)
	s.Require().NoError(err)

	st := domain.RoomPlaying
	_, err = s.registry.UpdateRoom(s.ctx, room.ID, RoomUpdate{Status: &st})
	s.ErrorIs(err, domain.ErrInvalidArgument)
}

func (s *RegistrySuite) TestDeleteRoom() {
	room, _ := s.playingRoom(20)

	s.Require().NoError(s.registry.DeleteRoom(s.ctx, room.ID))

	_, err := s.registry.GetRoom(s.ctx, room.ID)
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = s.registry.GetGame(s.ctx, room.ID)
	s.ErrorIs(err, domain.ErrNotFound)

	err = s.registry.DeleteRoom(s.ctx, room.ID)
	s.ErrorIs(err, domain.ErrNotFound)
}
