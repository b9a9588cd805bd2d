package room

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/imtaco/roomkit/engine"
	"github.com/imtaco/roomkit/engine/mocks"
	"github.com/imtaco/roomkit/internal/errors"
	"github.com/imtaco/roomkit/internal/log"
)

type ContextTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	mockEng *mocks.MockEngine
	ctx     context.Context
}

func TestContextSuite(t *testing.T) {
	suite.Run(t, new(ContextTestSuite))
}

func (s *ContextTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockEng = mocks.NewMockEngine(s.ctrl)
	s.ctx = context.Background()
}

func (s *ContextTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ContextTestSuite) TestSetup() {
	s.Run("empty credential fails without connecting", func() {
		_, err := Setup(s.ctx, s.mockEng, "", log.NewNop())
		s.Require().Error(err)
		s.True(errors.Is(err, engine.ErrAuthentication))
	})

	s.Run("connects and becomes ready", func() {
		s.mockEng.EXPECT().SetHooks(gomock.Any())
		s.mockEng.EXPECT().Connect(gomock.Any(), "token").Return(nil)

		c, err := Setup(s.ctx, s.mockEng, "token", log.NewNop())
		s.Require().NoError(err)
		s.True(c.Ready())
	})

	s.Run("retries transient failures", func() {
		s.mockEng.EXPECT().SetHooks(gomock.Any())
		gomock.InOrder(
			s.mockEng.EXPECT().
				Connect(gomock.Any(), "token").
				Return(errors.New(engine.ErrNetwork, "dial timeout")),
			s.mockEng.EXPECT().
				Connect(gomock.Any(), "token").
				Return(nil),
		)

		c, err := Setup(s.ctx, s.mockEng, "token", log.NewNop())
		s.Require().NoError(err)
		s.True(c.Ready())
	})

	s.Run("authentication failure is terminal", func() {
		s.mockEng.EXPECT().SetHooks(gomock.Any())
		s.mockEng.EXPECT().
			Connect(gomock.Any(), "token").
			Return(errors.New(engine.ErrAuthentication, "bad token")).
			Times(1)

		_, err := Setup(s.ctx, s.mockEng, "token", log.NewNop())
		s.Require().Error(err)
		s.True(errors.Is(err, engine.ErrAuthentication))
	})
}

func (s *ContextTestSuite) setup() *SessionContext {
	s.mockEng.EXPECT().SetHooks(gomock.Any())
	s.mockEng.EXPECT().Connect(gomock.Any(), "token").Return(nil)

	c, err := Setup(s.ctx, s.mockEng, "token", log.NewNop())
	s.Require().NoError(err)
	return c
}

func (s *ContextTestSuite) TestNewRoomSession() {
	s.Run("validates options", func() {
		c := s.setup()

		opts := DefaultOptions()
		opts.EventBuffer = 0
		_, err := c.NewRoomSession(opts)
		s.Require().Error(err)
		s.True(errors.Is(err, ErrInvalidRequest))
	})

	s.Run("creates an idle session", func() {
		c := s.setup()

		sess, err := c.NewRoomSession(DefaultOptions())
		s.Require().NoError(err)
		s.Equal(StateIdle, sess.State())
		s.False(sess.IsJoined())
	})
}

func (s *ContextTestSuite) TestClose() {
	s.Run("closes the engine and rejects further sessions", func() {
		c := s.setup()
		s.mockEng.EXPECT().Close(gomock.Any()).Return(nil)

		s.Require().NoError(c.Close(s.ctx))
		s.False(c.Ready())

		_, err := c.NewRoomSession(DefaultOptions())
		s.Require().Error(err)
		s.True(errors.Is(err, ErrContextNotReady))
	})

	s.Run("second close fails", func() {
		c := s.setup()
		s.mockEng.EXPECT().Close(gomock.Any()).Return(nil)

		s.Require().NoError(c.Close(s.ctx))
		s.True(errors.Is(c.Close(s.ctx), ErrContextNotReady))
	})

	s.Run("joined sessions are left before the engine closes", func() {
		c := s.setup()

		sess, err := c.NewRoomSession(DefaultOptions())
		s.Require().NoError(err)

		s.mockEng.EXPECT().
			JoinRoom(gomock.Any(), "meeting", engine.TopologyP2P, "alice").
			Return(engine.MemberID("m-alice"), nil)
		s.mockEng.EXPECT().
			ListPublications(gomock.Any(), "meeting").
			Return(nil, nil)
		s.Require().NoError(sess.Join(s.ctx, "meeting", engine.TopologyP2P, "alice"))

		gomock.InOrder(
			s.mockEng.EXPECT().
				LeaveRoom(gomock.Any(), "meeting", engine.MemberID("m-alice")).
				Return(nil),
			s.mockEng.EXPECT().Close(gomock.Any()).Return(nil),
		)

		s.Require().NoError(c.Close(s.ctx))
		s.Equal(StateIdle, sess.State())
	})
}

func (s *ContextTestSuite) TestHookFanout() {
	var hooks engine.Hooks
	s.mockEng.EXPECT().SetHooks(gomock.Any()).Do(func(h engine.Hooks) { hooks = h })
	s.mockEng.EXPECT().Connect(gomock.Any(), "token").Return(nil)

	c, err := Setup(s.ctx, s.mockEng, "token", log.NewNop())
	s.Require().NoError(err)

	clock := clockwork.NewFakeClock()
	caroData := pub("pub-3", "m-caro", engine.KindData)
	sess, err := c.newRoomSessionWithClock(DefaultOptions(), clock)
	s.Require().NoError(err)

	s.mockEng.EXPECT().
		JoinRoom(gomock.Any(), "meeting", engine.TopologyP2P, "alice").
		Return(engine.MemberID("m-alice"), nil)
	s.mockEng.EXPECT().
		ListPublications(gomock.Any(), "meeting").
		Return([]engine.Publication{caroData}, nil)
	s.mockEng.EXPECT().
		Subscribe(gomock.Any(), caroData.ID).
		Return(engine.SubscriptionID("sub-3"), engine.BoundChannel{Kind: engine.KindData}, nil)
	s.Require().NoError(sess.Join(s.ctx, "meeting", engine.TopologyP2P, "alice"))

	// a data payload arriving through the engine hook lands in the session
	hooks.OnDataReceived(caroData.ID, []byte("hello"), clock.Now())

	last, ok := sess.LastReceivedMessage()
	s.Require().True(ok)
	s.Equal("hello", last.Text())
	s.Equal(engine.MemberID("m-caro"), last.From)
}
