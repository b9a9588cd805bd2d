package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/imtaco/roomkit/engine"
	"github.com/imtaco/roomkit/engine/enginetest"
	"github.com/imtaco/roomkit/internal/log"
)

// ScenarioTestSuite runs multiple sessions against one shared in-memory
// backend, exercising the full notify/reconcile/subscribe path.
type ScenarioTestSuite struct {
	suite.Suite
	backend *enginetest.Backend
	ctx     context.Context
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioTestSuite))
}

func (s *ScenarioTestSuite) SetupTest() {
	s.backend = enginetest.NewBackend()
	s.ctx = context.Background()
}

func (s *ScenarioTestSuite) newMember(name string) (*RoomSession, <-chan Event) {
	sctx, err := Setup(s.ctx, s.backend.NewEngine(), "token-"+name, log.NewNop())
	s.Require().NoError(err)

	sess, err := sctx.NewRoomSession(DefaultOptions())
	s.Require().NoError(err)

	events := make(chan Event, 64)
	sess.AddHandler(func(ev Event) { events <- ev })
	return sess, events
}

func (s *ScenarioTestSuite) await(events <-chan Event, match func(Event) bool) Event {
	deadline := time.After(eventWait)
	for {
		select {
		case ev := <-events:
			if match(ev) {
				return ev
			}
		case <-deadline:
			s.FailNow("timed out waiting for event")
			return nil
		}
	}
}

func (s *ScenarioTestSuite) TestTwoMemberRoom() {
	alice, aliceEvents := s.newMember("alice")
	s.Require().NoError(alice.Join(s.ctx, "meeting", engine.TopologyP2P, "alice"))

	bob, _ := s.newMember("bob")
	_, err := bob.CreateLocalChannels(s.ctx, CaptureSources{
		Microphone: "mic0",
		DataLabel:  "chat",
	})
	s.Require().NoError(err)
	s.Require().NoError(bob.Join(s.ctx, "meeting", engine.TopologyP2P, "bob"))

	res, err := bob.Publish(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().NotEmpty(res.AudioID)
	s.Require().NotEmpty(res.DataID)

	// alice discovers bob and both publications
	joined := s.await(aliceEvents, func(ev Event) bool {
		_, ok := ev.(MemberJoined)
		return ok
	}).(MemberJoined)
	s.Equal(engine.MemberID("m-bob"), joined.Member)

	s.await(aliceEvents, func(ev Event) bool {
		added, ok := ev.(PublicationAdded)
		return ok && added.Publication.ID == res.AudioID
	})
	s.await(aliceEvents, func(ev Event) bool {
		added, ok := ev.(PublicationAdded)
		return ok && added.Publication.ID == res.DataID
	})

	// auto-subscribe catches up on both
	s.Require().Eventually(func() bool {
		_, okAudio := alice.SubscriptionFor(res.AudioID)
		_, okData := alice.SubscriptionFor(res.DataID)
		return okAudio && okData
	}, eventWait, 10*time.Millisecond)

	// a data message from bob lands at alice
	s.Require().NoError(bob.SendText(s.ctx, "hello alice"))
	got := s.await(aliceEvents, func(ev Event) bool {
		_, ok := ev.(DataReceived)
		return ok
	}).(DataReceived)
	s.Equal("hello alice", got.Message.Text())
	s.Equal(engine.MemberID("m-bob"), got.Message.From)
	s.Equal(res.DataID, got.Message.PublicationID)

	last, ok := alice.LastReceivedMessage()
	s.Require().True(ok)
	s.Equal("hello alice", last.Text())

	// bob leaves; alice sees the publications vanish and the member depart
	s.Require().NoError(bob.Leave(s.ctx))

	s.await(aliceEvents, func(ev Event) bool {
		_, ok := ev.(PublicationRemoved)
		return ok
	})
	left := s.await(aliceEvents, func(ev Event) bool {
		_, ok := ev.(MemberLeft)
		return ok
	}).(MemberLeft)
	s.Equal(engine.MemberID("m-bob"), left.Member)

	s.Require().Eventually(func() bool {
		return len(alice.RemotePublications()) == 0
	}, eventWait, 10*time.Millisecond)

	_, stillSubscribed := alice.SubscriptionFor(res.AudioID)
	s.False(stillSubscribed)
}

func (s *ScenarioTestSuite) TestLateJoinerSeesExistingPublications() {
	bob, _ := s.newMember("bob")
	_, err := bob.CreateLocalChannels(s.ctx, CaptureSources{Microphone: "mic0"})
	s.Require().NoError(err)
	s.Require().NoError(bob.Join(s.ctx, "meeting", engine.TopologyP2P, "bob"))

	res, err := bob.Publish(s.ctx, nil)
	s.Require().NoError(err)

	// alice joins after bob already published; the seed pass picks it up
	alice, _ := s.newMember("alice")
	s.Require().NoError(alice.Join(s.ctx, "meeting", engine.TopologyP2P, "alice"))

	pubs := alice.RemotePublications()
	s.Require().Len(pubs, 1)
	s.Equal(res.AudioID, pubs[0].ID)

	s.Require().Eventually(func() bool {
		_, ok := alice.SubscriptionFor(res.AudioID)
		return ok
	}, eventWait, 10*time.Millisecond)
}

func (s *ScenarioTestSuite) TestSessionsInDifferentRoomsStayIsolated() {
	alice, aliceEvents := s.newMember("alice")
	s.Require().NoError(alice.Join(s.ctx, "meeting", engine.TopologyP2P, "alice"))

	bob, _ := s.newMember("bob")
	_, err := bob.CreateLocalChannels(s.ctx, CaptureSources{Microphone: "mic0"})
	s.Require().NoError(err)
	s.Require().NoError(bob.Join(s.ctx, "standup", engine.TopologyP2P, "bob"))

	_, err = bob.Publish(s.ctx, nil)
	s.Require().NoError(err)

	// bob published into another room; alice's view stays empty
	select {
	case ev := <-aliceEvents:
		s.Failf("unexpected event", "%#v", ev)
	case <-time.After(200 * time.Millisecond):
	}
	s.Empty(alice.RemotePublications())
}
