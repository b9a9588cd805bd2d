package room

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"

	"github.com/imtaco/roomkit/engine"
	"github.com/imtaco/roomkit/internal/errors"
	"github.com/imtaco/roomkit/internal/log"
	"github.com/imtaco/roomkit/internal/validation"
)

type notifyKind string

const (
	notifyPublications notifyKind = "publications"
	notifyMembers      notifyKind = "members"
)

// RoomSession represents membership in one named room. All state mutation
// (join state, publications, subscriptions) is serialized behind one mutex,
// held across the engine round-trip of each operation, so concurrent
// callers and reconciliation passes never interleave. Events are emitted
// only after the mutex is released, so handlers may re-enter the session.
type RoomSession struct {
	id     string
	sctx   *SessionContext
	eng    engine.Engine
	logger *log.Logger
	clock  clockwork.Clock
	opts   Options

	mu         sync.Mutex
	state      JoinState
	roomName   string
	topology   engine.Topology
	localID    engine.MemberID
	remotePubs map[engine.PublicationID]engine.Publication
	members    map[engine.MemberID]struct{}
	subs       map[engine.PublicationID]*Subscription
	channels   *LocalChannelSet
	lastMsg    *DataMessage
	msgSeq     uint64

	recent *lru.Cache[uint64, DataMessage]

	dispatcher *dispatcher
	notifyCh   chan notifyKind
	loopCancel context.CancelFunc
	closeOnce  sync.Once
}

func newRoomSession(
	sctx *SessionContext,
	id string,
	opts Options,
	clock clockwork.Clock,
	logger *log.Logger,
) (*RoomSession, error) {
	if clock == nil {
		panic("clock is required")
	}

	recent, err := lru.New[uint64, DataMessage](opts.RecentMessageCount)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidRequest, err, "recent message cache")
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s := &RoomSession{
		id:         id,
		sctx:       sctx,
		eng:        sctx.eng,
		logger:     logger,
		clock:      clock,
		opts:       opts,
		state:      StateIdle,
		remotePubs: make(map[engine.PublicationID]engine.Publication),
		members:    make(map[engine.MemberID]struct{}),
		subs:       make(map[engine.PublicationID]*Subscription),
		recent:     recent,
		dispatcher: newDispatcher(opts.EventBuffer, logger.Module("Dispatch")),
		notifyCh:   make(chan notifyKind, 1),
		loopCancel: cancel,
	}

	go s.loop(loopCtx)
	return s, nil
}

type joinRequest struct {
	RoomName   string `validate:"roomname"`
	Topology   string `validate:"topology"`
	MemberName string `validate:"membername"`
}

// Join moves the session from idle to joined. On success the backend
// assigns the local member identity and the reconciler runs once against
// the empty previous set to seed initial events and, when auto-subscribe
// is on, initial subscriptions.
func (s *RoomSession) Join(ctx context.Context, roomName string, topology engine.Topology, memberName string) error {
	if !s.sctx.Ready() {
		return errors.New(ErrContextNotReady, "session context closed")
	}
	req := joinRequest{RoomName: roomName, Topology: string(topology), MemberName: memberName}
	if err := validation.Struct(&req); err != nil {
		return errors.Wrap(ErrInvalidRequest, err, "invalid join request")
	}

	s.mu.Lock()
	if s.state != StateIdle {
		st := s.state
		s.mu.Unlock()
		return errors.Newf(ErrAlreadyJoined, "session is %s", st)
	}
	s.state = StateJoining
	s.roomName = roomName
	s.topology = topology
	joinsStarted.Add(ctx, 1)

	member, err := s.eng.JoinRoom(ctx, roomName, topology, memberName)
	if err != nil {
		s.state = StateIdle
		s.roomName = ""
		s.mu.Unlock()
		joinsRejected.Add(ctx, 1)
		if errors.Is(err, engine.ErrNetwork) {
			return errors.Wrapf(ErrTransport, err, "join %q", roomName)
		}
		return errors.Wrapf(ErrJoinRejected, err, "join %q rejected", roomName)
	}
	s.state = StateJoined
	s.localID = member
	s.mu.Unlock()

	joinsCompleted.Add(ctx, 1)
	s.logger.Info("joined room",
		log.String("room", roomName),
		log.String("member", string(member)),
		log.String("topology", string(topology)))

	// seed pass against the empty previous set
	s.reconcileOnce(ctx)
	return nil
}

// Leave cancels every live subscription, unpublishes local publications and
// releases the member, each step best-effort with its own bounded timeout.
// The session always ends idle and is reusable.
func (s *RoomSession) Leave(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateJoined {
		return errors.Newf(ErrNotJoined, "session is %s", s.state)
	}
	s.state = StateLeaving
	s.leaveLocked(ctx)
	s.state = StateIdle

	leavesCompleted.Add(ctx, 1)
	s.logger.Info("left room", log.String("room", s.roomName))
	return nil
}

func (s *RoomSession) leaveLocked(ctx context.Context) {
	// cleanup must proceed even when the caller's context is already gone
	base := context.WithoutCancel(ctx)

	for id, sub := range s.subs {
		opCtx, cancel := context.WithTimeout(base, s.opts.LeaveOpTimeout)
		if err := s.eng.CancelSubscription(opCtx, sub.ID); err != nil {
			s.logger.Warn("cancel subscription failed on leave",
				log.String("publicationId", string(id)),
				log.Error(err))
		}
		cancel()
		delete(s.subs, id)
	}

	if s.channels != nil {
		for kind, pubID := range s.channels.pubs {
			opCtx, cancel := context.WithTimeout(base, s.opts.LeaveOpTimeout)
			if err := s.eng.Unpublish(opCtx, pubID); err != nil {
				s.logger.Warn("unpublish failed on leave",
					log.String("kind", string(kind)),
					log.String("publicationId", string(pubID)),
					log.Error(err))
			}
			cancel()
		}
		s.channels.clearPublished()
		s.channels.stop(s.logger)
		s.channels = nil
	}

	opCtx, cancel := context.WithTimeout(base, s.opts.LeaveOpTimeout)
	if err := s.eng.LeaveRoom(opCtx, s.roomName, s.localID); err != nil {
		s.logger.Warn("leave room failed", log.Error(err))
	}
	cancel()

	s.remotePubs = make(map[engine.PublicationID]engine.Publication)
	s.members = make(map[engine.MemberID]struct{})
	s.localID = ""
}

// Close releases the session: leaves the room if still joined, stops the
// notification loop and the dispatcher, and detaches from the context.
func (s *RoomSession) Close(ctx context.Context) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.state == StateJoined {
			s.state = StateLeaving
			s.leaveLocked(ctx)
			s.state = StateIdle
		}
		s.mu.Unlock()

		s.loopCancel()
		s.dispatcher.close()
		s.sctx.dropSession(s.id)
	})
}

// CreateLocalChannels allocates the local channel handles bound to the
// given capture sources. Recreating channels while they are in use by a
// joined cycle is rejected; after a leave the previous handles are replaced.
func (s *RoomSession) CreateLocalChannels(ctx context.Context, sources CaptureSources) (*LocalChannelSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.channels != nil && s.state != StateIdle {
		return nil, errors.New(ErrInvalidRequest, "local channels already exist for this cycle, leave first")
	}
	if s.channels != nil {
		s.channels.stop(s.logger)
		s.channels = nil
	}

	set, err := newLocalChannelSet(ctx, s.eng, sources)
	if err != nil {
		return nil, errors.Wrap(ErrTransport, err, "create local channels")
	}
	s.channels = set
	return set, nil
}

// Publish publishes the local channels in the order audio, video, data.
// Data channels only ever publish peer-to-peer; requesting them under a
// routed topology fails with ErrUnsupportedTopology. A failure leaves the
// publications made so far valid, and a later Publish call retries only
// the channels that are still unpublished.
func (s *RoomSession) Publish(ctx context.Context, override *engine.Topology) (PublishResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res PublishResult
	if s.state != StateJoined {
		return res, errors.Newf(ErrNotJoined, "session is %s", s.state)
	}
	if s.channels == nil {
		return res, errors.New(ErrChannelNotCreated, "local channels not created")
	}

	topo := s.topology
	if override != nil {
		topo = *override
	}

	if s.channels.audio != nil {
		id, err := s.publishChannelLocked(ctx, s.channels.audio, engine.KindAudio, topo)
		if err != nil {
			return res, err
		}
		res.AudioID = id
	}
	if s.channels.video != nil {
		id, err := s.publishChannelLocked(ctx, s.channels.video, engine.KindVideo, topo)
		if err != nil {
			return res, err
		}
		res.VideoID = id
	}
	if s.channels.data != nil {
		if topo != engine.TopologyP2P {
			return res, errors.Newf(ErrUnsupportedTopology,
				"data channels require %s topology, got %s", engine.TopologyP2P, topo)
		}
		id, err := s.publishChannelLocked(ctx, s.channels.data, engine.KindData, engine.TopologyP2P)
		if err != nil {
			return res, err
		}
		res.DataID = id
	}

	return res, nil
}

func (s *RoomSession) publishChannelLocked(
	ctx context.Context,
	ch engine.LocalChannel,
	kind engine.ChannelKind,
	topo engine.Topology,
) (engine.PublicationID, error) {

	if id, ok := s.channels.published(kind); ok {
		return id, nil
	}

	id, err := s.eng.Publish(ctx, s.roomName, ch, topo)
	if err != nil {
		return "", errors.Wrapf(ErrTransport, err, "publish %s", kind)
	}
	s.channels.markPublished(kind, id)

	publicationsPublished.Add(ctx, 1)
	s.logger.Debug("published local channel",
		log.String("kind", string(kind)),
		log.String("publicationId", string(id)),
		log.String("topology", string(topo)))
	return id, nil
}

// Subscribe binds the session to one remote publication. Idempotent: a
// second call for the same publication returns the existing subscription
// without a backend round-trip.
func (s *RoomSession) Subscribe(ctx context.Context, id engine.PublicationID) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribeLocked(ctx, id)
}

func (s *RoomSession) subscribeLocked(ctx context.Context, id engine.PublicationID) (*Subscription, error) {
	if s.state != StateJoined {
		return nil, errors.Newf(ErrNotJoined, "session is %s", s.state)
	}
	if sub, ok := s.subs[id]; ok {
		return sub, nil
	}
	pub, ok := s.remotePubs[id]
	if !ok {
		return nil, errors.Newf(ErrPublicationNotFound, "publication %q", id)
	}

	subID, ch, err := s.eng.Subscribe(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(ErrTransport, err, "subscribe %q", id)
	}

	sub := &Subscription{
		ID:            subID,
		PublicationID: id,
		Channel:       ch,
		CreatedAt:     s.clock.Now(),
	}
	s.subs[id] = sub

	subscriptionsOpened.Add(ctx, 1)
	s.logger.Debug("subscribed",
		log.String("publicationId", string(id)),
		log.String("publisher", string(pub.Publisher)),
		log.String("kind", string(pub.Kind)))
	return sub, nil
}

// Unsubscribe cancels the subscription for the given publication. A missing
// subscription is a no-op. On a cancel transport failure the subscription
// is kept so the caller can retry.
func (s *RoomSession) Unsubscribe(ctx context.Context, id engine.PublicationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateJoined {
		return errors.Newf(ErrNotJoined, "session is %s", s.state)
	}
	sub, ok := s.subs[id]
	if !ok {
		return nil
	}

	if err := s.eng.CancelSubscription(ctx, sub.ID); err != nil {
		return errors.Wrapf(ErrTransport, err, "cancel subscription %q", id)
	}
	delete(s.subs, id)

	subscriptionsClosed.Add(ctx, 1)
	s.logger.Debug("unsubscribed", log.String("publicationId", string(id)))
	return nil
}

// SubscribeToAllRemotePublications subscribes to every remote publication
// not already subscribed. Per-publication failures are collected; they do
// not abort the remainder.
func (s *RoomSession) SubscribeToAllRemotePublications(ctx context.Context) ([]*Subscription, map[engine.PublicationID]error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateJoined {
		return nil, nil, errors.Newf(ErrNotJoined, "session is %s", s.state)
	}

	pending := make([]engine.Publication, 0, len(s.remotePubs))
	for id, p := range s.remotePubs {
		if _, ok := s.subs[id]; !ok {
			pending = append(pending, p)
		}
	}
	sortByID(pending)

	var subs []*Subscription
	failures := make(map[engine.PublicationID]error)
	for _, p := range pending {
		sub, err := s.subscribeLocked(ctx, p.ID)
		if err != nil {
			s.logger.Warn("subscribe failed in fan-out",
				log.String("publicationId", string(p.ID)),
				log.Error(err))
			failures[p.ID] = err
			continue
		}
		subs = append(subs, sub)
	}
	return subs, failures, nil
}

// SendData sends a payload on the local data channel.
func (s *RoomSession) SendData(ctx context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateJoined {
		return errors.Newf(ErrNotJoined, "session is %s", s.state)
	}
	if !s.channels.HasData() {
		return errors.New(ErrChannelNotCreated, "data channel not created")
	}

	if err := s.channels.data.Send(ctx, payload); err != nil {
		return errors.Wrap(ErrTransport, err, "send data")
	}
	dataMessagesSent.Add(ctx, 1)
	return nil
}

// SendText sends a UTF-8 text payload on the local data channel.
func (s *RoomSession) SendText(ctx context.Context, text string) error {
	return s.SendData(ctx, []byte(text))
}

// AddHandler registers an event handler and returns its removal func.
func (s *RoomSession) AddHandler(h Handler) func() {
	return s.dispatcher.addHandler(h)
}

// notifyPublicationListChanged is invoked from the engine callback. The
// actual pass runs on the session's own loop goroutine; a pending trigger
// already covers any burst of notifications since every pass re-lists.
func (s *RoomSession) notifyPublicationListChanged() {
	s.trigger(notifyPublications)
}

func (s *RoomSession) notifyMemberListChanged() {
	s.trigger(notifyMembers)
}

func (s *RoomSession) trigger(kind notifyKind) {
	select {
	case s.notifyCh <- kind:
	default:
		// a pass is already pending; it will observe the latest state
	}
}

func (s *RoomSession) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case kind := <-s.notifyCh:
			s.logger.Debug("backend notification", log.String("kind", string(kind)))
			s.reconcileOnce(ctx)
		}
	}
}

// reconcileOnce lists the room's publications, diffs them against the
// tracked remote set, updates state, then emits events and runs
// auto-subscribe outside the lock. All PublicationAdded events of a pass
// are emitted before any subscribe attempt of that pass starts.
func (s *RoomSession) reconcileOnce(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateJoined {
		s.mu.Unlock()
		return
	}

	list, err := s.eng.ListPublications(ctx, s.roomName)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("list publications failed", log.Error(err))
		return
	}

	next, added, removed := diffPublications(s.remotePubs, list, s.localID)
	nextMembers, joined, left := diffMembers(s.members, next)
	s.remotePubs = next
	s.members = nextMembers

	for _, p := range removed {
		if _, ok := s.subs[p.ID]; ok {
			// the backend already invalidated it; no cancel call
			delete(s.subs, p.ID)
			s.logger.Debug("dropped subscription for vanished publication",
				log.String("publicationId", string(p.ID)))
		}
	}
	auto := s.opts.AutoSubscribe
	s.mu.Unlock()

	reconcilePasses.Add(ctx, 1)
	publicationsAdded.Add(ctx, int64(len(added)))
	publicationsRemoved.Add(ctx, int64(len(removed)))

	for _, m := range joined {
		s.dispatcher.emit(MemberJoined{Member: m})
	}
	for _, p := range added {
		s.dispatcher.emit(PublicationAdded{Publication: p})
	}
	for _, p := range removed {
		s.dispatcher.emit(PublicationRemoved{Publication: p})
	}
	for _, m := range left {
		s.dispatcher.emit(MemberLeft{Member: m})
	}

	if !auto {
		return
	}
	for _, p := range added {
		if _, err := s.Subscribe(ctx, p.ID); err != nil {
			s.logger.Warn("auto-subscribe failed",
				log.String("publicationId", string(p.ID)),
				log.Error(err))
			s.dispatcher.emit(SubscribeFailed{PublicationID: p.ID, Err: err})
		}
	}
}

// handleData records an inbound payload for a subscribed publication and
// emits DataReceived. Payloads for publications the session is not
// subscribed to are dropped.
func (s *RoomSession) handleData(pub engine.PublicationID, payload []byte, ts time.Time) {
	s.mu.Lock()
	if _, ok := s.subs[pub]; !ok {
		s.mu.Unlock()
		return
	}
	if ts.IsZero() {
		ts = s.clock.Now()
	}
	msg := DataMessage{
		Payload:       payload,
		From:          s.remotePubs[pub].Publisher,
		PublicationID: pub,
		ReceivedAt:    ts,
	}
	s.lastMsg = &msg
	s.msgSeq++
	s.recent.Add(s.msgSeq, msg)
	s.mu.Unlock()

	dataMessagesReceived.Add(context.Background(), 1)
	s.dispatcher.emit(DataReceived{Message: msg})
}

// IsJoined reports whether the session is currently joined.
func (s *RoomSession) IsJoined() bool {
	return s.State() == StateJoined
}

// State returns the current join state.
func (s *RoomSession) State() JoinState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RoomName returns the room joined (or last joined).
func (s *RoomSession) RoomName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomName
}

// LocalMember returns the backend-assigned local member identity; empty
// outside a joined cycle.
func (s *RoomSession) LocalMember() engine.MemberID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localID
}

// RemotePublications returns the tracked remote publication set, sorted by
// publication ID.
func (s *RoomSession) RemotePublications() []engine.Publication {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]engine.Publication, 0, len(s.remotePubs))
	for _, p := range s.remotePubs {
		out = append(out, p)
	}
	sortByID(out)
	return out
}

// SubscriptionFor returns the live subscription for a publication, if any.
func (s *RoomSession) SubscriptionFor(id engine.PublicationID) (*Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	return sub, ok
}

// LastReceivedMessage returns the most recent inbound data message.
func (s *RoomSession) LastReceivedMessage() (DataMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastMsg == nil {
		return DataMessage{}, false
	}
	return *s.lastMsg, true
}

// RecentMessages returns the kept inbound data messages, oldest first.
func (s *RoomSession) RecentMessages() []DataMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.recent.Keys()
	out := make([]DataMessage, 0, len(keys))
	for _, k := range keys {
		if msg, ok := s.recent.Peek(k); ok {
			out = append(out, msg)
		}
	}
	return out
}
