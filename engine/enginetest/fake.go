// Package enginetest provides an in-memory Engine backed by a shared fake
// backend, so tests can run several clients against one room without a
// signaling server.
package enginetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/imtaco/roomkit/engine"
	"github.com/imtaco/roomkit/internal/errors"
)

// Backend is the shared in-memory signaling state. Engines created from the
// same Backend see each other's rooms and publications.
type Backend struct {
	mu      sync.Mutex
	nextID  int
	engines map[int]*Fake

	// room -> publication ID -> publication
	rooms map[string]map[engine.PublicationID]engine.Publication
	// subscription ID -> publication ID
	subs map[engine.SubscriptionID]engine.PublicationID
	// publishing engine ID -> channel ID -> publication ID
	pubByChannel map[int]map[string]engine.PublicationID
}

func NewBackend() *Backend {
	return &Backend{
		engines:      make(map[int]*Fake),
		rooms:        make(map[string]map[engine.PublicationID]engine.Publication),
		subs:         make(map[engine.SubscriptionID]engine.PublicationID),
		pubByChannel: make(map[int]map[string]engine.PublicationID),
	}
}

// NewEngine creates a connected-capable engine attached to this backend.
func (b *Backend) NewEngine() *Fake {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	f := &Fake{backend: b, id: b.nextID}
	b.engines[f.id] = f
	b.pubByChannel[f.id] = make(map[string]engine.PublicationID)
	return f
}

func (b *Backend) newID(prefix string) string {
	b.nextID++
	return fmt.Sprintf("%s-%d", prefix, b.nextID)
}

// notifyPublicationsChanged triggers every engine's publication hook. Called
// without the backend lock held so listeners can immediately re-list.
func (b *Backend) notifyPublicationsChanged() {
	b.mu.Lock()
	engines := make([]*Fake, 0, len(b.engines))
	for _, f := range b.engines {
		engines = append(engines, f)
	}
	b.mu.Unlock()

	for _, f := range engines {
		if h := f.getHooks().OnPublicationListChanged; h != nil {
			h()
		}
	}
}

func (b *Backend) broadcastData(sender int, channelID string, payload []byte) error {
	b.mu.Lock()
	pubID, ok := b.pubByChannel[sender][channelID]
	engines := make([]*Fake, 0, len(b.engines))
	for id, f := range b.engines {
		if id != sender {
			engines = append(engines, f)
		}
	}
	b.mu.Unlock()

	if !ok {
		return errors.New(errors.Code("channel not published"), channelID)
	}
	for _, f := range engines {
		if h := f.getHooks().OnDataReceived; h != nil {
			h(pubID, payload, time.Now())
		}
	}
	return nil
}

// Fake is one client's view of the backend. It implements engine.Engine.
type Fake struct {
	backend *Backend
	id      int

	hooksMu sync.RWMutex
	hooks   engine.Hooks

	mu        sync.Mutex
	connected bool
	closed    bool
	member    engine.MemberID
	room      string

	// ConnectErr, when set, is returned by the next Connect call.
	ConnectErr error
}

var _ engine.Engine = (*Fake)(nil)

func (f *Fake) SetHooks(h engine.Hooks) {
	f.hooksMu.Lock()
	defer f.hooksMu.Unlock()
	f.hooks = h
}

func (f *Fake) getHooks() engine.Hooks {
	f.hooksMu.RLock()
	defer f.hooksMu.RUnlock()
	return f.hooks
}

func (f *Fake) Connect(_ context.Context, credential string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return errors.New(engine.ErrEngineClosed, "engine closed")
	}
	if f.ConnectErr != nil {
		err := f.ConnectErr
		f.ConnectErr = nil
		return err
	}
	if credential == "" {
		return errors.New(engine.ErrAuthentication, "empty credential")
	}
	f.connected = true
	return nil
}

func (f *Fake) Close(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	f.closed = true
	return nil
}

func (f *Fake) ensureConnected() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected {
		return errors.New(engine.ErrNetwork, "not connected")
	}
	return nil
}

func (f *Fake) CreateAudioChannel(_ context.Context, source string) (engine.LocalChannel, error) {
	return f.createChannel(engine.KindAudio, source)
}

func (f *Fake) CreateVideoChannel(_ context.Context, source string) (engine.LocalChannel, error) {
	return f.createChannel(engine.KindVideo, source)
}

func (f *Fake) CreateDataChannel(_ context.Context, label string) (engine.DataChannel, error) {
	ch, err := f.createChannel(engine.KindData, label)
	if err != nil {
		return nil, err
	}
	return &fakeDataChannel{fakeChannel: ch.(*fakeChannel)}, nil
}

func (f *Fake) createChannel(kind engine.ChannelKind, source string) (engine.LocalChannel, error) {
	if err := f.ensureConnected(); err != nil {
		return nil, err
	}
	if source == "" {
		return nil, errors.Newf(errors.Code("missing source"), "%s channel needs a source", kind)
	}

	f.backend.mu.Lock()
	id := f.backend.newID("ch")
	f.backend.mu.Unlock()

	return &fakeChannel{owner: f, id: id, kind: kind}, nil
}

func (f *Fake) JoinRoom(_ context.Context, roomName string, _ engine.Topology, memberName string) (engine.MemberID, error) {
	if err := f.ensureConnected(); err != nil {
		return "", err
	}

	f.backend.mu.Lock()
	member := engine.MemberID(f.backend.newID("m"))
	if memberName != "" {
		member = engine.MemberID(fmt.Sprintf("m-%s", memberName))
	}
	if _, ok := f.backend.rooms[roomName]; !ok {
		f.backend.rooms[roomName] = make(map[engine.PublicationID]engine.Publication)
	}
	f.backend.mu.Unlock()

	f.mu.Lock()
	f.member = member
	f.room = roomName
	f.mu.Unlock()
	return member, nil
}

func (f *Fake) LeaveRoom(_ context.Context, roomName string, member engine.MemberID) error {
	if err := f.ensureConnected(); err != nil {
		return err
	}

	f.backend.mu.Lock()
	changed := false
	for id, p := range f.backend.rooms[roomName] {
		if p.Publisher == member {
			delete(f.backend.rooms[roomName], id)
			changed = true
		}
	}
	f.backend.mu.Unlock()

	f.mu.Lock()
	f.member = ""
	f.room = ""
	f.mu.Unlock()

	if changed {
		f.backend.notifyPublicationsChanged()
	}
	return nil
}

func (f *Fake) Publish(_ context.Context, roomName string, ch engine.LocalChannel, topology engine.Topology) (engine.PublicationID, error) {
	if err := f.ensureConnected(); err != nil {
		return "", err
	}

	f.mu.Lock()
	member := f.member
	f.mu.Unlock()

	f.backend.mu.Lock()
	room, ok := f.backend.rooms[roomName]
	if !ok {
		f.backend.mu.Unlock()
		return "", errors.Newf(errors.Code("no such room"), "%s", roomName)
	}
	pubID := engine.PublicationID(f.backend.newID("pub"))
	room[pubID] = engine.Publication{
		ID:        pubID,
		Publisher: member,
		Kind:      ch.Kind(),
		Topology:  topology,
	}
	f.backend.pubByChannel[f.id][ch.ID()] = pubID
	f.backend.mu.Unlock()

	f.backend.notifyPublicationsChanged()
	return pubID, nil
}

func (f *Fake) Unpublish(_ context.Context, id engine.PublicationID) error {
	if err := f.ensureConnected(); err != nil {
		return err
	}

	f.backend.mu.Lock()
	for _, room := range f.backend.rooms {
		delete(room, id)
	}
	for chID, pubID := range f.backend.pubByChannel[f.id] {
		if pubID == id {
			delete(f.backend.pubByChannel[f.id], chID)
		}
	}
	f.backend.mu.Unlock()

	f.backend.notifyPublicationsChanged()
	return nil
}

func (f *Fake) Subscribe(_ context.Context, id engine.PublicationID) (engine.SubscriptionID, engine.BoundChannel, error) {
	if err := f.ensureConnected(); err != nil {
		return "", engine.BoundChannel{}, err
	}

	f.backend.mu.Lock()
	defer f.backend.mu.Unlock()

	var pub engine.Publication
	found := false
	for _, room := range f.backend.rooms {
		if p, ok := room[id]; ok {
			pub = p
			found = true
			break
		}
	}
	if !found {
		return "", engine.BoundChannel{}, errors.Newf(errors.Code("no such publication"), "%s", id)
	}

	subID := engine.SubscriptionID(f.backend.newID("sub"))
	f.backend.subs[subID] = id

	bound := engine.BoundChannel{Kind: pub.Kind}
	stream := &fakeStream{id: f.backend.newID("stream")}
	switch pub.Kind {
	case engine.KindAudio:
		bound.Audio = stream
	case engine.KindVideo:
		bound.Video = stream
	case engine.KindData:
		bound.Data = stream
	}
	return subID, bound, nil
}

func (f *Fake) CancelSubscription(_ context.Context, id engine.SubscriptionID) error {
	if err := f.ensureConnected(); err != nil {
		return err
	}

	f.backend.mu.Lock()
	defer f.backend.mu.Unlock()
	delete(f.backend.subs, id)
	return nil
}

func (f *Fake) ListPublications(_ context.Context, roomName string) ([]engine.Publication, error) {
	if err := f.ensureConnected(); err != nil {
		return nil, err
	}

	f.backend.mu.Lock()
	defer f.backend.mu.Unlock()

	out := make([]engine.Publication, 0, len(f.backend.rooms[roomName]))
	for _, p := range f.backend.rooms[roomName] {
		out = append(out, p)
	}
	return out, nil
}

type fakeChannel struct {
	owner *Fake
	id    string
	kind  engine.ChannelKind
}

func (c *fakeChannel) ID() string               { return c.id }
func (c *fakeChannel) Kind() engine.ChannelKind { return c.kind }
func (c *fakeChannel) Close() error             { return nil }

type fakeDataChannel struct {
	*fakeChannel
}

func (c *fakeDataChannel) Send(_ context.Context, payload []byte) error {
	if err := c.owner.ensureConnected(); err != nil {
		return err
	}
	return c.owner.backend.broadcastData(c.owner.id, c.id, payload)
}

type fakeStream struct {
	id string
}

func (s *fakeStream) ID() string { return s.id }
