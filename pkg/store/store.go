// Package store holds the latest known user and team for the lifetime of a
// session and notifies subscribers when they change.
package store

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/upac/pokerbots/pkg/api"
	"golang.org/x/sync/errgroup"
)

// Client is the subset of the API the store reads from.
type Client interface {
	MyAccount(ctx context.Context) (*api.User, error)
	MyTeam(ctx context.Context) (*api.Team, error)
	Team(ctx context.Context, id int64) (*api.Team, error)
}

// SlotName identifies a slot of the store.
type SlotName string

// Store slots.
const (
	UserSlot         SlotName = "user"
	MyTeamSlot       SlotName = "my-team"
	SelectedTeamSlot SlotName = "selected-team"
)

// Event is sent to subscribers whenever a slot changes state. Read the
// value from the store.
type Event struct {
	Slot  SlotName
	State State
	Seq   uint64
	Err   error
}

// Option configures a Store.
type Option func(*Store)

// WithSelectedTeam selects a team at creation time.
func WithSelectedTeam(id *int64) Option {
	return func(s *Store) {
		s.selected = id
	}
}

// Store holds the current user, the user's own team and the selected team.
type Store struct {
	client Client

	user     Slot[api.User]
	myTeam   Slot[api.Team]
	selTeam  Slot[api.Team]
	mu       sync.RWMutex
	selected *int64

	subsMu  sync.Mutex
	subs    map[int]chan Event
	nextSub int
	closed  bool
}

// New returns a new Store. Nothing is fetched until Init or a refresh is
// called.
func New(client Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		subs:   make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.user.notify = func(snap Snapshot[api.User]) {
		s.publish(Event{Slot: UserSlot, State: snap.State, Seq: snap.Seq, Err: snap.Err})
	}
	s.myTeam.notify = func(snap Snapshot[api.Team]) {
		s.publish(Event{Slot: MyTeamSlot, State: snap.State, Seq: snap.Seq, Err: snap.Err})
	}
	s.selTeam.notify = func(snap Snapshot[api.Team]) {
		s.publish(Event{Slot: SelectedTeamSlot, State: snap.State, Seq: snap.Seq, Err: snap.Err})
	}
	return s
}

// Init loads every slot concurrently. It returns the first fetch error.
// A failing slot doesn't cancel the others.
func (s *Store) Init(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		return ignoreStale(s.refreshUser(ctx))
	})
	g.Go(func() error {
		return ignoreStale(s.RefreshMyTeam(ctx))
	})
	if s.SelectedTeamID() != nil {
		g.Go(func() error {
			return ignoreStale(s.refreshSelected(ctx))
		})
	}
	return g.Wait()
}

func ignoreStale(err error) error {
	if errors.Is(err, ErrStale) {
		return nil
	}
	return err
}

// User returns the current user snapshot.
func (s *Store) User() Snapshot[api.User] {
	return s.user.Get()
}

func (s *Store) refreshUser(ctx context.Context) error {
	_, err := s.user.Refresh(ctx, s.client.MyAccount)
	if err != nil && !errors.Is(err, ErrStale) {
		log.FromContext(ctx).WithPrefix("store").Debug("user refresh failed", "err", err)
	}
	return err
}

// RefreshUser refetches the user, then the teams, since team membership
// depends on who is logged in.
func (s *Store) RefreshUser(ctx context.Context) error {
	err := s.refreshUser(ctx)
	if terr := s.RefreshTeam(ctx); err == nil {
		err = terr
	}
	return err
}

// MyTeam returns the snapshot of the logged in user's team.
func (s *Store) MyTeam() Snapshot[api.Team] {
	return s.myTeam.Get()
}

// RefreshMyTeam refetches the logged in user's team.
func (s *Store) RefreshMyTeam(ctx context.Context) error {
	_, err := s.myTeam.Refresh(ctx, s.client.MyTeam)
	if err != nil && !errors.Is(err, ErrStale) {
		log.FromContext(ctx).WithPrefix("store").Debug("team refresh failed", "err", err)
	}
	return err
}

func (s *Store) refreshSelected(ctx context.Context) error {
	id := s.SelectedTeamID()
	if id == nil {
		return nil
	}
	teamID := *id
	_, err := s.selTeam.Refresh(ctx, func(ctx context.Context) (*api.Team, error) {
		return s.client.Team(ctx, teamID)
	})
	if err != nil && !errors.Is(err, ErrStale) {
		log.FromContext(ctx).WithPrefix("store").Debug("team refresh failed", "team", teamID, "err", err)
	}
	return err
}

// Team returns the displayed team: the selected team when there is a
// selection, otherwise the logged in user's team.
func (s *Store) Team() Snapshot[api.Team] {
	if s.SelectedTeamID() != nil {
		return s.selTeam.Get()
	}
	return s.myTeam.Get()
}

// TeamSlot returns the name of the slot Team reads from.
func (s *Store) TeamSlot() SlotName {
	if s.SelectedTeamID() != nil {
		return SelectedTeamSlot
	}
	return MyTeamSlot
}

// RefreshTeam refetches the displayed team. With a selection, the user's
// own team is refreshed too.
func (s *Store) RefreshTeam(ctx context.Context) error {
	if s.SelectedTeamID() == nil {
		return s.RefreshMyTeam(ctx)
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.RefreshMyTeam(ctx) // nolint: errcheck
	}()
	err := s.refreshSelected(ctx)
	wg.Wait()
	return err
}

// SelectedTeamID returns the selected team id, or nil.
func (s *Store) SelectedTeamID() *int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	id := *s.selected
	return &id
}

// Select changes the selected team and refetches it. Selecting the current
// selection again does nothing.
func (s *Store) Select(ctx context.Context, id *int64) error {
	s.mu.Lock()
	same := (s.selected == nil && id == nil) ||
		(s.selected != nil && id != nil && *s.selected == *id)
	if same {
		s.mu.Unlock()
		return nil
	}
	if id != nil {
		v := *id
		s.selected = &v
	} else {
		s.selected = nil
	}
	s.mu.Unlock()

	if id == nil {
		s.selTeam.Reset()
		return nil
	}
	return s.refreshSelected(ctx)
}

// Readonly reports whether the displayed team is someone else's.
func (s *Store) Readonly() bool {
	id := s.SelectedTeamID()
	if id == nil {
		return false
	}
	mine := s.myTeam.Get().Value
	return mine == nil || mine.ID != *id
}

// Subscribe returns a channel of events and a function to unsubscribe.
// Delivery never blocks the store: a subscriber that falls behind misses
// intermediate events but always receives the latest one.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	ch := make(chan Event, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

func (s *Store) publish(ev Event) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			// Replace the pending event with the newer one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

// Close closes every subscriber channel. The slots keep their values.
func (s *Store) Close() error {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	return nil
}

// ParseTeamRoute returns the team id of a /team/:id route. It returns nil
// for any other path.
func ParseTeamRoute(path string) *int64 {
	path = strings.Trim(path, "/")
	rest, ok := strings.CutPrefix(path, "team/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return nil
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id < 0 {
		return nil
	}
	return &id
}
