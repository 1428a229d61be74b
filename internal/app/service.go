package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jaminalder/tictactoe-ai/internal/dependencies/clock"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound = errors.New("game not found")
)

// subscriberBuffer is how many unread payloads a subscriber may hold before
// it is dropped.
const subscriberBuffer = 4

// GameState is the view of a session handed to hosts.
type GameState struct {
	ID      string
	Game    Snapshot
	Created time.Time
	Updated time.Time
}

type session struct {
	id      string
	ctrl    *Controller
	created time.Time
	updated time.Time
}

func (gs *session) state() GameState {
	return GameState{ID: gs.id, Game: gs.ctrl.Snapshot(), Created: gs.created, Updated: gs.updated}
}

type subscriber struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// offer delivers payload without blocking. It reports false when the buffer
// is full; a closed subscriber silently accepts nothing.
func (s *subscriber) offer(payload []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- payload:
		return true
	default:
		return false
	}
}

// ServiceConfig wires the collaborators shared by every session.
type ServiceConfig struct {
	Picker     MovePicker
	Scheduler  clock.Scheduler
	Clock      clock.Clock
	ThinkDelay time.Duration
	// IdleTTL evicts sessions not updated for this long. Zero keeps them forever.
	IdleTTL time.Duration
	Logger  *slog.Logger
}

// Service manages game sessions and subscribers.
type Service struct {
	mu     sync.Mutex
	games  map[string]*session
	subs   map[string]map[*subscriber]struct{}
	render func(GameState) []byte

	picker    MovePicker
	scheduler clock.Scheduler
	clock     clock.Clock
	delay     time.Duration
	idleTTL   time.Duration
	logger    *slog.Logger
}

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService(cfg ServiceConfig) *Service {
	if cfg.Scheduler == nil {
		cfg.Scheduler = clock.New()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.NewClock()
	}
	return &Service{
		games:     make(map[string]*session),
		subs:      make(map[string]map[*subscriber]struct{}),
		render:    func(gs GameState) []byte { return nil },
		picker:    cfg.Picker,
		scheduler: cfg.Scheduler,
		clock:     cfg.Clock,
		delay:     cfg.ThinkDelay,
		idleTTL:   cfg.IdleTTL,
		logger:    cfg.Logger.With(slog.String("component", "game-service")),
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(gs GameState) []byte { return nil }
		return
	}
	s.render = renderer
}

// CreateGame creates and registers a new session in the given mode.
func (s *Service) CreateGame(mode Mode) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	now := s.clock.Now()
	listener := ListenerFuncs{
		TurnChanged: func(TurnInfo) { s.broadcast(id) },
		GameEnded:   func(domain.Outcome) { s.broadcast(id) },
	}
	gs := &session{
		id:      id,
		ctrl:    NewController(mode, s.picker, s.scheduler, s.delay, listener, s.logger.With(slog.String("game_id", id))),
		created: now,
		updated: now,
	}
	s.games[id] = gs
	s.logger.Info("game created", slog.String("game_id", id), slog.String("mode", mode.String()))
	st := gs.state()
	return &st, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	st := gs.state()
	return &st, true
}

// Play applies a human move to cell. Subscribers are notified through the
// controller's events.
func (s *Service) Play(id string, cell int) (*GameState, error) {
	gs, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	if err := gs.ctrl.ApplyHumanMove(cell); err != nil {
		return nil, err
	}
	return s.current(gs), nil
}

// Reset starts a fresh game in the session's current mode.
func (s *Service) Reset(id string) (*GameState, error) {
	gs, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	gs.ctrl.Reset()
	return s.current(gs), nil
}

// SetMode switches the session's mode, which resets the game.
func (s *Service) SetMode(id string, mode Mode) (*GameState, error) {
	gs, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	gs.ctrl.SetMode(mode)
	return s.current(gs), nil
}

// ToggleMode flips the session's mode, which resets the game.
func (s *Service) ToggleMode(id string) (*GameState, error) {
	gs, ok := s.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	gs.ctrl.ToggleMode()
	return s.current(gs), nil
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, func() {}, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, subscriberBuffer)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

// EvictIdle removes sessions idle for longer than the configured TTL and
// closes their subscribers. It returns how many sessions were removed.
func (s *Service) EvictIdle() int {
	if s.idleTTL <= 0 {
		return 0
	}
	now := s.clock.Now()
	var subs []*subscriber

	s.mu.Lock()
	evicted := 0
	for id, gs := range s.games {
		if now.Sub(gs.updated) <= s.idleTTL {
			continue
		}
		delete(s.games, id)
		for sub := range s.subs[id] {
			subs = append(subs, sub)
		}
		delete(s.subs, id)
		evicted++
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
	if evicted > 0 {
		s.logger.Info("evicted idle games", slog.Int("count", evicted))
	}
	return evicted
}

// RunJanitor calls EvictIdle periodically until ctx is done.
func (s *Service) RunJanitor(ctx context.Context) {
	if s.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(max(s.idleTTL/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.EvictIdle()
		}
	}
}

func (s *Service) lookup(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	return gs, ok
}

func (s *Service) current(gs *session) *GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := gs.state()
	return &st
}

// broadcast renders the session and fans it out. It runs on whichever
// goroutine emitted the controller event, including the think-delay timer.
func (s *Service) broadcast(id string) {
	var toDrop []*subscriber

	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	gs.updated = s.clock.Now()
	payload := s.render(gs.state())
	subs := s.copySubsLocked(id)
	s.mu.Unlock()

	// Fan-out; drop slow subscribers by closing and marking for deletion
	for sub := range subs {
		if !sub.offer(payload) {
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) > 0 {
		s.mu.Lock()
		for _, sub := range toDrop {
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
		}
		s.mu.Unlock()
		s.logger.Warn("dropped slow subscribers", slog.String("game_id", id), slog.Int("count", len(toDrop)))
	}
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
