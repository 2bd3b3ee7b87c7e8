package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/justinabrahms/checkers/internal/checkers"
	"github.com/rs/zerolog/log"
)

// Operation is one engine call applied to a loaded game. It reports whether
// the engine accepted it.
type Operation func(g *checkers.Game) bool

// CommitFunc observes every snapshot the manager stores. It runs while the
// session is still locked, so calls for one session arrive in commit order.
type CommitFunc func(id string, snap checkers.Snapshot)

// Manager performs every request as a single read-modify-write over the
// session's snapshot. Requests for the same session are serialized; requests
// for different sessions never block each other.
type Manager struct {
	store    Store
	onCommit CommitFunc

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		locks: make(map[string]*sessionLock),
	}
}

// OnCommit registers fn to be called after each successful Start and each
// accepted operation. It must not block and must not call back into m.
func (m *Manager) OnCommit(fn CommitFunc) {
	m.onCommit = fn
}

func (m *Manager) commit(id string, snap checkers.Snapshot) {
	if m.onCommit != nil {
		m.onCommit(id, snap)
	}
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// Start stores a brand new game for id, replacing any game in progress.
func (m *Manager) Start(ctx context.Context, id string) (checkers.Snapshot, error) {
	unlock := m.lock(id)
	defer unlock()

	snap := checkers.CreateNewGame()
	if err := m.store.Put(ctx, id, snap); err != nil {
		return checkers.Snapshot{}, err
	}
	m.commit(id, snap)
	log.Info().Str("session", id).Msg("New game started")
	return snap, nil
}

// Get returns the stored snapshot for id.
func (m *Manager) Get(ctx context.Context, id string) (checkers.Snapshot, error) {
	return m.store.Get(ctx, id)
}

// Replay hands the stored snapshot for id to fn with the session locked, so
// fn is ordered against commits reported through OnCommit.
func (m *Manager) Replay(ctx context.Context, id string, fn CommitFunc) error {
	unlock := m.lock(id)
	defer unlock()

	snap, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	fn(id, snap)
	return nil
}

// Apply loads the game for id, runs op and saves the result. Rejected
// operations leave the stored snapshot untouched.
func (m *Manager) Apply(ctx context.Context, id string, op Operation) (checkers.Snapshot, bool, error) {
	unlock := m.lock(id)
	defer unlock()

	snap, err := m.store.Get(ctx, id)
	if err != nil {
		return checkers.Snapshot{}, false, err
	}
	game, err := checkers.Load(snap)
	if err != nil {
		return checkers.Snapshot{}, false, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	if !op(game) {
		return snap, false, nil
	}

	next := game.Snapshot()
	if err := m.store.Put(ctx, id, next); err != nil {
		return checkers.Snapshot{}, false, err
	}
	m.commit(id, next)
	return next, true, nil
}

// Select applies Game.SelectPiece.
func (m *Manager) Select(ctx context.Context, id string, row, col int) (checkers.Snapshot, bool, error) {
	return m.Apply(ctx, id, func(g *checkers.Game) bool {
		return g.SelectPiece(row, col)
	})
}

// Move applies Game.AttemptMove.
func (m *Manager) Move(ctx context.Context, id string, row, col int) (checkers.Snapshot, bool, error) {
	return m.Apply(ctx, id, func(g *checkers.Game) bool {
		return g.AttemptMove(row, col)
	})
}

// End discards the game stored for id.
func (m *Manager) End(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()
	return m.store.Delete(ctx, id)
}
