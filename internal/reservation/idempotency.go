package reservation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrSubmissionInFlight  = errors.New("submission already in progress")
)

// SubmissionKey derives the session duplicate-detection key from the fields a customer
// fills in. Name and services are case-folded.
func SubmissionKey(customerName string, date time.Time, slot string, services []string) string {
	return strings.Join([]string{
		strings.ToLower(strings.TrimSpace(customerName)),
		FormatDate(date),
		strings.TrimSpace(slot),
		strings.ToLower(ServicesText(services)),
	}, "|")
}

// SubmissionStore keeps per customer session state: the last successful key and an
// in-flight marker.
type SubmissionStore interface {
	// Acquire sets the in-flight marker; false means another submission holds it.
	Acquire(ctx context.Context, session string) (bool, error)
	Release(ctx context.Context, session string) error
	LastKey(ctx context.Context, session string) (string, error)
	Remember(ctx context.Context, session, key string) error
}

// Guard suppresses repeated submissions within one customer session. It only protects
// against repeated clicks; slot uniqueness is enforced by storage.
type Guard struct {
	store SubmissionStore
}

func NewGuard(store SubmissionStore) *Guard {
	return &Guard{store: store}
}

// Submission is an in-flight reservation attempt for one session.
type Submission struct {
	guard   *Guard
	session string
	key     string
	done    bool
}

// Begin claims the session for key. It fails with ErrDuplicateSubmission when key
// equals the last successful key and with ErrSubmissionInFlight when another
// submission from the same session is still running.
func (g *Guard) Begin(ctx context.Context, session, key string) (*Submission, error) {
	last, err := g.store.LastKey(ctx, session)
	if err != nil {
		return nil, err
	}
	if last != "" && last == key {
		return nil, ErrDuplicateSubmission
	}

	ok, err := g.store.Acquire(ctx, session)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSubmissionInFlight
	}
	return &Submission{guard: g, session: session, key: key}, nil
}

// Commit records the key as the session's last successful submission.
func (s *Submission) Commit(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.guard.store.Remember(ctx, s.session, s.key); err != nil {
		_ = s.guard.store.Release(ctx, s.session)
		return err
	}
	return s.guard.store.Release(ctx, s.session)
}

// Abort releases the in-flight marker without recording the key.
func (s *Submission) Abort(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	return s.guard.store.Release(ctx, s.session)
}

// MemorySubmissionStore keeps session state in process. Entries idle longer than ttl
// are dropped lazily.
type MemorySubmissionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	clock    Clock
	sessions map[string]*sessionState
}

type sessionState struct {
	lastKey  string
	inFlight bool
	touched  time.Time
}

func NewMemorySubmissionStore(ttl time.Duration, clock Clock) *MemorySubmissionStore {
	if clock == nil {
		clock = SystemClock{}
	}
	return &MemorySubmissionStore{
		ttl:      ttl,
		clock:    clock,
		sessions: make(map[string]*sessionState),
	}
}

func (m *MemorySubmissionStore) Acquire(_ context.Context, session string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.stateLocked(session)
	if st.inFlight {
		return false, nil
	}
	st.inFlight = true
	return true, nil
}

func (m *MemorySubmissionStore) Release(_ context.Context, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stateLocked(session).inFlight = false
	return nil
}

func (m *MemorySubmissionStore) LastKey(_ context.Context, session string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stateLocked(session).lastKey, nil
}

func (m *MemorySubmissionStore) Remember(_ context.Context, session, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stateLocked(session).lastKey = key
	return nil
}

func (m *MemorySubmissionStore) stateLocked(session string) *sessionState {
	now := m.clock.Now()
	if m.ttl > 0 {
		for id, st := range m.sessions {
			if !st.inFlight && now.Sub(st.touched) > m.ttl {
				delete(m.sessions, id)
			}
		}
	}

	st, ok := m.sessions[session]
	if !ok {
		st = &sessionState{}
		m.sessions[session] = st
	}
	st.touched = now
	return st
}
