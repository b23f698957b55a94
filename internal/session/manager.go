package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

const (
	defaultMaxEntries  = 10
	defaultIdleTTL     = time.Hour
	defaultMaxSessions = 1000
)

type sessionState struct {
	entries  []apptype.SessionEntry
	lastSeen time.Time
}

// Manager holds per-session conversation context, bounded three ways: each
// session keeps its most recent entries, idle sessions expire after a TTL,
// and the total session count is capped with least-recently-used eviction.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*sessionState

	maxEntries  int
	idleTTL     time.Duration
	maxSessions int
	logger      *zap.Logger
	now         func() time.Time
}

func NewManager(maxEntries int, idleTTL time.Duration, maxSessions int, logger *zap.Logger) *Manager {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions:    make(map[string]*sessionState),
		maxEntries:  maxEntries,
		idleTTL:     idleTTL,
		maxSessions: maxSessions,
		logger:      logger,
		now:         time.Now,
	}
}

// Record appends one exchange to the session, creating it on first use and
// trimming to the newest maxEntries.
func (m *Manager) Record(sessionID, query string, response apptype.Response) {
	if sessionID == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.expireLocked()

	state, ok := m.sessions[sessionID]
	if !ok {
		m.evictLRULocked()
		state = &sessionState{}
		m.sessions[sessionID] = state
	}

	state.entries = append(state.entries, apptype.SessionEntry{
		Query:     query,
		Response:  response,
		Timestamp: m.now(),
	})
	if len(state.entries) > m.maxEntries {
		state.entries = state.entries[len(state.entries)-m.maxEntries:]
	}
	state.lastSeen = m.now()
}

// Get returns the session's recorded exchanges, oldest first. Unknown ids
// return an empty context rather than an error.
func (m *Manager) Get(sessionID string) apptype.SessionContext {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.expireLocked()

	ctx := apptype.SessionContext{SessionID: sessionID}
	state, ok := m.sessions[sessionID]
	if !ok {
		return ctx
	}
	state.lastSeen = m.now()
	ctx.Entries = append(ctx.Entries, state.entries...)
	ctx.LastUpdated = state.lastSeen
	return ctx
}

// Len reports the live session count.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// expireLocked drops sessions idle past the TTL.
func (m *Manager) expireLocked() {
	now := m.now()
	for id, state := range m.sessions {
		if now.Sub(state.lastSeen) > m.idleTTL {
			delete(m.sessions, id)
			m.logger.Debug("expired idle session", zap.String("session_id", id))
		}
	}
}

// evictLRULocked makes room for one new session by evicting the least
// recently used until the count is under maxSessions.
func (m *Manager) evictLRULocked() {
	for len(m.sessions) >= m.maxSessions {
		oldestID := ""
		var oldest time.Time
		for id, state := range m.sessions {
			if oldestID == "" || state.lastSeen.Before(oldest) {
				oldestID = id
				oldest = state.lastSeen
			}
		}
		if oldestID == "" {
			return
		}
		delete(m.sessions, oldestID)
		m.logger.Debug("evicted least recently used session", zap.String("session_id", oldestID))
	}
}
