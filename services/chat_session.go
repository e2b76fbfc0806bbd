package services

import (
	"sync"
	"time"

	"github.com/LovationAdmin/wedding-api/utils"
)

// DefaultChatIdleTTL is how long an untouched widget session is kept.
const DefaultChatIdleTTL = 30 * time.Minute

// ChatSessions keeps widget sessions keyed by wedding slug and browser client
// id. Idle sessions are swept on clock ticks.
type ChatSessions struct {
	base    ChatSessionConfig
	idleTTL time.Duration

	mu       sync.Mutex
	sessions map[string]*ChatSession
}

// NewChatSessions builds a registry. base supplies the responder, timeout
// and link settings shared by every session.
func NewChatSessions(base ChatSessionConfig, idleTTL time.Duration) *ChatSessions {
	if idleTTL <= 0 {
		idleTTL = DefaultChatIdleTTL
	}
	return &ChatSessions{
		base:     base,
		idleTTL:  idleTTL,
		sessions: make(map[string]*ChatSession),
	}
}

func sessionKey(slug, clientID string) string {
	return slug + "\x00" + clientID
}

// Get returns the client's session for a wedding, creating it on first use.
// Guest and language of an existing session are refreshed when provided.
func (r *ChatSessions) Get(clientID string, chatCtx ChatContext) *ChatSession {
	key := sessionKey(chatCtx.WebsiteSlug, clientID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[key]; ok {
		s.mu.Lock()
		if chatCtx.GuestID != "" {
			s.cfg.Context.GuestID = chatCtx.GuestID
		}
		if chatCtx.Language != "" {
			s.cfg.Context.Language = chatCtx.Language
		}
		if chatCtx.EventIDs != nil {
			s.cfg.Context.EventIDs = chatCtx.EventIDs
		}
		s.mu.Unlock()
		return s
	}

	cfg := r.base
	cfg.Context = chatCtx
	s := NewChatSession(cfg)
	r.sessions[key] = s
	return s
}

// Lookup returns an existing session without creating one.
func (r *ChatSessions) Lookup(slug, clientID string) (*ChatSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionKey(slug, clientID)]
	return s, ok
}

func (r *ChatSessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Forgetter is implemented by responders that keep per-session history.
type Forgetter interface {
	Forget(sessionID string)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed. Busy sessions are never dropped.
func (r *ChatSessions) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	forgetter, _ := r.base.Responder.(Forgetter)
	removed := 0
	for key, s := range r.sessions {
		if s.idleSince(now) > r.idleTTL {
			delete(r.sessions, key)
			removed++
			if id := s.SessionID(); forgetter != nil && id != "" {
				forgetter.Forget(id)
			}
		}
	}
	if removed > 0 {
		utils.SLog.Debugf("🧹 swept %d idle chat sessions", removed)
	}
	return removed
}

// SweepOn sweeps on every tick until ticks is closed.
func (r *ChatSessions) SweepOn(ticks <-chan time.Time) {
	for now := range ticks {
		r.Sweep(now)
	}
}
