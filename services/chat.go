package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/utils"

	"go.uber.org/zap"
)

// ChatFallbackMessage replaces the bot reply whenever the responder fails.
const ChatFallbackMessage = "Sorry, I'm having trouble answering right now. Please try again in a moment."

// DefaultChatTimeout bounds a single responder call.
const DefaultChatTimeout = 30 * time.Second

// Responder produces the bot side of a conversation.
type Responder interface {
	Respond(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error)
}

// ============================================================================
// ENDPOINT RESPONDER
// ============================================================================

// EndpointResponder forwards messages to the external chatbot API.
type EndpointResponder struct {
	url        string
	httpClient *http.Client
}

func NewEndpointResponder(endpoint string, timeout time.Duration) *EndpointResponder {
	if timeout <= 0 {
		timeout = DefaultChatTimeout
	}
	return &EndpointResponder{
		url:        endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (r *EndpointResponder) Respond(ctx context.Context, chatReq models.ChatRequest) (*models.ChatReply, error) {
	if r.url == "" {
		return nil, fmt.Errorf("CHATBOT_API_URL not set")
	}

	jsonData, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("chatbot API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var reply models.ChatReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if strings.TrimSpace(reply.Response) == "" {
		return nil, fmt.Errorf("empty response from chatbot API")
	}
	return &reply, nil
}

// ============================================================================
// CHAT SESSION
// ============================================================================

// ChatContext identifies who is chatting about which wedding.
type ChatContext struct {
	GuestID     string
	WeddingID   string
	WebsiteSlug string
	Language    string
	// EventIDs lists the wedding's events in date order, the numbering the
	// responder uses for event hints.
	EventIDs    []string
}

type ChatSessionConfig struct {
	Responder    Responder
	Context      ChatContext
	Timeout      time.Duration
	MapsEmbedURL string // prefix; the url-escaped address is appended
	SiteURL      string // public base url of wedding pages
}

// ChatSession is one widget conversation: the transcript, the session id
// assigned by the responder on its first reply, the latest follow-up
// suggestions and a busy flag that rejects overlapping sends.
type ChatSession struct {
	cfg ChatSessionConfig
	now func() time.Time

	mu          sync.Mutex
	transcript  []models.ChatMessage
	sessionID   string
	suggestions []string
	busy        bool
	lastActive  time.Time
}

func NewChatSession(cfg ChatSessionConfig) *ChatSession {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultChatTimeout
	}
	if cfg.Context.Language == "" {
		cfg.Context.Language = "en"
	}
	s := &ChatSession{
		cfg:         cfg,
		now:         time.Now,
		transcript:  []models.ChatMessage{},
		suggestions: []string{},
	}
	s.lastActive = s.now()
	return s
}

// SendMessage appends text to the transcript and asks the responder for a
// reply. Responder failures (including the timeout) never surface: the
// fallback apology is appended and returned as a normal reply. Only an empty
// message or an overlapping send returns an error.
func (s *ChatSession) SendMessage(ctx context.Context, text string) (models.ChatReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatReply{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return models.ChatReply{}, ErrChatBusy
	}
	s.busy = true
	s.transcript = append(s.transcript, models.ChatMessage{Text: text, Sender: models.SenderUser, Timestamp: s.now()})
	req := models.ChatRequest{
		Message:     text,
		GuestID:     s.cfg.Context.GuestID,
		WeddingID:   s.cfg.Context.WeddingID,
		WebsiteSlug: s.cfg.Context.WebsiteSlug,
		SessionID:   s.sessionID,
		Language:    s.cfg.Context.Language,
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.lastActive = s.now()
		s.mu.Unlock()
	}()

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	reply, err := s.respond(callCtx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		utils.Log.Warn("⚠️ chat responder failed",
			zap.String("slug", req.WebsiteSlug),
			zap.String("session_id", utils.MaskID(req.SessionID)),
			zap.Error(err))
		s.transcript = append(s.transcript, models.ChatMessage{Text: ChatFallbackMessage, Sender: models.SenderBot, Timestamp: s.now()})
		return models.ChatReply{
			Response:    ChatFallbackMessage,
			Suggestions: s.copySuggestions(),
			SessionID:   s.sessionID,
		}, nil
	}

	if s.sessionID == "" && reply.SessionID != "" {
		s.sessionID = reply.SessionID
	}
	if reply.Suggestions != nil {
		s.suggestions = reply.Suggestions
	}
	reply.Suggestions = s.copySuggestions()
	reply.SessionID = s.sessionID
	reply.ResponseMetadata = s.resolveHints(reply.ResponseMetadata)

	s.transcript = append(s.transcript, models.ChatMessage{
		Text:      reply.Response,
		Sender:    models.SenderBot,
		Timestamp: s.now(),
		Metadata:  reply.ResponseMetadata,
	})
	utils.LogChatAction("reply", req.WebsiteSlug, s.sessionID, len(text))
	return *reply, nil
}

// respond shields the session from responder panics.
func (s *ChatSession) respond(ctx context.Context, req models.ChatRequest) (reply *models.ChatReply, err error) {
	defer func() {
		if p := recover(); p != nil {
			reply, err = nil, fmt.Errorf("responder panic: %v", p)
		}
	}()
	if s.cfg.Responder == nil {
		return nil, fmt.Errorf("no chat responder configured")
	}
	reply, err = s.cfg.Responder.Respond(ctx, req)
	if err == nil && reply == nil {
		err = fmt.Errorf("empty reply")
	}
	return reply, err
}

// resolveHints fills in the URLs the widget needs to render each hint.
func (s *ChatSession) resolveHints(meta *models.ResponseMetadata) *models.ResponseMetadata {
	if meta == nil {
		return nil
	}
	out := *meta
	page := strings.TrimRight(s.cfg.SiteURL, "/") + "/w/" + url.PathEscape(s.cfg.Context.WebsiteSlug)

	if meta.Map != nil {
		m := *meta.Map
		if m.EmbedURL == "" && m.Address != "" && s.cfg.MapsEmbedURL != "" {
			m.EmbedURL = s.cfg.MapsEmbedURL + url.QueryEscape(m.Address)
		}
		out.Map = &m
	}
	if meta.EventButton != nil {
		b := *meta.EventButton
		if b.EventID == "" && b.EventIndex >= 0 && b.EventIndex < len(s.cfg.Context.EventIDs) {
			b.EventID = s.cfg.Context.EventIDs[b.EventIndex]
		}
		if b.URL == "" {
			b.URL = s.pageWithGuest(page)
			if b.EventID != "" {
				b.URL = EventLocation(b.URL, b.EventID)
			}
		}
		if b.Label == "" {
			b.Label = "View event & RSVP"
		}
		out.EventButton = &b
	}
	if meta.WebsiteButton != nil {
		b := *meta.WebsiteButton
		if b.URL == "" {
			b.URL = page
		}
		if b.Label == "" {
			b.Label = "Open wedding website"
		}
		out.WebsiteButton = &b
	}
	return &out
}

func (s *ChatSession) pageWithGuest(page string) string {
	if s.cfg.Context.GuestID == "" {
		return page
	}
	return page + "?guest=" + url.QueryEscape(s.cfg.Context.GuestID)
}

func (s *ChatSession) copySuggestions() []string {
	out := make([]string, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// Transcript returns a copy of the conversation so far.
func (s *ChatSession) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *ChatSession) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *ChatSession) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copySuggestions()
}

func (s *ChatSession) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *ChatSession) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return 0
	}
	return now.Sub(s.lastActive)
}
