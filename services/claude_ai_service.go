package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================================
// CLAUDE RESPONDER - Chat widget answers from the Anthropic Messages API
// Used when no external chatbot endpoint is configured.
// ============================================================================

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	defaultClaudeModel   = "claude-3-5-haiku-latest"
	maxHistoryMessages   = 20
)

// WeddingBriefer describes a wedding in plain text for the system prompt.
type WeddingBriefer interface {
	WeddingBrief(ctx context.Context, slug string) (string, error)
}

type ClaudeResponder struct {
	apiKey     string
	apiURL     string
	model      string
	maxTokens  int
	httpClient *http.Client
	briefer    WeddingBriefer

	mu      sync.Mutex
	history map[string][]ClaudeMessage
}

type ClaudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []ClaudeMessage `json:"messages"`
}

type ClaudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ClaudeResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func NewClaudeResponder(apiKey string, briefer WeddingBriefer, timeout time.Duration) *ClaudeResponder {
	if timeout <= 0 {
		timeout = DefaultChatTimeout
	}
	return &ClaudeResponder{
		apiKey:     apiKey,
		apiURL:     anthropicMessagesURL,
		model:      defaultClaudeModel,
		maxTokens:  600,
		httpClient: &http.Client{Timeout: timeout},
		briefer:    briefer,
		history:    make(map[string][]ClaudeMessage),
	}
}

// WithEndpoint points the responder at another Messages API compatible URL.
func (s *ClaudeResponder) WithEndpoint(apiURL string) *ClaudeResponder {
	s.apiURL = apiURL
	return s
}

const chatSystemPrompt = `You are the friendly assistant on a wedding website. Answer guests' questions
about the couple, the events, venues, timings and dress codes using ONLY the facts below.
If you do not know, say so and suggest contacting the couple.

Reply with a single JSON object and nothing else:
{"response": "<answer>", "suggestions": ["<follow-up question>", ...],
 "responseMetadata": {"map": {"address": "<venue address>"}, "eventButton": {"eventIndex": <number of the event in the facts>}, "websiteButton": {}}}
Include only the metadata keys that help the answer. Reply in the guest's language (%s).

WEDDING FACTS:
%s`

// Respond keeps a per-session history so follow-up questions have context.
// The session id is generated on the first reply.
func (s *ClaudeResponder) Respond(ctx context.Context, chatReq models.ChatRequest) (*models.ChatReply, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	brief := "(no details available)"
	if s.briefer != nil && chatReq.WebsiteSlug != "" {
		if b, err := s.briefer.WeddingBrief(ctx, chatReq.WebsiteSlug); err == nil {
			brief = b
		} else {
			utils.Log.Warn("⚠️ wedding brief unavailable", zap.String("slug", chatReq.WebsiteSlug), zap.Error(err))
		}
	}

	sessionID := chatReq.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	s.mu.Lock()
	messages := append([]ClaudeMessage{}, s.history[sessionID]...)
	s.mu.Unlock()
	messages = append(messages, ClaudeMessage{Role: "user", Content: chatReq.Message})

	text, err := s.executeRequest(ctx, ClaudeRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    fmt.Sprintf(chatSystemPrompt, chatReq.Language, brief),
		Messages:  messages,
	})
	if err != nil {
		return nil, err
	}

	reply := parseClaudeReply(text)
	reply.SessionID = sessionID

	messages = append(messages, ClaudeMessage{Role: "assistant", Content: text})
	if len(messages) > maxHistoryMessages {
		messages = messages[len(messages)-maxHistoryMessages:]
	}
	s.mu.Lock()
	s.history[sessionID] = messages
	s.mu.Unlock()

	return reply, nil
}

// Forget drops a session's history.
func (s *ClaudeResponder) Forget(sessionID string) {
	s.mu.Lock()
	delete(s.history, sessionID)
	s.mu.Unlock()
}

// parseClaudeReply accepts the requested JSON shape, optionally wrapped in a
// code fence, and falls back to treating the text as the answer.
func parseClaudeReply(text string) *models.ChatReply {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var reply models.ChatReply
	if err := json.Unmarshal([]byte(clean), &reply); err == nil && strings.TrimSpace(reply.Response) != "" {
		if reply.Suggestions == nil {
			reply.Suggestions = []string{}
		}
		return &reply
	}
	return &models.ChatReply{Response: strings.TrimSpace(text), Suggestions: []string{}}
}

// ============================================================================
// HELPER: EXECUTE REQUEST
// ============================================================================

func (s *ClaudeResponder) executeRequest(ctx context.Context, requestBody ClaudeRequest) (string, error) {
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var claudeResp ClaudeResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(claudeResp.Content) == 0 {
		return "", fmt.Errorf("empty response from Claude")
	}

	utils.Log.Debug("[Claude AI] usage",
		zap.String("model", claudeResp.Model),
		zap.Int("input_tokens", claudeResp.Usage.InputTokens),
		zap.Int("output_tokens", claudeResp.Usage.OutputTokens),
		zap.Float64("cost_usd", s.EstimateCost(claudeResp.Usage.InputTokens, claudeResp.Usage.OutputTokens)),
	)

	return claudeResp.Content[0].Text, nil
}

// ============================================================================
// COST ESTIMATE
// ============================================================================

// Pricing (approximate for Claude 3.5 Haiku)
const (
	InputTokenPrice  = 0.0000008 // $0.80 per million
	OutputTokenPrice = 0.000004  // $4 per million
)

func (s *ClaudeResponder) EstimateCost(inputTokens int, outputTokens int) float64 {
	inputCost := float64(inputTokens) * InputTokenPrice
	outputCost := float64(outputTokens) * OutputTokenPrice
	return inputCost + outputCost
}

// ============================================================================
// WEDDING BRIEF
// ============================================================================

// StoreBriefer builds the system prompt facts from the store.
type StoreBriefer struct {
	Store IWeddingStore
}

func (b StoreBriefer) WeddingBrief(ctx context.Context, slug string) (string, error) {
	w, err := b.Store.GetWeddingBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	events, err := b.Store.GetEventsByWedding(ctx, w.ID)
	if err != nil {
		return "", err
	}
	return FormatWeddingBrief(*w, events), nil
}

// FormatWeddingBrief lists the public facts of a wedding, one per line.
// Events are numbered in date order across the whole wedding; event hints in
// replies refer to that number.
func FormatWeddingBrief(w models.Wedding, events []models.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Couple: %s\n", w.CoupleNames())
	if w.WeddingDate != "" {
		fmt.Fprintf(&b, "Wedding date: %s\n", w.WeddingDate)
	}
	if w.VenueName != "" || w.VenueAddress != "" {
		fmt.Fprintf(&b, "Main venue: %s, %s\n", w.VenueName, w.VenueAddress)
	}
	if w.RSVPContact != "" {
		fmt.Fprintf(&b, "RSVP contact: %s\n", w.RSVPContact)
	}
	vm := MapToViewModel(w, events)
	for i, e := range vm.Events {
		fmt.Fprintf(&b, "Event %d: %s on %s", i, e.Name, e.Date)
		if e.StartTime != "" {
			fmt.Fprintf(&b, " at %s", e.StartTime)
		}
		if e.Venue != "" || e.Address != "" {
			fmt.Fprintf(&b, ", %s %s", e.Venue, e.Address)
		}
		if e.Description != "" {
			fmt.Fprintf(&b, " (%s)", e.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}
