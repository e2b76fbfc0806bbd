package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LovationAdmin/wedding-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type responderFunc func(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error)

func (f responderFunc) Respond(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error) {
	return f(ctx, req)
}

func TestEndpointResponder_Respond(t *testing.T) {
	var got models.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"The Mehendi starts at 11:00.","suggestions":["Where is it?"],"sessionId":"s-1","responseMetadata":{"eventButton":{"eventIndex":0}}}`))
	}))
	defer srv.Close()

	reply, err := NewEndpointResponder(srv.URL, time.Second).Respond(context.Background(), models.ChatRequest{
		Message:     "When is the mehendi?",
		WebsiteSlug: "asha-and-ravi",
		Language:    "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "When is the mehendi?", got.Message)
	assert.Equal(t, "asha-and-ravi", got.WebsiteSlug)
	assert.Equal(t, "s-1", reply.SessionID)
	assert.Equal(t, []string{"Where is it?"}, reply.Suggestions)
	require.NotNil(t, reply.ResponseMetadata)
	assert.Equal(t, 0, reply.ResponseMetadata.EventButton.EventIndex)
}

func TestEndpointResponder_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewEndpointResponder(srv.URL, time.Second).Respond(context.Background(), models.ChatRequest{Message: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	_, err = NewEndpointResponder("", time.Second).Respond(context.Background(), models.ChatRequest{Message: "hi"})
	assert.Error(t, err)
}

func TestChatSession_SessionIDAssignedOnceAndReused(t *testing.T) {
	var seen []string
	responder := responderFunc(func(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error) {
		seen = append(seen, req.SessionID)
		return &models.ChatReply{Response: "hello", SessionID: "remote-" + req.Message, Suggestions: []string{"more"}}, nil
	})
	s := NewChatSession(ChatSessionConfig{Responder: responder, Context: ChatContext{WebsiteSlug: "asha"}})

	_, err := s.SendMessage(context.Background(), "one")
	require.NoError(t, err)
	reply, err := s.SendMessage(context.Background(), "two")
	require.NoError(t, err)

	assert.Equal(t, []string{"", "remote-one"}, seen)
	assert.Equal(t, "remote-one", reply.SessionID)
	assert.Equal(t, "remote-one", s.SessionID())
	assert.Equal(t, []string{"more"}, s.Suggestions())

	transcript := s.Transcript()
	require.Len(t, transcript, 4)
	assert.Equal(t, models.SenderUser, transcript[0].Sender)
	assert.Equal(t, models.SenderBot, transcript[1].Sender)
	assert.Equal(t, "two", transcript[2].Text)
}

func TestChatSession_FailureAppendsApology(t *testing.T) {
	responder := responderFunc(func(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	s := NewChatSession(ChatSessionConfig{Responder: responder})

	reply, err := s.SendMessage(context.Background(), "hello?")
	require.NoError(t, err)
	assert.Equal(t, ChatFallbackMessage, reply.Response)
	assert.NotNil(t, reply.Suggestions)
	assert.False(t, s.Busy())

	transcript := s.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, ChatFallbackMessage, transcript[1].Text)
}

func TestChatSession_PanicIsRecovered(t *testing.T) {
	responder := responderFunc(func(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error) {
		panic("nil map")
	})
	s := NewChatSession(ChatSessionConfig{Responder: responder})

	reply, err := s.SendMessage(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, ChatFallbackMessage, reply.Response)
	assert.False(t, s.Busy())
}

func TestChatSession_TimeoutClearsBusy(t *testing.T) {
	responder := responderFunc(func(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	s := NewChatSession(ChatSessionConfig{Responder: responder, Timeout: 20 * time.Millisecond})

	start := time.Now()
	reply, err := s.SendMessage(context.Background(), "anyone there?")
	require.NoError(t, err)
	assert.Equal(t, ChatFallbackMessage, reply.Response)
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, s.Busy())
}

func TestChatSession_RejectsConcurrentSend(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	responder := responderFunc(func(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error) {
		close(entered)
		<-release
		return &models.ChatReply{Response: "done"}, nil
	})
	s := NewChatSession(ChatSessionConfig{Responder: responder})

	done := make(chan error, 1)
	go func() {
		_, err := s.SendMessage(context.Background(), "first")
		done <- err
	}()
	<-entered

	assert.True(t, s.Busy())
	_, err := s.SendMessage(context.Background(), "second")
	assert.ErrorIs(t, err, ErrChatBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Busy())
	assert.Len(t, s.Transcript(), 2)
}

func TestChatSession_EmptyMessage(t *testing.T) {
	s := NewChatSession(ChatSessionConfig{})
	_, err := s.SendMessage(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, s.Transcript())
}

func TestChatSession_ResolvesHints(t *testing.T) {
	responder := responderFunc(func(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error) {
		return &models.ChatReply{
			Response: "Here you go",
			ResponseMetadata: &models.ResponseMetadata{
				Map:           &models.MapHint{Address: "Pichola Lake, Udaipur"},
				EventButton:   &models.EventHint{EventIndex: 1},
				WebsiteButton: &models.WebsiteHint{},
			},
		}, nil
	})
	s := NewChatSession(ChatSessionConfig{
		Responder:    responder,
		Context:      ChatContext{WebsiteSlug: "asha-and-ravi", GuestID: "g1", EventIDs: []string{"haldi", "sangeet", "reception"}},
		MapsEmbedURL: "https://maps.example/embed?q=",
		SiteURL:      "https://weddings.example/",
	})

	reply, err := s.SendMessage(context.Background(), "where?")
	require.NoError(t, err)
	meta := reply.ResponseMetadata
	require.NotNil(t, meta)
	assert.Equal(t, "https://maps.example/embed?q=Pichola+Lake%2C+Udaipur", meta.Map.EmbedURL)
	assert.Equal(t, "sangeet", meta.EventButton.EventID)
	assert.Equal(t, "https://weddings.example/w/asha-and-ravi?event_id=sangeet&guest=g1", meta.EventButton.URL)
	assert.NotEmpty(t, meta.EventButton.Label)
	assert.Equal(t, "https://weddings.example/w/asha-and-ravi", meta.WebsiteButton.URL)
	assert.Same(t, meta, s.Transcript()[1].Metadata)
}

func TestChatSession_UnknownEventIndexLinksToPage(t *testing.T) {
	responder := responderFunc(func(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error) {
		return &models.ChatReply{Response: "ok", ResponseMetadata: &models.ResponseMetadata{
			EventButton: &models.EventHint{EventIndex: 7},
		}}, nil
	})
	s := NewChatSession(ChatSessionConfig{
		Responder: responder,
		Context:   ChatContext{WebsiteSlug: "asha", GuestID: "g1", EventIDs: []string{"haldi"}},
		SiteURL:   "https://weddings.example",
	})

	reply, err := s.SendMessage(context.Background(), "when?")
	require.NoError(t, err)
	assert.Empty(t, reply.ResponseMetadata.EventButton.EventID)
	assert.Equal(t, "https://weddings.example/w/asha?guest=g1", reply.ResponseMetadata.EventButton.URL)
}

func TestChatSessions_Lookup(t *testing.T) {
	reg := NewChatSessions(ChatSessionConfig{}, time.Minute)

	_, ok := reg.Lookup("asha", "client-1")
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len(), "lookups never create sessions")

	created := reg.Get("client-1", ChatContext{WebsiteSlug: "asha"})
	found, ok := reg.Lookup("asha", "client-1")
	require.True(t, ok)
	assert.Same(t, created, found)
	_, ok = reg.Lookup("other", "client-1")
	assert.False(t, ok)
}

func TestChatSessions_GetAndSweep(t *testing.T) {
	reg := NewChatSessions(ChatSessionConfig{}, time.Minute)

	a := reg.Get("client-1", ChatContext{WebsiteSlug: "asha"})
	assert.Same(t, a, reg.Get("client-1", ChatContext{WebsiteSlug: "asha", GuestID: "g1"}))
	assert.NotSame(t, a, reg.Get("client-1", ChatContext{WebsiteSlug: "other"}))
	assert.Equal(t, 2, reg.Len())

	assert.Equal(t, 0, reg.Sweep(time.Now()))
	assert.Equal(t, 2, reg.Sweep(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, reg.Len())
}

type forgettingResponder struct {
	responderFunc
	forgotten []string
}

func (f *forgettingResponder) Forget(sessionID string) {
	f.forgotten = append(f.forgotten, sessionID)
}

func TestChatSessions_SweepForgetsHistory(t *testing.T) {
	responder := &forgettingResponder{responderFunc: func(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error) {
		return &models.ChatReply{Response: "hi", SessionID: "remote-1"}, nil
	}}
	reg := NewChatSessions(ChatSessionConfig{Responder: responder}, time.Minute)

	_, err := reg.Get("client-1", ChatContext{WebsiteSlug: "asha"}).SendMessage(context.Background(), "hello")
	require.NoError(t, err)
	reg.Get("client-2", ChatContext{WebsiteSlug: "asha"})

	assert.Equal(t, 2, reg.Sweep(time.Now().Add(2*time.Minute)))
	assert.Equal(t, []string{"remote-1"}, responder.forgotten)
}

func TestClaudeResponder_Respond(t *testing.T) {
	var calls atomic.Int32
	var lastReq ClaudeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastReq))

		text := "```json\n{\"response\":\"At the Lake Palace.\",\"suggestions\":[\"What time?\"],\"responseMetadata\":{\"map\":{\"address\":\"Pichola Lake\"}}}\n```"
		if calls.Load() > 1 {
			text = "Plain answer"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "claude-test",
			"content": []map[string]string{{"type": "text", "text": text}},
			"usage":   map[string]int{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	defer srv.Close()

	store := newTestStore(t)
	seedWedding(t, store)
	r := NewClaudeResponder("test-key", StoreBriefer{Store: store}, time.Second).WithEndpoint(srv.URL)

	first, err := r.Respond(context.Background(), models.ChatRequest{Message: "Where is the wedding?", WebsiteSlug: "asha-and-ravi", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "At the Lake Palace.", first.Response)
	assert.Equal(t, []string{"What time?"}, first.Suggestions)
	assert.Equal(t, "Pichola Lake", first.ResponseMetadata.Map.Address)
	assert.NotEmpty(t, first.SessionID)
	assert.True(t, strings.Contains(lastReq.System, "Asha & Ravi"))
	assert.Contains(t, lastReq.System, "Event 0: Mehendi")

	second, err := r.Respond(context.Background(), models.ChatRequest{Message: "Thanks", SessionID: first.SessionID, WebsiteSlug: "asha-and-ravi"})
	require.NoError(t, err)
	assert.Equal(t, "Plain answer", second.Response)
	assert.Equal(t, first.SessionID, second.SessionID)
	require.Len(t, lastReq.Messages, 3)
	assert.Equal(t, "assistant", lastReq.Messages[1].Role)
}

func TestClaudeResponder_RequiresKey(t *testing.T) {
	_, err := NewClaudeResponder("", nil, time.Second).Respond(context.Background(), models.ChatRequest{Message: "hi"})
	assert.Error(t, err)
}
