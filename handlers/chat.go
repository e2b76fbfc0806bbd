package handlers

import (
	"errors"
	"net/http"

	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/services"
	"github.com/LovationAdmin/wedding-api/utils"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	Gate     *Gate
	Sessions *services.ChatSessions
}

func NewChatHandler(gate *Gate, sessions *services.ChatSessions) *ChatHandler {
	return &ChatHandler{Gate: gate, Sessions: sessions}
}

// SendMessage forwards one widget message to the assistant. The reply is
// always 200 with the transcript, also when the assistant failed and the
// apology was shown instead.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req models.ChatWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id and message are required"})
		return
	}

	v, ok := h.Gate.Resolve(c, req.GuestID)
	if !ok {
		return
	}
	if !v.Access.HasAccess {
		denyJSON(c, v.Access)
		return
	}
	if !v.Wedding.Sections.Chat {
		c.JSON(http.StatusForbidden, gin.H{"error": "Chat is not enabled for this wedding"})
		return
	}

	language := req.Language
	if language == "" && v.Guest != nil {
		language = v.Guest.Language
	}
	session := h.Sessions.Get(req.ClientID, services.ChatContext{
		GuestID:     v.guestID(),
		WeddingID:   v.Wedding.ID,
		WebsiteSlug: v.Wedding.Slug,
		Language:    language,
		EventIDs:    h.eventIDs(c, v.Wedding.ID),
	})

	reply, err := session.SendMessage(c.Request.Context(), req.Message)
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is empty"})
		return
	case errors.Is(err, services.ErrChatBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "Still answering your previous message"})
		return
	case err != nil:
		utils.SLog.Errorf("❌ chat: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat failed"})
		return
	}

	c.JSON(http.StatusOK, models.ChatWidgetResponse{
		Reply:       reply,
		Transcript:  session.Transcript(),
		Suggestions: session.Suggestions(),
		SessionID:   session.SessionID(),
	})
}

// GetTranscript returns the client's conversation so a reloaded widget can
// restore it.
func (h *ChatHandler) GetTranscript(c *gin.Context) {
	clientID := c.Query("client_id")
	if clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id is required"})
		return
	}

	v, ok := h.Gate.Resolve(c, c.Query("guest"))
	if !ok {
		return
	}
	if !v.Access.HasAccess {
		denyJSON(c, v.Access)
		return
	}

	session, found := h.Sessions.Lookup(v.Wedding.Slug, clientID)
	if !found {
		c.JSON(http.StatusOK, gin.H{
			"transcript":  []models.ChatMessage{},
			"suggestions": []string{},
			"session_id":  "",
			"busy":        false,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transcript":  session.Transcript(),
		"suggestions": session.Suggestions(),
		"session_id":  session.SessionID(),
		"busy":        session.Busy(),
	})
}

// eventIDs lists the wedding's events in date order. Without them event
// hints still link to the page, just not to a specific event.
func (h *ChatHandler) eventIDs(c *gin.Context, weddingID string) []string {
	events, err := h.Gate.Store.GetEventsByWedding(c.Request.Context(), weddingID)
	if err != nil {
		utils.SLog.Warnf("⚠️ chat: load events: %v", err)
		return nil
	}
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}
