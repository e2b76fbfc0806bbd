package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/services"
	"github.com/LovationAdmin/wedding-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

const (
	keySlug      = "slug"
	keyWeddingID = "wedding_id"
	keyGuestID   = "guest_id"
)

const (
	MessageCountdown = "countdown"
	MessageRSVP      = "rsvp_updated"
)

// WSHandler pushes live updates to open wedding pages: countdown snapshots
// on clock ticks and RSVP changes as they are saved.
type WSHandler struct {
	M    *melody.Melody
	Gate *Gate
	Now  func() time.Time
}

// WSMessage is the envelope of every pushed message.
type WSMessage struct {
	Type       string           `json:"type"`
	Slug       string           `json:"slug"`
	Time       time.Time        `json:"time"`
	Countdowns []EventCountdown `json:"countdowns,omitempty"`
	RSVP       *RSVPUpdate      `json:"rsvp,omitempty"`
}

type EventCountdown struct {
	EventID   string             `json:"event_id"`
	Name      string             `json:"name"`
	Countdown services.Countdown `json:"countdown"`
}

// RSVPUpdate carries no guest identity; every visitor of the page gets it.
type RSVPUpdate struct {
	InvitationID string            `json:"invitation_id"`
	EventID      string            `json:"event_id"`
	Status       models.RSVPStatus `json:"status"`
	PlusOnes     int               `json:"plus_ones"`
}

func NewWSHandler(gate *Gate) *WSHandler {
	m := melody.New()

	// Clients only listen.
	m.Config.MaxMessageSize = 4 * 1024

	// Keep-Alive Configuration (Critical for cloud hosting)
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	h := &WSHandler{M: m, Gate: gate, Now: time.Now}

	m.HandleConnect(h.onConnect)
	m.HandleDisconnect(func(s *melody.Session) {
		utils.LogWebSocket("disconnected", sessionString(s, keySlug), sessionString(s, keyGuestID))
	})
	m.HandleError(func(s *melody.Session, err error) {
		utils.SLog.Warnf("❌ WebSocket error on %s: %v", sessionString(s, keySlug), err)
	})

	return h
}

// HandleWS upgrades the request once the visitor passed the access gate.
func (h *WSHandler) HandleWS(c *gin.Context) {
	v, ok := h.Gate.Resolve(c, c.Query("guest"))
	if !ok {
		return
	}
	if !v.Access.HasAccess {
		denyJSON(c, v.Access)
		return
	}

	keys := map[string]interface{}{
		keySlug:      v.Wedding.Slug,
		keyWeddingID: v.Wedding.ID,
		keyGuestID:   v.guestID(),
	}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		utils.SLog.Warnf("❌ Failed to upgrade websocket: %v", err)
	}
}

func (h *WSHandler) onConnect(s *melody.Session) {
	slug := sessionString(s, keySlug)
	utils.LogWebSocket("connected", slug, sessionString(s, keyGuestID))

	msg, err := h.countdownMessage(sessionString(s, keyWeddingID), slug, h.Now())
	if err != nil {
		utils.SLog.Warnf("⚠️ initial countdown for %s: %v", slug, err)
		return
	}
	if err := s.Write(msg); err != nil {
		utils.SLog.Warnf("⚠️ write initial countdown: %v", err)
	}
}

// BroadcastRSVP tells every open page of the wedding that an answer changed.
func (h *WSHandler) BroadcastRSVP(slug string, inv models.EventInvitation) {
	h.broadcast(slug, WSMessage{
		Type: MessageRSVP,
		Slug: slug,
		Time: h.Now(),
		RSVP: &RSVPUpdate{
			InvitationID: inv.ID,
			EventID:      inv.EventID,
			Status:       inv.RSVPStatus,
			PlusOnes:     inv.PlusOnes,
		},
	})
}

// BroadcastCountdowns sends a fresh countdown snapshot to every wedding that
// has at least one open page. Events are loaded once per wedding.
func (h *WSHandler) BroadcastCountdowns(now time.Time) {
	sessions, err := h.M.Sessions()
	if err != nil {
		return
	}

	weddings := make(map[string]string)
	for _, s := range sessions {
		weddings[sessionString(s, keySlug)] = sessionString(s, keyWeddingID)
	}

	for slug, weddingID := range weddings {
		msg, err := h.countdownMessage(weddingID, slug, now)
		if err != nil {
			utils.SLog.Warnf("⚠️ countdown for %s: %v", slug, err)
			continue
		}
		h.broadcastRaw(slug, msg)
	}
}

// RunCountdowns broadcasts on every tick until ticks is closed.
func (h *WSHandler) RunCountdowns(ticks <-chan time.Time) {
	for now := range ticks {
		if h.M.Len() == 0 {
			continue
		}
		h.BroadcastCountdowns(now)
	}
}

// Close disconnects every client.
func (h *WSHandler) Close() error {
	return h.M.Close()
}

func (h *WSHandler) countdownMessage(weddingID, slug string, now time.Time) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := h.Gate.Store.GetEventsByWedding(ctx, weddingID)
	if err != nil {
		return nil, err
	}

	countdowns := make([]EventCountdown, 0, len(events))
	for _, e := range events {
		// Invalid dates still appear, flagged by Valid=false.
		cd, _ := services.ComputeCountdown(e.EventDate, e.StartTime, now)
		countdowns = append(countdowns, EventCountdown{EventID: e.ID, Name: e.Name, Countdown: cd})
	}
	return json.Marshal(WSMessage{Type: MessageCountdown, Slug: slug, Time: now, Countdowns: countdowns})
}

func (h *WSHandler) broadcast(slug string, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.SLog.Errorf("❌ encode %s message: %v", msg.Type, err)
		return
	}
	h.broadcastRaw(slug, data)
}

func (h *WSHandler) broadcastRaw(slug string, data []byte) {
	err := h.M.BroadcastFilter(data, func(q *melody.Session) bool {
		return sessionString(q, keySlug) == slug
	})
	if err != nil {
		utils.SLog.Warnf("⚠️ Error broadcasting to %s: %v", slug, err)
	}
}

func sessionString(s *melody.Session, key string) string {
	v, ok := s.Get(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}
