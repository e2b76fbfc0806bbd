package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/services"
	"github.com/LovationAdmin/wedding-api/utils"

	"github.com/gin-gonic/gin"
)

// GuestHandler serves a guest's personalized invitations: the event carousel,
// RSVP answers, profile edits and invitation mails.
type GuestHandler struct {
	Gate   *Gate
	Store  services.IWeddingStore
	RSVP   *services.RSVPService
	Mailer *services.EmailService
	Hub    *WSHandler
	Now    func() time.Time
}

func NewGuestHandler(gate *Gate, rsvp *services.RSVPService, mailer *services.EmailService, hub *WSHandler) *GuestHandler {
	return &GuestHandler{
		Gate:   gate,
		Store:  gate.Store,
		RSVP:   rsvp,
		Mailer: mailer,
		Hub:    hub,
		Now:    time.Now,
	}
}

// InvitationCard is one carousel slide.
type InvitationCard struct {
	models.EventInvitation
	Event     models.EventView   `json:"event"`
	Countdown services.Countdown `json:"countdown"`
	Location  string             `json:"location"`
}

type GuestEventsResponse struct {
	Guest       models.Guest     `json:"guest"`
	Index       int              `json:"index"`
	Total       int              `json:"total"`
	Location    string           `json:"location"`
	Previous    string           `json:"previous,omitempty"`
	Next        string           `json:"next,omitempty"`
	Invitations []InvitationCard `json:"invitations"`
}

// GetEvents returns the guest's invitations in date order, positioned at the
// ?event_id= event when the guest is invited to it, else at the ?event= index.
func (h *GuestHandler) GetEvents(c *gin.Context) {
	v, ok := h.Gate.Guarded(c)
	if !ok {
		return
	}

	guest, err := h.Store.GetGuestWithInvitations(c.Request.Context(), v.Guest.ID)
	if err != nil {
		utils.SLog.Errorf("❌ load invitations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load invitations"})
		return
	}

	start := services.ParseEventIndex(c.Query(services.EventQueryParam))
	if id := c.Query(services.EventIDQueryParam); id != "" {
		if i, found := services.IndexOfEvent(guest.Invitations, id); found {
			start = i
		}
	}
	carousel := services.NewCarousel(guest.Invitations, start)
	base := pageURL(v.Wedding.Slug, guest.ID)
	now := h.Now()

	cards := make([]InvitationCard, 0, carousel.Len())
	for i, inv := range carousel.Items {
		countdown, err := services.ComputeCountdown(inv.Event.EventDate, inv.Event.StartTime, now)
		if err != nil {
			utils.SLog.Debugf("⚠️ countdown for event %s: %v", utils.MaskID(inv.Event.ID), err)
		}
		cards = append(cards, InvitationCard{
			EventInvitation: inv.EventInvitation,
			Event:           services.MapEvent(inv.Event),
			Countdown:       countdown,
			Location:        services.LocationFor(base, i),
		})
	}

	resp := GuestEventsResponse{
		Guest:       guest.Guest,
		Index:       carousel.Index,
		Total:       carousel.Len(),
		Location:    carousel.Location(base),
		Invitations: cards,
	}
	if carousel.HasPrevious() {
		resp.Previous = services.LocationFor(base, carousel.Index-1)
	}
	if carousel.HasNext() {
		resp.Next = services.LocationFor(base, carousel.Index+1)
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitRSVP records the guest's answer for one invitation.
func (h *GuestHandler) SubmitRSVP(c *gin.Context) {
	v, ok := h.Gate.Guarded(c)
	if !ok {
		return
	}

	var req models.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.RSVPResult{Error: "Status is required"})
		return
	}

	inv, err := h.RSVP.Submit(c.Request.Context(), v.Guest.ID, c.Param("invitationId"), req)
	switch {
	case errors.Is(err, services.ErrInvalidRSVPStatus), errors.Is(err, services.ErrInvalidPlusOnes):
		c.JSON(http.StatusBadRequest, models.RSVPResult{Error: err.Error()})
		return
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.RSVPResult{Error: "Invitation not found"})
		return
	case err != nil:
		utils.SLog.Errorf("❌ save rsvp: %v", err)
		c.JSON(http.StatusInternalServerError, models.RSVPResult{Error: "Failed to save RSVP"})
		return
	}

	if h.Hub != nil {
		h.Hub.BroadcastRSVP(v.Wedding.Slug, *inv)
	}
	c.JSON(http.StatusOK, models.RSVPResult{Success: true, Data: inv})
}

// UpdateProfile lets a guest edit their own contact details.
func (h *GuestHandler) UpdateProfile(c *gin.Context) {
	v, ok := h.Gate.Guarded(c)
	if !ok {
		return
	}

	var req models.GuestProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ProfileResult{Error: err.Error()})
		return
	}
	if req.IsEmpty() {
		c.JSON(http.StatusBadRequest, models.ProfileResult{Error: "No fields to update"})
		return
	}

	guest, err := h.Store.SaveGuestProfile(c.Request.Context(), v.Guest.ID, req)
	if err != nil {
		utils.SLog.Errorf("❌ update profile: %v", err)
		c.JSON(http.StatusInternalServerError, models.ProfileResult{Error: "Failed to update profile"})
		return
	}
	utils.SLog.Infof("👤 guest %s updated their profile", utils.MaskID(guest.ID))
	c.JSON(http.StatusOK, models.ProfileResult{Success: true, Data: guest})
}

// SendInvitation mails the guest a link to one of their invitations.
func (h *GuestHandler) SendInvitation(c *gin.Context) {
	v, ok := h.Gate.Guarded(c)
	if !ok {
		return
	}

	err := h.Mailer.SendGuestInvitation(c.Request.Context(), v.Wedding.Slug, v.Guest.ID, c.Param("invitationId"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Invitation sent"})
	case errors.Is(err, services.ErrEmailNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Email is not configured"})
	case errors.Is(err, services.ErrNoRecipient):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Guest has no email address"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
	default:
		utils.SLog.Errorf("❌ send invitation: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send invitation"})
	}
}

// pageURL is the relative wedding page link personalized for a guest.
func pageURL(slug, guestID string) string {
	return fmt.Sprintf("/w/%s?guest=%s", url.PathEscape(slug), url.QueryEscape(guestID))
}
