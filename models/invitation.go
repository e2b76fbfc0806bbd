package models

import (
	"time"
)

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationSent      InvitationStatus = "sent"
	InvitationViewed    InvitationStatus = "viewed"
	InvitationResponded InvitationStatus = "responded"
)

// Rank orders statuses so a status never moves backwards.
func (s InvitationStatus) Rank() int {
	switch s {
	case InvitationSent:
		return 1
	case InvitationViewed:
		return 2
	case InvitationResponded:
		return 3
	default:
		return 0
	}
}

// RSVPStatus is the guest's answer for one event. The empty value means unset.
type RSVPStatus string

const (
	RSVPUnset RSVPStatus = ""
	RSVPYes   RSVPStatus = "yes"
	RSVPNo    RSVPStatus = "no"
	RSVPMaybe RSVPStatus = "maybe"
)

// ParseRSVPStatus accepts yes, no and maybe (case-sensitive, as stored).
func ParseRSVPStatus(s string) (RSVPStatus, bool) {
	switch RSVPStatus(s) {
	case RSVPYes, RSVPNo, RSVPMaybe:
		return RSVPStatus(s), true
	}
	return RSVPUnset, false
}

// EventInvitation joins one guest to one event and carries the RSVP state.
type EventInvitation struct {
	ID               string           `json:"id"`
	GuestID          string           `json:"guest_id"`
	EventID          string           `json:"event_id"`
	InvitationStatus InvitationStatus `json:"invitation_status"`
	RSVPStatus       RSVPStatus       `json:"rsvp_status"`
	RSVPDate         *time.Time       `json:"rsvp_date,omitempty"`
	PlusOnes         int              `json:"plus_ones"`
	Message          string           `json:"message,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type InvitationWithEvent struct {
	EventInvitation
	Event Event `json:"event"`
}

type RSVPRequest struct {
	Status   string  `json:"status" binding:"required"`
	PlusOnes *int    `json:"plus_ones"`
	Message  *string `json:"message"`
}

type RSVPResult struct {
	Success bool             `json:"success"`
	Data    *EventInvitation `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
}
