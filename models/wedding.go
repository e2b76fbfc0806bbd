package models

import (
	"time"
)

// ============================================================================
// WEDDING MODEL
// ============================================================================

type WeddingStatus string

const (
	WeddingStatusActive   WeddingStatus = "active"
	WeddingStatusInactive WeddingStatus = "inactive"
	WeddingStatusDraft    WeddingStatus = "draft"
)

type WeddingVisibility string

const (
	VisibilityPublic  WeddingVisibility = "public"
	VisibilityPrivate WeddingVisibility = "private"
	VisibilityHidden  WeddingVisibility = "hidden"
)

// SectionVisibility toggles each page section independently.
type SectionVisibility struct {
	Hero     bool `json:"hero"`
	About    bool `json:"about"`
	Story    bool `json:"story"`
	Gallery  bool `json:"gallery"`
	Events   bool `json:"events"`
	Families bool `json:"families"`
	Party    bool `json:"party"`
	Chat     bool `json:"chat"`
}

// DefaultSections returns every section switched on.
func DefaultSections() SectionVisibility {
	return SectionVisibility{
		Hero:     true,
		About:    true,
		Story:    true,
		Gallery:  true,
		Events:   true,
		Families: true,
		Party:    true,
		Chat:     true,
	}
}

// Visible reports whether the named section ("hero", "about", ...) is shown.
// Unknown keys are hidden.
func (s SectionVisibility) Visible(key string) bool {
	switch key {
	case "hero":
		return s.Hero
	case "about":
		return s.About
	case "story":
		return s.Story
	case "gallery":
		return s.Gallery
	case "events":
		return s.Events
	case "families":
		return s.Families
	case "party":
		return s.Party
	case "chat":
		return s.Chat
	}
	return false
}

type Wedding struct {
	ID             string            `json:"id"`
	Slug           string            `json:"slug"`
	BrideName      string            `json:"bride_name"`
	GroomName      string            `json:"groom_name"`
	WeddingDate    string            `json:"wedding_date"`
	VenueName      string            `json:"venue_name"`
	VenueAddress   string            `json:"venue_address"`
	CouplePhoto    string            `json:"couple_photo,omitempty"`
	BridePhoto     string            `json:"bride_photo,omitempty"`
	GroomPhoto     string            `json:"groom_photo,omitempty"`
	AboutCouple    string            `json:"about_couple,omitempty"`
	AboutBride     string            `json:"about_bride,omitempty"`
	AboutGroom     string            `json:"about_groom,omitempty"`
	Story          []StoryItem       `json:"story,omitempty"`
	RSVPContact    string            `json:"rsvp_contact,omitempty"`
	TemplateID     string            `json:"template_id"`
	Sections       SectionVisibility `json:"sections"`
	PrimaryColor   string            `json:"primary_color,omitempty"`
	SecondaryColor string            `json:"secondary_color,omitempty"`
	Status         WeddingStatus     `json:"status"`
	Visibility     WeddingVisibility `json:"visibility"`
	IsActive       bool              `json:"is_active"`
	PasswordHash   string            `json:"-"` // Never expose in JSON
	ViewCount      int64             `json:"view_count"`
	Gallery        []string          `json:"gallery,omitempty"`
	Families       []FamilyMember    `json:"families,omitempty"`
	Party          []PartyMember     `json:"party,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// HasPassword reports whether the couple protected the page with a password.
func (w Wedding) HasPassword() bool {
	return w.PasswordHash != ""
}

// CoupleNames is the "Bride & Groom" display string.
func (w Wedding) CoupleNames() string {
	switch {
	case w.BrideName != "" && w.GroomName != "":
		return w.BrideName + " & " + w.GroomName
	case w.BrideName != "":
		return w.BrideName
	default:
		return w.GroomName
	}
}

type StoryItem struct {
	Title       string `json:"title"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

type FamilyMember struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Side     string `json:"side"` // bride | groom
	Photo    string `json:"photo,omitempty"`
}

type PartyMember struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Side  string `json:"side,omitempty"`
	Photo string `json:"photo,omitempty"`
}
