package models

// ============================================================================
// TEMPLATE VIEW MODEL
// Derived from Wedding + Events, never persisted. Every field is populated so
// templates do not need nil checks.
// ============================================================================

type ViewModel struct {
	Slug         string            `json:"slug"`
	GuestID      string            `json:"guestId,omitempty"` // personalizes event links
	Template     string            `json:"template"`
	Theme        ThemeView         `json:"theme"`
	Sections     SectionVisibility `json:"sections"`
	Hero         HeroView          `json:"hero"`
	About        AboutView         `json:"about"`
	Story        []StoryItem       `json:"story"`
	Family       FamilyView        `json:"family"`
	Gallery      []string          `json:"gallery"`
	WeddingParty []PartyMember     `json:"weddingParty"`
	Events       []EventView       `json:"events"`
	RSVPContact  string            `json:"rsvpContact"`
}

type ThemeView struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
}

type HeroView struct {
	BrideName    string `json:"brideName"`
	GroomName    string `json:"groomName"`
	CoupleNames  string `json:"coupleNames"`
	WeddingDate  string `json:"weddingDate"`
	VenueName    string `json:"venueName"`
	VenueAddress string `json:"venueAddress"`
	Image        string `json:"image"`
}

type AboutView struct {
	Couple     string `json:"couple"`
	Bride      string `json:"bride"`
	Groom      string `json:"groom"`
	BridePhoto string `json:"bridePhoto"`
	GroomPhoto string `json:"groomPhoto"`
}

type FamilyView struct {
	Bride []FamilyMember `json:"bride"`
	Groom []FamilyMember `json:"groom"`
}

type EventView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	Venue           string `json:"venue"`
	Address         string `json:"address"`
	Icon            string `json:"icon"`
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	AccentColor     string `json:"accentColor"`
	BackgroundImage string `json:"backgroundImage"`
	EventType       string `json:"eventType"`
}
