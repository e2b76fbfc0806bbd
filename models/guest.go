package models

import "time"

type GuestSide string

const (
	SideBride  GuestSide = "bride"
	SideGroom  GuestSide = "groom"
	SideMutual GuestSide = "mutual"
)

// Guest is one invitee of a wedding. Its ID doubles as the access capability
// carried in personalized links.
type Guest struct {
	ID                string    `json:"id"`
	WeddingID         string    `json:"wedding_id"`
	Name              string    `json:"name"`
	FirstName         string    `json:"first_name,omitempty"`
	LastName          string    `json:"last_name,omitempty"`
	WhatsApp          string    `json:"whatsapp,omitempty"`
	Email             string    `json:"email,omitempty"`
	Address           string    `json:"address,omitempty"`
	Side              GuestSide `json:"side,omitempty"`
	Relationship      string    `json:"relationship,omitempty"`
	Title             string    `json:"title,omitempty"`
	ProfileImage      string    `json:"profile_image,omitempty"`
	SmartCardType     string    `json:"smart_card_type,omitempty"`
	DietaryPreference string    `json:"dietary_preference,omitempty"`
	Language          string    `json:"language,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DisplayName prefers "Title First Last" and falls back to Name.
func (g Guest) DisplayName() string {
	name := g.Name
	if g.FirstName != "" {
		name = g.FirstName
		if g.LastName != "" {
			name += " " + g.LastName
		}
	}
	if g.Title != "" && name != "" {
		return g.Title + " " + name
	}
	return name
}

type GuestWithInvitations struct {
	Guest
	Invitations []InvitationWithEvent `json:"invitations"`
}

// GuestProfileUpdate lists the fields a guest may edit on their own profile.
// Nil pointers are left untouched.
type GuestProfileUpdate struct {
	FirstName         *string `json:"first_name"`
	LastName          *string `json:"last_name"`
	WhatsApp          *string `json:"whatsapp"`
	Email             *string `json:"email" binding:"omitempty,email"`
	Address           *string `json:"address"`
	ProfileImage      *string `json:"profile_image"`
	DietaryPreference *string `json:"dietary_preference"`
	Language          *string `json:"language"`
}

// IsEmpty reports whether the update carries no field.
func (u GuestProfileUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.WhatsApp == nil &&
		u.Email == nil && u.Address == nil && u.ProfileImage == nil &&
		u.DietaryPreference == nil && u.Language == nil
}

type ProfileResult struct {
	Success bool   `json:"success"`
	Data    *Guest `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
