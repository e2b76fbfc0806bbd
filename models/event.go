package models

import "time"

// Event is one ceremony or function (Mehendi, Wedding, Reception, ...) of a wedding.
type Event struct {
	ID              string    `json:"id"`
	WeddingID       string    `json:"wedding_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	EventDate       string    `json:"event_date"`           // YYYY-MM-DD
	StartTime       string    `json:"start_time,omitempty"` // HH:MM
	EndTime         string    `json:"end_time,omitempty"`   // HH:MM
	Venue           string    `json:"venue,omitempty"`
	Address         string    `json:"address,omitempty"`
	Icon            string    `json:"icon,omitempty"`
	PrimaryColor    string    `json:"primary_color,omitempty"`
	SecondaryColor  string    `json:"secondary_color,omitempty"`
	AccentColor     string    `json:"accent_color,omitempty"`
	BackgroundImage string    `json:"background_image,omitempty"`
	EventType       string    `json:"event_type,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
