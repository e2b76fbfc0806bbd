package models

import "time"

type ChatSender string

const (
	SenderUser ChatSender = "user"
	SenderBot  ChatSender = "bot"
)

// ChatMessage is one line of the widget transcript.
type ChatMessage struct {
	Text      string            `json:"text"`
	Sender    ChatSender        `json:"sender"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  *ResponseMetadata `json:"metadata,omitempty"`
}

// ResponseMetadata carries declarative rendering hints attached to a reply.
type ResponseMetadata struct {
	Map           *MapHint     `json:"map,omitempty"`
	EventButton   *EventHint   `json:"eventButton,omitempty"`
	WebsiteButton *WebsiteHint `json:"websiteButton,omitempty"`
}

type MapHint struct {
	Address  string `json:"address"`
	EmbedURL string `json:"embedUrl,omitempty"`
}

// EventHint points at one event. EventIndex counts the wedding's events in
// date order; EventID is filled in from it when the reply is resolved.
type EventHint struct {
	EventIndex int    `json:"eventIndex"`
	EventID    string `json:"eventId,omitempty"`
	Label      string `json:"label,omitempty"`
	URL        string `json:"url,omitempty"`
}

type WebsiteHint struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url,omitempty"`
}

// ChatRequest is the payload posted to the inference endpoint.
type ChatRequest struct {
	Message     string `json:"message"`
	GuestID     string `json:"guestId,omitempty"`
	WeddingID   string `json:"weddingId,omitempty"`
	WebsiteSlug string `json:"websiteSlug,omitempty"`
	SessionID   string `json:"sessionId,omitempty"`
	Language    string `json:"language"`
}

// ChatReply is the inference endpoint answer.
type ChatReply struct {
	Response         string            `json:"response"`
	Suggestions      []string          `json:"suggestions"`
	SessionID        string            `json:"sessionId"`
	ResponseMetadata *ResponseMetadata `json:"responseMetadata,omitempty"`
}

// ChatWidgetRequest is what the browser widget posts to this API.
type ChatWidgetRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	Message  string `json:"message" binding:"required"`
	GuestID  string `json:"guest_id"`
	Language string `json:"language"`
}

type ChatWidgetResponse struct {
	Reply       ChatReply     `json:"reply"`
	Transcript  []ChatMessage `json:"transcript"`
	Suggestions []string      `json:"suggestions"`
	SessionID   string        `json:"session_id,omitempty"`
}
