package services

import (
	"net/url"
	"strconv"

	"github.com/LovationAdmin/wedding-api/models"
)

const (
	// EventQueryParam carries the carousel position in page URLs.
	EventQueryParam   = "event"
	// EventIDQueryParam selects an event by id. Links built outside a
	// guest's carousel use it, since positions differ between guests.
	EventIDQueryParam = "event_id"
)

// Carousel is the cursor over a guest's invitations, ordered by event date.
// Previous and Next stop at the ends instead of wrapping around.
type Carousel struct {
	Items []models.InvitationWithEvent `json:"items"`
	Index int                          `json:"index"`
}

// NewCarousel positions the cursor at start, clamped into range.
func NewCarousel(items []models.InvitationWithEvent, start int) *Carousel {
	if items == nil {
		items = []models.InvitationWithEvent{}
	}
	c := &Carousel{Items: items}
	c.JumpTo(start)
	return c
}

func (c *Carousel) Len() int {
	return len(c.Items)
}

// Current returns the invitation under the cursor.
func (c *Carousel) Current() (models.InvitationWithEvent, bool) {
	if len(c.Items) == 0 {
		return models.InvitationWithEvent{}, false
	}
	return c.Items[c.Index], true
}

func (c *Carousel) HasPrevious() bool {
	return c.Index > 0
}

func (c *Carousel) HasNext() bool {
	return c.Index < len(c.Items)-1
}

// Previous moves back one event. It reports whether the cursor moved.
func (c *Carousel) Previous() bool {
	if !c.HasPrevious() {
		return false
	}
	c.Index--
	return true
}

// Next moves forward one event. It reports whether the cursor moved.
func (c *Carousel) Next() bool {
	if !c.HasNext() {
		return false
	}
	c.Index++
	return true
}

// JumpTo selects any event directly, clamping out-of-range indexes.
func (c *Carousel) JumpTo(index int) int {
	switch {
	case len(c.Items) == 0 || index < 0:
		c.Index = 0
	case index >= len(c.Items):
		c.Index = len(c.Items) - 1
	default:
		c.Index = index
	}
	return c.Index
}

// Location returns base with the cursor written into its query string, so
// the current event can be bookmarked. Other query parameters are kept.
func (c *Carousel) Location(base string) string {
	return LocationFor(base, c.Index)
}

func LocationFor(base string, index int) string {
	return withQuery(base, EventQueryParam, strconv.Itoa(index), EventIDQueryParam)
}

// EventLocation links base to one event by id.
func EventLocation(base, eventID string) string {
	return withQuery(base, EventIDQueryParam, eventID, EventQueryParam)
}

func withQuery(base, key, value, drop string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set(key, value)
	q.Del(drop)
	u.RawQuery = q.Encode()
	return u.String()
}

// IndexOfEvent finds the carousel position of an event in a guest's
// invitations.
func IndexOfEvent(items []models.InvitationWithEvent, eventID string) (int, bool) {
	for i, inv := range items {
		if inv.Event.ID == eventID {
			return i, true
		}
	}
	return 0, false
}

// ParseEventIndex reads the carousel position from a query value. Anything
// unparseable starts at the first event.
func ParseEventIndex(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
