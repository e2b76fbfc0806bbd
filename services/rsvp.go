package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/utils"
)

// RSVPStore is the persistence the RSVP flow needs.
type RSVPStore interface {
	GetInvitation(ctx context.Context, invitationID string) (*models.EventInvitation, error)
	SaveRSVP(ctx context.Context, invitationID string, status models.RSVPStatus, plusOnes *int, message *string) (*models.EventInvitation, error)
}

// DefaultGuestCount is shown when a guest first answers yes.
const DefaultGuestCount = 1

// ============================================================================
// RSVP SERVICE
// ============================================================================

// RSVPService validates and persists RSVP answers. Writes for the same
// invitation are serialized inside this process so a slow earlier write can
// not land after a newer one. Writes from other processes remain
// last-write-wins.
type RSVPService struct {
	store RSVPStore
	locks *keyedMutex
}

func NewRSVPService(store RSVPStore) *RSVPService {
	return &RSVPService{store: store, locks: newKeyedMutex()}
}

// Submit records guestID's answer for one invitation. The invitation must
// belong to the guest. Answering yes without a count keeps the stored count,
// or DefaultGuestCount when none is stored.
func (s *RSVPService) Submit(ctx context.Context, guestID, invitationID string, req models.RSVPRequest) (*models.EventInvitation, error) {
	status, ok := models.ParseRSVPStatus(req.Status)
	if !ok {
		return nil, ErrInvalidRSVPStatus
	}
	if status == models.RSVPYes && req.PlusOnes != nil && *req.PlusOnes < DefaultGuestCount {
		return nil, ErrInvalidPlusOnes
	}

	unlock := s.locks.Lock(invitationID)
	defer unlock()

	current, err := s.store.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if current.GuestID != guestID {
		return nil, ErrNotFound
	}

	var plusOnes *int
	if status == models.RSVPYes {
		count := DefaultGuestCount
		switch {
		case req.PlusOnes != nil:
			count = *req.PlusOnes
		case current.PlusOnes >= DefaultGuestCount:
			count = current.PlusOnes
		}
		plusOnes = &count
	}

	updated, err := s.store.SaveRSVP(ctx, invitationID, status, plusOnes, req.Message)
	if err != nil {
		return nil, fmt.Errorf("save rsvp: %w", err)
	}
	utils.LogRSVPAction("updated", invitationID, guestID, string(status))
	return updated, nil
}

// ============================================================================
// RSVP CONTROLLER
// ============================================================================

// RSVPEntry is the local state shown for one invitation.
type RSVPEntry struct {
	InvitationID string            `json:"invitation_id"`
	EventName    string            `json:"event_name"`
	Status       models.RSVPStatus `json:"status"`
	GuestCount   int               `json:"guest_count"`
}

// ShowGuestCount reports whether the guest count control is visible.
func (e RSVPEntry) ShowGuestCount() bool {
	return e.Status == models.RSVPYes
}

// RSVPController holds one guest's RSVP state across their invitations.
// Changes apply locally first; when the write fails the entry is restored
// and the error returned so the caller can tell the guest.
type RSVPController struct {
	service *RSVPService
	guestID string

	mu      sync.Mutex
	entries map[string]RSVPEntry
	order   []string
}

func NewRSVPController(service *RSVPService, guest *models.GuestWithInvitations) *RSVPController {
	c := &RSVPController{
		service: service,
		guestID: guest.ID,
		entries: make(map[string]RSVPEntry, len(guest.Invitations)),
	}
	for _, inv := range guest.Invitations {
		entry := RSVPEntry{
			InvitationID: inv.ID,
			EventName:    inv.Event.Name,
			Status:       inv.RSVPStatus,
		}
		if inv.RSVPStatus == models.RSVPYes {
			entry.GuestCount = max(inv.PlusOnes, DefaultGuestCount)
		}
		c.entries[inv.ID] = entry
		c.order = append(c.order, inv.ID)
	}
	return c
}

// Entries returns the local state in carousel order.
func (c *RSVPController) Entries() []RSVPEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]RSVPEntry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id])
	}
	return out
}

func (c *RSVPController) Entry(invitationID string) (RSVPEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[invitationID]
	return e, ok
}

// SetStatus moves an invitation to status. Entering yes shows a guest count
// of DefaultGuestCount; leaving yes resets it to zero.
func (c *RSVPController) SetStatus(ctx context.Context, invitationID string, status models.RSVPStatus) (RSVPEntry, error) {
	if _, ok := models.ParseRSVPStatus(string(status)); !ok {
		return RSVPEntry{}, ErrInvalidRSVPStatus
	}
	return c.apply(ctx, invitationID, func(e *RSVPEntry) {
		if status == models.RSVPYes && e.Status != models.RSVPYes {
			e.GuestCount = DefaultGuestCount
		}
		if status != models.RSVPYes {
			e.GuestCount = 0
		}
		e.Status = status
	})
}

// SetGuestCount changes the count of a yes answer. There is no upper bound.
func (c *RSVPController) SetGuestCount(ctx context.Context, invitationID string, count int) (RSVPEntry, error) {
	if count < DefaultGuestCount {
		return RSVPEntry{}, ErrInvalidPlusOnes
	}
	entry, ok := c.Entry(invitationID)
	if !ok {
		return RSVPEntry{}, ErrNotFound
	}
	if entry.Status != models.RSVPYes {
		return entry, ErrInvalidPlusOnes
	}
	return c.apply(ctx, invitationID, func(e *RSVPEntry) {
		e.GuestCount = count
	})
}

func (c *RSVPController) IncrementGuests(ctx context.Context, invitationID string) (RSVPEntry, error) {
	entry, ok := c.Entry(invitationID)
	if !ok {
		return RSVPEntry{}, ErrNotFound
	}
	return c.SetGuestCount(ctx, invitationID, entry.GuestCount+1)
}

// DecrementGuests stops at one guest.
func (c *RSVPController) DecrementGuests(ctx context.Context, invitationID string) (RSVPEntry, error) {
	entry, ok := c.Entry(invitationID)
	if !ok {
		return RSVPEntry{}, ErrNotFound
	}
	return c.SetGuestCount(ctx, invitationID, max(entry.GuestCount-1, DefaultGuestCount))
}

func (c *RSVPController) apply(ctx context.Context, invitationID string, change func(*RSVPEntry)) (RSVPEntry, error) {
	c.mu.Lock()
	snapshot, ok := c.entries[invitationID]
	if !ok {
		c.mu.Unlock()
		return RSVPEntry{}, ErrNotFound
	}
	optimistic := snapshot
	change(&optimistic)
	c.entries[invitationID] = optimistic
	c.mu.Unlock()

	req := models.RSVPRequest{Status: string(optimistic.Status)}
	if optimistic.Status == models.RSVPYes {
		count := optimistic.GuestCount
		req.PlusOnes = &count
	}

	saved, err := c.service.Submit(ctx, c.guestID, invitationID, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		// Only roll back if no newer local change replaced ours.
		if c.entries[invitationID] == optimistic {
			c.entries[invitationID] = snapshot
		}
		return c.entries[invitationID], err
	}

	confirmed := optimistic
	confirmed.Status = saved.RSVPStatus
	if saved.RSVPStatus == models.RSVPYes {
		confirmed.GuestCount = saved.PlusOnes
	} else {
		confirmed.GuestCount = 0
	}
	if c.entries[invitationID] == optimistic {
		c.entries[invitationID] = confirmed
	}
	return confirmed, nil
}

// ============================================================================
// KEYED MUTEX
// ============================================================================

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

// Lock blocks until key is free and returns its unlock func. Entries are
// dropped once no goroutine holds or waits for them.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
