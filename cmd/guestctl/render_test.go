package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderItinerary(t *testing.T) {
	now := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	wedding := &models.Wedding{BrideName: "Asha", GroomName: "Ravi"}
	guest := &models.GuestWithInvitations{
		Guest: models.Guest{ID: "g1", FirstName: "Meera", LastName: "Shah"},
		Invitations: []models.InvitationWithEvent{
			{
				EventInvitation: models.EventInvitation{ID: "i1", RSVPStatus: models.RSVPYes, PlusOnes: 2},
				Event: models.Event{Name: "Mehendi", EventType: "mehendi", EventDate: "2026-11-02", StartTime: "11:30",
					Venue: "Garden Court", Description: strings.Repeat("Henna and music under the banyan tree. ", 4)},
			},
			{
				EventInvitation: models.EventInvitation{ID: "i2"},
				Event:           models.Event{Name: "Wedding", EventType: "wedding", EventDate: "soon"},
			},
		},
	}

	var buf bytes.Buffer
	renderItinerary(&buf, wedding, guest, now)
	out := buf.String()

	assert.Contains(t, out, "💍 Asha & Ravi")
	assert.Contains(t, out, "Invitations for Meera Shah")
	assert.Contains(t, out, "[0] 🌿 Mehendi")
	assert.Contains(t, out, "    RSVP: attending (2)")
	assert.Contains(t, out, "    Starts: in 1d 02h 30m 00s")
	assert.Contains(t, out, "[1] 💍 Wedding")
	assert.Contains(t, out, "RSVP: not answered")
	assert.Contains(t, out, "Starts: date to be announced")

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "    Henna") || strings.HasPrefix(line, "    music") {
			assert.LessOrEqual(t, len(line), lineWidth, "descriptions are wrapped")
		}
	}
}

func TestRenderItinerary_NoEvents(t *testing.T) {
	var buf bytes.Buffer
	renderItinerary(&buf, &models.Wedding{BrideName: "A", GroomName: "B"}, &models.GuestWithInvitations{Guest: models.Guest{Name: "Dev"}}, time.Now())
	assert.Contains(t, buf.String(), "No events yet.")
}

func TestCountdownLabel(t *testing.T) {
	assert.Equal(t, "started", countdownLabel(services.Countdown{Started: true, Valid: true}, nil))
	assert.Equal(t, "in 05h 04m 03s", countdownLabel(services.Countdown{Hours: 5, Minutes: 4, Seconds: 3, Valid: true}, nil))
	assert.Equal(t, "date to be announced", countdownLabel(services.Countdown{}, errors.New("bad date")))
}

func TestPickInvitation(t *testing.T) {
	guest := &models.GuestWithInvitations{Invitations: []models.InvitationWithEvent{{EventInvitation: models.EventInvitation{ID: "i1"}}}}

	inv, err := pickInvitation(guest, "0")
	require.NoError(t, err)
	assert.Equal(t, "i1", inv.ID)

	for _, raw := range []string{"1", "-1", "x"} {
		_, err := pickInvitation(guest, raw)
		assert.Error(t, err, raw)
	}
}
