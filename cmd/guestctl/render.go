package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/services"

	"github.com/kr/text"
)

const lineWidth = 72

// renderItinerary prints a guest's invitations in carousel order with their
// RSVP state and time left.
func renderItinerary(w io.Writer, wedding *models.Wedding, guest *models.GuestWithInvitations, now time.Time) {
	fmt.Fprintf(w, "💍 %s\n", wedding.CoupleNames())
	fmt.Fprintf(w, "Invitations for %s\n", guest.DisplayName())
	fmt.Fprintln(w, strings.Repeat("─", lineWidth))

	if len(guest.Invitations) == 0 {
		fmt.Fprintln(w, "No events yet.")
		return
	}

	for i, inv := range guest.Invitations {
		ev := services.MapEvent(inv.Event)
		fmt.Fprintf(w, "[%d] %s %s\n", i, ev.Icon, ev.Name)

		var details strings.Builder
		fmt.Fprintf(&details, "When: %s", ev.Date)
		if ev.StartTime != "" {
			fmt.Fprintf(&details, " %s", ev.StartTime)
			if ev.EndTime != "" {
				fmt.Fprintf(&details, "-%s", ev.EndTime)
			}
		}
		details.WriteString("\n")
		if where := strings.TrimSpace(ev.Venue + " " + ev.Address); where != "" {
			fmt.Fprintf(&details, "Where: %s\n", where)
		}
		if ev.Description != "" {
			details.WriteString(text.Wrap(ev.Description, lineWidth-4) + "\n")
		}
		fmt.Fprintf(&details, "RSVP: %s\n", rsvpLabel(inv.EventInvitation))
		cd, err := services.ComputeCountdown(inv.Event.EventDate, inv.Event.StartTime, now)
		fmt.Fprintf(&details, "Starts: %s\n", countdownLabel(cd, err))

		fmt.Fprint(w, text.Indent(details.String(), "    "))
	}
}

func rsvpLabel(inv models.EventInvitation) string {
	switch inv.RSVPStatus {
	case models.RSVPYes:
		return fmt.Sprintf("attending (%d)", inv.PlusOnes)
	case models.RSVPNo:
		return "not attending"
	case models.RSVPMaybe:
		return "maybe"
	default:
		return "not answered"
	}
}

func countdownLabel(cd services.Countdown, err error) string {
	switch {
	case err != nil || !cd.Valid:
		return "date to be announced"
	case cd.Started:
		return "started"
	case cd.Days > 0:
		return fmt.Sprintf("in %dd %02dh %02dm %02ds", cd.Days, cd.Hours, cd.Minutes, cd.Seconds)
	default:
		return fmt.Sprintf("in %02dh %02dm %02ds", cd.Hours, cd.Minutes, cd.Seconds)
	}
}
