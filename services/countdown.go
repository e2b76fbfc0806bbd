package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/LovationAdmin/wedding-api/models"
)

// Countdown is the time left until an event starts. All fields are zero once
// the event has started.
type Countdown struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
	Started bool  `json:"started"`
	Valid   bool  `json:"valid"`
}

var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"}

// ParseEventStart combines an event's YYYY-MM-DD date and HH:MM start time in
// loc. An empty start time means midnight.
func ParseEventStart(date, startTime string, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	startTime = strings.TrimSpace(startTime)
	if loc == nil {
		loc = time.UTC
	}

	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidEventTime, date)
	}
	if startTime == "" {
		return day, nil
	}

	for _, layout := range clockLayouts {
		if clock, err := time.Parse(layout, strings.ToUpper(startTime)); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: start time %q", ErrInvalidEventTime, startTime)
}

// eventStart is an event's position on the timeline. An unreadable start time
// places it at the end of its day; ok is false when the date is unreadable.
func eventStart(e models.Event) (start time.Time, ok bool) {
	if t, err := ParseEventStart(e.EventDate, e.StartTime, time.UTC); err == nil {
		return t, true
	}
	day, err := ParseEventStart(e.EventDate, "", time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return day.Add(24*time.Hour - time.Second), true
}

// EventBefore orders events chronologically, comparing parsed start times so
// "9:00 AM" comes before "10:00". Events without a readable date sort last.
func EventBefore(a, b models.Event) bool {
	ta, okA := eventStart(a)
	tb, okB := eventStart(b)
	switch {
	case okA && okB:
		return ta.Before(tb)
	case okA != okB:
		return okA
	default:
		return a.EventDate+" "+a.StartTime < b.EventDate+" "+b.StartTime
	}
}

// ComputeCountdown splits the delta between now and the event start into
// days, hours, minutes and seconds using integer division. Malformed input
// yields an invalid zero countdown and ErrInvalidEventTime.
func ComputeCountdown(date, startTime string, now time.Time) (Countdown, error) {
	start, err := ParseEventStart(date, startTime, now.Location())
	if err != nil {
		return Countdown{}, err
	}
	return countdownUntil(start, now), nil
}

func countdownUntil(start, now time.Time) Countdown {
	ms := start.Sub(now).Milliseconds()
	if ms <= 0 {
		return Countdown{Started: true, Valid: true}
	}

	const (
		second = int64(1000)
		minute = 60 * second
		hour   = 60 * minute
		day    = 24 * hour
	)
	return Countdown{
		Days:    ms / day,
		Hours:   (ms % day) / hour,
		Minutes: (ms % hour) / minute,
		Seconds: (ms % minute) / second,
		Valid:   true,
	}
}
