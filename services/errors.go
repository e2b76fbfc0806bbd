package services

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicate          = errors.New("already exists")
	ErrInvalidRSVPStatus  = errors.New("invalid rsvp status: must be yes, no or maybe")
	ErrInvalidPlusOnes    = errors.New("invalid guest count")
	ErrInvalidEventTime   = errors.New("invalid event date or time")
	ErrChatBusy           = errors.New("a message is already being sent")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrEmailNotConfigured = errors.New("email service not configured")
	ErrNoRecipient        = errors.New("guest has no email address")
)
