// utils/safelog.go
// ============================================================================
// SAFE LOGGING - Masks guest personal data in production
// ============================================================================
// Guests hand us names, emails, WhatsApp numbers and postal addresses. These
// helpers keep them out of production logs while leaving development logs
// readable.
// ============================================================================

package utils

import (
	"os"
	"regexp"
	"time"

	"go.uber.org/zap"
)

// ============================================================================
// CONFIGURATION
// ============================================================================

var (
	// IsProduction enables masking of personal data.
	IsProduction = os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production" ||
		os.Getenv("ENV") == "production"
)

// SetProduction overrides the environment-derived production flag.
func SetProduction(production bool) {
	IsProduction = production
}

// ============================================================================
// MASKING PATTERNS
// ============================================================================

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// International or local phone numbers (WhatsApp contacts)
	phoneRegex = regexp.MustCompile(`\+?\d[\d\s.-]{7,}\d`)

	uuidRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// ============================================================================
// MASKING FUNCTIONS
// ============================================================================

// MaskString masks personal data found in free text.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}

	result := emailRegex.ReplaceAllString(input, "***@***.***")
	result = uuidRegex.ReplaceAllStringFunc(result, shortenID)
	result = phoneRegex.ReplaceAllString(result, "+** *** ****")
	return result
}

// MaskID keeps the first 8 characters of an identifier.
func MaskID(id string) string {
	if !IsProduction {
		return id
	}
	if len(id) <= 8 {
		return "***"
	}
	return id[:8] + "..."
}

// MaskEmail hides an email address.
func MaskEmail(email string) string {
	if !IsProduction || email == "" {
		return email
	}
	return "***@***.***"
}

// MaskPhone keeps the last two digits of a phone number.
func MaskPhone(phone string) string {
	if !IsProduction || phone == "" {
		return phone
	}
	if len(phone) <= 2 {
		return "**"
	}
	return "***" + phone[len(phone)-2:]
}

func shortenID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return "***"
}

// ============================================================================
// DOMAIN LOGGING
// ============================================================================

// LogRSVPAction logs an RSVP write without exposing guest identities.
func LogRSVPAction(action, invitationID, guestID, status string) {
	Log.Info("[RSVP] "+action,
		zap.String("invitation_id", MaskID(invitationID)),
		zap.String("guest_id", MaskID(guestID)),
		zap.String("status", status),
	)
}

// LogChatAction logs a chat widget exchange. Message contents are never logged.
func LogChatAction(action, slug, sessionID string, messageLen int) {
	Log.Info("[Chat] "+action,
		zap.String("slug", slug),
		zap.String("session_id", MaskID(sessionID)),
		zap.Int("message_len", messageLen),
	)
}

// LogAccessDecision logs the access gate verdict for a page load.
func LogAccessDecision(slug, guestID, reason string, allowed bool) {
	Log.Debug("[Access] decision",
		zap.String("slug", slug),
		zap.String("guest_id", MaskID(guestID)),
		zap.String("reason", reason),
		zap.Bool("allowed", allowed),
	)
}

// LogAPIRequest logs one HTTP request, masking ids embedded in the path.
func LogAPIRequest(method, path string, statusCode int, duration time.Duration, clientIP string) {
	if IsProduction {
		path = uuidRegex.ReplaceAllStringFunc(path, shortenID)
	}
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", statusCode),
		zap.Duration("duration", duration),
		zap.String("ip", clientIP),
	}
	switch {
	case statusCode >= 500:
		Log.Error("[API] request", fields...)
	case statusCode >= 400:
		Log.Warn("[API] request", fields...)
	default:
		Log.Info("[API] request", fields...)
	}
}

// LogWebSocket logs a websocket lifecycle event.
func LogWebSocket(action, slug, guestID string) {
	Log.Info("[WS] "+action,
		zap.String("slug", slug),
		zap.String("guest_id", MaskID(guestID)),
	)
}

// ============================================================================
// STARTUP
// ============================================================================

// GetEnvMode returns the current environment mode.
func GetEnvMode() string {
	if IsProduction {
		return "production"
	}
	return "development"
}

// LogStartup logs the application startup banner.
func LogStartup(appName, version, port string) {
	SLog.Infof("🚀 %s v%s starting...", appName, version)
	SLog.Infof("   Mode: %s", GetEnvMode())
	SLog.Infof("   Port: %s", port)
	if IsProduction {
		SLog.Info("   ⚠️  Production mode: guest personal data will be masked in logs")
	}
}
