package services

import "github.com/LovationAdmin/wedding-api/models"

// CheckAccess decides whether a wedding page may be shown. Rules are checked
// in a fixed order and the first match wins, so an inactive or draft wedding
// stays closed even to known guests and password holders, while a guest id
// bypasses the password prompt.
func CheckAccess(w models.Wedding, guestID string, passwordVerified bool) models.AccessResult {
	hasGuest := guestID != ""

	switch {
	case !w.IsActive:
		return deny(models.AccessInactive, "This wedding website is no longer active.")
	case w.Status == models.WeddingStatusInactive:
		return deny(models.AccessInactive, "This wedding website is no longer active.")
	case w.Status == models.WeddingStatusDraft:
		return deny(models.AccessDraft, "This wedding website is not published yet.")
	case w.Visibility == models.VisibilityPrivate && !hasGuest:
		return deny(models.AccessRestricted, "This wedding website is private. Please use your personal invitation link.")
	case w.Visibility == models.VisibilityHidden:
		return deny(models.AccessHidden, "This wedding website is hidden.")
	case w.HasPassword() && !passwordVerified && !hasGuest:
		res := deny(models.AccessPassword, "This wedding website is password protected.")
		res.RequiresPassword = true
		return res
	}

	return models.AccessResult{HasAccess: true, Reason: models.AccessAllowed, Message: "Access granted"}
}

func deny(reason models.AccessReason, message string) models.AccessResult {
	return models.AccessResult{HasAccess: false, Reason: reason, Message: message}
}
