package models

type AccessReason string

const (
	AccessAllowed    AccessReason = "allowed"
	AccessInactive   AccessReason = "inactive"
	AccessDraft      AccessReason = "draft"
	AccessRestricted AccessReason = "restricted"
	AccessHidden     AccessReason = "hidden"
	AccessPassword   AccessReason = "password"
)

type AccessResult struct {
	HasAccess        bool         `json:"has_access"`
	Reason           AccessReason `json:"reason"`
	Message          string       `json:"message"`
	RequiresPassword bool         `json:"requires_password,omitempty"`
}

type UnlockRequest struct {
	Password string `json:"password" binding:"required"`
}

type UnlockResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
