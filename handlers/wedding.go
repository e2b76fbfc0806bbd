package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/services"
	"github.com/LovationAdmin/wedding-api/templates"
	"github.com/LovationAdmin/wedding-api/utils"

	"github.com/gin-gonic/gin"
)

type WeddingHandler struct {
	Gate      *Gate
	Store     services.IWeddingStore
	UnlockTTL time.Duration
}

func NewWeddingHandler(gate *Gate, unlockTTL time.Duration) *WeddingHandler {
	return &WeddingHandler{Gate: gate, Store: gate.Store, UnlockTTL: unlockTTL}
}

// GetWedding returns the access verdict and, when allowed, the page view model.
func (h *WeddingHandler) GetWedding(c *gin.Context) {
	v, ok := h.Gate.Resolve(c, c.Query("guest"))
	if !ok {
		return
	}
	if !v.Access.HasAccess {
		denyJSON(c, v.Access)
		return
	}

	vm, err := h.viewModel(c.Request.Context(), v.Wedding)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load events"})
		return
	}
	h.recordView(c.Request.Context(), v)

	resp := gin.H{
		"access":  v.Access,
		"wedding": vm,
	}
	if v.Guest != nil {
		resp["guest"] = v.Guest
	}
	c.JSON(http.StatusOK, resp)
}

// RenderPage serves the wedding website as HTML using the wedding's template.
func (h *WeddingHandler) RenderPage(c *gin.Context) {
	v, ok := h.Gate.Resolve(c, c.Query("guest"))
	if !ok {
		return
	}
	if !v.Access.HasAccess {
		renderNotice(c, denyStatus(v.Access), v.Access.Message)
		return
	}

	vm, err := h.viewModel(c.Request.Context(), v.Wedding)
	if err != nil {
		renderNotice(c, http.StatusInternalServerError, "This page could not be loaded. Please try again later.")
		return
	}
	vm.GuestID = v.guestID()

	var buf bytes.Buffer
	if err := templates.Lookup(v.Wedding.TemplateID).Render(&buf, vm); err != nil {
		utils.SLog.Errorf("❌ render %s: %v", v.Wedding.Slug, err)
		renderNotice(c, http.StatusInternalServerError, "This page could not be loaded. Please try again later.")
		return
	}
	h.recordView(c.Request.Context(), v)
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Unlock exchanges the page password for a short lived unlock token.
func (h *WeddingHandler) Unlock(c *gin.Context) {
	var req models.UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}

	w, err := h.Store.GetWeddingBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wedding not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wedding"})
		return
	}
	if !w.HasPassword() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This wedding is not password protected"})
		return
	}
	if !utils.CheckPassword(req.Password, w.PasswordHash) {
		utils.SLog.Infof("🔒 wrong password for %s", w.Slug)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := utils.GenerateUnlockToken(h.Gate.JWTSecret, w.ID, w.Slug, h.UnlockTTL)
	if err != nil {
		utils.SLog.Errorf("❌ sign unlock token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlock wedding"})
		return
	}

	utils.SLog.Infof("🔓 %s unlocked", w.Slug)
	c.JSON(http.StatusOK, models.UnlockResponse{
		Token:     token,
		ExpiresIn: int64(h.UnlockTTL.Seconds()),
	})
}

func (h *WeddingHandler) viewModel(ctx context.Context, w *models.Wedding) (models.ViewModel, error) {
	events, err := h.Store.GetEventsByWedding(ctx, w.ID)
	if err != nil {
		utils.SLog.Errorf("❌ load events for %s: %v", w.Slug, err)
		return models.ViewModel{}, err
	}
	return services.MapToViewModel(*w, events), nil
}

// recordView bumps the view counter and marks the guest's invitations as
// viewed. Failures are logged only; they never block the page.
func (h *WeddingHandler) recordView(ctx context.Context, v *Visit) {
	if err := h.Store.IncrementViewCount(ctx, v.Wedding.ID); err != nil {
		utils.SLog.Warnf("⚠️ view count for %s: %v", v.Wedding.Slug, err)
	}
	if v.Guest == nil {
		return
	}
	if _, err := h.Store.MarkGuestInvitationsViewed(ctx, v.Guest.ID); err != nil {
		utils.SLog.Warnf("⚠️ mark invitations viewed: %v", err)
	}
}

func renderNotice(c *gin.Context, status int, message string) {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>Wedding</title></head>
<body style="font-family: Georgia, serif; text-align: center; padding: 80px 20px; color: #444;">
<p>%s</p>
</body>
</html>`, html.EscapeString(message))
	c.Data(status, "text/html; charset=utf-8", []byte(page))
}
