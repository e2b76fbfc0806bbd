package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/services"
	"github.com/LovationAdmin/wedding-api/utils"

	"github.com/gin-gonic/gin"
)

// Gate resolves the wedding named in the URL and decides whether the caller
// may see it. Handlers that expose wedding content go through it.
type Gate struct {
	Store     services.IWeddingStore
	JWTSecret string
}

// Visit is what the gate learned about one request.
type Visit struct {
	Wedding *models.Wedding
	Guest   *models.Guest
	Access  models.AccessResult
}

func (v *Visit) guestID() string {
	if v.Guest == nil {
		return ""
	}
	return v.Guest.ID
}

// Resolve loads the wedding for :slug and computes the access verdict for
// guestID. Unknown guest ids are ignored rather than rejected so a stale
// link still shows a public page. It writes the error response itself and
// returns false when the wedding can not be loaded.
func (g *Gate) Resolve(c *gin.Context, guestID string) (*Visit, bool) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	w, err := g.Store.GetWeddingBySlug(ctx, slug)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wedding not found"})
		return nil, false
	}
	if err != nil {
		utils.SLog.Errorf("❌ load wedding %s: %v", slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wedding"})
		return nil, false
	}

	v := &Visit{Wedding: w}
	if guestID != "" {
		guest, err := g.Store.ValidateGuestAccess(ctx, w.ID, guestID)
		switch {
		case err == nil:
			v.Guest = guest
		case errors.Is(err, services.ErrNotFound):
			utils.SLog.Debugf("⚠️ unknown guest %s for %s", utils.MaskID(guestID), slug)
		default:
			utils.SLog.Errorf("❌ validate guest for %s: %v", slug, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wedding"})
			return nil, false
		}
	}

	v.Access = services.CheckAccess(*w, v.guestID(), g.unlocked(c, w.ID))
	utils.LogAccessDecision(slug, v.guestID(), string(v.Access.Reason), v.Access.HasAccess)
	return v, true
}

// unlocked reports whether the request carries a valid unlock token, either
// as a bearer header or as the token query parameter (websocket clients can
// not set headers).
func (g *Gate) unlocked(c *gin.Context, weddingID string) bool {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		token = c.Query("token")
	}
	if token == "" || g.JWTSecret == "" {
		return false
	}
	ok, err := utils.VerifyUnlockToken(g.JWTSecret, token, weddingID)
	if err != nil {
		utils.SLog.Debugf("⚠️ rejected unlock token: %v", err)
	}
	return ok
}

// Guarded is Resolve for routes that need both a wedding and a known guest
// with access to it. It answers 404 for unknown guests and 403 when the
// wedding is closed to them.
func (g *Gate) Guarded(c *gin.Context) (*Visit, bool) {
	v, ok := g.Resolve(c, c.Param("guestId"))
	if !ok {
		return nil, false
	}
	if v.Guest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Guest not found"})
		return nil, false
	}
	if !v.Access.HasAccess {
		denyJSON(c, v.Access)
		return nil, false
	}
	return v, true
}

func denyStatus(result models.AccessResult) int {
	if result.RequiresPassword {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}

func denyJSON(c *gin.Context, result models.AccessResult) {
	c.JSON(denyStatus(result), gin.H{
		"error":  result.Message,
		"access": result,
	})
}
