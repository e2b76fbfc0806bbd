package routes

import (
	"github.com/LovationAdmin/wedding-api/handlers"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the routers need.
type Handlers struct {
	Wedding *handlers.WeddingHandler
	Guest   *handlers.GuestHandler
	Chat    *handlers.ChatHandler
	WS      *handlers.WSHandler
}

// SetupWeddingRoutes sets up the public wedding page API.
func SetupWeddingRoutes(rg *gin.RouterGroup, h *handlers.WeddingHandler) {
	rg.GET("/weddings/:slug", h.GetWedding)
	rg.POST("/weddings/:slug/unlock", h.Unlock)
}

// SetupGuestRoutes sets up the personalized guest routes. The guest id in
// the path is the guest's capability; there is no other authentication.
func SetupGuestRoutes(rg *gin.RouterGroup, h *handlers.GuestHandler) {
	guest := rg.Group("/weddings/:slug/guests/:guestId")
	guest.GET("/events", h.GetEvents)
	guest.PUT("/profile", h.UpdateProfile)
	guest.POST("/invitations/:invitationId/rsvp", h.SubmitRSVP)
	guest.POST("/invitations/:invitationId/send", h.SendInvitation)
}

// SetupChatRoutes sets up the chat widget routes.
func SetupChatRoutes(rg *gin.RouterGroup, h *handlers.ChatHandler) {
	rg.POST("/weddings/:slug/chat", h.SendMessage)
	rg.GET("/weddings/:slug/chat", h.GetTranscript)
}

// SetupPageRoutes serves rendered wedding websites outside the API prefix.
func SetupPageRoutes(router *gin.Engine, h *handlers.WeddingHandler) {
	router.GET("/w/:slug", h.RenderPage)
}

// Setup mounts every route of the API on router.
func Setup(router *gin.Engine, h Handlers) {
	v1 := router.Group("/api/v1")
	{
		SetupWeddingRoutes(v1, h.Wedding)
		SetupGuestRoutes(v1, h.Guest)
		SetupChatRoutes(v1, h.Chat)
		v1.GET("/ws/weddings/:slug", h.WS.HandleWS)
	}
	SetupPageRoutes(router, h.Wedding)
}
