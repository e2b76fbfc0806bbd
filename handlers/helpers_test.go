package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LovationAdmin/wedding-api/config"
	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/services"
	"github.com/LovationAdmin/wedding-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testEnv struct {
	router   *gin.Engine
	store    *services.WeddingStore
	hub      *WSHandler
	sessions *services.ChatSessions
	wedding  *models.Wedding
	events   []models.Event
	invites  []*models.EventInvitation
}

// newTestEnv wires the full router against an in-memory database seeded with
// an active public wedding and guest "g1" invited to two events.
func newTestEnv(t *testing.T, chatbot http.HandlerFunc) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New().String())
	db, err := config.InitDB(config.DialectSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, config.RunMigrations(db))

	store := services.NewWeddingStore(db, config.DialectSQLite)
	env := &testEnv{store: store}
	env.seed(t)

	if chatbot == nil {
		chatbot = func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(models.ChatReply{Response: "Hello!", SessionID: "s-1"})
		}
	}
	bot := httptest.NewServer(chatbot)
	t.Cleanup(bot.Close)

	gate := &Gate{Store: store, JWTSecret: testSecret}
	env.hub = NewWSHandler(gate)
	t.Cleanup(func() { _ = env.hub.Close() })

	env.sessions = services.NewChatSessions(services.ChatSessionConfig{
		Responder:    services.NewEndpointResponder(bot.URL, time.Second),
		Timeout:      time.Second,
		MapsEmbedURL: "https://maps.example/embed?q=",
		SiteURL:      "https://weddings.example",
	}, time.Hour)

	env.router = gin.New()
	v1 := env.router.Group("/api/v1")
	wedding := NewWeddingHandler(gate, time.Hour)
	v1.GET("/weddings/:slug", wedding.GetWedding)
	v1.POST("/weddings/:slug/unlock", wedding.Unlock)
	guest := NewGuestHandler(gate, services.NewRSVPService(store), services.NewEmailService("", "", "", store), env.hub)
	g := v1.Group("/weddings/:slug/guests/:guestId")
	g.GET("/events", guest.GetEvents)
	g.PUT("/profile", guest.UpdateProfile)
	g.POST("/invitations/:invitationId/rsvp", guest.SubmitRSVP)
	g.POST("/invitations/:invitationId/send", guest.SendInvitation)
	chat := NewChatHandler(gate, env.sessions)
	v1.POST("/weddings/:slug/chat", chat.SendMessage)
	v1.GET("/weddings/:slug/chat", chat.GetTranscript)
	v1.GET("/ws/weddings/:slug", env.hub.HandleWS)
	env.router.GET("/w/:slug", wedding.RenderPage)
	return env
}

func (e *testEnv) seed(t *testing.T) {
	ctx := context.Background()
	e.wedding = &models.Wedding{
		Slug:         "asha-and-ravi",
		BrideName:    "Asha",
		GroomName:    "Ravi",
		VenueName:    "Lake Palace",
		VenueAddress: "Pichola Lake, Udaipur",
		TemplateID:   "classic",
		Sections:     models.DefaultSections(),
		Status:       models.WeddingStatusActive,
		Visibility:   models.VisibilityPublic,
		IsActive:     true,
	}
	require.NoError(t, e.store.CreateWedding(ctx, e.wedding))

	later := models.Event{WeddingID: e.wedding.ID, Name: "Wedding", EventType: "wedding", StartTime: "18:00",
		EventDate: time.Now().AddDate(0, 0, 3).Format("2006-01-02")}
	sooner := models.Event{WeddingID: e.wedding.ID, Name: "Mehendi", EventType: "mehendi", StartTime: "11:00",
		EventDate: time.Now().AddDate(0, 0, 1).Format("2006-01-02")}
	require.NoError(t, e.store.CreateEvent(ctx, &later))
	require.NoError(t, e.store.CreateEvent(ctx, &sooner))
	e.events = []models.Event{sooner, later}

	require.NoError(t, e.store.CreateGuest(ctx, &models.Guest{
		ID: "g1", WeddingID: e.wedding.ID, FirstName: "Meera", LastName: "Shah", Email: "meera@example.com",
	}))
	invLater, err := e.store.CreateInvitation(ctx, "g1", later.ID)
	require.NoError(t, err)
	invSooner, err := e.store.CreateInvitation(ctx, "g1", sooner.ID)
	require.NoError(t, err)
	e.invites = []*models.EventInvitation{invSooner, invLater}
}

// addWedding stores another wedding with the given gate settings.
func (e *testEnv) addWedding(t *testing.T, slug string, status models.WeddingStatus, visibility models.WeddingVisibility, password string) *models.Wedding {
	t.Helper()
	w := &models.Wedding{
		Slug:       slug,
		BrideName:  "Lila",
		GroomName:  "Omar",
		Sections:   models.DefaultSections(),
		Status:     status,
		Visibility: visibility,
		IsActive:   true,
	}
	if password != "" {
		hash, err := utils.HashPassword(password)
		require.NoError(t, err)
		w.PasswordHash = hash
	}
	require.NoError(t, e.store.CreateWedding(context.Background(), w))
	return w
}

func (e *testEnv) do(method, path string, body any, header ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
