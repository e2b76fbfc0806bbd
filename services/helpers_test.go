package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/LovationAdmin/wedding-api/config"
	"github.com/LovationAdmin/wedding-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *WeddingStore {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New().String())
	db, err := config.InitDB(config.DialectSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, config.RunMigrations(db))
	return NewWeddingStore(db, config.DialectSQLite)
}

type fixture struct {
	wedding *models.Wedding
	guest   *models.Guest
	events  []models.Event
	invites []*models.EventInvitation
}

// seedWedding creates an active public wedding with guest "g1" invited to
// events on day+3 and day+1 (inserted out of order).
func seedWedding(t *testing.T, store *WeddingStore) fixture {
	t.Helper()
	ctx := context.Background()

	w := &models.Wedding{
		Slug:         "asha-and-ravi",
		BrideName:    "Asha",
		GroomName:    "Ravi",
		WeddingDate:  time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		VenueName:    "Lake Palace",
		VenueAddress: "Pichola Lake, Udaipur",
		TemplateID:   "2",
		Sections:     models.DefaultSections(),
		Status:       models.WeddingStatusActive,
		Visibility:   models.VisibilityPublic,
		IsActive:     true,
		Gallery:      []string{"/img/1.jpg"},
	}
	require.NoError(t, store.CreateWedding(ctx, w))

	later := models.Event{
		WeddingID: w.ID,
		Name:      "Wedding",
		EventDate: time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		StartTime: "18:00",
		Venue:     "Lake Palace",
		Address:   "Pichola Lake, Udaipur",
		EventType: "wedding",
	}
	sooner := models.Event{
		WeddingID: w.ID,
		Name:      "Mehendi",
		EventDate: time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		StartTime: "11:00",
		EventType: "mehendi",
	}
	require.NoError(t, store.CreateEvent(ctx, &later))
	require.NoError(t, store.CreateEvent(ctx, &sooner))

	g := &models.Guest{ID: "g1", WeddingID: w.ID, FirstName: "Meera", LastName: "Shah", Email: "meera@example.com"}
	require.NoError(t, store.CreateGuest(ctx, g))

	invLater, err := store.CreateInvitation(ctx, g.ID, later.ID)
	require.NoError(t, err)
	invSooner, err := store.CreateInvitation(ctx, g.ID, sooner.ID)
	require.NoError(t, err)

	return fixture{
		wedding: w,
		guest:   g,
		events:  []models.Event{sooner, later},
		invites: []*models.EventInvitation{invSooner, invLater},
	}
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }
