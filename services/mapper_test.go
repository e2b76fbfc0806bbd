package services

import (
	"testing"

	"github.com/LovationAdmin/wedding-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapToViewModel_EmptyWeddingGetsPlaceholders(t *testing.T) {
	vm := MapToViewModel(models.Wedding{Slug: "empty"}, nil)

	assert.Equal(t, "template001", vm.Template)
	assert.Equal(t, DefaultPrimaryColor, vm.Theme.PrimaryColor)
	assert.Equal(t, DefaultSecondaryColor, vm.Theme.SecondaryColor)
	assert.Equal(t, DefaultCoupleImage, vm.Hero.Image)
	assert.Equal(t, DefaultBrideImage, vm.About.BridePhoto)
	assert.Equal(t, DefaultGroomImage, vm.About.GroomPhoto)

	assert.NotNil(t, vm.Story)
	assert.NotNil(t, vm.Gallery)
	assert.NotNil(t, vm.WeddingParty)
	assert.NotNil(t, vm.Events)
	assert.NotNil(t, vm.Family.Bride)
	assert.NotNil(t, vm.Family.Groom)
}

func TestMapToViewModel_MapsContent(t *testing.T) {
	w := models.Wedding{
		Slug:         "asha-and-ravi",
		BrideName:    "Asha",
		GroomName:    "Ravi",
		TemplateID:   "template-3",
		CouplePhoto:  "/img/couple.jpg",
		PrimaryColor: "#000000",
		Sections:     models.DefaultSections(),
		Story:        []models.StoryItem{{Title: "First met"}, {}},
		Gallery:      []string{"/img/a.jpg", " ", "/img/b.jpg"},
		Families: []models.FamilyMember{
			{Name: "Sunita", Relation: "Mother", Side: "bride"},
			{Name: "Mohan", Relation: "Father", Side: "Groom", Photo: "/img/mohan.jpg"},
			{Name: "Kiran", Relation: "Aunt"},
		},
		Party: []models.PartyMember{{Name: "Dev", Role: "Best man"}, {Role: "Nobody"}},
	}
	events := []models.Event{
		{ID: "late", Name: "Reception", EventDate: "2026-12-13", EventType: "Reception"},
		{ID: "early", Name: "Haldi", EventDate: "2026-12-11", StartTime: "09:00", EventType: "haldi", Icon: "🌞"},
		{ID: "evening", Name: "Sangeet", EventDate: "2026-12-11", StartTime: "19:00", EventType: "sangeet", BackgroundImage: "/img/bg.jpg"},
	}

	vm := MapToViewModel(w, events)

	assert.Equal(t, "template003", vm.Template)
	assert.Equal(t, "Asha & Ravi", vm.Hero.CoupleNames)
	assert.Equal(t, "2026-12-11", vm.Hero.WeddingDate)
	assert.Equal(t, "/img/couple.jpg", vm.Hero.Image)
	assert.Equal(t, "#000000", vm.Theme.PrimaryColor)
	assert.Len(t, vm.Story, 1)
	assert.Equal(t, []string{"/img/a.jpg", "/img/b.jpg"}, vm.Gallery)

	require.Len(t, vm.Family.Bride, 2)
	require.Len(t, vm.Family.Groom, 1)
	assert.Equal(t, DefaultAvatarImage, vm.Family.Bride[0].Photo)
	assert.Equal(t, "/img/mohan.jpg", vm.Family.Groom[0].Photo)
	require.Len(t, vm.WeddingParty, 1)

	require.Len(t, vm.Events, 3)
	assert.Equal(t, []string{"early", "evening", "late"}, []string{vm.Events[0].ID, vm.Events[1].ID, vm.Events[2].ID})
	assert.Equal(t, "🌞", vm.Events[0].Icon)
	assert.Equal(t, eventThemes["haldi"].PrimaryColor, vm.Events[0].PrimaryColor)
	assert.Equal(t, "/img/bg.jpg", vm.Events[1].BackgroundImage)
	assert.Equal(t, DefaultEventImage, vm.Events[2].BackgroundImage)
	assert.Equal(t, "🥂", vm.Events[2].Icon)
	assert.Equal(t, "reception", vm.Events[2].EventType)

	// input untouched
	assert.Equal(t, "late", events[0].ID)
}

func TestMapToViewModel_SortsMixedClockFormats(t *testing.T) {
	events := []models.Event{
		{ID: "later", Name: "Later", EventDate: "2030-01-01", StartTime: "10:00"},
		{ID: "morning", Name: "Morning", EventDate: "2030-01-01", StartTime: "9:00 AM"},
		{ID: "evening", Name: "Evening", EventDate: "2030-01-01", StartTime: "7:15 pm"},
	}
	vm := MapToViewModel(models.Wedding{}, events)

	require.Len(t, vm.Events, 3)
	assert.Equal(t, "Morning", vm.Events[0].Name)
	assert.Equal(t, "Later", vm.Events[1].Name)
	assert.Equal(t, "Evening", vm.Events[2].Name)
}

func TestMapToViewModel_Deterministic(t *testing.T) {
	w := models.Wedding{Slug: "s", BrideName: "A", Gallery: []string{"x"}}
	events := []models.Event{{ID: "1", EventDate: "2026-01-02"}, {ID: "2"}}
	assert.Equal(t, MapToViewModel(w, events), MapToViewModel(w, events))
}

func TestEventThemeFor_UnknownTypeUsesDefault(t *testing.T) {
	assert.Equal(t, defaultEventTheme, EventThemeFor("brunch"))
	assert.Equal(t, eventThemes["wedding"], EventThemeFor(" WEDDING "))
}
