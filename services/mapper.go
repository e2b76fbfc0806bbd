package services

import (
	"sort"
	"strings"

	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/templates"
)

// ============================================================================
// DEFAULTS
// ============================================================================

const (
	DefaultCoupleImage = "/static/images/default-couple.jpg"
	DefaultBrideImage  = "/static/images/default-bride.jpg"
	DefaultGroomImage  = "/static/images/default-groom.jpg"
	DefaultEventImage  = "/static/images/default-event.jpg"
	DefaultAvatarImage = "/static/images/default-avatar.jpg"

	DefaultPrimaryColor   = "#8B1E3F"
	DefaultSecondaryColor = "#F5E6CC"
)

type EventTheme struct {
	Icon           string
	PrimaryColor   string
	SecondaryColor string
	AccentColor    string
}

var eventThemes = map[string]EventTheme{
	"mehendi":   {Icon: "🌿", PrimaryColor: "#2E7D32", SecondaryColor: "#E8F5E9", AccentColor: "#A5D6A7"},
	"haldi":     {Icon: "🌼", PrimaryColor: "#F9A825", SecondaryColor: "#FFFDE7", AccentColor: "#FFE082"},
	"sangeet":   {Icon: "🎶", PrimaryColor: "#6A1B9A", SecondaryColor: "#F3E5F5", AccentColor: "#CE93D8"},
	"wedding":   {Icon: "💍", PrimaryColor: "#B71C1C", SecondaryColor: "#FFEBEE", AccentColor: "#FFD700"},
	"reception": {Icon: "🥂", PrimaryColor: "#1A237E", SecondaryColor: "#E8EAF6", AccentColor: "#C5CAE9"},
}

var defaultEventTheme = EventTheme{Icon: "✨", PrimaryColor: DefaultPrimaryColor, SecondaryColor: DefaultSecondaryColor, AccentColor: "#D4AF37"}

// EventThemeFor returns the theme of an event type, case-insensitively.
func EventThemeFor(eventType string) EventTheme {
	if theme, ok := eventThemes[strings.ToLower(strings.TrimSpace(eventType))]; ok {
		return theme
	}
	return defaultEventTheme
}

// ============================================================================
// MAPPER
// ============================================================================

// MapToViewModel builds the template view model. It performs no I/O, never
// returns nil slices and fills every optional field with a placeholder.
func MapToViewModel(w models.Wedding, events []models.Event) models.ViewModel {
	sorted := make([]models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return EventBefore(sorted[i], sorted[j])
	})

	weddingDate := w.WeddingDate
	if weddingDate == "" && len(sorted) > 0 {
		weddingDate = sorted[0].EventDate
	}

	return models.ViewModel{
		Slug:     w.Slug,
		Template: templates.NormalizeKey(w.TemplateID),
		Theme: models.ThemeView{
			PrimaryColor:   orDefault(w.PrimaryColor, DefaultPrimaryColor),
			SecondaryColor: orDefault(w.SecondaryColor, DefaultSecondaryColor),
		},
		Sections: w.Sections,
		Hero: models.HeroView{
			BrideName:    w.BrideName,
			GroomName:    w.GroomName,
			CoupleNames:  w.CoupleNames(),
			WeddingDate:  weddingDate,
			VenueName:    w.VenueName,
			VenueAddress: w.VenueAddress,
			Image:        orDefault(w.CouplePhoto, DefaultCoupleImage),
		},
		About: models.AboutView{
			Couple:     w.AboutCouple,
			Bride:      w.AboutBride,
			Groom:      w.AboutGroom,
			BridePhoto: orDefault(w.BridePhoto, DefaultBrideImage),
			GroomPhoto: orDefault(w.GroomPhoto, DefaultGroomImage),
		},
		Story:        mapStory(w.Story),
		Family:       mapFamilies(w.Families),
		Gallery:      mapGallery(w.Gallery),
		WeddingParty: mapParty(w.Party),
		Events:       mapEvents(sorted),
		RSVPContact:  w.RSVPContact,
	}
}

// MapEvent renders one event with its type theme applied to missing fields.
func MapEvent(e models.Event) models.EventView {
	theme := EventThemeFor(e.EventType)
	return models.EventView{
		ID:              e.ID,
		Name:            e.Name,
		Description:     e.Description,
		Date:            e.EventDate,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		Venue:           e.Venue,
		Address:         e.Address,
		Icon:            orDefault(e.Icon, theme.Icon),
		PrimaryColor:    orDefault(e.PrimaryColor, theme.PrimaryColor),
		SecondaryColor:  orDefault(e.SecondaryColor, theme.SecondaryColor),
		AccentColor:     orDefault(e.AccentColor, theme.AccentColor),
		BackgroundImage: orDefault(e.BackgroundImage, DefaultEventImage),
		EventType:       strings.ToLower(e.EventType),
	}
}

func mapEvents(events []models.Event) []models.EventView {
	out := make([]models.EventView, 0, len(events))
	for _, e := range events {
		out = append(out, MapEvent(e))
	}
	return out
}

func mapStory(items []models.StoryItem) []models.StoryItem {
	out := make([]models.StoryItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Title) == "" && strings.TrimSpace(item.Description) == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func mapGallery(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}

// Members without a side are listed with the bride's family.
func mapFamilies(members []models.FamilyMember) models.FamilyView {
	view := models.FamilyView{Bride: []models.FamilyMember{}, Groom: []models.FamilyMember{}}
	for _, m := range members {
		if strings.TrimSpace(m.Name) == "" {
			continue
		}
		m.Photo = orDefault(m.Photo, DefaultAvatarImage)
		if strings.EqualFold(m.Side, string(models.SideGroom)) {
			view.Groom = append(view.Groom, m)
		} else {
			view.Bride = append(view.Bride, m)
		}
	}
	return view
}

func mapParty(members []models.PartyMember) []models.PartyMember {
	out := make([]models.PartyMember, 0, len(members))
	for _, m := range members {
		if strings.TrimSpace(m.Name) == "" {
			continue
		}
		m.Photo = orDefault(m.Photo, DefaultAvatarImage)
		out = append(out, m)
	}
	return out
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
