package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/LovationAdmin/wedding-api/config"
	"github.com/LovationAdmin/wedding-api/models"
	"github.com/LovationAdmin/wedding-api/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// IWeddingStore is the data access surface used by handlers and services.
type IWeddingStore interface {
	GetWeddingBySlug(ctx context.Context, slug string) (*models.Wedding, error)
	GetWeddingByID(ctx context.Context, id string) (*models.Wedding, error)
	ValidateGuestAccess(ctx context.Context, weddingID, guestID string) (*models.Guest, error)
	GetGuest(ctx context.Context, guestID string) (*models.Guest, error)
	GetGuestWithInvitations(ctx context.Context, guestID string) (*models.GuestWithInvitations, error)
	GetEventsByWedding(ctx context.Context, weddingID string) ([]models.Event, error)
	GetInvitation(ctx context.Context, invitationID string) (*models.EventInvitation, error)
	SaveRSVP(ctx context.Context, invitationID string, status models.RSVPStatus, plusOnes *int, message *string) (*models.EventInvitation, error)
	UpdateRSVP(ctx context.Context, invitationID string, status models.RSVPStatus, plusOnes *int, message *string) models.RSVPResult
	SaveGuestProfile(ctx context.Context, guestID string, fields models.GuestProfileUpdate) (*models.Guest, error)
	UpdateGuestProfile(ctx context.Context, guestID string, fields models.GuestProfileUpdate) models.ProfileResult
	IncrementViewCount(ctx context.Context, weddingID string) error
	MarkInvitationStatus(ctx context.Context, invitationID string, status models.InvitationStatus) error
	MarkGuestInvitationsViewed(ctx context.Context, guestID string) (int64, error)
}

var _ IWeddingStore = (*WeddingStore)(nil)

// WeddingStore runs raw SQL against Postgres or SQLite. Queries are written
// with `?` placeholders and rebound for the configured dialect.
type WeddingStore struct {
	db      *sql.DB
	dialect config.Dialect
	now     func() time.Time
}

func NewWeddingStore(db *sql.DB, dialect config.Dialect) *WeddingStore {
	return &WeddingStore{
		db:      db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *WeddingStore) q(query string) string {
	return s.dialect.Rebind(query)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ============================================================================
// WEDDINGS
// ============================================================================

const weddingColumns = `id, slug, bride_name, groom_name, wedding_date, venue_name, venue_address,
	couple_photo, bride_photo, groom_photo, about_couple, about_bride, about_groom, story,
	rsvp_contact, template_id, show_hero, show_about, show_story, show_gallery, show_events,
	show_families, show_party, show_chat, primary_color, secondary_color, status, visibility,
	is_active, password_hash, view_count, gallery, families, party, created_at, updated_at`

func scanWedding(row rowScanner) (*models.Wedding, error) {
	var (
		w                               models.Wedding
		story, gallery, families, party string
		passwordHash                    sql.NullString
	)
	err := row.Scan(
		&w.ID, &w.Slug, &w.BrideName, &w.GroomName, &w.WeddingDate, &w.VenueName, &w.VenueAddress,
		&w.CouplePhoto, &w.BridePhoto, &w.GroomPhoto, &w.AboutCouple, &w.AboutBride, &w.AboutGroom, &story,
		&w.RSVPContact, &w.TemplateID, &w.Sections.Hero, &w.Sections.About, &w.Sections.Story,
		&w.Sections.Gallery, &w.Sections.Events, &w.Sections.Families, &w.Sections.Party, &w.Sections.Chat,
		&w.PrimaryColor, &w.SecondaryColor, &w.Status, &w.Visibility,
		&w.IsActive, &passwordHash, &w.ViewCount, &gallery, &families, &party, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.PasswordHash = passwordHash.String

	decodeJSONColumn(w.ID, "story", story, &w.Story)
	decodeJSONColumn(w.ID, "gallery", gallery, &w.Gallery)
	decodeJSONColumn(w.ID, "families", families, &w.Families)
	decodeJSONColumn(w.ID, "party", party, &w.Party)
	return &w, nil
}

// GetWeddingBySlug returns ErrNotFound when no wedding owns the slug.
func (s *WeddingStore) GetWeddingBySlug(ctx context.Context, slug string) (*models.Wedding, error) {
	query := s.q(`SELECT ` + weddingColumns + ` FROM weddings WHERE slug = ?`)
	w, err := scanWedding(s.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		return nil, notFoundOr(err, "get wedding by slug")
	}
	return w, nil
}

func (s *WeddingStore) GetWeddingByID(ctx context.Context, id string) (*models.Wedding, error) {
	query := s.q(`SELECT ` + weddingColumns + ` FROM weddings WHERE id = ?`)
	w, err := scanWedding(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "get wedding by id")
	}
	return w, nil
}

// IncrementViewCount bumps the counter in a single statement so concurrent
// viewers never lose increments.
func (s *WeddingStore) IncrementViewCount(ctx context.Context, weddingID string) error {
	query := s.q(`UPDATE weddings SET view_count = view_count + 1 WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, weddingID)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return requireRow(res)
}

// CreateWedding inserts a wedding, generating its id and timestamps when unset.
func (s *WeddingStore) CreateWedding(ctx context.Context, w *models.Wedding) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	if w.TemplateID == "" {
		w.TemplateID = "template001"
	}
	if w.Status == "" {
		w.Status = models.WeddingStatusDraft
	}
	if w.Visibility == "" {
		w.Visibility = models.VisibilityPublic
	}
	if w.Sections == (models.SectionVisibility{}) {
		w.Sections = models.DefaultSections()
	}
	now := s.now()
	w.CreatedAt, w.UpdatedAt = now, now

	var passwordHash sql.NullString
	if w.PasswordHash != "" {
		passwordHash = sql.NullString{String: w.PasswordHash, Valid: true}
	}

	query := s.q(`INSERT INTO weddings (` + weddingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		w.ID, w.Slug, w.BrideName, w.GroomName, w.WeddingDate, w.VenueName, w.VenueAddress,
		w.CouplePhoto, w.BridePhoto, w.GroomPhoto, w.AboutCouple, w.AboutBride, w.AboutGroom, encodeJSON(w.Story),
		w.RSVPContact, w.TemplateID, w.Sections.Hero, w.Sections.About, w.Sections.Story,
		w.Sections.Gallery, w.Sections.Events, w.Sections.Families, w.Sections.Party, w.Sections.Chat,
		w.PrimaryColor, w.SecondaryColor, string(w.Status), string(w.Visibility),
		w.IsActive, passwordHash, w.ViewCount, encodeJSON(w.Gallery), encodeJSON(w.Families), encodeJSON(w.Party),
		w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return conflictOr(err, "create wedding")
	}
	return nil
}

// ============================================================================
// EVENTS
// ============================================================================

const eventColumns = `id, wedding_id, name, description, event_date, start_time, end_time, venue,
	address, icon, primary_color, secondary_color, accent_color, background_image, event_type, created_at`

func eventDest(e *models.Event) []any {
	return []any{
		&e.ID, &e.WeddingID, &e.Name, &e.Description, &e.EventDate, &e.StartTime, &e.EndTime, &e.Venue,
		&e.Address, &e.Icon, &e.PrimaryColor, &e.SecondaryColor, &e.AccentColor, &e.BackgroundImage,
		&e.EventType, &e.CreatedAt,
	}
}

// GetEventsByWedding lists a wedding's events by date then start time.
func (s *WeddingStore) GetEventsByWedding(ctx context.Context, weddingID string) ([]models.Event, error) {
	query := s.q(`SELECT ` + eventColumns + ` FROM events WHERE wedding_id = ? ORDER BY event_date, start_time`)
	rows, err := s.db.QueryContext(ctx, query, weddingID)
	if err != nil {
		return []models.Event{}, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(eventDest(&e)...); err != nil {
			return []models.Event{}, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return []models.Event{}, fmt.Errorf("list events: %w", err)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return EventBefore(events[i], events[j])
	})
	return events, nil
}

func (s *WeddingStore) CreateEvent(ctx context.Context, e *models.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = s.now()

	query := s.q(`INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.WeddingID, e.Name, e.Description, e.EventDate, e.StartTime, e.EndTime, e.Venue,
		e.Address, e.Icon, e.PrimaryColor, e.SecondaryColor, e.AccentColor, e.BackgroundImage,
		e.EventType, e.CreatedAt,
	)
	if err != nil {
		return conflictOr(err, "create event")
	}
	return nil
}

// ============================================================================
// GUESTS
// ============================================================================

const guestColumns = `id, wedding_id, name, first_name, last_name, whatsapp, email, address, side,
	relationship, title, profile_image, smart_card_type, dietary_preference, language, created_at, updated_at`

func scanGuest(row rowScanner) (*models.Guest, error) {
	var g models.Guest
	err := row.Scan(
		&g.ID, &g.WeddingID, &g.Name, &g.FirstName, &g.LastName, &g.WhatsApp, &g.Email, &g.Address, &g.Side,
		&g.Relationship, &g.Title, &g.ProfileImage, &g.SmartCardType, &g.DietaryPreference, &g.Language,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ValidateGuestAccess returns the guest only when it belongs to the wedding.
// A matching row is the proof of invitation.
func (s *WeddingStore) ValidateGuestAccess(ctx context.Context, weddingID, guestID string) (*models.Guest, error) {
	if weddingID == "" || guestID == "" {
		return nil, ErrNotFound
	}
	query := s.q(`SELECT ` + guestColumns + ` FROM guests WHERE id = ? AND wedding_id = ?`)
	g, err := scanGuest(s.db.QueryRowContext(ctx, query, guestID, weddingID))
	if err != nil {
		return nil, notFoundOr(err, "validate guest access")
	}
	return g, nil
}

func (s *WeddingStore) GetGuest(ctx context.Context, guestID string) (*models.Guest, error) {
	query := s.q(`SELECT ` + guestColumns + ` FROM guests WHERE id = ?`)
	g, err := scanGuest(s.db.QueryRowContext(ctx, query, guestID))
	if err != nil {
		return nil, notFoundOr(err, "get guest")
	}
	return g, nil
}

// GetGuestWithInvitations loads a guest and every invitation joined with its
// event, ordered by event date then start time.
func (s *WeddingStore) GetGuestWithInvitations(ctx context.Context, guestID string) (*models.GuestWithInvitations, error) {
	guest, err := s.GetGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}

	query := s.q(`
		SELECT ei.id, ei.guest_id, ei.event_id, ei.invitation_status, ei.rsvp_status, ei.rsvp_date,
		       ei.plus_ones, ei.message, ei.created_at, ei.updated_at,
		       e.id, e.wedding_id, e.name, e.description, e.event_date, e.start_time, e.end_time, e.venue,
		       e.address, e.icon, e.primary_color, e.secondary_color, e.accent_color, e.background_image,
		       e.event_type, e.created_at
		FROM event_invitations ei
		INNER JOIN events e ON e.id = ei.event_id
		WHERE ei.guest_id = ?
		ORDER BY e.event_date, e.start_time
	`)
	rows, err := s.db.QueryContext(ctx, query, guestID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	result := &models.GuestWithInvitations{Guest: *guest, Invitations: []models.InvitationWithEvent{}}
	for rows.Next() {
		var (
			inv        models.InvitationWithEvent
			rsvpStatus sql.NullString
			rsvpDate   sql.NullTime
		)
		dest := []any{
			&inv.ID, &inv.GuestID, &inv.EventID, &inv.InvitationStatus, &rsvpStatus, &rsvpDate,
			&inv.PlusOnes, &inv.Message, &inv.EventInvitation.CreatedAt, &inv.UpdatedAt,
		}
		dest = append(dest, eventDest(&inv.Event)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		inv.RSVPStatus = models.RSVPStatus(rsvpStatus.String)
		if rsvpDate.Valid {
			t := rsvpDate.Time
			inv.RSVPDate = &t
		}
		result.Invitations = append(result.Invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}

	sort.SliceStable(result.Invitations, func(i, j int) bool {
		return EventBefore(result.Invitations[i].Event, result.Invitations[j].Event)
	})
	return result, nil
}

// SaveGuestProfile applies the whitelisted profile fields and returns the
// updated guest. Name is rebuilt when first or last name changes.
func (s *WeddingStore) SaveGuestProfile(ctx context.Context, guestID string, fields models.GuestProfileUpdate) (*models.Guest, error) {
	guest, err := s.GetGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if fields.IsEmpty() {
		return guest, nil
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&guest.FirstName, fields.FirstName)
	apply(&guest.LastName, fields.LastName)
	apply(&guest.WhatsApp, fields.WhatsApp)
	apply(&guest.Email, fields.Email)
	apply(&guest.Address, fields.Address)
	apply(&guest.ProfileImage, fields.ProfileImage)
	apply(&guest.DietaryPreference, fields.DietaryPreference)
	apply(&guest.Language, fields.Language)
	if fields.FirstName != nil || fields.LastName != nil {
		if full := strings.TrimSpace(guest.FirstName + " " + guest.LastName); full != "" {
			guest.Name = full
		}
	}
	guest.UpdatedAt = s.now()

	query := s.q(`
		UPDATE guests
		SET name = ?, first_name = ?, last_name = ?, whatsapp = ?, email = ?, address = ?,
		    profile_image = ?, dietary_preference = ?, language = ?, updated_at = ?
		WHERE id = ?
	`)
	res, err := s.db.ExecContext(ctx, query,
		guest.Name, guest.FirstName, guest.LastName, guest.WhatsApp, guest.Email, guest.Address,
		guest.ProfileImage, guest.DietaryPreference, guest.Language, guest.UpdatedAt, guestID,
	)
	if err != nil {
		return nil, fmt.Errorf("update guest profile: %w", err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}
	return guest, nil
}

// UpdateGuestProfile is SaveGuestProfile reported as a tagged result.
func (s *WeddingStore) UpdateGuestProfile(ctx context.Context, guestID string, fields models.GuestProfileUpdate) models.ProfileResult {
	guest, err := s.SaveGuestProfile(ctx, guestID, fields)
	if err != nil {
		utils.Log.Warn("⚠️ guest profile update failed",
			zap.String("guest_id", utils.MaskID(guestID)), zap.Error(err))
		return models.ProfileResult{Success: false, Error: err.Error()}
	}
	return models.ProfileResult{Success: true, Data: guest}
}

func (s *WeddingStore) CreateGuest(ctx context.Context, g *models.Guest) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.Side == "" {
		g.Side = models.SideMutual
	}
	if g.Language == "" {
		g.Language = "en"
	}
	if g.Name == "" {
		g.Name = strings.TrimSpace(g.FirstName + " " + g.LastName)
	}
	now := s.now()
	g.CreatedAt, g.UpdatedAt = now, now

	query := s.q(`INSERT INTO guests (` + guestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		g.ID, g.WeddingID, g.Name, g.FirstName, g.LastName, g.WhatsApp, g.Email, g.Address, string(g.Side),
		g.Relationship, g.Title, g.ProfileImage, g.SmartCardType, g.DietaryPreference, g.Language,
		g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return conflictOr(err, "create guest")
	}
	return nil
}

// ============================================================================
// INVITATIONS
// ============================================================================

const invitationColumns = `id, guest_id, event_id, invitation_status, rsvp_status, rsvp_date,
	plus_ones, message, created_at, updated_at`

func scanInvitation(row rowScanner) (*models.EventInvitation, error) {
	var (
		inv        models.EventInvitation
		rsvpStatus sql.NullString
		rsvpDate   sql.NullTime
	)
	err := row.Scan(
		&inv.ID, &inv.GuestID, &inv.EventID, &inv.InvitationStatus, &rsvpStatus, &rsvpDate,
		&inv.PlusOnes, &inv.Message, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.RSVPStatus = models.RSVPStatus(rsvpStatus.String)
	if rsvpDate.Valid {
		t := rsvpDate.Time
		inv.RSVPDate = &t
	}
	return &inv, nil
}

func (s *WeddingStore) GetInvitation(ctx context.Context, invitationID string) (*models.EventInvitation, error) {
	query := s.q(`SELECT ` + invitationColumns + ` FROM event_invitations WHERE id = ?`)
	inv, err := scanInvitation(s.db.QueryRowContext(ctx, query, invitationID))
	if err != nil {
		return nil, notFoundOr(err, "get invitation")
	}
	return inv, nil
}

// SaveRSVP writes one RSVP answer in a single-row update. It stamps the rsvp
// date, marks the invitation responded and zeroes plus_ones for any answer
// other than yes. A nil plusOnes or message leaves the stored value as is.
func (s *WeddingStore) SaveRSVP(ctx context.Context, invitationID string, status models.RSVPStatus, plusOnes *int, message *string) (*models.EventInvitation, error) {
	if _, ok := models.ParseRSVPStatus(string(status)); !ok {
		return nil, ErrInvalidRSVPStatus
	}
	if plusOnes != nil && *plusOnes < 0 {
		return nil, ErrInvalidPlusOnes
	}

	now := s.now()
	sets := []string{"rsvp_status = ?", "rsvp_date = ?", "invitation_status = ?", "updated_at = ?"}
	args := []any{string(status), now, string(models.InvitationResponded), now}

	switch {
	case status != models.RSVPYes:
		sets = append(sets, "plus_ones = 0")
	case plusOnes != nil:
		sets = append(sets, "plus_ones = ?")
		args = append(args, *plusOnes)
	}
	if message != nil {
		sets = append(sets, "message = ?")
		args = append(args, strings.TrimSpace(*message))
	}
	args = append(args, invitationID)

	query := s.q(`UPDATE event_invitations SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update rsvp: %w", err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}
	return s.GetInvitation(ctx, invitationID)
}

// UpdateRSVP is SaveRSVP reported as a tagged result; failures are logged.
func (s *WeddingStore) UpdateRSVP(ctx context.Context, invitationID string, status models.RSVPStatus, plusOnes *int, message *string) models.RSVPResult {
	inv, err := s.SaveRSVP(ctx, invitationID, status, plusOnes, message)
	if err != nil {
		utils.Log.Warn("⚠️ rsvp update failed",
			zap.String("invitation_id", utils.MaskID(invitationID)), zap.Error(err))
		return models.RSVPResult{Success: false, Error: err.Error()}
	}
	return models.RSVPResult{Success: true, Data: inv}
}

// MarkInvitationStatus moves an invitation forward along
// pending → sent → viewed → responded. Lower statuses are ignored.
func (s *WeddingStore) MarkInvitationStatus(ctx context.Context, invitationID string, status models.InvitationStatus) error {
	current, err := s.GetInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	if status.Rank() <= current.InvitationStatus.Rank() {
		return nil
	}

	// Conditional on the status we read so a concurrent upgrade is never undone.
	query := s.q(`UPDATE event_invitations SET invitation_status = ?, updated_at = ? WHERE id = ? AND invitation_status = ?`)
	if _, err := s.db.ExecContext(ctx, query, string(status), s.now(), invitationID, string(current.InvitationStatus)); err != nil {
		return fmt.Errorf("mark invitation %s: %w", status, err)
	}
	return nil
}

// MarkGuestInvitationsViewed flags the guest's pending and sent invitations
// as viewed, returning how many rows changed.
func (s *WeddingStore) MarkGuestInvitationsViewed(ctx context.Context, guestID string) (int64, error) {
	query := s.q(`
		UPDATE event_invitations SET invitation_status = ?, updated_at = ?
		WHERE guest_id = ? AND invitation_status IN (?, ?)
	`)
	res, err := s.db.ExecContext(ctx, query,
		string(models.InvitationViewed), s.now(), guestID,
		string(models.InvitationPending), string(models.InvitationSent),
	)
	if err != nil {
		return 0, fmt.Errorf("mark invitations viewed: %w", err)
	}
	return res.RowsAffected()
}

// CreateInvitation links a guest to an event. Each pair is unique.
func (s *WeddingStore) CreateInvitation(ctx context.Context, guestID, eventID string) (*models.EventInvitation, error) {
	now := s.now()
	inv := &models.EventInvitation{
		ID:               uuid.New().String(),
		GuestID:          guestID,
		EventID:          eventID,
		InvitationStatus: models.InvitationPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	query := s.q(`INSERT INTO event_invitations (id, guest_id, event_id, invitation_status, plus_ones, message, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, '', ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, inv.ID, inv.GuestID, inv.EventID, string(inv.InvitationStatus), now, now); err != nil {
		return nil, conflictOr(err, "create invitation")
	}
	return inv, nil
}

// ============================================================================
// HELPERS
// ============================================================================

func notFoundOr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func conflictOr(err error, op string) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func encodeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}

// decodeJSONColumn leaves dst untouched when the column holds invalid JSON.
func decodeJSONColumn(weddingID, column, raw string, dst any) {
	if raw == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		utils.Log.Warn("⚠️ invalid JSON column",
			zap.String("wedding_id", utils.MaskID(weddingID)),
			zap.String("column", column),
			zap.Error(err))
	}
}
