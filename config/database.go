package config

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect names the database/sql driver backing the store.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// Rebind rewrites `?` placeholders to the dialect's bind variables.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
			b.WriteByte(ch)
		case ch == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// InitDB opens and pings the database.
func InitDB(driver Dialect, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == DialectSQLite {
		// A single connection keeps in-memory databases shared and avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}

	return db, nil
}

// RunMigrations creates the schema. Statements are idempotent and portable
// between Postgres and SQLite; ids are UUID strings generated by the API.
func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS weddings (
			id TEXT PRIMARY KEY,
			slug TEXT UNIQUE NOT NULL,
			bride_name TEXT NOT NULL DEFAULT '',
			groom_name TEXT NOT NULL DEFAULT '',
			wedding_date TEXT NOT NULL DEFAULT '',
			venue_name TEXT NOT NULL DEFAULT '',
			venue_address TEXT NOT NULL DEFAULT '',
			couple_photo TEXT NOT NULL DEFAULT '',
			bride_photo TEXT NOT NULL DEFAULT '',
			groom_photo TEXT NOT NULL DEFAULT '',
			about_couple TEXT NOT NULL DEFAULT '',
			about_bride TEXT NOT NULL DEFAULT '',
			about_groom TEXT NOT NULL DEFAULT '',
			story TEXT NOT NULL DEFAULT '[]',
			rsvp_contact TEXT NOT NULL DEFAULT '',
			template_id TEXT NOT NULL DEFAULT 'template001',
			show_hero BOOLEAN NOT NULL DEFAULT TRUE,
			show_about BOOLEAN NOT NULL DEFAULT TRUE,
			show_story BOOLEAN NOT NULL DEFAULT TRUE,
			show_gallery BOOLEAN NOT NULL DEFAULT TRUE,
			show_events BOOLEAN NOT NULL DEFAULT TRUE,
			show_families BOOLEAN NOT NULL DEFAULT TRUE,
			show_party BOOLEAN NOT NULL DEFAULT TRUE,
			show_chat BOOLEAN NOT NULL DEFAULT TRUE,
			primary_color TEXT NOT NULL DEFAULT '',
			secondary_color TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'draft',
			visibility TEXT NOT NULL DEFAULT 'public',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			password_hash TEXT,
			view_count INTEGER NOT NULL DEFAULT 0,
			gallery TEXT NOT NULL DEFAULT '[]',
			families TEXT NOT NULL DEFAULT '[]',
			party TEXT NOT NULL DEFAULT '[]',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			wedding_id TEXT NOT NULL REFERENCES weddings(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			event_date TEXT NOT NULL DEFAULT '',
			start_time TEXT NOT NULL DEFAULT '',
			end_time TEXT NOT NULL DEFAULT '',
			venue TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			primary_color TEXT NOT NULL DEFAULT '',
			secondary_color TEXT NOT NULL DEFAULT '',
			accent_color TEXT NOT NULL DEFAULT '',
			background_image TEXT NOT NULL DEFAULT '',
			event_type TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS guests (
			id TEXT PRIMARY KEY,
			wedding_id TEXT NOT NULL REFERENCES weddings(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			whatsapp TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			side TEXT NOT NULL DEFAULT 'mutual',
			relationship TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			profile_image TEXT NOT NULL DEFAULT '',
			smart_card_type TEXT NOT NULL DEFAULT '',
			dietary_preference TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT 'en',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS event_invitations (
			id TEXT PRIMARY KEY,
			guest_id TEXT NOT NULL REFERENCES guests(id) ON DELETE CASCADE,
			event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			invitation_status TEXT NOT NULL DEFAULT 'pending',
			rsvp_status TEXT,
			rsvp_date TIMESTAMP,
			plus_ones INTEGER NOT NULL DEFAULT 0,
			message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(guest_id, event_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_events_wedding_id ON events(wedding_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_date ON events(event_date)`,
		`CREATE INDEX IF NOT EXISTS idx_guests_wedding_id ON guests(wedding_id)`,
		`CREATE INDEX IF NOT EXISTS idx_event_invitations_guest_id ON event_invitations(guest_id)`,
		`CREATE INDEX IF NOT EXISTS idx_event_invitations_event_id ON event_invitations(event_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
