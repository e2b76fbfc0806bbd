// Package migration rewrites stored wedding rows into their canonical form:
// template ids become registry keys ("2", "floral", "template-2" all become
// "template002") and empty JSON list columns become "[]".
//
// USAGE:
//
//	guestctl migrate            # every wedding
//	guestctl migrate --slug x   # a single wedding
package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/LovationAdmin/wedding-api/config"
	"github.com/LovationAdmin/wedding-api/templates"
	"github.com/LovationAdmin/wedding-api/utils"
)

var ErrWeddingNotFound = errors.New("wedding not found")

var jsonListColumns = []string{"story", "gallery", "families", "party"}

// WeddingRecord is the subset of a weddings row the migration touches.
type WeddingRecord struct {
	ID         string
	Slug       string
	TemplateID string
	Lists      map[string]string // column -> raw JSON
}

// Result counts what a run did.
type Result struct {
	Migrated int
	Skipped  int
	Errors   int
}

// MigrateWeddingData returns the canonical form of rec and whether anything
// changed. Invalid JSON is reported, never overwritten.
func MigrateWeddingData(rec WeddingRecord) (WeddingRecord, bool, error) {
	out := WeddingRecord{ID: rec.ID, Slug: rec.Slug, Lists: make(map[string]string, len(rec.Lists))}
	changed := false

	out.TemplateID = templates.NormalizeKey(rec.TemplateID)
	if out.TemplateID != rec.TemplateID {
		changed = true
	}

	for column, raw := range rec.Lists {
		normalized, err := normalizeJSONList(raw)
		if err != nil {
			return rec, false, fmt.Errorf("%s: %w", column, err)
		}
		out.Lists[column] = normalized
		if normalized != raw {
			changed = true
		}
	}
	return out, changed, nil
}

func normalizeJSONList(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return "[]", nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return raw, fmt.Errorf("not a JSON list: %w", err)
	}
	if items == nil {
		return "[]", nil
	}
	return raw, nil
}

// MigrateAllWeddings normalizes every wedding. Each row is written in its own
// transaction so one bad row does not block the others.
func MigrateAllWeddings(ctx context.Context, db *sql.DB, dialect config.Dialect) (Result, error) {
	utils.SLog.Info("🚀 Starting wedding data migration...")

	records, err := loadRecords(ctx, db, dialect, "")
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, rec := range records {
		migrated, err := migrateRecord(ctx, db, dialect, rec)
		switch {
		case err != nil:
			utils.SLog.Warnf("  ❌ %s: %v", rec.Slug, err)
			res.Errors++
		case migrated:
			utils.SLog.Infof("  ✅ %s migrated", rec.Slug)
			res.Migrated++
		default:
			res.Skipped++
		}
	}

	utils.SLog.Infof("📊 Result: %d migrated, %d skipped, %d errors", res.Migrated, res.Skipped, res.Errors)
	return res, nil
}

// MigrateSingleWedding normalizes one wedding by slug.
func MigrateSingleWedding(ctx context.Context, db *sql.DB, dialect config.Dialect, slug string) (bool, error) {
	records, err := loadRecords(ctx, db, dialect, slug)
	if err != nil {
		return false, err
	}
	if len(records) == 0 {
		return false, fmt.Errorf("%w: %s", ErrWeddingNotFound, slug)
	}
	return migrateRecord(ctx, db, dialect, records[0])
}

// loadRecords reads all rows up front; the SQLite pool has one connection so
// updates can not run while the cursor is open.
func loadRecords(ctx context.Context, db *sql.DB, dialect config.Dialect, slug string) ([]WeddingRecord, error) {
	query := `SELECT id, slug, template_id, story, gallery, families, party FROM weddings`
	var args []any
	if slug != "" {
		query += ` WHERE slug = ?`
		args = append(args, slug)
	}
	query += ` ORDER BY created_at`

	rows, err := db.QueryContext(ctx, dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query weddings: %w", err)
	}
	defer rows.Close()

	var records []WeddingRecord
	for rows.Next() {
		var (
			rec                             WeddingRecord
			story, gallery, families, party string
		)
		if err := rows.Scan(&rec.ID, &rec.Slug, &rec.TemplateID, &story, &gallery, &families, &party); err != nil {
			return nil, fmt.Errorf("scan wedding: %w", err)
		}
		rec.Lists = map[string]string{"story": story, "gallery": gallery, "families": families, "party": party}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func migrateRecord(ctx context.Context, db *sql.DB, dialect config.Dialect, rec WeddingRecord) (bool, error) {
	out, changed, err := MigrateWeddingData(rec)
	if err != nil || !changed {
		return false, err
	}

	set := []string{"template_id = ?"}
	args := []any{out.TemplateID}
	for _, column := range jsonListColumns {
		if raw, ok := out.Lists[column]; ok {
			set = append(set, column+" = ?")
			args = append(args, raw)
		}
	}
	args = append(args, out.ID, rec.TemplateID)

	// The template_id guard skips rows edited since they were read.
	query := dialect.Rebind(`UPDATE weddings SET ` + strings.Join(set, ", ") + ` WHERE id = ? AND template_id = ?`)

	updated := false
	err = utils.WithTransaction(db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to update wedding: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		updated = n > 0
		return nil
	})
	return updated, err
}
