package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meublerie/trouve/internal/models"
)

// ListActiveSynonyms returns active synonym entries visible under locale.
// English locale sees only English rows; French locale sees both languages.
func (s *SQLiteStore) ListActiveSynonyms(ctx context.Context, locale string) ([]models.SynonymEntry, error) {
	q := `SELECT id, canonical, synonym, weight, language, category_hint, usage_count, active, created_at
	      FROM synonyms WHERE active = 1`
	if locale != models.LangFR {
		q += ` AND language = 'en'`
	}
	q += ` ORDER BY canonical, synonym`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list synonyms failed: %w", err)
	}
	defer rows.Close()

	var entries []models.SynonymEntry
	for rows.Next() {
		var e models.SynonymEntry
		if err := rows.Scan(&e.ID, &e.Canonical, &e.Synonym, &e.Weight, &e.Language,
			&e.CategoryHint, &e.UsageCount, &e.Active, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// IncrementUsage bumps the usage counter of an active synonym. Best-effort:
// an unknown synonym is not an error.
func (s *SQLiteStore) IncrementUsage(ctx context.Context, synonym string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE synonyms SET usage_count = usage_count + 1 WHERE synonym = ? AND active = 1`,
		strings.ToLower(strings.TrimSpace(synonym)),
	)
	return err
}

// CreateSynonym inserts a new synonym entry and returns its id.
func (s *SQLiteStore) CreateSynonym(ctx context.Context, entry *models.SynonymEntry) (int64, error) {
	entry.Canonical = strings.ToLower(strings.TrimSpace(entry.Canonical))
	entry.Synonym = strings.ToLower(strings.TrimSpace(entry.Synonym))
	if entry.Canonical == "" || entry.Synonym == "" {
		return 0, fmt.Errorf("canonical and synonym are required")
	}
	if entry.Weight <= 0 || entry.Weight > 1 {
		entry.Weight = 0.9
	}
	if entry.Language == "" {
		entry.Language = models.LangEN
	}
	entry.Active = true
	entry.CreatedAt = time.Now()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO synonyms (canonical, synonym, weight, language, category_hint, active, created_at)
		 VALUES (?, ?, ?, ?, ?, 1, ?)`,
		entry.Canonical, entry.Synonym, entry.Weight, entry.Language, entry.CategoryHint, entry.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("create synonym failed: %w", err)
	}
	entry.ID, err = res.LastInsertId()
	return entry.ID, err
}

// UpdateSynonym updates an existing entry's mutable fields.
func (s *SQLiteStore) UpdateSynonym(ctx context.Context, entry *models.SynonymEntry) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE synonyms SET canonical = ?, synonym = ?, weight = ?, language = ?, category_hint = ?, active = ?
		 WHERE id = ?`,
		strings.ToLower(strings.TrimSpace(entry.Canonical)),
		strings.ToLower(strings.TrimSpace(entry.Synonym)),
		entry.Weight, entry.Language, entry.CategoryHint, entry.Active, entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update synonym failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("synonym not found: %d", entry.ID)
	}
	return nil
}

// DeleteSynonym soft-deletes an entry by marking it inactive.
func (s *SQLiteStore) DeleteSynonym(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE synonyms SET active = 0 WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("delete synonym failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("synonym not found: %d", id)
	}
	return nil
}
