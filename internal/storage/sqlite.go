// Package storage provides the SQLite implementation of the store
// interfaces, including the FTS5 full-text index when available.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meublerie/trouve/internal/models"
	"github.com/meublerie/trouve/pkg/utils"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	hasFTS bool
	dbPath string
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and
// initializes the schema. Parent directories are created if they do not
// exist. The FTS5 index is probed at startup: when the SQLite build lacks
// FTS5 the store silently falls back to substring retrieval.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &SQLiteStore{db: db, dbPath: dbPath}
	s.hasFTS = initFullText(db) == nil
	return s, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS furniture (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS furniture_categories (
		furniture_id INTEGER NOT NULL REFERENCES furniture(id) ON DELETE CASCADE,
		category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		PRIMARY KEY (furniture_id, category_id)
	);

	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS furniture_tags (
		furniture_id INTEGER NOT NULL REFERENCES furniture(id) ON DELETE CASCADE,
		tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (furniture_id, tag_id)
	);

	CREATE TABLE IF NOT EXISTS synonyms (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		canonical TEXT NOT NULL,
		synonym TEXT NOT NULL,
		weight REAL NOT NULL DEFAULT 0.9,
		language TEXT NOT NULL DEFAULT 'en',
		category_hint TEXT NOT NULL DEFAULT '',
		usage_count INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_synonyms_active_synonym
		ON synonyms(synonym) WHERE active = 1;
	CREATE INDEX IF NOT EXISTS idx_synonyms_canonical ON synonyms(canonical);

	CREATE TABLE IF NOT EXISTS search_analytics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		query_normalized TEXT NOT NULL,
		results_count INTEGER NOT NULL,
		expanded_terms TEXT NOT NULL DEFAULT '[]',
		execution_time_ms INTEGER NOT NULL DEFAULT 0,
		user_id INTEGER,
		session_id TEXT NOT NULL DEFAULT '',
		ip_hash TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_analytics_normalized ON search_analytics(query_normalized);
	CREATE INDEX IF NOT EXISTS idx_analytics_created_at ON search_analytics(created_at);
	CREATE INDEX IF NOT EXISTS idx_analytics_session ON search_analytics(session_id, created_at);

	CREATE TABLE IF NOT EXISTS search_aggregates (
		date TEXT NOT NULL,
		query_normalized TEXT NOT NULL,
		search_count INTEGER NOT NULL DEFAULT 0,
		total_results INTEGER NOT NULL DEFAULT 0,
		avg_results REAL NOT NULL DEFAULT 0,
		zero_result_count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (date, query_normalized)
	);
	`
	_, err := db.Exec(schema)
	return err
}

// initFullText creates the FTS5 index and its sync triggers. An error means
// this SQLite build has no FTS5; the caller records that and falls back.
func initFullText(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE VIRTUAL TABLE IF NOT EXISTS furniture_fts USING fts5(
		name, description,
		content='furniture', content_rowid='id'
	);

	CREATE TRIGGER IF NOT EXISTS furniture_fts_insert AFTER INSERT ON furniture BEGIN
		INSERT INTO furniture_fts(rowid, name, description)
		VALUES (new.id, new.name, new.description);
	END;

	CREATE TRIGGER IF NOT EXISTS furniture_fts_delete AFTER DELETE ON furniture BEGIN
		INSERT INTO furniture_fts(furniture_fts, rowid, name, description)
		VALUES ('delete', old.id, old.name, old.description);
	END;

	CREATE TRIGGER IF NOT EXISTS furniture_fts_update AFTER UPDATE ON furniture BEGIN
		INSERT INTO furniture_fts(furniture_fts, rowid, name, description)
		VALUES ('delete', old.id, old.name, old.description);
		INSERT INTO furniture_fts(rowid, name, description)
		VALUES (new.id, new.name, new.description);
	END;
	`)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DatabasePath returns the path of the backing database file.
func (s *SQLiteStore) DatabasePath() string {
	return s.dbPath
}

// HasFullText reports whether the FTS5 index is available.
func (s *SQLiteStore) HasFullText(_ context.Context) bool {
	return s.hasFTS
}

// relevanceTier orders results: name prefix match first, name substring
// next, category-name match next, everything else last.
const relevanceTier = `
	CASE
		WHEN LOWER(f.name) LIKE ? ESCAPE '\' THEN 0
		WHEN LOWER(f.name) LIKE ? ESCAPE '\' THEN 1
		WHEN EXISTS (
			SELECT 1 FROM furniture_categories fc
			JOIN categories c ON c.id = fc.category_id
			WHERE fc.furniture_id = f.id AND LOWER(c.name) LIKE ? ESCAPE '\'
		) THEN 2
		ELSE 3
	END`

// FindByFullText runs FTS5 retrieval with per-term OR combination.
func (s *SQLiteStore) FindByFullText(ctx context.Context, query string, terms []string, page Page) ([]*models.FurnitureItem, int, error) {
	match := buildMatchExpression(terms)
	if match == "" {
		return []*models.FurnitureItem{}, 0, nil
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM furniture_fts WHERE furniture_fts MATCH ?`, match,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("fulltext count failed: %w", err)
	}

	prefix := likePattern(query) + "%"
	sub := "%" + likePattern(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.name, f.slug, f.description, f.image_url, f.created_at, f.updated_at
		FROM furniture f
		JOIN furniture_fts fts ON fts.rowid = f.id
		WHERE furniture_fts MATCH ?
		ORDER BY `+relevanceTier+`, bm25(furniture_fts), f.name COLLATE NOCASE
		LIMIT ? OFFSET ?`,
		match, prefix, sub, sub, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("fulltext query failed: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindBySubstring is the LIKE fallback across name, description, category
// and tag fields, with the same contract as FindByFullText.
func (s *SQLiteStore) FindBySubstring(ctx context.Context, query string, terms []string, page Page) ([]*models.FurnitureItem, int, error) {
	if len(terms) == 0 {
		return []*models.FurnitureItem{}, 0, nil
	}

	var conds []string
	var args []interface{}
	for _, term := range terms {
		p := "%" + likePattern(term) + "%"
		conds = append(conds, `(LOWER(f.name) LIKE ? ESCAPE '\' OR LOWER(f.description) LIKE ? ESCAPE '\'
			OR EXISTS (SELECT 1 FROM furniture_categories fc JOIN categories c ON c.id = fc.category_id
				WHERE fc.furniture_id = f.id AND LOWER(c.name) LIKE ? ESCAPE '\')
			OR EXISTS (SELECT 1 FROM furniture_tags ft JOIN tags t ON t.id = ft.tag_id
				WHERE ft.furniture_id = f.id AND LOWER(t.name) LIKE ? ESCAPE '\'))`)
		args = append(args, p, p, p, p)
	}
	where := strings.Join(conds, " OR ")

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM furniture f WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("substring count failed: %w", err)
	}

	prefix := likePattern(query) + "%"
	sub := "%" + likePattern(query) + "%"
	queryArgs := append([]interface{}{}, args...)
	queryArgs = append(queryArgs, prefix, sub, sub, page.Limit, page.Offset)
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.name, f.slug, f.description, f.image_url, f.created_at, f.updated_at
		FROM furniture f
		WHERE `+where+`
		ORDER BY `+relevanceTier+`, f.name COLLATE NOCASE
		LIMIT ? OFFSET ?`,
		queryArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("substring query failed: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// AttachCategories hydrates Categories for each item in place.
func (s *SQLiteStore) AttachCategories(ctx context.Context, items []*models.FurnitureItem) error {
	if len(items) == 0 {
		return nil
	}
	byID, placeholders, ids := indexItems(items)

	rows, err := s.db.QueryContext(ctx, `
		SELECT fc.furniture_id, c.id, c.name, c.slug
		FROM furniture_categories fc
		JOIN categories c ON c.id = fc.category_id
		WHERE fc.furniture_id IN (`+placeholders+`)
		ORDER BY c.name`, ids...,
	)
	if err != nil {
		return fmt.Errorf("attach categories failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID int64
		var cat models.Category
		if err := rows.Scan(&itemID, &cat.ID, &cat.Name, &cat.Slug); err != nil {
			return err
		}
		if item, ok := byID[itemID]; ok {
			item.Categories = append(item.Categories, cat)
		}
	}
	return rows.Err()
}

// AttachTags hydrates Tags for each item in place.
func (s *SQLiteStore) AttachTags(ctx context.Context, items []*models.FurnitureItem) error {
	if len(items) == 0 {
		return nil
	}
	byID, placeholders, ids := indexItems(items)

	rows, err := s.db.QueryContext(ctx, `
		SELECT ft.furniture_id, t.id, t.name, t.slug
		FROM furniture_tags ft
		JOIN tags t ON t.id = ft.tag_id
		WHERE ft.furniture_id IN (`+placeholders+`)
		ORDER BY t.name`, ids...,
	)
	if err != nil {
		return fmt.Errorf("attach tags failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID int64
		var tag models.Tag
		if err := rows.Scan(&itemID, &tag.ID, &tag.Name, &tag.Slug); err != nil {
			return err
		}
		if item, ok := byID[itemID]; ok {
			item.Tags = append(item.Tags, tag)
		}
	}
	return rows.Err()
}

// CategoryVocabulary returns every category with the tags used on its items.
func (s *SQLiteStore) CategoryVocabulary(ctx context.Context) ([]models.CategoryVocabulary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories failed: %w", err)
	}
	defer rows.Close()

	var vocab []models.CategoryVocabulary
	for rows.Next() {
		var cv models.CategoryVocabulary
		if err := rows.Scan(&cv.Category.ID, &cv.Category.Name, &cv.Category.Slug); err != nil {
			return nil, err
		}
		vocab = append(vocab, cv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range vocab {
		tagRows, err := s.db.QueryContext(ctx, `
			SELECT DISTINCT t.id, t.name, t.slug
			FROM tags t
			JOIN furniture_tags ft ON ft.tag_id = t.id
			JOIN furniture_categories fc ON fc.furniture_id = ft.furniture_id
			WHERE fc.category_id = ?
			ORDER BY t.name`, vocab[i].Category.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("list category tags failed: %w", err)
		}
		for tagRows.Next() {
			var tag models.Tag
			if err := tagRows.Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
				_ = tagRows.Close()
				return nil, err
			}
			vocab[i].Tags = append(vocab[i].Tags, tag)
		}
		if err := tagRows.Err(); err != nil {
			_ = tagRows.Close()
			return nil, err
		}
		_ = tagRows.Close()
	}
	return vocab, nil
}

// SearchVocabulary returns the distinct lowercase words from item names,
// category names, tag names and active synonym terms.
func (s *SQLiteStore) SearchVocabulary(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM furniture
		UNION SELECT name FROM categories
		UNION SELECT name FROM tags
		UNION SELECT canonical FROM synonyms WHERE active = 1
		UNION SELECT synonym FROM synonyms WHERE active = 1`)
	if err != nil {
		return nil, fmt.Errorf("vocabulary query failed: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	var vocab []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		for _, word := range strings.Fields(strings.ToLower(name)) {
			if len(word) < 3 {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			vocab = append(vocab, word)
		}
	}
	return vocab, rows.Err()
}

// CreateItem inserts a furniture item with its categories and tags,
// creating missing categories/tags by slug.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.FurnitureItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Slug == "" {
		item.Slug = utils.Slugify(item.Name)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO furniture (name, slug, description, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.Name, item.Slug, item.Description, item.ImageURL, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert furniture failed: %w", err)
	}
	item.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	for i, cat := range item.Categories {
		slug := cat.Slug
		if slug == "" {
			slug = utils.Slugify(cat.Name)
		}
		id, err := upsertNamed(ctx, tx, "categories", cat.Name, slug)
		if err != nil {
			return err
		}
		item.Categories[i].ID = id
		item.Categories[i].Slug = slug
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO furniture_categories (furniture_id, category_id) VALUES (?, ?)`,
			item.ID, id,
		); err != nil {
			return err
		}
	}
	for i, tag := range item.Tags {
		slug := tag.Slug
		if slug == "" {
			slug = utils.Slugify(tag.Name)
		}
		id, err := upsertNamed(ctx, tx, "tags", tag.Name, slug)
		if err != nil {
			return err
		}
		item.Tags[i].ID = id
		item.Tags[i].Slug = slug
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO furniture_tags (furniture_id, tag_id) VALUES (?, ?)`,
			item.ID, id,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func upsertNamed(ctx context.Context, tx *sql.Tx, table, name, slug string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM `+table+` WHERE slug = ?`, slug,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO `+table+` (name, slug) VALUES (?, ?)`, name, slug,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func scanItems(rows *sql.Rows) ([]*models.FurnitureItem, error) {
	items := []*models.FurnitureItem{}
	for rows.Next() {
		var item models.FurnitureItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Slug, &item.Description,
			&item.ImageURL, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func indexItems(items []*models.FurnitureItem) (map[int64]*models.FurnitureItem, string, []interface{}) {
	byID := make(map[int64]*models.FurnitureItem, len(items))
	placeholders := make([]string, len(items))
	ids := make([]interface{}, len(items))
	for i, item := range items {
		byID[item.ID] = item
		placeholders[i] = "?"
		ids[i] = item.ID
	}
	return byID, strings.Join(placeholders, ","), ids
}

// buildMatchExpression OR-combines terms into one FTS5 MATCH expression.
// Terms are quoted so punctuation cannot change the query structure.
func buildMatchExpression(terms []string) string {
	var parts []string
	for _, term := range terms {
		term = strings.TrimSpace(strings.ReplaceAll(term, `"`, ``))
		if term == "" {
			continue
		}
		parts = append(parts, `"`+term+`"`)
	}
	return strings.Join(parts, " OR ")
}

// likePattern lowers a term and escapes LIKE wildcards so a literal % or _
// in a query matches itself. Every LIKE clause carries ESCAPE '\'.
func likePattern(term string) string {
	term = strings.ToLower(term)
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, "%", `\%`)
	term = strings.ReplaceAll(term, "_", `\_`)
	return term
}

var _ Store = (*SQLiteStore)(nil)
