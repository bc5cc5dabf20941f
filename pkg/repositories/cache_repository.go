package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mspcompass/compass-engine/pkg/database"
	"github.com/mspcompass/compass-engine/pkg/models"
)

// CacheRepository defines the interface for generated-content cache access.
// Every method takes the cache type, which selects the underlying table.
type CacheRepository interface {
	Upsert(ctx context.Context, cacheType models.CacheType, entry *models.CacheEntry) error
	GetByVersion(ctx context.Context, cacheType models.CacheType, version, language string) ([]models.CacheEntry, error)
	GetEntry(ctx context.Context, cacheType models.CacheType, version, itemID, language string) (*models.CacheEntry, error)
	ListVersions(ctx context.Context, cacheType models.CacheType) ([]models.CacheVersionInfo, error)
	// DeleteVersion removes all entries of a version, returning the
	// affected row count. An absent version yields zero, not an error.
	DeleteVersion(ctx context.Context, cacheType models.CacheType, version string) (int64, error)
	GetActiveVersion(ctx context.Context, cacheType models.CacheType, language string) (*models.ActiveCacheVersion, error)
	SetActiveVersion(ctx context.Context, cacheType models.CacheType, version, language string) error
	// ClearActiveVersion drops any pointer referencing the given version.
	ClearActiveVersion(ctx context.Context, cacheType models.CacheType, version string) error
	ListAll(ctx context.Context, cacheType models.CacheType) ([]models.CacheEntry, error)
	DeleteAll(ctx context.Context, cacheType models.CacheType) (int64, error)
}

// cacheRepository implements CacheRepository using PostgreSQL.
type cacheRepository struct {
	db *database.DB
}

// NewCacheRepository creates a new cache repository.
func NewCacheRepository(db *database.DB) CacheRepository {
	return &cacheRepository{db: db}
}

var _ CacheRepository = (*cacheRepository)(nil)

// cacheTables maps cache types to their tables. Table names are never
// interpolated from caller input directly.
var cacheTables = map[models.CacheType]string{
	models.CacheTypeAdvice:   "advice_cache",
	models.CacheTypeEvidence: "evidence_cache",
}

func cacheTable(cacheType models.CacheType) (string, error) {
	table, ok := cacheTables[cacheType]
	if !ok {
		return "", fmt.Errorf("unknown cache type %q", cacheType)
	}
	return table, nil
}

const cacheColumns = `version, item_id, category, title, content, language, created_at`

func scanCacheEntry(row pgx.Row) (*models.CacheEntry, error) {
	var e models.CacheEntry
	err := row.Scan(&e.Version, &e.ItemID, &e.Category, &e.Title, &e.Content,
		&e.Language, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectCacheEntries(rows pgx.Rows) ([]models.CacheEntry, error) {
	var entries []models.CacheEntry
	for rows.Next() {
		e, err := scanCacheEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *cacheRepository) Upsert(ctx context.Context, cacheType models.CacheType, entry *models.CacheEntry) error {
	table, err := cacheTable(cacheType)
	if err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err = r.db.Conn(ctx).Exec(ctx, `
		INSERT INTO `+table+` (`+cacheColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (version, item_id, language) DO UPDATE SET
			category = EXCLUDED.category,
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			created_at = EXCLUDED.created_at`,
		entry.Version, entry.ItemID, entry.Category, entry.Title,
		entry.Content, entry.Language, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

func (r *cacheRepository) GetByVersion(ctx context.Context, cacheType models.CacheType, version, language string) ([]models.CacheEntry, error) {
	table, err := cacheTable(cacheType)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + cacheColumns + ` FROM ` + table + ` WHERE version = $1`
	args := []any{version}
	if language != "" {
		query += ` AND language = $2`
		args = append(args, language)
	}
	query += ` ORDER BY item_id`

	rows, err := r.db.Conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entries: %w", err)
	}
	defer rows.Close()
	return collectCacheEntries(rows)
}

func (r *cacheRepository) GetEntry(ctx context.Context, cacheType models.CacheType, version, itemID, language string) (*models.CacheEntry, error) {
	table, err := cacheTable(cacheType)
	if err != nil {
		return nil, err
	}

	row := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+cacheColumns+` FROM `+table+`
		 WHERE version = $1 AND item_id = $2 AND language = $3`,
		version, itemID, language)
	entry, err := scanCacheEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return entry, nil
}

func (r *cacheRepository) ListVersions(ctx context.Context, cacheType models.CacheType) ([]models.CacheVersionInfo, error) {
	table, err := cacheTable(cacheType)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, `
		SELECT version, COUNT(*), MIN(created_at)
		FROM `+table+`
		GROUP BY version
		ORDER BY MIN(created_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache versions: %w", err)
	}
	defer rows.Close()

	var versions []models.CacheVersionInfo
	for rows.Next() {
		var v models.CacheVersionInfo
		if err := rows.Scan(&v.Version, &v.ItemCount, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cache version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (r *cacheRepository) DeleteVersion(ctx context.Context, cacheType models.CacheType, version string) (int64, error) {
	table, err := cacheTable(cacheType)
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Conn(ctx).Exec(ctx,
		`DELETE FROM `+table+` WHERE version = $1`, version)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache version: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *cacheRepository) GetActiveVersion(ctx context.Context, cacheType models.CacheType, language string) (*models.ActiveCacheVersion, error) {
	row := r.db.Conn(ctx).QueryRow(ctx, `
		SELECT cache_type, language, version, updated_at
		FROM active_cache_versions
		WHERE cache_type = $1 AND language = $2`,
		string(cacheType), language)

	var v models.ActiveCacheVersion
	err := row.Scan(&v.CacheType, &v.Language, &v.Version, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active version: %w", err)
	}
	return &v, nil
}

func (r *cacheRepository) SetActiveVersion(ctx context.Context, cacheType models.CacheType, version, language string) error {
	_, err := r.db.Conn(ctx).Exec(ctx, `
		INSERT INTO active_cache_versions (cache_type, language, version, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cache_type, language) DO UPDATE SET
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at`,
		string(cacheType), language, version, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set active version: %w", err)
	}
	return nil
}

func (r *cacheRepository) ClearActiveVersion(ctx context.Context, cacheType models.CacheType, version string) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`DELETE FROM active_cache_versions WHERE cache_type = $1 AND version = $2`,
		string(cacheType), version)
	if err != nil {
		return fmt.Errorf("failed to clear active version: %w", err)
	}
	return nil
}

func (r *cacheRepository) ListAll(ctx context.Context, cacheType models.CacheType) ([]models.CacheEntry, error) {
	table, err := cacheTable(cacheType)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+cacheColumns+` FROM `+table+` ORDER BY version, item_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}
	defer rows.Close()
	return collectCacheEntries(rows)
}

func (r *cacheRepository) DeleteAll(ctx context.Context, cacheType models.CacheType) (int64, error) {
	table, err := cacheTable(cacheType)
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM `+table)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	return tag.RowsAffected(), nil
}
