package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mspcompass/compass-engine/pkg/apperrors"
	"github.com/mspcompass/compass-engine/pkg/database"
	"github.com/mspcompass/compass-engine/pkg/models"
)

// ProfileRepository defines the interface for profile data access.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	Get(ctx context.Context, userID, profileID uuid.UUID) (*models.Profile, error)
	GetActive(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	// List returns the user's profiles with progress counters, newest first.
	List(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]models.ProfileSummary, error)
	ListAll(ctx context.Context) ([]models.Profile, error)
	// Activate flips the active flag to the target profile. The deactivate
	// and activate updates run against the same querier; callers wrap the
	// pair in a transaction.
	Activate(ctx context.Context, userID, profileID uuid.UUID) error
	Delete(ctx context.Context, userID, profileID uuid.UUID) error
	// DeleteAll removes every profile row. Restore uses it so profiles
	// created after the snapshot cannot collide with the snapshot's
	// active rows on re-insert.
	DeleteAll(ctx context.Context) (int, error)
	CountForUser(ctx context.Context, userID uuid.UUID) (int, error)
	InsertOrReplace(ctx context.Context, profile *models.Profile) error
}

// profileRepository implements ProfileRepository using PostgreSQL.
type profileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *database.DB) ProfileRepository {
	return &profileRepository{db: db}
}

var _ ProfileRepository = (*profileRepository)(nil)

const profileColumns = `id, user_id, name, description, is_active, created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	_, err := r.db.Conn(ctx).Exec(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		profile.ID, profile.UserID, profile.Name, profile.Description,
		profile.IsActive, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("profile %q for user %s: %w",
				profile.Name, profile.UserID, apperrors.ErrDuplicateName)
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) Get(ctx context.Context, userID, profileID uuid.UUID) (*models.Profile, error) {
	row := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1 AND user_id = $2`,
		profileID, userID)
	profile, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", profileID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (r *profileRepository) GetActive(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	row := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1 AND is_active`,
		userID)
	profile, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("active profile for user %s: %w", userID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}
	return profile, nil
}

func (r *profileRepository) List(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]models.ProfileSummary, error) {
	query := `
		SELECT p.id, p.user_id, p.name, p.description, p.is_active,
		       p.created_at, p.updated_at,
		       COUNT(a.id) AS total_items,
		       COUNT(a.id) FILTER (WHERE a.met IS NOT NULL) AS completed_items
		FROM profiles p
		LEFT JOIN assessment_items a ON a.profile_id = p.id
		WHERE p.user_id = $1`
	if !includeInactive {
		query += ` AND p.is_active`
	}
	query += `
		GROUP BY p.id
		ORDER BY p.created_at DESC`

	rows, err := r.db.Conn(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var summaries []models.ProfileSummary
	for rows.Next() {
		var s models.ProfileSummary
		err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Description, &s.IsActive,
			&s.CreatedAt, &s.UpdatedAt, &s.TotalItems, &s.CompletedItems)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile summary: %w", err)
		}
		if s.TotalItems > 0 {
			s.CompletionPct = float64(s.CompletedItems) / float64(s.TotalItems) * 100
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *profileRepository) ListAll(ctx context.Context) ([]models.Profile, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (r *profileRepository) Activate(ctx context.Context, userID, profileID uuid.UUID) error {
	conn := r.db.Conn(ctx)

	// Deactivate first so the partial unique index never sees two active
	// profiles for the user mid-flight.
	_, err := conn.Exec(ctx, `
		UPDATE profiles SET is_active = false, updated_at = $2
		WHERE user_id = $1 AND is_active`, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to deactivate profiles: %w", err)
	}

	tag, err := conn.Exec(ctx, `
		UPDATE profiles SET is_active = true, updated_at = $3
		WHERE id = $1 AND user_id = $2`, profileID, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to activate profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", profileID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, userID, profileID uuid.UUID) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`DELETE FROM profiles WHERE id = $1 AND user_id = $2`, profileID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", profileID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *profileRepository) DeleteAll(ctx context.Context) (int, error) {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM profiles`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete profiles: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *profileRepository) CountForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM profiles WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

func (r *profileRepository) InsertOrReplace(ctx context.Context, profile *models.Profile) error {
	_, err := r.db.Conn(ctx).Exec(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			is_active = EXCLUDED.is_active,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at`,
		profile.ID, profile.UserID, profile.Name, profile.Description,
		profile.IsActive, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to restore profile: %w", err)
	}
	return nil
}
