package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mspcompass/compass-engine/pkg/database"
	"github.com/mspcompass/compass-engine/pkg/models"
)

// AssessmentRepository defines the interface for assessment item data access.
type AssessmentRepository interface {
	Upsert(ctx context.Context, item *models.AssessmentItem) error
	GetBySection(ctx context.Context, profileID uuid.UUID, section string) ([]models.AssessmentItem, error)
	DeleteBySection(ctx context.Context, profileID uuid.UUID, section string) (int64, error)
	// CopyItems duplicates every item of one profile into another with
	// fresh row ids and a reset updated_at.
	CopyItems(ctx context.Context, fromProfileID, toProfileID uuid.UUID) (int64, error)
	// CountLegacy counts pre-versioning rows (no profile) for a user.
	CountLegacy(ctx context.Context, userID uuid.UUID) (int, error)
	// AdoptLegacy attaches a user's pre-versioning rows to a profile.
	AdoptLegacy(ctx context.Context, userID, profileID uuid.UUID) (int64, error)
	ListAll(ctx context.Context) ([]models.AssessmentItem, error)
	ListFiltered(ctx context.Context, criteria *models.SelectionCriteria) ([]models.AssessmentItem, error)
	DeleteAll(ctx context.Context) ([]models.AssessmentItem, error)
	DeleteFiltered(ctx context.Context, criteria *models.SelectionCriteria) ([]models.AssessmentItem, error)
	InsertOrReplace(ctx context.Context, item *models.AssessmentItem) error
}

// assessmentRepository implements AssessmentRepository using PostgreSQL.
type assessmentRepository struct {
	db *database.DB
}

// NewAssessmentRepository creates a new assessment repository.
func NewAssessmentRepository(db *database.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

var _ AssessmentRepository = (*assessmentRepository)(nil)

const assessmentColumns = `id, profile_id, user_id, section, item_id, category, title,
	description, mandatory, evidence_required, met, response, evidence, evaluation, updated_at`

func scanAssessmentItem(row pgx.Row) (*models.AssessmentItem, error) {
	var (
		item           models.AssessmentItem
		profileID      *uuid.UUID
		evidenceJSON   []byte
		evaluationJSON []byte
	)
	err := row.Scan(&item.ID, &profileID, &item.UserID, &item.Section, &item.ItemID,
		&item.Category, &item.Title, &item.Description, &item.Mandatory,
		&item.EvidenceRequired, &item.Met, &item.Response,
		&evidenceJSON, &evaluationJSON, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if profileID != nil {
		item.ProfileID = *profileID
	}
	if len(evidenceJSON) > 0 {
		if err := json.Unmarshal(evidenceJSON, &item.Evidence); err != nil {
			return nil, fmt.Errorf("failed to unmarshal evidence: %w", err)
		}
	}
	if len(evaluationJSON) > 0 {
		if err := json.Unmarshal(evaluationJSON, &item.Evaluation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal evaluation: %w", err)
		}
	}
	return &item, nil
}

func collectAssessmentItems(rows pgx.Rows) ([]models.AssessmentItem, error) {
	var items []models.AssessmentItem
	for rows.Next() {
		item, err := scanAssessmentItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func marshalItemJSON(item *models.AssessmentItem) (evidence, evaluation []byte, err error) {
	if len(item.Evidence) > 0 {
		evidence, err = json.Marshal(item.Evidence)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal evidence: %w", err)
		}
	}
	if item.Evaluation != nil {
		evaluation, err = json.Marshal(item.Evaluation)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal evaluation: %w", err)
		}
	}
	return evidence, evaluation, nil
}

func (r *assessmentRepository) Upsert(ctx context.Context, item *models.AssessmentItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.UpdatedAt = time.Now()

	evidenceJSON, evaluationJSON, err := marshalItemJSON(item)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO assessment_items (` + assessmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (profile_id, section, item_id) WHERE profile_id IS NOT NULL
		DO UPDATE SET
			met = EXCLUDED.met,
			response = EXCLUDED.response,
			evidence = EXCLUDED.evidence,
			evaluation = EXCLUDED.evaluation,
			updated_at = EXCLUDED.updated_at`

	_, err = r.db.Conn(ctx).Exec(ctx, query,
		item.ID, item.ProfileID, item.UserID, item.Section, item.ItemID,
		item.Category, item.Title, item.Description, item.Mandatory,
		item.EvidenceRequired, item.Met, item.Response,
		evidenceJSON, evaluationJSON, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert assessment item: %w", err)
	}
	return nil
}

func (r *assessmentRepository) GetBySection(ctx context.Context, profileID uuid.UUID, section string) ([]models.AssessmentItem, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+assessmentColumns+` FROM assessment_items
		 WHERE profile_id = $1 AND section = $2 ORDER BY item_id`,
		profileID, section)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment items: %w", err)
	}
	defer rows.Close()
	return collectAssessmentItems(rows)
}

func (r *assessmentRepository) DeleteBySection(ctx context.Context, profileID uuid.UUID, section string) (int64, error) {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`DELETE FROM assessment_items WHERE profile_id = $1 AND section = $2`,
		profileID, section)
	if err != nil {
		return 0, fmt.Errorf("failed to delete assessment items: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *assessmentRepository) CopyItems(ctx context.Context, fromProfileID, toProfileID uuid.UUID) (int64, error) {
	tag, err := r.db.Conn(ctx).Exec(ctx, `
		INSERT INTO assessment_items (`+assessmentColumns+`)
		SELECT gen_random_uuid(), $2, user_id, section, item_id, category, title,
		       description, mandatory, evidence_required, met, response,
		       evidence, evaluation, now()
		FROM assessment_items
		WHERE profile_id = $1`, fromProfileID, toProfileID)
	if err != nil {
		return 0, fmt.Errorf("failed to copy assessment items: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *assessmentRepository) CountLegacy(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM assessment_items WHERE user_id = $1 AND profile_id IS NULL`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count legacy items: %w", err)
	}
	return count, nil
}

func (r *assessmentRepository) AdoptLegacy(ctx context.Context, userID, profileID uuid.UUID) (int64, error) {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE assessment_items SET profile_id = $2
		 WHERE user_id = $1 AND profile_id IS NULL`, userID, profileID)
	if err != nil {
		return 0, fmt.Errorf("failed to adopt legacy items: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *assessmentRepository) ListAll(ctx context.Context) ([]models.AssessmentItem, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+assessmentColumns+` FROM assessment_items ORDER BY updated_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment items: %w", err)
	}
	defer rows.Close()
	return collectAssessmentItems(rows)
}

// filterClause builds the AND-combined WHERE clause for selective
// backup/delete criteria.
func filterClause(criteria *models.SelectionCriteria, startArg int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := startArg
	if criteria.DateFrom != nil {
		conds = append(conds, fmt.Sprintf("updated_at >= $%d", arg))
		args = append(args, *criteria.DateFrom)
		arg++
	}
	if criteria.DateTo != nil {
		conds = append(conds, fmt.Sprintf("updated_at <= $%d", arg))
		args = append(args, *criteria.DateTo)
		arg++
	}
	if len(criteria.UserIDs) > 0 {
		conds = append(conds, fmt.Sprintf("user_id = ANY($%d)", arg))
		args = append(args, criteria.UserIDs)
		arg++
	}
	if len(criteria.Sections) > 0 {
		conds = append(conds, fmt.Sprintf("section = ANY($%d)", arg))
		args = append(args, criteria.Sections)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *assessmentRepository) ListFiltered(ctx context.Context, criteria *models.SelectionCriteria) ([]models.AssessmentItem, error) {
	where, args := filterClause(criteria, 1)
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+assessmentColumns+` FROM assessment_items`+where+` ORDER BY updated_at`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment items: %w", err)
	}
	defer rows.Close()
	return collectAssessmentItems(rows)
}

func (r *assessmentRepository) DeleteAll(ctx context.Context) ([]models.AssessmentItem, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`DELETE FROM assessment_items RETURNING `+assessmentColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to delete assessment items: %w", err)
	}
	defer rows.Close()
	return collectAssessmentItems(rows)
}

func (r *assessmentRepository) DeleteFiltered(ctx context.Context, criteria *models.SelectionCriteria) ([]models.AssessmentItem, error) {
	where, args := filterClause(criteria, 1)
	rows, err := r.db.Conn(ctx).Query(ctx,
		`DELETE FROM assessment_items`+where+` RETURNING `+assessmentColumns,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to delete assessment items: %w", err)
	}
	defer rows.Close()
	return collectAssessmentItems(rows)
}

func (r *assessmentRepository) InsertOrReplace(ctx context.Context, item *models.AssessmentItem) error {
	evidenceJSON, evaluationJSON, err := marshalItemJSON(item)
	if err != nil {
		return err
	}

	var profileID *uuid.UUID
	if item.ProfileID != uuid.Nil {
		profileID = &item.ProfileID
	}

	_, err = r.db.Conn(ctx).Exec(ctx, `
		INSERT INTO assessment_items (`+assessmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			profile_id = EXCLUDED.profile_id,
			user_id = EXCLUDED.user_id,
			section = EXCLUDED.section,
			item_id = EXCLUDED.item_id,
			category = EXCLUDED.category,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			mandatory = EXCLUDED.mandatory,
			evidence_required = EXCLUDED.evidence_required,
			met = EXCLUDED.met,
			response = EXCLUDED.response,
			evidence = EXCLUDED.evidence,
			evaluation = EXCLUDED.evaluation,
			updated_at = EXCLUDED.updated_at`,
		item.ID, profileID, item.UserID, item.Section, item.ItemID,
		item.Category, item.Title, item.Description, item.Mandatory,
		item.EvidenceRequired, item.Met, item.Response,
		evidenceJSON, evaluationJSON, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to restore assessment item: %w", err)
	}
	return nil
}
