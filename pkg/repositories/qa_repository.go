package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mspcompass/compass-engine/pkg/apperrors"
	"github.com/mspcompass/compass-engine/pkg/database"
	"github.com/mspcompass/compass-engine/pkg/models"
)

// QARepository defines the interface for per-item Q&A data access.
type QARepository interface {
	Create(ctx context.Context, entry *models.QAEntry) error
	ListByItem(ctx context.Context, itemID string) ([]models.QAEntry, error)
	// Answer records an admin answer on a question.
	Answer(ctx context.Context, id uuid.UUID, answer string, answeredBy uuid.UUID) error
	ListAll(ctx context.Context) ([]models.QAEntry, error)
	ListFiltered(ctx context.Context, criteria *models.SelectionCriteria) ([]models.QAEntry, error)
	DeleteAll(ctx context.Context) ([]models.QAEntry, error)
	DeleteFiltered(ctx context.Context, criteria *models.SelectionCriteria) ([]models.QAEntry, error)
	InsertOrReplace(ctx context.Context, entry *models.QAEntry) error
}

// qaRepository implements QARepository using PostgreSQL.
type qaRepository struct {
	db *database.DB
}

// NewQARepository creates a new Q&A repository.
func NewQARepository(db *database.DB) QARepository {
	return &qaRepository{db: db}
}

var _ QARepository = (*qaRepository)(nil)

const qaColumns = `id, item_id, user_id, question, answer, answered_by, answered_at, created_at, updated_at`

func scanQAEntry(row pgx.Row) (*models.QAEntry, error) {
	var e models.QAEntry
	err := row.Scan(&e.ID, &e.ItemID, &e.UserID, &e.Question, &e.Answer,
		&e.AnsweredBy, &e.AnsweredAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectQAEntries(rows pgx.Rows) ([]models.QAEntry, error) {
	var entries []models.QAEntry
	for rows.Next() {
		e, err := scanQAEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan qa entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *qaRepository) Create(ctx context.Context, entry *models.QAEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err := r.db.Conn(ctx).Exec(ctx, `
		INSERT INTO item_qa (id, item_id, user_id, question, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.ItemID, entry.UserID, entry.Question,
		entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create qa entry: %w", err)
	}
	return nil
}

func (r *qaRepository) ListByItem(ctx context.Context, itemID string) ([]models.QAEntry, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+qaColumns+` FROM item_qa WHERE item_id = $1 ORDER BY created_at DESC`,
		itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list qa entries: %w", err)
	}
	defer rows.Close()
	return collectQAEntries(rows)
}

func (r *qaRepository) Answer(ctx context.Context, id uuid.UUID, answer string, answeredBy uuid.UUID) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `
		UPDATE item_qa
		SET answer = $2, answered_by = $3, answered_at = $4, updated_at = $4
		WHERE id = $1`,
		id, answer, answeredBy, time.Now())
	if err != nil {
		return fmt.Errorf("failed to answer qa entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("qa entry %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *qaRepository) ListAll(ctx context.Context) ([]models.QAEntry, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+qaColumns+` FROM item_qa ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list qa entries: %w", err)
	}
	defer rows.Close()
	return collectQAEntries(rows)
}

func qaFilterClause(criteria *models.SelectionCriteria, startArg int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := startArg
	if criteria.DateFrom != nil {
		conds = append(conds, fmt.Sprintf("created_at >= $%d", arg))
		args = append(args, *criteria.DateFrom)
		arg++
	}
	if criteria.DateTo != nil {
		conds = append(conds, fmt.Sprintf("created_at <= $%d", arg))
		args = append(args, *criteria.DateTo)
		arg++
	}
	if len(criteria.UserIDs) > 0 {
		conds = append(conds, fmt.Sprintf("user_id = ANY($%d)", arg))
		args = append(args, criteria.UserIDs)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *qaRepository) ListFiltered(ctx context.Context, criteria *models.SelectionCriteria) ([]models.QAEntry, error) {
	where, args := qaFilterClause(criteria, 1)
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+qaColumns+` FROM item_qa`+where+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list qa entries: %w", err)
	}
	defer rows.Close()
	return collectQAEntries(rows)
}

func (r *qaRepository) DeleteAll(ctx context.Context) ([]models.QAEntry, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`DELETE FROM item_qa RETURNING `+qaColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to delete qa entries: %w", err)
	}
	defer rows.Close()
	return collectQAEntries(rows)
}

func (r *qaRepository) DeleteFiltered(ctx context.Context, criteria *models.SelectionCriteria) ([]models.QAEntry, error) {
	where, args := qaFilterClause(criteria, 1)
	rows, err := r.db.Conn(ctx).Query(ctx,
		`DELETE FROM item_qa`+where+` RETURNING `+qaColumns, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to delete qa entries: %w", err)
	}
	defer rows.Close()
	return collectQAEntries(rows)
}

func (r *qaRepository) InsertOrReplace(ctx context.Context, entry *models.QAEntry) error {
	_, err := r.db.Conn(ctx).Exec(ctx, `
		INSERT INTO item_qa (`+qaColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			item_id = EXCLUDED.item_id,
			user_id = EXCLUDED.user_id,
			question = EXCLUDED.question,
			answer = EXCLUDED.answer,
			answered_by = EXCLUDED.answered_by,
			answered_at = EXCLUDED.answered_at,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at`,
		entry.ID, entry.ItemID, entry.UserID, entry.Question, entry.Answer,
		entry.AnsweredBy, entry.AnsweredAt, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to restore qa entry: %w", err)
	}
	return nil
}
