package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
)

var _ repository.StrategicApprovalRepository = (*StrategicApprovalRepo)(nil)

const approvalColumns = `id, title, description, category, priority, status, requested_by,
		reviewed_by, reviewed_at, notes, created_at, updated_at`

// StrategicApprovalRepo implementación de StrategicApprovalRepository sobre PostgreSQL.
type StrategicApprovalRepo struct {
	db querier
}

// NewStrategicApprovalRepository construye el adaptador.
func NewStrategicApprovalRepository(db querier) *StrategicApprovalRepo {
	return &StrategicApprovalRepo{db: db}
}

// Create persiste una aprobación estratégica.
func (r *StrategicApprovalRepo) Create(ctx context.Context, a *entity.StrategicApproval) error {
	query := `
		INSERT INTO strategic_approvals (` + approvalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.Title, a.Description, a.Category, a.Priority, a.Status, a.RequestedBy,
		a.ReviewedBy, a.ReviewedAt, a.Notes, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return storeErr("insert strategic approval", err)
	}
	return nil
}

// GetByID obtiene una aprobación; (nil, nil) si no existe.
func (r *StrategicApprovalRepo) GetByID(ctx context.Context, id string) (*entity.StrategicApproval, error) {
	a, err := scanApproval(r.db.QueryRow(ctx, `SELECT `+approvalColumns+` FROM strategic_approvals WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get strategic approval", err)
	}
	return a, nil
}

// Transition UPDATE condicional: el estado almacenado debe estar en from.
func (r *StrategicApprovalRepo) Transition(ctx context.Context, id string, from []entity.ApprovalStatus, to entity.ApprovalStatus, review repository.Review) (*entity.StrategicApproval, error) {
	states := make([]string, 0, len(from))
	for _, s := range from {
		states = append(states, string(s))
	}
	query := `
		UPDATE strategic_approvals
		SET status = $3, reviewed_by = $4, reviewed_at = $5, notes = $6, updated_at = $5
		WHERE id = $1 AND status = ANY($2)
		RETURNING ` + approvalColumns
	a, err := scanApproval(r.db.QueryRow(ctx, query, id, states, to, review.ReviewedBy, review.ReviewedAt, review.Notes))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, storeErr("transition strategic approval", err)
	}
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrInvalidStateTransition
}

// List aprobaciones más recientes primero.
func (r *StrategicApprovalRepo) List(ctx context.Context, filter repository.ApprovalFilter) ([]*entity.StrategicApproval, error) {
	w := approvalWhere(filter)
	query := `SELECT ` + approvalColumns + ` FROM strategic_approvals` + w.sql() +
		` ORDER BY created_at DESC, id DESC` + w.limitOffset(filter.Limit, filter.Offset)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, storeErr("list strategic approvals", err)
	}
	defer rows.Close()
	list := make([]*entity.StrategicApproval, 0)
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, storeErr("scan strategic approval", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list strategic approvals", err)
	}
	return list, nil
}

// Count total de aprobaciones que cumplen el filtro.
func (r *StrategicApprovalRepo) Count(ctx context.Context, filter repository.ApprovalFilter) (int, error) {
	w := approvalWhere(filter)
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM strategic_approvals`+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, storeErr("count strategic approvals", err)
	}
	return n, nil
}

func approvalWhere(filter repository.ApprovalFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		w.add("priority = ?", filter.Priority)
	}
	if filter.RequestedBy != "" {
		w.add("requested_by = ?", filter.RequestedBy)
	}
	if filter.Search != "" {
		w.add("(title ILIKE ? OR description ILIKE ? OR category ILIKE ?)", likePattern(filter.Search))
	}
	return w
}

func scanApproval(row pgx.Row) (*entity.StrategicApproval, error) {
	var a entity.StrategicApproval
	err := row.Scan(
		&a.ID, &a.Title, &a.Description, &a.Category, &a.Priority, &a.Status, &a.RequestedBy,
		&a.ReviewedBy, &a.ReviewedAt, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
