package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
)

var _ repository.AccountRequestRepository = (*AccountRequestRepo)(nil)

const requestColumns = `id, email, first_name, last_name, department, position, phone, reason, status,
		reviewed_by, reviewed_at, notes, created_at, updated_at`

// AccountRequestRepo implementación de AccountRequestRepository sobre PostgreSQL.
type AccountRequestRepo struct {
	db querier
}

// NewAccountRequestRepository construye el adaptador.
func NewAccountRequestRepository(db querier) *AccountRequestRepo {
	return &AccountRequestRepo{db: db}
}

// Create persiste la solicitud. El índice parcial uq_account_requests_pending_email impide dos pendientes por email.
func (r *AccountRequestRepo) Create(ctx context.Context, req *entity.AccountRequest) error {
	query := `
		INSERT INTO account_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.Exec(ctx, query,
		req.ID, req.Email, req.FirstName, req.LastName, req.Department, req.Position, req.Phone, req.Reason, req.Status,
		req.ReviewedBy, req.ReviewedAt, req.Notes, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return storeErr("insert account request", err)
	}
	return nil
}

// GetByID obtiene una solicitud; (nil, nil) si no existe.
func (r *AccountRequestRepo) GetByID(ctx context.Context, id string) (*entity.AccountRequest, error) {
	req, err := scanRequest(r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM account_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get account request", err)
	}
	return req, nil
}

// FindPendingByEmail solicitud pendiente del email; (nil, nil) si no hay.
func (r *AccountRequestRepo) FindPendingByEmail(ctx context.Context, email string) (*entity.AccountRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM account_requests WHERE email = $1 AND status = $2 LIMIT 1`
	req, err := scanRequest(r.db.QueryRow(ctx, query, email, entity.RequestPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("find pending account request", err)
	}
	return req, nil
}

// Transition UPDATE condicional sobre el estado: solo una de varias revisiones concurrentes gana.
func (r *AccountRequestRepo) Transition(ctx context.Context, id string, from, to entity.RequestStatus, review repository.Review) (*entity.AccountRequest, error) {
	query := `
		UPDATE account_requests
		SET status = $3, reviewed_by = $4, reviewed_at = $5, notes = $6, updated_at = $5
		WHERE id = $1 AND status = $2
		RETURNING ` + requestColumns
	req, err := scanRequest(r.db.QueryRow(ctx, query, id, from, to, review.ReviewedBy, review.ReviewedAt, review.Notes))
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, storeErr("transition account request", err)
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

// List solicitudes más recientes primero.
func (r *AccountRequestRepo) List(ctx context.Context, filter repository.RequestFilter) ([]*entity.AccountRequest, error) {
	w := requestWhere(filter)
	query := `SELECT ` + requestColumns + ` FROM account_requests` + w.sql() +
		` ORDER BY created_at DESC, id DESC` + w.limitOffset(filter.Limit, filter.Offset)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, storeErr("list account requests", err)
	}
	defer rows.Close()
	list := make([]*entity.AccountRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, storeErr("scan account request", err)
		}
		list = append(list, req)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list account requests", err)
	}
	return list, nil
}

// Count total de solicitudes que cumplen el filtro.
func (r *AccountRequestRepo) Count(ctx context.Context, filter repository.RequestFilter) (int, error) {
	w := requestWhere(filter)
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM account_requests`+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, storeErr("count account requests", err)
	}
	return n, nil
}

func requestWhere(filter repository.RequestFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Search != "" {
		w.add("(email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR department ILIKE ?)", likePattern(filter.Search))
	}
	return w
}

func scanRequest(row pgx.Row) (*entity.AccountRequest, error) {
	var req entity.AccountRequest
	err := row.Scan(
		&req.ID, &req.Email, &req.FirstName, &req.LastName, &req.Department, &req.Position, &req.Phone, &req.Reason, &req.Status,
		&req.ReviewedBy, &req.ReviewedAt, &req.Notes, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
