package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Portal-api/internal/domain"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

const accountColumns = `id, email, first_name, last_name, role, status, department, position, phone, avatar_url,
		request_id, approved_by, approved_at, last_login_at, created_at, updated_at`

// columnas válidas para ORDER BY.
var accountOrderColumns = map[string]string{
	"":           "created_at",
	"created_at": "created_at",
	"email":      "email",
	"last_name":  "last_name",
}

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	db querier
}

// NewAccountRepository construye el adaptador de persistencia para cuentas.
func NewAccountRepository(db querier) *AccountRepo {
	return &AccountRepo{db: db}
}

// Create persiste una nueva cuenta.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.Email, a.FirstName, a.LastName, a.Role, a.Status, a.Department, a.Position, a.Phone, a.AvatarURL,
		a.RequestID, a.ApprovedBy, a.ApprovedAt, a.LastLoginAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if constraintName(err) == "accounts_email_key" {
				return domain.ErrEmailAlreadyExists
			}
			return domain.ErrConflict
		}
		return storeErr("insert account", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID; (nil, nil) si no existe.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.findOne(ctx, "get account by id", `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// FindOneByEmail obtiene la cuenta con ese email exacto; (nil, nil) si no existe.
func (r *AccountRepo) FindOneByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.findOne(ctx, "get account by email", `SELECT `+accountColumns+` FROM accounts WHERE email = $1 LIMIT 1`, email)
}

func (r *AccountRepo) findOne(ctx context.Context, op, query string, arg any) (*entity.Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(op, err)
	}
	return a, nil
}

// Update actualiza perfil, rol y estado. Los datos de aprobación y el último acceso no se tocan.
func (r *AccountRepo) Update(ctx context.Context, a *entity.Account) error {
	query := `
		UPDATE accounts SET email = $2, first_name = $3, last_name = $4, role = $5, status = $6,
			department = $7, position = $8, phone = $9, avatar_url = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		a.ID, a.Email, a.FirstName, a.LastName, a.Role, a.Status,
		a.Department, a.Position, a.Phone, a.AvatarURL, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return storeErr("update account", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TouchLastLogin registra el último inicio de sesión.
func (r *AccountRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET last_login_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return storeErr("touch last login", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la cuenta por ID.
func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete account", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista cuentas con filtros, orden y paginación.
func (r *AccountRepo) List(ctx context.Context, filter repository.AccountFilter) ([]*entity.Account, error) {
	col, ok := accountOrderColumns[filter.OrderBy]
	if !ok {
		return nil, fmt.Errorf("%w: orden no soportado %q", domain.ErrInvalidInput, filter.OrderBy)
	}
	dir := "ASC"
	if filter.Desc {
		dir = "DESC"
	}
	w := accountWhere(filter)
	query := `SELECT ` + accountColumns + ` FROM accounts` + w.sql() +
		fmt.Sprintf(" ORDER BY %s %s, id %s", col, dir, dir) + w.limitOffset(filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, storeErr("list accounts", err)
	}
	defer rows.Close()
	list := make([]*entity.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, storeErr("scan account", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list accounts", err)
	}
	return list, nil
}

// Count total de cuentas que cumplen el filtro (ignora paginación).
func (r *AccountRepo) Count(ctx context.Context, filter repository.AccountFilter) (int, error) {
	w := accountWhere(filter)
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, storeErr("count accounts", err)
	}
	return n, nil
}

func accountWhere(filter repository.AccountFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.Role != "" {
		w.add("role = ?", filter.Role)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Search != "" {
		w.add("(email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?)", likePattern(filter.Search))
	}
	return w
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var a entity.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.FirstName, &a.LastName, &a.Role, &a.Status, &a.Department, &a.Position, &a.Phone, &a.AvatarURL,
		&a.RequestID, &a.ApprovedBy, &a.ApprovedAt, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
