package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cinevault/admin-api/internal/domain/rbac"
)

// Repository defines staff account data access
type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	List(ctx context.Context, filter ListFilter) ([]*Account, int, error)
	Update(ctx context.Context, a *Account) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, ip string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListFilter for listing staff accounts
type ListFilter struct {
	Role   *rbac.Role
	Active *bool
	Limit  int
	Offset int
}

const accountColumns = `id, email, password_hash, role, name, is_active, last_login_at, last_login_ip, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

// NewRepository creates staff repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Account) error {
	query := `
		INSERT INTO staff_accounts (id, email, password_hash, role, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Email,
		a.PasswordHash,
		a.Role,
		a.Name,
		a.IsActive,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return mapWriteError(err)
}

func mapWriteError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	if pqErr.Code == "23505" {
		return fmt.Errorf("%w: %w", ErrEmailTaken, err)
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM staff_accounts WHERE id = $1`
	var a Account
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM staff_accounts WHERE LOWER(email) = LOWER($1)`
	var a Account
	err := r.db.GetContext(ctx, &a, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Account, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		where += ` AND role = $` + strconv.Itoa(len(args))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		where += ` AND is_active = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM staff_accounts`+where, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + accountColumns + ` FROM staff_accounts` + where + ` ORDER BY created_at ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	var accounts []*Account
	if err := r.db.SelectContext(ctx, &accounts, query, args...); err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (r *repository) Update(ctx context.Context, a *Account) error {
	query := `
		UPDATE staff_accounts
		SET role = $2, name = $3, is_active = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, a.ID, a.Role, a.Name, a.IsActive, a.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return requireRow(res)
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, ip string) error {
	query := `UPDATE staff_accounts SET last_login_at = $2, last_login_ip = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, time.Now().UTC(), ip)
	return err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM staff_accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}
