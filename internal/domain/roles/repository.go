package roles

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Repository stores role permission overrides
type Repository interface {
	List(ctx context.Context) ([]*Override, error)
	Get(ctx context.Context, role string) (*Override, error)
	Upsert(ctx context.Context, o *Override) error
	Delete(ctx context.Context, role string) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates role override repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]*Override, error) {
	var out []*Override
	err := r.db.SelectContext(ctx, &out, `
		SELECT role, permissions, updated_by, updated_at
		FROM role_permission_overrides
		ORDER BY role
	`)
	return out, err
}

func (r *repository) Get(ctx context.Context, role string) (*Override, error) {
	var o Override
	err := r.db.GetContext(ctx, &o, `
		SELECT role, permissions, updated_by, updated_at
		FROM role_permission_overrides
		WHERE role = $1
	`, role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Upsert(ctx context.Context, o *Override) error {
	query := `
		INSERT INTO role_permission_overrides (role, permissions, updated_by, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (role) DO UPDATE
		SET permissions = EXCLUDED.permissions,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, o.Role, o.Permissions, o.UpdatedBy, o.UpdatedAt)
	return err
}

func (r *repository) Delete(ctx context.Context, role string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM role_permission_overrides WHERE role = $1`, role)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOverrideNotFound
	}
	return nil
}
