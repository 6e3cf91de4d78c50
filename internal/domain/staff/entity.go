package staff

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/cinevault/admin-api/internal/domain/rbac"
)

// Account is a back-office staff member
type Account struct {
	ID           uuid.UUID      `db:"id"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Role         rbac.Role      `db:"role"`
	Name         string         `db:"name"`
	IsActive     bool           `db:"is_active"`
	LastLoginAt  sql.NullTime   `db:"last_login_at"`
	LastLoginIP  sql.NullString `db:"last_login_ip"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}
