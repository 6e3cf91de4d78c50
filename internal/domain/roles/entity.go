package roles

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Override replaces the permission list of one role. Role is kept as a
// plain string so rows naming a retired role can still be listed.
type Override struct {
	Role        string         `db:"role"`
	Permissions pq.StringArray `db:"permissions"`
	UpdatedBy   uuid.NullUUID  `db:"updated_by"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
