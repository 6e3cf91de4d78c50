package activity

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entry is one back-office action in the activity log
type Entry struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	ActorID    uuid.NullUUID   `db:"actor_id" json:"actor_id"`
	ActorEmail string          `db:"actor_email" json:"actor_email"`
	ActorRole  string          `db:"actor_role" json:"actor_role"`
	Action     string          `db:"action" json:"action"`
	EntityType string          `db:"entity_type" json:"entity_type"`
	EntityID   sql.NullString  `db:"entity_id" json:"-"`
	OldValue   json.RawMessage `db:"old_value" json:"old_value"`
	NewValue   json.RawMessage `db:"new_value" json:"new_value"`
	Reason     sql.NullString  `db:"reason" json:"-"`
	IPAddress  sql.NullString  `db:"ip_address" json:"-"`
	UserAgent  sql.NullString  `db:"user_agent" json:"-"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// Actor identifies who performed an action
type Actor struct {
	ID        uuid.UUID
	Email     string
	Role      string
	IPAddress string
	UserAgent string
}

// Actions recorded by the back-office
const (
	ActionStaffLogin       = "staff.login"
	ActionStaffCreate      = "staff.create"
	ActionStaffUpdate      = "staff.update"
	ActionStaffRoleChange  = "staff.role_change"
	ActionStaffDelete      = "staff.delete"
	ActionRolePermissions  = "role.permissions_update"
	ActionActivityExport   = "activity.export"
	ActionPermissionDenied = "permission.denied"
)

// NewEntry builds an entry, encoding old and new values as JSON
func NewEntry(actor Actor, action, entityType, entityID string, oldValue, newValue interface{}) Entry {
	return Entry{
		ActorID:    uuid.NullUUID{UUID: actor.ID, Valid: actor.ID != uuid.Nil},
		ActorEmail: actor.Email,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   nullString(entityID),
		OldValue:   encode(oldValue),
		NewValue:   encode(newValue),
		IPAddress:  nullString(actor.IPAddress),
		UserAgent:  nullString(actor.UserAgent),
	}
}

// WithReason attaches a free-form reason to the entry
func (e Entry) WithReason(reason string) Entry {
	e.Reason = nullString(reason)
	return e
}

func encode(v interface{}) json.RawMessage {
	if v == nil {
		return json.RawMessage("null")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
