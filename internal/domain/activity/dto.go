package activity

import (
	"time"

	"github.com/google/uuid"
)

// EntryResponse represents an activity entry in the API
type EntryResponse struct {
	ID         uuid.UUID   `json:"id"`
	ActorID    *uuid.UUID  `json:"actor_id,omitempty"`
	ActorEmail string      `json:"actor_email"`
	ActorRole  string      `json:"actor_role"`
	Action     string      `json:"action"`
	EntityType string      `json:"entity_type"`
	EntityID   *string     `json:"entity_id,omitempty"`
	OldValue   interface{} `json:"old_value,omitempty"`
	NewValue   interface{} `json:"new_value,omitempty"`
	Reason     *string     `json:"reason,omitempty"`
	IPAddress  *string     `json:"ip_address,omitempty"`
	CreatedAt  string      `json:"created_at"`
}

// EntryResponseFromEntity converts entity to response
func EntryResponseFromEntity(e *Entry) *EntryResponse {
	resp := &EntryResponse{
		ID:         e.ID,
		ActorEmail: e.ActorEmail,
		ActorRole:  e.ActorRole,
		Action:     e.Action,
		EntityType: e.EntityType,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
	if e.ActorID.Valid {
		id := e.ActorID.UUID
		resp.ActorID = &id
	}
	if e.EntityID.Valid {
		resp.EntityID = &e.EntityID.String
	}
	if e.Reason.Valid {
		resp.Reason = &e.Reason.String
	}
	if e.IPAddress.Valid {
		resp.IPAddress = &e.IPAddress.String
	}
	if len(e.OldValue) > 0 && string(e.OldValue) != "null" {
		resp.OldValue = e.OldValue
	}
	if len(e.NewValue) > 0 && string(e.NewValue) != "null" {
		resp.NewValue = e.NewValue
	}
	return resp
}

// ExportRequest for POST /activity/export
type ExportRequest struct {
	Action     string     `json:"action,omitempty" validate:"omitempty,max=64"`
	EntityType string     `json:"entity_type,omitempty" validate:"omitempty,max=64"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
}

// ExportResult describes an uploaded export file
type ExportResult struct {
	Key     string `json:"key"`
	URL     string `json:"url"`
	Entries int    `json:"entries"`
}
