package activity

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines activity log data access
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter Filter) ([]*Entry, int, error)
}

// Filter narrows activity log queries
type Filter struct {
	ActorID    *uuid.UUID
	Action     *string
	EntityType *string
	EntityID   *string
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates activity repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO activity_logs (
			id, actor_id, actor_email, actor_role, action, entity_type, entity_id,
			old_value, new_value, reason, ip_address, user_agent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ActorID,
		e.ActorEmail,
		e.ActorRole,
		e.Action,
		e.EntityType,
		e.EntityID,
		[]byte(e.OldValue),
		[]byte(e.NewValue),
		e.Reason,
		e.IPAddress,
		e.UserAgent,
		e.CreatedAt,
	)
	return err
}

func (r *repository) List(ctx context.Context, filter Filter) ([]*Entry, int, error) {
	where, args := buildWhere(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM activity_logs`+where, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM activity_logs` + where + ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	var entries []*Entry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func buildWhere(filter Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	add := func(cond string, v interface{}) {
		args = append(args, v)
		conds = append(conds, cond+" $"+strconv.Itoa(len(args)))
	}

	if filter.ActorID != nil {
		add("actor_id =", *filter.ActorID)
	}
	if filter.Action != nil {
		add("action =", *filter.Action)
	}
	if filter.EntityType != nil {
		add("entity_type =", *filter.EntityType)
	}
	if filter.EntityID != nil {
		add("entity_id =", *filter.EntityID)
	}
	if filter.FromDate != nil {
		add("created_at >=", *filter.FromDate)
	}
	if filter.ToDate != nil {
		add("created_at <", *filter.ToDate)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
