package activity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cinevault/admin-api/internal/pkg/logger"
	"github.com/cinevault/admin-api/internal/pkg/storage"
)

const (
	exportPrefix    = "activity-exports/"
	exportBatchSize = 500
	// MaxExportRows caps a single export file
	MaxExportRows = 50000
)

// Service handles activity log business logic
type Service struct {
	repo    Repository
	storage storage.Storage
	now     func() time.Time
}

// NewService creates activity service. A nil store disables exports.
func NewService(repo Repository, store storage.Storage) *Service {
	return &Service{repo: repo, storage: store, now: time.Now}
}

// Record writes an entry. Failures are logged and never returned, so the
// action being audited is not rolled back by a broken log.
func (s *Service) Record(ctx context.Context, e Entry) {
	if err := s.create(ctx, &e); err != nil {
		logger.LogError(ctx, err, "Failed to record activity",
			"action", e.Action,
			"entity_type", e.EntityType,
		)
	}
}

func (s *Service) create(ctx context.Context, e *Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	if len(e.OldValue) == 0 {
		e.OldValue = json.RawMessage("null")
	}
	if len(e.NewValue) == 0 {
		e.NewValue = json.RawMessage("null")
	}
	return s.repo.Create(ctx, e)
}

// List returns a page of entries, newest first
func (s *Service) List(ctx context.Context, filter Filter) ([]*Entry, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.FromDate != nil && filter.ToDate != nil && !filter.FromDate.Before(*filter.ToDate) {
		return nil, 0, ErrInvalidRange
	}
	return s.repo.List(ctx, filter)
}

// Export writes every entry matching filter as JSON lines to storage.
// Rows are read up to the moment the export starts so that entries written
// meanwhile cannot shift the pages. An export that cannot be audited is
// removed again.
func (s *Service) Export(ctx context.Context, actor Actor, filter Filter) (*ExportResult, error) {
	if s.storage == nil {
		return nil, ErrExportUnavailable
	}
	started := s.now().UTC()
	if filter.ToDate == nil || filter.ToDate.After(started) {
		filter.ToDate = &started
	}
	if filter.FromDate != nil && filter.ToDate != nil && !filter.FromDate.Before(*filter.ToDate) {
		return nil, ErrInvalidRange
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	count := 0

	filter.Limit = exportBatchSize
	filter.Offset = 0
	for {
		batch, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list activity: %w", err)
		}
		if total > MaxExportRows {
			return nil, ErrExportTooLarge
		}
		for _, e := range batch {
			if err := enc.Encode(EntryResponseFromEntity(e)); err != nil {
				return nil, fmt.Errorf("encode activity: %w", err)
			}
		}
		count += len(batch)
		if len(batch) < exportBatchSize || count >= total {
			break
		}
		filter.Offset += exportBatchSize
	}

	key := fmt.Sprintf("%s%04d/%02d/%s.jsonl", exportPrefix, started.Year(), int(started.Month()), uuid.New())
	if err := s.storage.Put(ctx, key, &buf, "application/x-ndjson"); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	entry := NewEntry(actor, ActionActivityExport, "activity_export", key, nil, map[string]int{"entries": count})
	if err := s.create(ctx, &entry); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.LogError(ctx, delErr, "Failed to remove unaudited export", "key", key)
		}
		return nil, fmt.Errorf("record export: %w", err)
	}

	logger.LogInfo(ctx, "Activity log exported", "key", key, "entries", count)

	return &ExportResult{Key: key, URL: s.storage.GetURL(key), Entries: count}, nil
}

// ExportURL returns the download URL of a previous export
func (s *Service) ExportURL(ctx context.Context, key string) (string, error) {
	if s.storage == nil {
		return "", ErrExportUnavailable
	}
	if !strings.HasPrefix(key, exportPrefix) || !strings.HasSuffix(key, ".jsonl") || strings.Contains(key, "..") {
		return "", ErrExportNotFound
	}
	ok, err := s.storage.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("stat export: %w", err)
	}
	if !ok {
		return "", ErrExportNotFound
	}
	return s.storage.GetURL(key), nil
}
