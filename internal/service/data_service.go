package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/repository"
	"github.com/Ali5829511/wwwr/internal/store"

	"go.uber.org/zap"
)

// DataService whole-database backup, restore and reset.
type DataService interface {
	// Export returns every collection as raw JSON keyed by collection name.
	// Password hashes are only included with includeCredentials.
	Export(ctx context.Context, includeCredentials bool) (*DataDump, error)
	// Import replaces each collection present in the dump; others are untouched.
	Import(ctx context.Context, dump DataDump) ([]string, error)
	// Reset deletes every collection; bootstrap data is recreated on next start.
	Reset(ctx context.Context) error
}

type DataDump struct {
	ExportedAt  time.Time                  `json:"exportedAt"`
	Collections map[string]json.RawMessage `json:"collections"`
}

type dataService struct {
	collections *store.Collections
	logger      *zap.Logger
	now         func() time.Time
}

func NewDataService(collections *store.Collections, logger *zap.Logger) DataService {
	return &dataService{collections: collections, logger: logger, now: time.Now}
}

func (s *dataService) Export(ctx context.Context, includeCredentials bool) (*DataDump, error) {
	dump := &DataDump{ExportedAt: s.now(), Collections: map[string]json.RawMessage{}}
	for _, key := range repository.AllKeys {
		var raw json.RawMessage
		if _, err := s.collections.Load(ctx, key, &raw); err != nil {
			return nil, storageError("export "+key, err)
		}
		if len(raw) == 0 || string(raw) == "null" {
			raw = json.RawMessage("[]")
		}
		if key == repository.KeyUsers && !includeCredentials {
			stripped, err := stripCredentials(raw)
			if err != nil {
				return nil, storageError("export "+key, err)
			}
			raw = stripped
		}
		dump.Collections[key] = raw
	}
	return dump, nil
}

func stripCredentials(raw json.RawMessage) (json.RawMessage, error) {
	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Public()
	}
	return json.Marshal(users)
}

func (s *dataService) Import(ctx context.Context, dump DataDump) ([]string, error) {
	known := map[string]bool{}
	for _, key := range repository.AllKeys {
		known[key] = true
	}
	for key, raw := range dump.Collections {
		if !known[key] {
			return nil, domain.ValidationError("unknown collection %q", key)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, domain.ValidationError("collection %q must be a JSON array", key)
		}
	}

	imported := make([]string, 0, len(dump.Collections))
	for _, key := range repository.AllKeys {
		raw, ok := dump.Collections[key]
		if !ok {
			continue
		}
		if err := s.collections.Replace(ctx, key, raw); err != nil {
			return imported, storageError("import "+key, err)
		}
		imported = append(imported, key)
	}
	s.logger.Info("Data imported", zap.Strings("collections", imported))
	return imported, nil
}

func (s *dataService) Reset(ctx context.Context) error {
	if err := s.collections.Remove(ctx, repository.AllKeys...); err != nil {
		return storageError("reset database", err)
	}
	s.logger.Warn("All collections removed")
	return nil
}
