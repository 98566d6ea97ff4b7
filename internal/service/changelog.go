// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/store"
	"github.com/notesafe/notesafe/internal/utils"
	"github.com/notesafe/notesafe/models"
)

// changeLogService owns the local logical clock. A single mutex covers the
// read-max/insert pair, so concurrent mutations always receive distinct,
// strictly increasing versions with no gaps.
type changeLogService struct {
	repo store.ChangeLogRepository
	ids  *utils.UUIDGenerator

	mu          sync.Mutex
	nextVersion uint64 // 0 until first use, then max+1

	logger *logger.Logger
}

// NewChangeLogService constructs a [ChangeLogService] on top of the given
// repository.
func NewChangeLogService(repo store.ChangeLogRepository, logger *logger.Logger) ChangeLogService {
	return &changeLogService{
		repo:   repo,
		ids:    utils.NewUUIDGenerator(),
		logger: logger,
	}
}

// Record implements [ChangeLogService]. The version counter is seeded from
// the store on first use and cached for the lifetime of the service; all
// writes go through this method, so the cache cannot go stale.
func (c *changeLogService) Record(ctx context.Context, entityKind models.EntityKind, entityID string, changeKind models.ChangeKind, payload []byte) (models.ChangeLogEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.nextVersion == 0 {
		maxVersion, err := c.repo.MaxVersion(ctx)
		if err != nil {
			return models.ChangeLogEntry{}, fmt.Errorf("seed change log version: %w", err)
		}
		c.nextVersion = maxVersion + 1
	}

	entry := models.ChangeLogEntry{
		ID:         c.ids.Generate(),
		EntityKind: entityKind,
		EntityID:   entityID,
		ChangeKind: changeKind,
		Payload:    payload,
		Timestamp:  time.Now().UTC(),
		Version:    c.nextVersion,
	}

	if err := c.repo.Append(ctx, entry); err != nil {
		return models.ChangeLogEntry{}, fmt.Errorf("append change log entry: %w", err)
	}

	c.nextVersion++

	return entry, nil
}

// Pending implements [ChangeLogService].
func (c *changeLogService) Pending(ctx context.Context) ([]models.ChangeLogEntry, error) {
	return c.repo.Pending(ctx)
}

// Acknowledge implements [ChangeLogService]. Acknowledging the same version
// twice is a no-op.
func (c *changeLogService) Acknowledge(ctx context.Context, upToVersion uint64) error {
	return c.repo.Acknowledge(ctx, upToVersion)
}
