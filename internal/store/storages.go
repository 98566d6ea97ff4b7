package store

import (
	"context"
	"fmt"

	"github.com/notesafe/notesafe/internal/config"
	"github.com/notesafe/notesafe/internal/logger"
)

// Storages groups the server-side repositories.
type Storages struct {
	RecordRepository RecordRepository
}

// NewStorages initialises the server storage layer: opens the PostgreSQL
// connection described by cfg, applies pending schema migrations, and wires
// the record repository.
func NewStorages(ctx context.Context, cfg config.ServerDB, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	return &Storages{
		RecordRepository: NewRecordRepository(db, logger),
	}, nil
}
