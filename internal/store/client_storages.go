package store

import (
	"context"
	"fmt"

	"github.com/notesafe/notesafe/internal/config"
	"github.com/notesafe/notesafe/internal/logger"
)

// ClientStorages groups all client-side storage repositories into a single
// value that can be passed around the service layer. All five repositories
// share one SQLite connection, so a change-log append observes the same
// database state as the entity write it describes.
type ClientStorages struct {
	NoteRepository       NoteRepository
	AnnotationRepository AnnotationRepository
	TagRepository        TagRepository
	ChangeLogRepository  ChangeLogRepository
	SyncStateRepository  SyncStateRepository
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It opens the SQLite database at cfg.DB.DSN
// (creating the file on first run), applies pending schema migrations, and
// wires each repository to the shared connection.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewClientStorages(cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	return &ClientStorages{
		NoteRepository:       NewNoteRepository(db, logger),
		AnnotationRepository: NewAnnotationRepository(db, logger),
		TagRepository:        NewTagRepository(db, logger),
		ChangeLogRepository:  NewChangeLogRepository(db, logger),
		SyncStateRepository:  NewSyncStateRepository(db, logger),
	}, nil
}
