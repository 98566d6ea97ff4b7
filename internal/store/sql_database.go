package store

import (
	"database/sql"

	"github.com/notesafe/notesafe/internal/logger"
)

// DB wraps the shared database handle together with the logger used by the
// connection helpers. Repositories embed *DB to inherit the query methods.
type DB struct {
	*sql.DB
	logger *logger.Logger
}
