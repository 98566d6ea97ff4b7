package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNoteNotFound is returned when a query or update targets a note
	// that does not exist in the database.
	ErrNoteNotFound = errors.New("note was not found")

	// ErrAnnotationNotFound is returned when a query or update targets a
	// voice annotation that does not exist in the database.
	ErrAnnotationNotFound = errors.New("voice annotation was not found")

	// ErrTagNotFound is returned when a query targets a tag that does not
	// exist in the database.
	ErrTagNotFound = errors.New("tag was not found")

	// ErrRecordNotFound is returned by the server record repository when an
	// entity id matches no stored record.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrEntryNotSaved is returned when an INSERT completes without error
	// but the number of affected rows is zero, indicating that nothing was
	// actually persisted.
	ErrEntryNotSaved = errors.New("entry was not saved")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommittingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back at this
	// point.
	ErrCommittingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
