package solr

import "errors"

// Sentinel errors for engine operations.
var (
	ErrEngineUnavailable = errors.New("solr: engine unavailable")
	ErrSchemaUnavailable = errors.New("solr: schema unavailable")
	ErrMalformedDocument = errors.New("solr: malformed document")
)

// Op constants name the engine operation for error context.
const (
	OpSelect = "select"
	OpUpdate = "update"
	OpDelete = "delete"
	OpCommit = "commit"
	OpSchema = "schema"
	OpTerms  = "terms"
	OpPing   = "ping"
)

// Error wraps an underlying error with the operation name for
// diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
