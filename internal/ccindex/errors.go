// The teacher wraps every I/O and protobuf-unmarshal failure with
// github.com/pkg/errors ("load database %s", "emitter.Flush") rather
// than defining its own error types. These types give spec.md §7's
// five error kinds the same wrapped, causal shape without inventing a
// new error-handling idiom: each kind is a distinct Go type so callers
// can errors.As() for the one they care about, but all of them compose
// with pkg/errors' Wrap/Cause chain.
package ccindex

import "github.com/pkg/errors"

// ParseFatalError reports that the frontend itself failed before or
// during IndexTranslationUnit in a way that makes the resulting
// IndexedFile unusable (spec.md §7, ParseFatal). Parse wraps the
// frontend's error in one of these via NewParseFatalError before
// returning.
type ParseFatalError struct {
	Filename string
	cause    error
}

func (e *ParseFatalError) Error() string {
	return errors.Wrapf(e.cause, "parse %s", e.Filename).Error()
}

func (e *ParseFatalError) Unwrap() error { return e.cause }

// NewParseFatalError wraps cause as a ParseFatalError for filename.
func NewParseFatalError(filename string, cause error) error {
	return &ParseFatalError{Filename: filename, cause: cause}
}

// LocationOverflowError is never returned by Parse itself: location
// field overflow is clamped and counted in Stats (spec.md §7: "never a
// hard error"). ccindex never constructs one; it exists so a caller
// inspecting Stats after a successful Parse (cmd/ccls-index does, to
// log a warning) has a name to attach to that decision instead of
// formatting the counters by hand.
type LocationOverflowError struct {
	FileIDClamped, LineClamped, ColumnClamped uint64
}

func (e *LocationOverflowError) Error() string {
	return errors.Errorf("location fields clamped: file_id=%d line=%d column=%d",
		e.FileIDClamped, e.LineClamped, e.ColumnClamped).Error()
}

// CallbackDegenerateError describes a single malformed event observed
// from the frontend (missing USR on a Func/Var decl or reference) that
// was dropped rather than propagated (spec.md §7, CallbackDegenerate).
// The driver appends one to IndexedFile.Diagnostics for every event
// counted in Stats.SkippedEmptyUSR, so callers that want the detail
// behind the aggregate count (cmd/ccls-index logs them) can read it.
type CallbackDegenerateError struct {
	Reason string
}

func (e *CallbackDegenerateError) Error() string {
	return "degenerate callback: " + e.Reason
}

// DuplicateDefinitionError describes one case where a second,
// materially different definition location was observed for an entity
// that already had one (spec.md §7, DuplicateDefinition; spec
// invariant 4). The driver appends one to IndexedFile.Diagnostics for
// every event counted in Stats.DuplicateDefinitions.
type DuplicateDefinitionError struct {
	USR string
}

func (e *DuplicateDefinitionError) Error() string {
	return "duplicate definition for " + e.USR
}

// CancelledError reports that a Parse was cut short by context
// cancellation (spec.md §7, Cancelled). The partial IndexedFile is
// still returned by Parse with Incomplete set to true and no error;
// callers who would rather treat cancellation as an error than inspect
// Incomplete themselves can construct one directly (cmd/ccls-index
// does, to log a warning).
type CancelledError struct {
	Filename string
}

func (e *CancelledError) Error() string {
	return "indexing cancelled for " + e.Filename
}
