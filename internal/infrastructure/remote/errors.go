package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrVersionConflict marks remote 409 rejections of a stale version.
	// Conflicts are a semantic event, not a transient fault: they are never
	// retried and never re-routed to the fallback endpoint.
	ErrVersionConflict = errors.New("remote version conflict")

	// ErrUnavailable marks a transient failure that survived the whole
	// retry/fallback budget.
	ErrUnavailable = errors.New("remote service unavailable")
)

// NetworkError wraps transport-level failures (connection errors, timeouts,
// 5xx). The client retries these and only surfaces them once the budget is
// exhausted.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure on %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrUnavailable }

// VersionConflictError carries the detail of a 409 rejection so the caller
// can re-fetch and re-decide.
type VersionConflictError struct {
	Path            string
	ExpectedVersion int64
	Message         string
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict on %s (sent version %d): %s", e.Path, e.ExpectedVersion, e.Message)
}

func (e *VersionConflictError) Is(target error) bool { return target == ErrVersionConflict }

// RemoteError is a non-retryable remote rejection other than a version
// conflict (remote-side validation, unknown id, ...).
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote rejected request: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("remote rejected request: status=%d message=%s", e.StatusCode, e.Message)
}
