package resilience

import (
	"context"
	"errors"
	"io/fs"
)

// PermanentError marks an error as not worth retrying.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// NewPermanentError wraps err so Retry gives up immediately.
func NewPermanentError(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanentError reports whether err should stop a retry loop.
//
// Besides explicit PermanentError wrappers, context errors and file errors
// that will not fix themselves (missing file, permission denied) are
// permanent. Anything else, such as a half-written suite file that fails to
// parse, is assumed transient.
func IsPermanentError(err error) bool {
	if err == nil {
		return false
	}
	var perm *PermanentError
	if errors.As(err, &perm) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission)
}
