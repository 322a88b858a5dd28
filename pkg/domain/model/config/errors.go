package config

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
)

var (
	// ErrNotFound is returned when an entry is absent, unparseable or fails validation
	ErrNotFound = goerr.New("config not found",
		goerr.T(apperr.ErrTagNotFound)).ID("ERR_CONFIG_NOT_FOUND")

	// ErrRevisionConflict is returned when the KV store rejects a write because the stored
	// revision moved on. Refresh the record, re-apply the change and retry.
	ErrRevisionConflict = goerr.New("config revision conflict",
		goerr.T(apperr.ErrTagRevisionConflict)).ID("ERR_CONFIG_REVISION_CONFLICT")

	// ErrUnknown is returned for any transport or unexpected failure
	ErrUnknown = goerr.New("config store failure",
		goerr.T(apperr.ErrTagKVStore)).ID("ERR_CONFIG_UNKNOWN")
)

// Kind classifies an error returned by the config store.
type Kind int

const (
	KindNone Kind = iota
	KindNotFound
	KindRevisionConflict
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindRevisionConflict:
		return "revision_conflict"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of err. Errors that are neither not-found nor a revision conflict
// are KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrRevisionConflict):
		return KindRevisionConflict
	default:
		return KindUnknown
	}
}

// Unknown wraps a transport failure so that both ErrUnknown and the cause stay reachable
// with errors.Is.
func Unknown(cause error, msg string, opts ...goerr.Option) error {
	opts = append([]goerr.Option{goerr.T(apperr.ErrTagKVStore)}, opts...)
	return goerr.Wrap(&unknownError{cause: cause}, msg, opts...)
}

type unknownError struct {
	cause error
}

func (e *unknownError) Error() string {
	return ErrUnknown.Error() + ": " + e.cause.Error()
}

func (e *unknownError) Unwrap() []error {
	return []error{ErrUnknown, e.cause}
}
