package apperr

import "github.com/m-mizutani/goerr/v2"

// Process exit codes used by the CLI
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitInvalidInput     = 2
	ExitNotFound         = 3
	ExitRevisionConflict = 4
	ExitBackend          = 5
)

// ExitCodeFromError returns the process exit code based on error tags
func ExitCodeFromError(err error) int {
	switch {
	case err == nil:
		return ExitOK

	case goerr.HasTag(err, ErrTagNotFound):
		return ExitNotFound

	case goerr.HasTag(err, ErrTagRevisionConflict):
		return ExitRevisionConflict

	case goerr.HasTag(err, ErrTagValidation),
		goerr.HasTag(err, ErrTagInvalidInput),
		goerr.HasTag(err, ErrTagCorruptedData):
		return ExitInvalidInput

	case goerr.HasTag(err, ErrTagKVStore),
		goerr.HasTag(err, ErrTagStorage),
		goerr.HasTag(err, ErrTagFirestore),
		goerr.HasTag(err, ErrTagRedis),
		goerr.HasTag(err, ErrTagSQLite):
		return ExitBackend

	default:
		return ExitFailure
	}
}
