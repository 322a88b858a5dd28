package apperr

import "github.com/m-mizutani/goerr/v2"

// Lookup errors
var (
	ErrTagNotFound = goerr.NewTag("not_found")
)

// Write errors
var (
	ErrTagRevisionConflict = goerr.NewTag("revision_conflict")
)

// Validation errors
var (
	ErrTagValidation    = goerr.NewTag("validation")
	ErrTagInvalidInput  = goerr.NewTag("invalid_input")
	ErrTagCorruptedData = goerr.NewTag("corrupted_data")
)

// External service errors
var (
	ErrTagKVStore   = goerr.NewTag("kv_store")
	ErrTagStorage   = goerr.NewTag("storage")
	ErrTagFirestore = goerr.NewTag("firestore")
	ErrTagRedis     = goerr.NewTag("redis")
	ErrTagSQLite    = goerr.NewTag("sqlite")
)

// System errors
var (
	ErrTagInternal = goerr.NewTag("internal")
)
