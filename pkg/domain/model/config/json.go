package config

import (
	"encoding/json"
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/tidwall/gjson"
)

// Parse decodes a stored payload into an untyped tree. It returns false if the payload is
// not well-formed JSON.
func Parse(payload string) (gjson.Result, bool) {
	if !gjson.Valid(payload) {
		return gjson.Result{}, false
	}
	return gjson.Parse(payload), true
}

// Serialize encodes a single-entity record with generic JSON encoding.
func Serialize[T any](v T) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", goerr.Wrap(err, "failed to serialize config", goerr.T(apperr.ErrTagValidation))
	}
	return string(raw), nil
}

func stringField(obj gjson.Result, name string) (string, bool) {
	v := obj.Get(name)
	if v.Type != gjson.String {
		return "", false
	}
	return v.String(), true
}

// optionalStringField accepts absence. A present value must be a string; null is rejected.
func optionalStringField(obj gjson.Result, name string) (*string, bool) {
	v := obj.Get(name)
	if !v.Exists() {
		return nil, true
	}
	if v.Type != gjson.String {
		return nil, false
	}
	s := v.String()
	return &s, true
}

// optionalBoolField normalizes absence to false.
func optionalBoolField(obj gjson.Result, name string) (bool, bool) {
	v := obj.Get(name)
	switch {
	case !v.Exists():
		return false, true
	case v.Type == gjson.True:
		return true, true
	case v.Type == gjson.False:
		return false, true
	default:
		return false, false
	}
}

// integer accepts JSON numbers without a fractional part that fit in int64.
func integer(v gjson.Result) (int64, bool) {
	if v.Type != gjson.Number {
		return 0, false
	}
	if v.Num != math.Trunc(v.Num) || v.Num > math.MaxInt64 || v.Num < math.MinInt64 {
		return 0, false
	}
	return v.Int(), true
}
