package errors

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
)

// Handle logs an error that has no caller to return to, such as a failed async delete.
// Not-found errors are logged as warnings.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	if goerr.HasTag(err, apperr.ErrTagNotFound) {
		logger.Warn("entry not found", "error", err)
		return
	}
	logger.Error("error occurred", "error", err)
}
