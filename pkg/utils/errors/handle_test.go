package errors_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/m-mizutani/jiraconf/pkg/utils/errors"
)

func newContext(buf *bytes.Buffer) context.Context {
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.With(context.Background(), logger)
}

func TestHandle(t *testing.T) {
	t.Run("logs error level", func(t *testing.T) {
		var buf bytes.Buffer
		errors.Handle(newContext(&buf), goerr.New("delete failed"))
		gt.S(t, buf.String()).Contains(`"level":"ERROR"`)
		gt.S(t, buf.String()).Contains("delete failed")
	})

	t.Run("not found is a warning", func(t *testing.T) {
		var buf bytes.Buffer
		errors.Handle(newContext(&buf), goerr.New("gone", goerr.T(apperr.ErrTagNotFound)))
		gt.S(t, buf.String()).Contains(`"level":"WARN"`)
	})

	t.Run("nil is ignored", func(t *testing.T) {
		var buf bytes.Buffer
		errors.Handle(newContext(&buf), nil)
		gt.Equal(t, buf.Len(), 0)
	})
}
