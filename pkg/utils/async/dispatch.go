package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/m-mizutani/jiraconf/pkg/utils/errors"
)

// Dispatch runs handler in a new goroutine and logs its error or panic. The handler context
// keeps the values of ctx (logger included) but is not cancelled with it, so a dispatched
// delete survives the command that issued it.
//
// In sync mode (see WithSyncMode) the handler runs before Dispatch returns.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	if isSyncMode(ctx) {
		run(ctx, handler)
		return
	}

	go run(context.WithoutCancel(ctx), handler)
}

func run(ctx context.Context, handler func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			errors.Handle(ctx, goerr.New("panic in async handler",
				goerr.V("recover", r),
				goerr.V("stack", string(debug.Stack())),
				goerr.T(apperr.ErrTagInternal),
			))
		}
	}()

	if err := handler(ctx); err != nil {
		errors.Handle(ctx, err)
	}
}
