package main

import (
	"context"
	"os"

	"github.com/m-mizutani/jiraconf/pkg/cli"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		os.Exit(apperr.ExitCodeFromError(err))
	}
}
