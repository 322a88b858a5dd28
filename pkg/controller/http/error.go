package http

import (
	"net/http"

	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/m-mizutani/jiraconf/pkg/utils/errors"
)

// handleError logs err and writes the status matching its kind
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	errors.Handle(r.Context(), err)

	switch config.KindOf(err) {
	case config.KindNotFound:
		http.Error(w, "Not Found", http.StatusNotFound)
	case config.KindRevisionConflict:
		http.Error(w, "Conflict", http.StatusConflict)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
