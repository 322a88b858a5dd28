package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
)

// IndexResponse is one entry of the subscription index
type IndexResponse struct {
	URLToken string                `json:"urlToken"`
	Teamname string                `json:"teamname"`
	ID       config.SubscriptionID `json:"id"`
	Revision int                   `json:"revision"`
}

// ResolveResponse is the subscription a webhook token points to
type ResolveResponse struct {
	Teamname       string                `json:"teamname"`
	ID             config.SubscriptionID `json:"id"`
	ConversationID string                `json:"conversationId"`
	JQL            string                `json:"jql"`
	WithUpdates    bool                  `json:"withUpdates"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("failed to write response", "error", err)
	}
}

func listIndexHandler(store ConfigReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := store.ListAllSubscriptionIndices(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}

		resp := make([]IndexResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, IndexResponse{
				URLToken: e.URLToken,
				Teamname: e.Index.Teamname,
				ID:       e.Index.ID,
				Revision: e.Revision,
			})
		}
		writeJSON(w, r, resp)
	}
}

// resolveIndexHandler follows a webhook token to the subscription it registered. A token whose
// subscription was removed resolves to 404.
func resolveIndexHandler(store ConfigReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token := chi.URLParam(r, "urlToken")

		index, err := store.GetJiraSubscriptionIndex(ctx, token)
		if err != nil {
			handleError(w, r, err)
			return
		}

		subs, err := store.GetTeamJiraSubscriptions(ctx, index.Value.Teamname)
		if err != nil {
			handleError(w, r, err)
			return
		}

		sub, ok := subs.Value[index.Value.ID]
		if !ok || sub.URLToken != token {
			handleError(w, r, goerr.Wrap(config.ErrNotFound, "index points to a missing subscription",
				goerr.TV(apperr.URLTokenKey, token),
				goerr.TV(apperr.TeamKey, index.Value.Teamname),
				goerr.TV(apperr.SubscriptionIDKey, int64(index.Value.ID))))
			return
		}

		writeJSON(w, r, ResolveResponse{
			Teamname:       index.Value.Teamname,
			ID:             index.Value.ID,
			ConversationID: sub.ConversationID,
			JQL:            sub.JQL,
			WithUpdates:    sub.WithUpdates,
		})
	}
}
