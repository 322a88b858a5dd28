package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	server "github.com/m-mizutani/jiraconf/pkg/controller/http"
	"github.com/m-mizutani/jiraconf/pkg/domain/interfaces"
	"github.com/m-mizutani/jiraconf/pkg/domain/mock"
	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/m-mizutani/jiraconf/pkg/repository/kvstore/memory"
	"github.com/m-mizutani/jiraconf/pkg/usecase"
)

func newStore(t *testing.T) *usecase.ConfigStore {
	t.Helper()
	return usecase.NewConfigStore(memory.New(), "jirabot")
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	rec := get(t, server.New(), "/health")
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.Equal(t, rec.Body.String(), "OK")

	// api is not mounted without a store
	rec = get(t, server.New(), "/api/v1/subscription-index")
	gt.Equal(t, rec.Code, http.StatusNotFound)
}

func TestServer_ResolveIndex(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	h := server.New(server.WithConfigReader(store))

	id, sub, err := store.Subscribe(ctx, "acme", config.TeamJiraSubscription{
		ConversationID: "C1",
		WebhookURI:     "https://acme.atlassian.net/rest/webhooks/1.0/webhook/7",
		JQL:            "project = OPS",
		WithUpdates:    true,
	})
	gt.NoError(t, err).Required()

	rec := get(t, h, "/api/v1/subscription-index/"+sub.URLToken)
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.Equal(t, rec.Header().Get("Content-Type"), "application/json")

	var resp server.ResolveResponse
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Equal(t, resp.Teamname, "acme")
	gt.Equal(t, resp.ID, id)
	gt.Equal(t, resp.ConversationID, "C1")
	gt.Equal(t, resp.JQL, "project = OPS")
	gt.True(t, resp.WithUpdates)

	t.Run("unknown token", func(t *testing.T) {
		rec := get(t, h, "/api/v1/subscription-index/unknown")
		gt.Equal(t, rec.Code, http.StatusNotFound)
	})

	t.Run("index pointing to a removed subscription", func(t *testing.T) {
		stale := config.JiraSubscriptionIndex{Teamname: "acme", ID: 99}
		gt.NoError(t, store.SetOrDeleteSubscriptionIndex(ctx, "stale-token", &stale)).Required()

		rec := get(t, h, "/api/v1/subscription-index/stale-token")
		gt.Equal(t, rec.Code, http.StatusNotFound)
	})
}

func TestServer_ListIndex(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	h := server.New(server.WithConfigReader(store))

	rec := get(t, h, "/api/v1/subscription-index")
	gt.Equal(t, rec.Code, http.StatusOK)

	var empty []server.IndexResponse
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty)).Required()
	gt.A(t, empty).Length(0)

	for _, team := range []string{"acme", "globex"} {
		_, _, err := store.Subscribe(ctx, team, config.TeamJiraSubscription{ConversationID: "C1", JQL: "project = OPS"})
		gt.NoError(t, err).Required()
	}

	rec = get(t, h, "/api/v1/subscription-index")
	gt.Equal(t, rec.Code, http.StatusOK)

	var entries []server.IndexResponse
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries)).Required()
	gt.A(t, entries).Length(2)
	for _, e := range entries {
		gt.Equal(t, e.ID, config.SubscriptionID(1))
		gt.Equal(t, e.Revision, 1)
	}
}

func TestServer_BackendFailure(t *testing.T) {
	kv := &mock.KVStoreMock{
		ListEntryKeysFunc: func(ctx context.Context, account, namespace string) ([]string, error) {
			return nil, errors.New("connection refused")
		},
		GetFunc: func(ctx context.Context, account, namespace, entryKey string) (*interfaces.KVEntry, error) {
			return nil, errors.New("connection refused")
		},
	}
	h := server.New(server.WithConfigReader(usecase.NewConfigStore(kv, "jirabot")))

	rec := get(t, h, "/api/v1/subscription-index")
	gt.Equal(t, rec.Code, http.StatusInternalServerError)

	rec = get(t, h, "/api/v1/subscription-index/some-token")
	gt.Equal(t, rec.Code, http.StatusInternalServerError)
}
