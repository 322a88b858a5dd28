package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/jiraconf/pkg/cli/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
)

func TestParseSeed_Template(t *testing.T) {
	seed, err := config.ParseSeed([]byte(config.SeedTemplate()))
	gt.NoError(t, err).Required()
	gt.A(t, seed.Teams).Length(1)

	team := seed.Teams[0]
	gt.Equal(t, team.Name, "acme")
	gt.V(t, team.Jira).NotNil()
	gt.Equal(t, team.Jira.Config().JiraHost, "https://acme.atlassian.net")
	gt.A(t, team.Users).Length(1)
	gt.Equal(t, team.Users[0].Config().JiraAccountID, "5b10a2844c20165700ede21g")
	gt.A(t, team.Channels).Length(1)

	project, ok := team.Channels[0].Config().DefaultProject()
	gt.True(t, ok)
	gt.Equal(t, project, "OPS")

	gt.A(t, team.Subscriptions).Length(1)
	sub := team.Subscriptions[0].Subscription()
	gt.Equal(t, sub.URLToken, "")
	gt.True(t, sub.WithUpdates)
}

func TestParseSeed_Invalid(t *testing.T) {
	testCases := map[string]string{
		"broken yaml":         "teams: [",
		"missing team name":   "teams:\n  - users: []\n",
		"duplicated team":     "teams:\n  - name: a\n  - name: a\n",
		"missing username":    "teams:\n  - name: a\n    users:\n      - jiraAccountID: x\n",
		"missing channel id":  "teams:\n  - name: a\n    channels:\n      - defaultNewIssueProject: P\n",
		"subscription no jql": "teams:\n  - name: a\n    subscriptions:\n      - conversationID: C1\n",
	}

	for name, doc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := config.ParseSeed([]byte(doc))
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, apperr.ErrTagInvalidInput))
		})
	}
}

func TestGenerateSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "seed.yaml")
	gt.NoError(t, config.GenerateSeedFile(path)).Required()

	data, err := os.ReadFile(path)
	gt.NoError(t, err).Required()
	gt.Equal(t, string(data), config.SeedTemplate())

	seed := config.Seed{File: path}
	loaded, err := seed.Load()
	gt.NoError(t, err).Required()
	gt.A(t, loaded.Teams).Length(1)
}

func TestSeedLoad_MissingFile(t *testing.T) {
	seed := config.Seed{File: filepath.Join(t.TempDir(), "absent.yaml")}
	_, err := seed.Load()
	gt.Error(t, err)
}
