package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
)

type testEnv struct {
	dbPath      string
	storagePath string
	seedPath    string
}

func newTestEnv(t *testing.T) *testEnv {
	dir := t.TempDir()
	return &testEnv{
		dbPath:      filepath.Join(dir, "kv.db"),
		storagePath: filepath.Join(dir, "snapshots"),
		seedPath:    filepath.Join(dir, "seed.yaml"),
	}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	base := []string{"jiraconf",
		"--log-quiet",
		"--kv-backend", "sqlite",
		"--sqlite-path", e.dbPath,
	}
	err := newApp(&buf).Run(context.Background(), append(base, args...))
	return buf.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	gt.NoError(t, err).Required()
	return out
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	e.mustRun(t, "tool", "generate-seed", "--output", e.seedPath)
	out := e.mustRun(t, "seed", "--file", e.seedPath)
	gt.S(t, out).Contains("seeded 4 records of 1 teams")
}

func TestSeedAndShow(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	out := env.mustRun(t, "show", "--team", "acme", "--user", "alice", "--channel", "C0123456789")
	gt.S(t, out).Contains(`"team": "acme"`)
	gt.S(t, out).Contains("https://acme.atlassian.net")
	gt.S(t, out).Contains("5b10a2844c20165700ede21g")
	gt.S(t, out).Contains(`"defaultNewIssueProject": "OPS"`)
	gt.S(t, out).Contains("project = OPS AND status = Open")

	gt.S(t, out).NotContains("BEGIN PRIVATE KEY")
	gt.S(t, out).NotContains("access-token")
	gt.S(t, out).NotContains("token-secret")
}

func TestShow_UnknownTeam(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "show", "--team", "nobody")
	gt.S(t, out).Contains(`"team": "nobody"`)
	gt.S(t, out).NotContains("jiraConfig")
	gt.S(t, out).NotContains("subscriptions")
}

func TestListIndex(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "list-index")
	gt.Equal(t, strings.TrimSpace(out), "[]")

	env.seed(t)
	out = env.mustRun(t, "list-index")
	gt.S(t, out).Contains(`"teamname": "acme"`)
	gt.S(t, out).Contains(`"id": 1`)
}

func TestSeed_Reapply(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	// records are overwritten on top of the stored revision
	out := env.mustRun(t, "seed", "--file", env.seedPath)
	gt.S(t, out).Contains("seeded 4 records")

	out = env.mustRun(t, "show", "--team", "acme")
	gt.S(t, out).Contains(`"revision": 2`)
}

func TestSeed_MissingFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "seed", "--file", env.seedPath)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, apperr.ErrTagInvalidInput))
}

func TestClear(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	_, err := env.run(t, "clear")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, apperr.ErrTagInvalidInput))

	// jira, user, channel, subscriptions and one index entry
	out := env.mustRun(t, "clear", "--yes")
	gt.S(t, out).Contains("cleared 5 entries")

	out = env.mustRun(t, "show", "--team", "acme")
	gt.S(t, out).NotContains("jiraConfig")

	out = env.mustRun(t, "list-index")
	gt.Equal(t, strings.TrimSpace(out), "[]")
}

func TestExportAndSnapshots(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	_, err := env.run(t, "export")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, apperr.ErrTagInvalidInput))

	out := env.mustRun(t, "export", "--file-storage-path", env.storagePath)
	key := strings.TrimSpace(out)
	gt.True(t, strings.HasPrefix(key, "snapshots/jirabot/"))
	gt.True(t, strings.HasSuffix(key, ".json.gz"))

	out = env.mustRun(t, "snapshots", "list", "--file-storage-path", env.storagePath)
	gt.Equal(t, strings.TrimSpace(out), key)

	out = env.mustRun(t, "snapshots", "show", "--file-storage-path", env.storagePath, "--key", key)
	gt.S(t, out).Contains(`"account": "jirabot"`)
	gt.S(t, out).Contains(`"entryKey": "jiraConfig"`)
	gt.S(t, out).Contains(`"namespace": "jirabot-v1-subscription-index"`)
	gt.S(t, out).NotContains("BEGIN PRIVATE KEY")
}

func TestGenerateSeed_RefusesOverwrite(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "tool", "generate-seed", "--output", env.seedPath)

	_, err := env.run(t, "tool", "generate-seed", "--output", env.seedPath)
	gt.Error(t, err)

	env.mustRun(t, "tool", "generate-seed", "--output", env.seedPath, "--force")
}

func TestUnknownBackend(t *testing.T) {
	var buf bytes.Buffer
	err := newApp(&buf).Run(context.Background(), []string{"jiraconf", "--log-quiet", "--kv-backend", "etcd", "list-index"})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, apperr.ErrTagInvalidInput))
}
