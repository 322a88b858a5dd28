package kvstore_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/jiraconf/pkg/domain/interfaces"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/m-mizutani/jiraconf/pkg/repository/kvstore/firestore"
	"github.com/m-mizutani/jiraconf/pkg/repository/kvstore/memory"
	"github.com/m-mizutani/jiraconf/pkg/repository/kvstore/redis"
	"github.com/m-mizutani/jiraconf/pkg/repository/kvstore/sqlite"
)

// testKVStore runs common tests for any KVStore implementation. Each run uses a fresh account
// so backends that persist across runs stay isolated.
func testKVStore(t *testing.T, store interfaces.KVStore) {
	ctx := context.Background()

	newAccount := func() string {
		return "test-" + uuid.NewString()
	}

	t.Run("GetAbsent", func(t *testing.T) {
		entry, err := store.Get(ctx, newAccount(), "ns", "missing")
		gt.NoError(t, err)
		gt.False(t, entry.Exists())
		gt.Equal(t, entry.Revision, 0)
		gt.Equal(t, entry.Namespace, "ns")
		gt.Equal(t, entry.EntryKey, "missing")
	})

	t.Run("UnconditionalPut", func(t *testing.T) {
		account := newAccount()

		rev, err := store.Put(ctx, account, "ns", "k", "v1", 0)
		gt.NoError(t, err)
		gt.Equal(t, rev, 1)

		rev, err = store.Put(ctx, account, "ns", "k", "v2", 0)
		gt.NoError(t, err)
		gt.Equal(t, rev, 2)

		entry, err := store.Get(ctx, account, "ns", "k")
		gt.NoError(t, err)
		gt.Equal(t, entry.Value, "v2")
		gt.Equal(t, entry.Revision, 2)
	})

	t.Run("SequentialConditionalPuts", func(t *testing.T) {
		account := newAccount()

		rev1, err := store.Put(ctx, account, "ns", "k", "a", 0)
		gt.NoError(t, err)
		rev2, err := store.Put(ctx, account, "ns", "k", "b", rev1+1)
		gt.NoError(t, err)
		rev3, err := store.Put(ctx, account, "ns", "k", "c", rev2+1)
		gt.NoError(t, err)

		gt.True(t, rev1 < rev2)
		gt.True(t, rev2 < rev3)
	})

	t.Run("StaleRevisionRejected", func(t *testing.T) {
		account := newAccount()

		rev1, err := store.Put(ctx, account, "ns", "k", "first", 0)
		gt.NoError(t, err)
		_, err = store.Put(ctx, account, "ns", "k", "second", rev1+1)
		gt.NoError(t, err)

		_, err = store.Put(ctx, account, "ns", "k", "stale", rev1+1)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, interfaces.ErrRevisionMismatch))
		gt.True(t, goerrHasConflictTag(err))

		entry, err := store.Get(ctx, account, "ns", "k")
		gt.NoError(t, err)
		gt.Equal(t, entry.Value, "second")
	})

	t.Run("ConditionalPutOnAbsentKey", func(t *testing.T) {
		account := newAccount()

		_, err := store.Put(ctx, account, "ns", "k", "v", 5)
		gt.True(t, errors.Is(err, interfaces.ErrRevisionMismatch))

		rev, err := store.Put(ctx, account, "ns", "k", "v", 1)
		gt.NoError(t, err)
		gt.Equal(t, rev, 1)
	})

	t.Run("EmptyValueRejected", func(t *testing.T) {
		_, err := store.Put(ctx, newAccount(), "ns", "k", "", 0)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, apperr.ErrEmptyValue))
		gt.False(t, errors.Is(err, interfaces.ErrRevisionMismatch))
	})

	t.Run("NegativeRevisionRejected", func(t *testing.T) {
		_, err := store.Put(ctx, newAccount(), "ns", "k", "v", -1)
		gt.True(t, errors.Is(err, apperr.ErrInvalidRevision))
	})

	t.Run("DeleteKeepsRevisionGrowing", func(t *testing.T) {
		account := newAccount()

		rev, err := store.Put(ctx, account, "ns", "k", "v", 0)
		gt.NoError(t, err)
		gt.NoError(t, store.Delete(ctx, account, "ns", "k"))

		entry, err := store.Get(ctx, account, "ns", "k")
		gt.NoError(t, err)
		gt.False(t, entry.Exists())
		gt.True(t, entry.Revision > rev)

		next, err := store.Put(ctx, account, "ns", "k", "again", entry.Revision+1)
		gt.NoError(t, err)
		gt.True(t, next > entry.Revision)
	})

	t.Run("DeleteAbsent", func(t *testing.T) {
		gt.NoError(t, store.Delete(ctx, newAccount(), "ns", "nothing"))
	})

	t.Run("Listing", func(t *testing.T) {
		account := newAccount()

		for _, item := range []struct{ ns, key string }{
			{"team-b", "user-2"},
			{"team-a", "jiraConfig"},
			{"team-b", "user-1"},
			{"index", "token"},
		} {
			_, err := store.Put(ctx, account, item.ns, item.key, `{"x":1}`, 0)
			gt.NoError(t, err)
		}
		gt.NoError(t, store.Delete(ctx, account, "index", "token"))

		namespaces, err := store.ListNamespaces(ctx, account)
		gt.NoError(t, err)
		gt.Equal(t, namespaces, []string{"team-a", "team-b"})

		keys, err := store.ListEntryKeys(ctx, account, "team-b")
		gt.NoError(t, err)
		gt.Equal(t, keys, []string{"user-1", "user-2"})

		keys, err = store.ListEntryKeys(ctx, account, "index")
		gt.NoError(t, err)
		gt.A(t, keys).Length(0)
	})

	t.Run("AccountsAreIsolated", func(t *testing.T) {
		a, b := newAccount(), newAccount()

		_, err := store.Put(ctx, a, "ns", "k", "from-a", 0)
		gt.NoError(t, err)

		entry, err := store.Get(ctx, b, "ns", "k")
		gt.NoError(t, err)
		gt.False(t, entry.Exists())

		namespaces, err := store.ListNamespaces(ctx, b)
		gt.NoError(t, err)
		gt.A(t, namespaces).Length(0)
	})

	t.Run("KeysWithSeparators", func(t *testing.T) {
		account := newAccount()

		_, err := store.Put(ctx, account, "a:b", "c/d|e", "v1", 0)
		gt.NoError(t, err)
		_, err = store.Put(ctx, account, "a", "b:c/d|e", "v2", 0)
		gt.NoError(t, err)

		entry, err := store.Get(ctx, account, "a:b", "c/d|e")
		gt.NoError(t, err)
		gt.Equal(t, entry.Value, "v1")
	})

	t.Run("ConcurrentConditionalPutsHaveOneWinner", func(t *testing.T) {
		account := newAccount()

		rev, err := store.Put(ctx, account, "ns", "k", "base", 0)
		gt.NoError(t, err)

		const writers = 5
		var wg sync.WaitGroup
		results := make([]error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, results[i] = store.Put(ctx, account, "ns", "k", fmt.Sprintf("w%d", i), rev+1)
			}(i)
		}
		wg.Wait()

		winners := 0
		for _, err := range results {
			if err == nil {
				winners++
				continue
			}
			gt.True(t, errors.Is(err, interfaces.ErrRevisionMismatch))
		}
		gt.Equal(t, winners, 1)

		entry, err := store.Get(ctx, account, "ns", "k")
		gt.NoError(t, err)
		gt.Equal(t, entry.Revision, rev+1)
	})
}

func goerrHasConflictTag(err error) bool {
	return apperr.ExitCodeFromError(err) == apperr.ExitRevisionConflict
}

func TestMemoryKVStore(t *testing.T) {
	testKVStore(t, memory.New())
}

func TestSQLiteKVStore(t *testing.T) {
	ctx := context.Background()
	client, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "kv.db"))
	gt.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	testKVStore(t, client)
}

func TestSQLiteKVStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	client, err := sqlite.New(ctx, path)
	gt.NoError(t, err)
	rev, err := client.Put(ctx, "acc", "ns", "k", "persisted", 0)
	gt.NoError(t, err)
	gt.NoError(t, client.Close())

	reopened, err := sqlite.New(ctx, path)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	entry, err := reopened.Get(ctx, "acc", "ns", "k")
	gt.NoError(t, err)
	gt.Equal(t, entry.Value, "persisted")
	gt.Equal(t, entry.Revision, rev)
}

func TestRedisKVStore(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := redis.New(ctx, redisURL, "jiraconf-test")
	gt.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	testKVStore(t, client)
}

func TestFirestoreKVStore(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE")
	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT and TEST_FIRESTORE_DATABASE are not set")
	}

	ctx := context.Background()
	client, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollection("kv_entries_test"))
	gt.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	testKVStore(t, client)
}
