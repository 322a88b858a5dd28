package configcache_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/m-mizutani/jiraconf/pkg/service/configcache"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestCache_Freshness(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := configcache.New[config.TeamUserConfig](configcache.WithClock(clock.Now))

	value := config.TeamUserConfig{JiraAccountID: "acc", AccessToken: "tok", TokenSecret: "sec"}
	stored := cache.Set("ns", "user-alice", value, 3)
	gt.Equal(t, stored.Revision, 3)
	gt.Equal(t, stored.FetchedAt, clock.now)

	clock.Advance(59 * time.Second)
	got, ok := cache.Get("ns", "user-alice")
	gt.True(t, ok)
	gt.Equal(t, got.Value, value)
	gt.Equal(t, got.Revision, 3)

	clock.Advance(2 * time.Second)
	_, ok = cache.Get("ns", "user-alice")
	gt.False(t, ok)
}

func TestCache_Miss(t *testing.T) {
	cache := configcache.New[config.TeamUserConfig]()
	_, ok := cache.Get("ns", "nothing")
	gt.False(t, ok)
	gt.Equal(t, cache.TTL(), configcache.DefaultTTL)
}

func TestCache_OverwriteAndDelete(t *testing.T) {
	cache := configcache.New[config.JiraSubscriptionIndex]()

	cache.Set("index", "tok", config.JiraSubscriptionIndex{Teamname: "a", ID: 1}, 1)
	cache.Set("index", "tok", config.JiraSubscriptionIndex{Teamname: "b", ID: 2}, 2)

	got, ok := cache.Get("index", "tok")
	gt.True(t, ok)
	gt.Equal(t, got.Value.Teamname, "b")
	gt.Equal(t, got.Revision, 2)

	cache.Delete("index", "tok")
	_, ok = cache.Get("index", "tok")
	gt.False(t, ok)
}

func TestCache_KeysAreNamespaced(t *testing.T) {
	cache := configcache.New[config.TeamChannelConfig]()
	cache.Set("team-a", "channel-1", config.NewTeamChannelConfig("A"), 1)

	_, ok := cache.Get("team-b", "channel-1")
	gt.False(t, ok)

	got, ok := cache.Get("team-a", "channel-1")
	gt.True(t, ok)
	project, _ := got.Value.DefaultProject()
	gt.Equal(t, project, "A")
}

func TestCache_Capacity(t *testing.T) {
	cache := configcache.New[config.TeamJiraConfig](configcache.WithCapacity(2))

	cache.Set("ns", "a", config.TeamJiraConfig{JiraHost: "a"}, 1)
	cache.Set("ns", "b", config.TeamJiraConfig{JiraHost: "b"}, 1)
	cache.Set("ns", "c", config.TeamJiraConfig{JiraHost: "c"}, 1)

	gt.Equal(t, cache.Len(), 2)
	_, ok := cache.Get("ns", "a")
	gt.False(t, ok)
	_, ok = cache.Get("ns", "c")
	gt.True(t, ok)
}

func TestCache_Purge(t *testing.T) {
	cache := configcache.New[config.TeamJiraConfig]()
	cache.Set("ns", "a", config.TeamJiraConfig{JiraHost: "a"}, 1)
	cache.Purge()
	gt.Equal(t, cache.Len(), 0)
}

func TestCache_ReturnsCopy(t *testing.T) {
	cache := configcache.New[config.TeamJiraConfig]()
	cache.Set("ns", "a", config.TeamJiraConfig{JiraHost: "a"}, 1)

	got, ok := cache.Get("ns", "a")
	gt.True(t, ok)
	got.Value.JiraHost = "mutated"

	again, ok := cache.Get("ns", "a")
	gt.True(t, ok)
	gt.Equal(t, again.Value.JiraHost, "a")
}

func TestCache_CopiesSubscriptionRegistry(t *testing.T) {
	cache := configcache.New[config.TeamJiraSubscriptions]()
	subs := config.TeamJiraSubscriptions{
		1: {ConversationID: "C1", JQL: "project = OPS", URLToken: "t1"},
	}

	stored := cache.Set("ns", config.JiraSubscriptionsKey, subs, 1)

	// mutating the map given to Set or the one Set returned leaves the cache intact
	delete(subs, 1)
	stored.Value[2] = config.TeamJiraSubscription{ConversationID: "C2"}

	got, ok := cache.Get("ns", config.JiraSubscriptionsKey)
	gt.True(t, ok)
	gt.Equal(t, got.Value.IDs(), []config.SubscriptionID{1})

	// mutating a returned map leaves the cache intact
	delete(got.Value, 1)
	again, ok := cache.Get("ns", config.JiraSubscriptionsKey)
	gt.True(t, ok)
	gt.Equal(t, again.Value.IDs(), []config.SubscriptionID{1})
}
