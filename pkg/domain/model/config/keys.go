package config

import "fmt"

// DefaultPrefix is the namespace prefix used unless the store is configured otherwise.
const DefaultPrefix = "jirabot-v1"

// Fixed entry keys of team-level singletons.
const (
	JiraConfigKey        = "jiraConfig"
	JiraSubscriptionsKey = "jiraSubscriptions"
)

// Prefix derives namespaces. Every namespace of one deployment shares the same prefix, so
// several deployments can live in one KV account.
type Prefix string

// TeamNamespace returns the namespace holding every record of a team.
func (p Prefix) TeamNamespace(team string) string {
	return fmt.Sprintf("%s-team-%s", p, team)
}

// SubscriptionIndexNamespace returns the global namespace of the urlToken reverse index.
func (p Prefix) SubscriptionIndexNamespace() string {
	return string(p) + "-subscription-index"
}

// UserConfigKey returns the entry key of a per-user config.
func UserConfigKey(username string) string {
	return "user-" + username
}

// ChannelConfigKey returns the entry key of a per-channel config.
func ChannelConfigKey(conversationID string) string {
	return "channel-" + conversationID
}

// CacheKey joins namespace and entry key into the key used by in-process caches.
func CacheKey(namespace, entryKey string) string {
	return namespace + ":" + entryKey
}
