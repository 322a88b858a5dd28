package config

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/tidwall/gjson"
)

// SubscriptionID identifies a subscription within one team. It is unrelated to the Jira
// webhook ID.
type SubscriptionID int64

// TeamJiraSubscription is a saved JQL search whose matches are posted to a conversation.
type TeamJiraSubscription struct {
	ConversationID string `json:"conversationId"`
	// WebhookURI is kept to unregister the Jira webhook on unsubscribe
	WebhookURI  string `json:"webhookURI"`
	URLToken    string `json:"urlToken"`
	JQL         string `json:"jql"`
	WithUpdates bool   `json:"withUpdates"`
}

// TeamJiraSubscriptions is the subscription registry of a team. Use With and Without to derive
// a modified copy.
// namespace: <prefix>-team-<team>, key: jiraSubscriptions
type TeamJiraSubscriptions map[SubscriptionID]TeamJiraSubscription

// IDs returns the subscription IDs in ascending order.
func (s TeamJiraSubscriptions) IDs() []SubscriptionID {
	return slices.Sorted(maps.Keys(s))
}

// NextID returns an ID not used by any subscription of the team.
func (s TeamJiraSubscriptions) NextID() SubscriptionID {
	var next SubscriptionID = 1
	for id := range s {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

// With returns a copy of s with sub stored under id.
func (s TeamJiraSubscriptions) With(id SubscriptionID, sub TeamJiraSubscription) TeamJiraSubscriptions {
	copied := make(TeamJiraSubscriptions, len(s)+1)
	maps.Copy(copied, s)
	copied[id] = sub
	return copied
}

// Clone returns a shallow copy of s. Subscriptions are values, so the copy shares nothing.
func (s TeamJiraSubscriptions) Clone() TeamJiraSubscriptions {
	return maps.Clone(s)
}

// Without returns a copy of s without id.
func (s TeamJiraSubscriptions) Without(id SubscriptionID) TeamJiraSubscriptions {
	copied := maps.Clone(s)
	if copied == nil {
		copied = TeamJiraSubscriptions{}
	}
	delete(copied, id)
	return copied
}

// FindByURLToken returns the subscription registered with token.
func (s TeamJiraSubscriptions) FindByURLToken(token string) (SubscriptionID, TeamJiraSubscription, bool) {
	for _, id := range s.IDs() {
		if s[id].URLToken == token {
			return id, s[id], true
		}
	}
	return 0, TeamJiraSubscription{}, false
}

// MarshalJSON encodes the registry as [[id, subscription], ...] ordered by id. Object keys
// would turn the numeric IDs into strings.
func (s TeamJiraSubscriptions) MarshalJSON() ([]byte, error) {
	pairs := make([][2]any, 0, len(s))
	for _, id := range s.IDs() {
		pairs = append(pairs, [2]any{int64(id), s[id]})
	}
	return json.Marshal(pairs)
}

// SerializeTeamJiraSubscriptions encodes the registry in the pair-list form expected by
// ValidateTeamJiraSubscriptions.
func SerializeTeamJiraSubscriptions(s TeamJiraSubscriptions) (string, error) {
	raw, err := s.MarshalJSON()
	if err != nil {
		return "", goerr.Wrap(err, "failed to serialize subscriptions", goerr.T(apperr.ErrTagValidation))
	}
	return string(raw), nil
}

// ValidateTeamJiraSubscriptions converts a pair list into the registry. The top level must be
// an array; entries that fail validation are dropped and the rest of the registry is kept.
// A repeated ID keeps the last entry.
func ValidateTeamJiraSubscriptions(raw gjson.Result) (TeamJiraSubscriptions, bool) {
	if !raw.IsArray() {
		return nil, false
	}

	subs := TeamJiraSubscriptions{}
	for _, pair := range raw.Array() {
		id, sub, ok := validateSubscriptionPair(pair)
		if !ok {
			continue
		}
		subs[id] = sub
	}
	return subs, true
}

func validateSubscriptionPair(pair gjson.Result) (SubscriptionID, TeamJiraSubscription, bool) {
	if !pair.IsArray() {
		return 0, TeamJiraSubscription{}, false
	}
	elems := pair.Array()
	if len(elems) < 2 {
		return 0, TeamJiraSubscription{}, false
	}

	id, ok := integer(elems[0])
	if !ok {
		return 0, TeamJiraSubscription{}, false
	}
	sub, ok := validateSubscription(elems[1])
	if !ok {
		return 0, TeamJiraSubscription{}, false
	}
	return SubscriptionID(id), sub, true
}

func validateSubscription(v gjson.Result) (TeamJiraSubscription, bool) {
	if !v.IsObject() {
		return TeamJiraSubscription{}, false
	}
	conversationID, ok1 := stringField(v, "conversationId")
	webhookURI, ok2 := stringField(v, "webhookURI")
	urlToken, ok3 := stringField(v, "urlToken")
	jql, ok4 := stringField(v, "jql")
	withUpdates, ok5 := optionalBoolField(v, "withUpdates")
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return TeamJiraSubscription{}, false
	}

	return TeamJiraSubscription{
		ConversationID: conversationID,
		WebhookURI:     webhookURI,
		URLToken:       urlToken,
		JQL:            jql,
		WithUpdates:    withUpdates,
	}, true
}

// JiraSubscriptionIndex resolves a webhook callback token to its subscription.
// namespace: <prefix>-subscription-index, key: urlToken
type JiraSubscriptionIndex struct {
	Teamname string         `json:"teamname"`
	ID       SubscriptionID `json:"id"`
}

// ValidateJiraSubscriptionIndex converts an untyped tree into a JiraSubscriptionIndex.
func ValidateJiraSubscriptionIndex(raw gjson.Result) (JiraSubscriptionIndex, bool) {
	if !raw.IsObject() {
		return JiraSubscriptionIndex{}, false
	}
	teamname, ok := stringField(raw, "teamname")
	if !ok {
		return JiraSubscriptionIndex{}, false
	}
	id, ok := integer(raw.Get("id"))
	if !ok {
		return JiraSubscriptionIndex{}, false
	}
	return JiraSubscriptionIndex{Teamname: teamname, ID: SubscriptionID(id)}, true
}

// JiraSubscriptionIndexEntry pairs an index record with the token it is stored under.
type JiraSubscriptionIndexEntry struct {
	URLToken string
	Index    JiraSubscriptionIndex
	Revision int
}
