package config

import "github.com/tidwall/gjson"

// TeamJiraConfig is the OAuth1 credential bundle of a team's Jira instance.
// namespace: <prefix>-team-<team>, key: jiraConfig
type TeamJiraConfig struct {
	JiraHost string   `json:"jiraHost"`
	JiraAuth JiraAuth `json:"jiraAuth"`
}

// JiraAuth holds the OAuth1 consumer and RSA key pair registered on the Jira side.
type JiraAuth struct {
	ConsumerKey string `json:"consumerKey" masq:"secret"`
	PublicKey   string `json:"publicKey"`
	PrivateKey  string `json:"privateKey" masq:"secret"`
}

// ValidateTeamJiraConfig converts an untyped tree into a TeamJiraConfig. Any missing or
// mistyped field rejects the whole record.
func ValidateTeamJiraConfig(raw gjson.Result) (TeamJiraConfig, bool) {
	if !raw.IsObject() {
		return TeamJiraConfig{}, false
	}
	host, ok := stringField(raw, "jiraHost")
	if !ok {
		return TeamJiraConfig{}, false
	}

	auth := raw.Get("jiraAuth")
	if !auth.IsObject() {
		return TeamJiraConfig{}, false
	}
	consumerKey, ok1 := stringField(auth, "consumerKey")
	publicKey, ok2 := stringField(auth, "publicKey")
	privateKey, ok3 := stringField(auth, "privateKey")
	if !ok1 || !ok2 || !ok3 {
		return TeamJiraConfig{}, false
	}

	return TeamJiraConfig{
		JiraHost: host,
		JiraAuth: JiraAuth{
			ConsumerKey: consumerKey,
			PublicKey:   publicKey,
			PrivateKey:  privateKey,
		},
	}, true
}
