package config

import "github.com/tidwall/gjson"

// TeamUserConfig is a team member's Jira identity and OAuth1 access token.
// namespace: <prefix>-team-<team>, key: user-<username>
type TeamUserConfig struct {
	JiraAccountID string `json:"jiraAccountID"`
	AccessToken   string `json:"accessToken" masq:"secret"`
	TokenSecret   string `json:"tokenSecret" masq:"secret"`
}

// ValidateTeamUserConfig converts an untyped tree into a TeamUserConfig.
func ValidateTeamUserConfig(raw gjson.Result) (TeamUserConfig, bool) {
	if !raw.IsObject() {
		return TeamUserConfig{}, false
	}
	accountID, ok1 := stringField(raw, "jiraAccountID")
	accessToken, ok2 := stringField(raw, "accessToken")
	tokenSecret, ok3 := stringField(raw, "tokenSecret")
	if !ok1 || !ok2 || !ok3 {
		return TeamUserConfig{}, false
	}

	return TeamUserConfig{
		JiraAccountID: accountID,
		AccessToken:   accessToken,
		TokenSecret:   tokenSecret,
	}, true
}
