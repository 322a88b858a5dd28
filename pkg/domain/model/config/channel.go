package config

import "github.com/tidwall/gjson"

// TeamChannelConfig holds per-conversation defaults.
// namespace: <prefix>-team-<team>, key: channel-<conversationId>
type TeamChannelConfig struct {
	// DefaultNewIssueProject is nil when the channel has no default project
	DefaultNewIssueProject *string `json:"defaultNewIssueProject,omitempty"`
}

// EmptyTeamChannelConfig is the config of a channel nobody configured yet
var EmptyTeamChannelConfig = TeamChannelConfig{}

// NewTeamChannelConfig returns a config with project as default. An empty project clears it.
func NewTeamChannelConfig(project string) TeamChannelConfig {
	if project == "" {
		return TeamChannelConfig{}
	}
	return TeamChannelConfig{DefaultNewIssueProject: &project}
}

// DefaultProject returns the default project key, if any.
func (c TeamChannelConfig) DefaultProject() (string, bool) {
	if c.DefaultNewIssueProject == nil {
		return "", false
	}
	return *c.DefaultNewIssueProject, true
}

// ValidateTeamChannelConfig converts an untyped tree into a TeamChannelConfig.
func ValidateTeamChannelConfig(raw gjson.Result) (TeamChannelConfig, bool) {
	if !raw.IsObject() {
		return TeamChannelConfig{}, false
	}
	project, ok := optionalStringField(raw, "defaultNewIssueProject")
	if !ok {
		return TeamChannelConfig{}, false
	}
	return TeamChannelConfig{DefaultNewIssueProject: project}, true
}
