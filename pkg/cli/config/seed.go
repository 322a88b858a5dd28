package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiraconf/pkg/domain/model/config"
	"github.com/m-mizutani/jiraconf/pkg/domain/types/apperr"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

//go:embed templates/seed.yaml
var seedTemplate string

// SeedFile is the YAML document read by the seed command
type SeedFile struct {
	Teams []SeedTeam `yaml:"teams"`
}

// SeedTeam holds every record of one team. Nil or empty sections are skipped.
type SeedTeam struct {
	Name          string             `yaml:"name"`
	Jira          *SeedJira          `yaml:"jira"`
	Users         []SeedUser         `yaml:"users"`
	Channels      []SeedChannel      `yaml:"channels"`
	Subscriptions []SeedSubscription `yaml:"subscriptions"`
}

type SeedJira struct {
	Host        string `yaml:"host"`
	ConsumerKey string `yaml:"consumerKey" masq:"secret"`
	PublicKey   string `yaml:"publicKey"`
	PrivateKey  string `yaml:"privateKey" masq:"secret"`
}

func (j SeedJira) Config() config.TeamJiraConfig {
	return config.TeamJiraConfig{
		JiraHost: j.Host,
		JiraAuth: config.JiraAuth{
			ConsumerKey: j.ConsumerKey,
			PublicKey:   j.PublicKey,
			PrivateKey:  j.PrivateKey,
		},
	}
}

type SeedUser struct {
	Username      string `yaml:"username"`
	JiraAccountID string `yaml:"jiraAccountID"`
	AccessToken   string `yaml:"accessToken" masq:"secret"`
	TokenSecret   string `yaml:"tokenSecret" masq:"secret"`
}

func (u SeedUser) Config() config.TeamUserConfig {
	return config.TeamUserConfig{
		JiraAccountID: u.JiraAccountID,
		AccessToken:   u.AccessToken,
		TokenSecret:   u.TokenSecret,
	}
}

type SeedChannel struct {
	ConversationID         string `yaml:"conversationID"`
	DefaultNewIssueProject string `yaml:"defaultNewIssueProject"`
}

func (c SeedChannel) Config() config.TeamChannelConfig {
	return config.NewTeamChannelConfig(c.DefaultNewIssueProject)
}

type SeedSubscription struct {
	ConversationID string `yaml:"conversationID"`
	WebhookURI     string `yaml:"webhookURI"`
	URLToken       string `yaml:"urlToken"`
	JQL            string `yaml:"jql"`
	WithUpdates    bool   `yaml:"withUpdates"`
}

func (s SeedSubscription) Subscription() config.TeamJiraSubscription {
	return config.TeamJiraSubscription{
		ConversationID: s.ConversationID,
		WebhookURI:     s.WebhookURI,
		URLToken:       s.URLToken,
		JQL:            s.JQL,
		WithUpdates:    s.WithUpdates,
	}
}

// Validate checks required identifiers of every team
func (f *SeedFile) Validate() error {
	var names []string
	for i, team := range f.Teams {
		if team.Name == "" {
			return goerr.New("team name is required", goerr.V("index", i), goerr.T(apperr.ErrTagInvalidInput))
		}
		if slices.Contains(names, team.Name) {
			return goerr.New("team is listed twice", goerr.TV(apperr.TeamKey, team.Name), goerr.T(apperr.ErrTagInvalidInput))
		}
		names = append(names, team.Name)

		for _, u := range team.Users {
			if u.Username == "" {
				return goerr.New("username is required", goerr.TV(apperr.TeamKey, team.Name), goerr.T(apperr.ErrTagInvalidInput))
			}
		}
		for _, c := range team.Channels {
			if c.ConversationID == "" {
				return goerr.New("conversationID is required", goerr.TV(apperr.TeamKey, team.Name), goerr.T(apperr.ErrTagInvalidInput))
			}
		}
		for _, s := range team.Subscriptions {
			if s.ConversationID == "" || s.JQL == "" {
				return goerr.New("subscription requires conversationID and jql", goerr.TV(apperr.TeamKey, team.Name), goerr.T(apperr.ErrTagInvalidInput))
			}
		}
	}
	return nil
}

// Seed holds the seed file location
type Seed struct {
	File string
}

func (s *Seed) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Usage:       "Seed YAML file",
			Sources:     cli.EnvVars("JIRACONF_SEED_FILE"),
			Required:    true,
			Destination: &s.File,
		},
	}
}

// Load reads and validates the seed file
func (s *Seed) Load() (*SeedFile, error) {
	data, err := os.ReadFile(s.File)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V("file", s.File), goerr.T(apperr.ErrTagInvalidInput))
	}
	return ParseSeed(data)
}

// ParseSeed decodes a seed document
func ParseSeed(data []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse seed file", goerr.T(apperr.ErrTagInvalidInput))
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// SeedTemplate returns the commented example seed file
func SeedTemplate() string {
	return seedTemplate
}

// GenerateSeedFile writes the example seed file to outputPath
func GenerateSeedFile(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0750); err != nil { // #nosec G301
		return goerr.Wrap(err, "failed to create directory", goerr.V("dir", dir))
	}

	if err := os.WriteFile(outputPath, []byte(seedTemplate), 0600); err != nil { // #nosec G306
		return goerr.Wrap(err, "failed to write seed file", goerr.V("path", outputPath))
	}
	return nil
}
