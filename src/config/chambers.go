package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/stake-plus/congressrp/src/shared/congress"
	"gopkg.in/yaml.v3"
)

// Roles are the Discord role ids the legislature relies on.
type Roles struct {
	Representative string `yaml:"representative"`
	Senator        string `yaml:"senator"`
	Speaker        string `yaml:"speaker"`
	MajorityLeader string `yaml:"majLeader"`
	President      string `yaml:"potus"`
}

// Channels are the Discord channel and thread ids the legislature posts to.
type Channels struct {
	BillSubmission string `yaml:"billSubmission"`
	HouseVoting    string `yaml:"houseVoting"`
	SenateVoting   string `yaml:"senateVoting"`
	PassedHouse    string `yaml:"passedHouse"`
	PassedSenate   string `yaml:"passedSenate"`
	SpeakerThread  string `yaml:"spkrThread"`
	LeaderThread   string `yaml:"majlThread"`
	PassedLaws     string `yaml:"passedLaws"`
}

// Chambers is the chamber layout of the guild.
type Chambers struct {
	Roles    Roles    `yaml:"roles"`
	Channels Channels `yaml:"channels"`
}

// LoadChambers reads the chamber layout from a YAML file.
func LoadChambers(path string) (Chambers, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Chambers{}, fmt.Errorf("read chambers file: %w", err)
	}
	return ParseChambers(raw)
}

// ParseChambers decodes and validates a chamber layout.
func ParseChambers(raw []byte) (Chambers, error) {
	var c Chambers
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Chambers{}, fmt.Errorf("parse chambers file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Chambers{}, err
	}
	return c, nil
}

// Validate reports every required id that is missing. The passed-laws channel
// may be left empty, in which case enactments are not announced.
func (c Chambers) Validate() error {
	checks := []struct{ key, value string }{
		{"roles.representative", c.Roles.Representative},
		{"roles.senator", c.Roles.Senator},
		{"roles.speaker", c.Roles.Speaker},
		{"roles.majLeader", c.Roles.MajorityLeader},
		{"channels.houseVoting", c.Channels.HouseVoting},
		{"channels.senateVoting", c.Channels.SenateVoting},
		{"channels.passedHouse", c.Channels.PassedHouse},
		{"channels.passedSenate", c.Channels.PassedSenate},
		{"channels.spkrThread", c.Channels.SpeakerThread},
		{"channels.majlThread", c.Channels.LeaderThread},
	}
	var missing []string
	for _, check := range checks {
		if strings.TrimSpace(check.value) == "" {
			missing = append(missing, check.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("chambers file missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// MemberRole is the role whose holders sit in chamber.
func (c Chambers) MemberRole(chamber congress.Chamber) string {
	if chamber == congress.ChamberSenate {
		return c.Roles.Senator
	}
	return c.Roles.Representative
}

// ApproverRole is the presiding role of chamber.
func (c Chambers) ApproverRole(chamber congress.Chamber) string {
	if chamber == congress.ChamberSenate {
		return c.Roles.MajorityLeader
	}
	return c.Roles.Speaker
}

// ApproverThread is where chamber's approver reviews submissions.
func (c Chambers) ApproverThread(chamber congress.Chamber) string {
	if chamber == congress.ChamberSenate {
		return c.Channels.LeaderThread
	}
	return c.Channels.SpeakerThread
}

// VotingChannel is where chamber's members vote.
func (c Chambers) VotingChannel(chamber congress.Chamber) string {
	if chamber == congress.ChamberSenate {
		return c.Channels.SenateVoting
	}
	return c.Channels.HouseVoting
}

// PassedChannel lists bills that passed chamber.
func (c Chambers) PassedChannel(chamber congress.Chamber) string {
	if chamber == congress.ChamberSenate {
		return c.Channels.PassedSenate
	}
	return c.Channels.PassedHouse
}
