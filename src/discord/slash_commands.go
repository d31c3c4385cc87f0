package discord

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	CommandHelp        = "help"
	CommandBill        = "bill"
	CommandResolution  = "res"
	CommandAmendment   = "amm"
	CommandMotion      = "motion"
	CommandImpeach     = "impeach"
	CommandCosponsor   = "cosponsor"
	CommandOpenVote    = "openvote"
	CommandEndVote     = "endvote"
	CommandSessionInfo = "sessioninfo"
	CommandMyBills     = "mybills"
	CommandBillInfo    = "billinfo"
	CommandPassed      = "passed"
	CommandFailed      = "failed"
)

func billNumberOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "bill",
		Description: description,
		Required:    true,
	}
}

func submissionOptions(kind string) []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: "Name of the " + kind,
			MaxLength:   255,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "content",
			Description: "Text of the " + kind,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "chamber",
			Description: "Chamber of origin (defaults to the House)",
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "House", Value: "house"},
				{Name: "Senate", Value: "senate"},
			},
		},
	}
}

var commandDefinitions = map[string]*discordgo.ApplicationCommand{
	CommandHelp: {
		Name:        CommandHelp,
		Description: "List the Congress commands",
	},
	CommandBill: {
		Name:        CommandBill,
		Description: "Propose a bill (needs both chambers)",
		Options:     submissionOptions("bill"),
	},
	CommandResolution: {
		Name:        CommandResolution,
		Description: "Propose a resolution (one chamber)",
		Options:     submissionOptions("resolution"),
	},
	CommandAmendment: {
		Name:        CommandAmendment,
		Description: "Propose an amendment (both chambers, two thirds)",
		Options:     submissionOptions("amendment"),
	},
	CommandMotion: {
		Name:        CommandMotion,
		Description: "Propose a simple motion (one chamber)",
		Options:     submissionOptions("motion"),
	},
	CommandImpeach: {
		Name:        CommandImpeach,
		Description: "Submit Articles of Impeachment (Representatives only)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "person",
				Description: "Who is being impeached",
				MaxLength:   128,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "designation",
				Description: "Their office or title",
				MaxLength:   128,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "content",
				Description: "The articles",
			},
		},
	},
	CommandCosponsor: {
		Name:        CommandCosponsor,
		Description: "Add yourself as a co-sponsor",
		Options:     []*discordgo.ApplicationCommandOption{billNumberOption("Bill number, e.g. H.R. 004")},
	},
	CommandOpenVote: {
		Name:        CommandOpenVote,
		Description: "Approver opens voting on a bill",
		Options:     []*discordgo.ApplicationCommandOption{billNumberOption("Bill number, e.g. H.R. 004")},
	},
	CommandEndVote: {
		Name:        CommandEndVote,
		Description: "Approver ends a vote early",
		Options:     []*discordgo.ApplicationCommandOption{billNumberOption("Bill number, e.g. H.R. 004")},
	},
	CommandSessionInfo: {
		Name:        CommandSessionInfo,
		Description: "Show current session info",
	},
	CommandMyBills: {
		Name:        CommandMyBills,
		Description: "Show bills you proposed",
	},
	CommandBillInfo: {
		Name:        CommandBillInfo,
		Description: "Detailed bill info",
		Options:     []*discordgo.ApplicationCommandOption{billNumberOption("Bill number, e.g. H.R. 004")},
	},
	CommandPassed: {
		Name:        CommandPassed,
		Description: "View passed bills",
	},
	CommandFailed: {
		Name:        CommandFailed,
		Description: "View failed bills",
	},
}

// DefaultCommandOrder is the registration order of every legislature command.
var DefaultCommandOrder = []string{
	CommandHelp,
	CommandBill,
	CommandResolution,
	CommandAmendment,
	CommandMotion,
	CommandImpeach,
	CommandCosponsor,
	CommandOpenVote,
	CommandEndVote,
	CommandSessionInfo,
	CommandMyBills,
	CommandBillInfo,
	CommandPassed,
	CommandFailed,
}

// CommandDefinition returns the registered definition for name.
func CommandDefinition(name string) (*discordgo.ApplicationCommand, bool) {
	def, ok := commandDefinitions[name]
	return def, ok
}

// RegisterSlashCommands registers the requested slash commands for a guild.
// When no command names are provided, all known commands are registered.
func RegisterSlashCommands(s *discordgo.Session, guildID string, names ...string) error {
	if guildID == "" {
		return fmt.Errorf("discord: guildID is required to register slash commands")
	}

	if len(names) == 0 {
		names = DefaultCommandOrder
	}

	var failures []string
	for _, name := range names {
		definition, ok := commandDefinitions[name]
		if !ok {
			log.Printf("discord: unknown slash command %q", name)
			continue
		}

		_, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, definition)
		if err != nil {
			if isDuplicateCommandError(err) {
				log.Printf("discord: slash command %q already registered", name)
				continue
			}
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			log.Printf("discord: failed to register command %q: %v", name, err)
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("discord: slash command registration errors: %s", strings.Join(failures, "; "))
	}

	return nil
}

// DeleteSlashCommands removes all registered slash commands for a guild.
func DeleteSlashCommands(s *discordgo.Session, guildID string) error {
	if guildID == "" {
		return fmt.Errorf("discord: guildID is required to delete slash commands")
	}

	commands, err := s.ApplicationCommands(s.State.User.ID, guildID)
	if err != nil {
		return err
	}

	for _, cmd := range commands {
		if err := s.ApplicationCommandDelete(s.State.User.ID, guildID, cmd.ID); err != nil {
			return err
		}
	}

	return nil
}

func isDuplicateCommandError(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			msg := strings.ToLower(restErr.Message.Message)
			if strings.Contains(msg, "already exists") {
				return true
			}
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "50035") && strings.Contains(msg, "already exists")
}
