package discord

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

type fakeMembers map[string]*discordgo.Member

func (f fakeMembers) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	if m, ok := f[userID]; ok {
		return m, nil
	}
	return nil, errors.New("unknown member")
}

func TestHasRole(t *testing.T) {
	members := fakeMembers{"alice": {Roles: []string{"rep", "speaker"}}}

	tests := []struct {
		name   string
		user   string
		roleID string
		want   bool
	}{
		{"holder", "alice", "speaker", true},
		{"missing role", "alice", "senator", false},
		{"unknown member", "bob", "rep", false},
		{"empty role", "bob", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasRole(members, "guild", tt.user, tt.roleID); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBuildListMessages(t *testing.T) {
	line := strings.Repeat("x", 500)
	lines := []string{line, line, line, line, line}

	msgs := BuildListMessages("**Passed bills**", lines)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	for i, m := range msgs {
		if len(m) > SafeChunkLen {
			t.Errorf("message %d too long: %d", i, len(m))
		}
	}
	if !strings.HasPrefix(msgs[0], "**Passed bills**\n") {
		t.Errorf("header missing from first message")
	}

	if got := BuildListMessages("", nil); len(got) != 0 {
		t.Errorf("expected no messages, got %v", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("unexpected %q", got)
	}
	got := Truncate(strings.Repeat("é", 20), 11)
	if len(got) > 11 || !utf8.ValidString(got) || !strings.HasSuffix(got, "…") {
		t.Errorf("bad truncation %q", got)
	}
}

func TestURLHelpers(t *testing.T) {
	if got := WrapURLsNoEmbed("see https://example.com/a."); got != "see <https://example.com/a>." {
		t.Errorf("unexpected %q", got)
	}
	if JumpLink("N/A") != "N/A" || JumpLink("") != "N/A" {
		t.Error("missing links render as N/A")
	}
	if got := JumpLink("https://discord.com/channels/1/2/3"); got != "[Jump](https://discord.com/channels/1/2/3)" {
		t.Errorf("unexpected %q", got)
	}
	if MessageLink("1", "2", "") != "" {
		t.Error("incomplete ids produce no link")
	}
}

func TestCommandDefinitions(t *testing.T) {
	for _, name := range DefaultCommandOrder {
		def, ok := CommandDefinition(name)
		if !ok {
			t.Fatalf("no definition for %s", name)
		}
		if def.Name != name {
			t.Errorf("definition %s has name %s", name, def.Name)
		}
	}
	def, _ := CommandDefinition(CommandCosponsor)
	if len(def.Options) != 1 || !def.Options[0].Required {
		t.Error("cosponsor needs a required bill option")
	}
}

func TestCommandOptionLengthLimits(t *testing.T) {
	tests := []struct {
		command string
		option  string
		want    int
	}{
		{CommandBill, "name", 255},
		{CommandMotion, "name", 255},
		{CommandImpeach, "person", 128},
		{CommandImpeach, "designation", 128},
	}
	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.option, func(t *testing.T) {
			def, ok := CommandDefinition(tt.command)
			if !ok {
				t.Fatalf("no definition for %s", tt.command)
			}
			for _, opt := range def.Options {
				if opt.Name == tt.option {
					if opt.MaxLength != tt.want {
						t.Errorf("expected max length %d, got %d", tt.want, opt.MaxLength)
					}
					return
				}
			}
			t.Errorf("option %s missing", tt.option)
		})
	}
}
