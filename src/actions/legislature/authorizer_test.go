package legislature

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/congressrp/src/config"
	"github.com/stake-plus/congressrp/src/shared/congress"
)

type fakeGuild map[string][]string

func (f fakeGuild) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	roles, ok := f[userID]
	if !ok {
		return nil, errors.New("unknown member")
	}
	return &discordgo.Member{Roles: roles}, nil
}

func TestRoleAuthorizer(t *testing.T) {
	guild := fakeGuild{
		"speaker": {"role-rep", "role-speaker"},
		"leader":  {"role-sen", "role-leader"},
		"rep":     {"role-rep"},
	}
	auth := NewRoleAuthorizer(guild, "guild", testChambers)
	ctx := context.Background()

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"speaker approves house", auth.IsApprover(ctx, congress.ChamberHouse, "speaker"), true},
		{"speaker does not approve senate", auth.IsApprover(ctx, congress.ChamberSenate, "speaker"), false},
		{"leader approves senate", auth.IsApprover(ctx, congress.ChamberSenate, "leader"), true},
		{"rep is house member", auth.IsMember(ctx, congress.ChamberHouse, "rep"), true},
		{"rep is not senator", auth.IsMember(ctx, congress.ChamberSenate, "rep"), false},
		{"unknown user", auth.IsMember(ctx, congress.ChamberHouse, "ghost"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, tt.got)
			}
		})
	}
}

func TestRoleAuthorizerDeniesUnconfiguredRole(t *testing.T) {
	auth := NewRoleAuthorizer(fakeGuild{"x": {""}}, "guild", config.Chambers{})
	if auth.IsApprover(context.Background(), congress.ChamberHouse, "x") {
		t.Error("missing role configuration must deny")
	}
}
