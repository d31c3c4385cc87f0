package discord

import "github.com/bwmarrin/discordgo"

// MemberFetcher is the part of *discordgo.Session used for role lookups.
type MemberFetcher interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// HasRole checks whether a user has a role in a guild. Empty roleID always returns true.
func HasRole(s MemberFetcher, guildID, userID, roleID string) bool {
	if roleID == "" {
		return true
	}
	member, err := s.GuildMember(guildID, userID)
	if err != nil {
		return false
	}
	return MemberHasRole(member, roleID)
}

// MemberHasRole checks an already fetched member.
func MemberHasRole(member *discordgo.Member, roleID string) bool {
	if member == nil {
		return false
	}
	for _, role := range member.Roles {
		if role == roleID {
			return true
		}
	}
	return false
}
