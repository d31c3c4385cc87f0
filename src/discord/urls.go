package discord

import (
	"fmt"
	"regexp"
	"strings"
)

var urlRegex = regexp.MustCompile(`https?://[^\s\[\]()<>]+`)

// WrapURLsNoEmbed wraps URLs in angle brackets to prevent Discord embeds.
func WrapURLsNoEmbed(text string) string {
	return urlRegex.ReplaceAllStringFunc(text, func(url string) string {
		trimmed := strings.TrimRight(url, ".,;:!?)")
		return fmt.Sprintf("<%s>%s", trimmed, url[len(trimmed):])
	})
}

// JumpLink renders a message link as a markdown link, or "N/A" when there is none.
func JumpLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" || link == "N/A" {
		return "N/A"
	}
	return fmt.Sprintf("[Jump](%s)", link)
}

// MessageLink builds the URL of a guild message.
func MessageLink(guildID, channelID, messageID string) string {
	if guildID == "" || channelID == "" || messageID == "" {
		return ""
	}
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}
