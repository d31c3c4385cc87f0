package discord

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxDiscordMessageLen = 2000
	SafeChunkLen         = 1900
	MaxEmbedFieldLen     = 1024
)

// BuildListMessages packs a header and lines into as few messages as possible,
// never splitting a line. Lines longer than a message are truncated.
func BuildListMessages(header string, lines []string) []string {
	var messages []string
	var current strings.Builder

	if header != "" {
		current.WriteString(header)
	}

	for _, line := range lines {
		line = Truncate(line, SafeChunkLen)
		if current.Len() > 0 && current.Len()+len(line)+1 > SafeChunkLen {
			messages = append(messages, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}

	if current.Len() > 0 {
		messages = append(messages, current.String())
	}
	return messages
}

// Truncate shortens value to at most limit bytes on a rune boundary, marking the cut with an ellipsis.
func Truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	const ellipsis = "…"
	cut := limit - len(ellipsis)
	if cut < 0 {
		cut = 0
	}
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut] + ellipsis
}
