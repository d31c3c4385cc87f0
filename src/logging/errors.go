// Package logging holds helpers for classifying errors before they are logged.
package logging

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// IsRateLimit reports whether err is a Discord 429 or carries a rate limit marker.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "rate_limit") || strings.Contains(msg, "429")
}

// IsMissingAccess reports whether Discord refused the request for lack of permissions
// or because the target channel no longer exists.
func IsMissingAccess(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return false
	}
	switch restErr.Response.StatusCode {
	case http.StatusForbidden, http.StatusNotFound:
		return true
	default:
		return false
	}
}
