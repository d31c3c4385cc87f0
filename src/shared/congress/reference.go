package congress

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Reference number prefixes.
const (
	PrefixHouse    = "H.R."
	PrefixArticles = "ART."
)

var referencePattern = regexp.MustCompile(`(?i)^\s*(h\.?\s*r|art)\.?[\s\-_]*0*(\d+)\s*$`)

// FormatReference renders a counter value as "H.R. 004" / "ART. 005".
func FormatReference(category Category, number int) string {
	return fmt.Sprintf("%s %03d", category.Prefix(), number)
}

// ParseReference normalizes user input such as "hr 4", "H.R.004" or "art-5" into
// the canonical reference form.
func ParseReference(raw string) (string, error) {
	matches := referencePattern.FindStringSubmatch(raw)
	if len(matches) < 3 {
		return "", InvalidArgument(fmt.Sprintf("%q is not a bill number", strings.TrimSpace(raw)))
	}

	number, err := strconv.Atoi(matches[2])
	if err != nil {
		return "", InvalidArgument(fmt.Sprintf("%q is not a bill number", strings.TrimSpace(raw)))
	}

	prefix := PrefixHouse
	if strings.HasPrefix(strings.ToLower(matches[1]), "art") {
		prefix = PrefixArticles
	}
	return fmt.Sprintf("%s %03d", prefix, number), nil
}

// ReferenceSlug renders a reference in a URL-safe form ("hr-004").
func ReferenceSlug(ref string) string {
	slug := strings.ToLower(ref)
	slug = strings.ReplaceAll(slug, ".", "")
	return strings.ReplaceAll(slug, " ", "-")
}
