package textutil

import (
	"regexp"
	"strings"
)

const Null = "null"

var whitespaceRegex = regexp.MustCompile(`\s+`)
var calendarLinkRegex = regexp.MustCompile(`(?i)\s*in Kalender speichern\s*`)

func CollapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// CleanDate strips the "in Kalender speichern" link text that is rendered
// inside event dates and collapses whitespace.
func CleanDate(text string) string {
	if text == "" {
		return ""
	}
	text = calendarLinkRegex.ReplaceAllString(text, "")
	return CollapseWhitespace(text)
}

// NullIfMissing maps the placeholders used by older exports to "null".
func NullIfMissing(value string) string {
	if value == "N/A" || value == "NULL" {
		return Null
	}
	return value
}

func OrNull(value string) string {
	if value == "" {
		return Null
	}
	return value
}

// JoinOrNull joins the non-empty values, returning "null" if there are none.
func JoinOrNull(values []string, sep string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return OrNull(strings.Join(kept, sep))
}
