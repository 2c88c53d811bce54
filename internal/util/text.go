package util

import (
	"strings"

	"github.com/forPelevin/gomoji"
)

// SanitizeFreeText normalizes free-text comment/review input: emoji are
// stripped (not rejected) and surrounding whitespace trimmed. The result
// may be empty if the input was emoji-only.
func SanitizeFreeText(text string) string {
	return strings.TrimSpace(gomoji.RemoveEmojis(text))
}
