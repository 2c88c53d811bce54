// Package engine implements the conversation state machine for GearBot:
// an explicit, inspectable transition table dispatched in declaration
// order, with events for one chat processed strictly one at a time.
package engine

import (
	"strings"

	"github.com/BTreeMap/GearBot/internal/models"
)

// Matcher decides whether a transition's event predicate accepts an event.
type Matcher func(ev models.Event) bool

// TextEquals matches a plain text message equal to s.
func TextEquals(s string) Matcher {
	return func(ev models.Event) bool {
		return ev.Callback == nil && ev.Contact == nil && ev.Text == s
	}
}

// TextSuffix matches a plain text message ending in s. Keyboard buttons
// carry emoji prefixes, so suffix matching keeps the labels stable.
func TextSuffix(s string) Matcher {
	return func(ev models.Event) bool {
		return ev.Callback == nil && ev.Contact == nil && ev.Text != "" && strings.HasSuffix(ev.Text, s)
	}
}

// AnyText matches any non-empty plain text message whose text does not
// end in one of the excluded suffixes. Used for free-text input steps
// that must let "back"/"return to menu" buttons through to their own
// transitions.
func AnyText(exceptSuffixes ...string) Matcher {
	return func(ev models.Event) bool {
		if ev.Callback != nil || ev.Contact != nil || ev.Text == "" {
			return false
		}
		for _, suffix := range exceptSuffixes {
			if strings.HasSuffix(ev.Text, suffix) {
				return false
			}
		}
		return true
	}
}

// CallbackPrefix matches an inline button press whose payload starts
// with prefix followed by a colon, e.g. CallbackPrefix("pickpoint")
// matches "pickpoint:3".
func CallbackPrefix(prefix string) Matcher {
	full := prefix + ":"
	return func(ev models.Event) bool {
		return ev.Callback != nil && strings.HasPrefix(ev.Callback.Data, full)
	}
}

// CallbackIn matches an inline button press whose payload equals one of
// the given literals exactly. "0" or "6" never match a score keyboard
// declared as CallbackIn("1".."5").
func CallbackIn(values ...string) Matcher {
	return func(ev models.Event) bool {
		if ev.Callback == nil {
			return false
		}
		for _, v := range values {
			if ev.Callback.Data == v {
				return true
			}
		}
		return false
	}
}

// HasContact matches a message carrying a shared contact card.
func HasContact() Matcher {
	return func(ev models.Event) bool {
		return ev.Contact != nil
	}
}

// NoContact matches any non-callback event without a contact attached.
func NoContact() Matcher {
	return func(ev models.Event) bool {
		return ev.Callback == nil && ev.Contact == nil
	}
}
