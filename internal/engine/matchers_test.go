package engine

import (
	"testing"

	"github.com/BTreeMap/GearBot/internal/models"
)

func textEvent(text string) models.Event {
	return models.Event{ChatID: 1, Text: text}
}

func callbackEvent(data string) models.Event {
	return models.Event{ChatID: 1, Callback: &models.Callback{ID: "cb", Data: data}}
}

func TestTextSuffixIgnoresEmojiPrefix(t *testing.T) {
	m := TextSuffix("Rate a pickpoint")
	if !m(textEvent("🏬 Rate a pickpoint")) {
		t.Error("expected prefixed button text to match")
	}
	if !m(textEvent("Rate a pickpoint")) {
		t.Error("expected bare text to match")
	}
	if m(textEvent("Rate a pickpoint please")) {
		t.Error("unexpected match on non-suffix text")
	}
	if m(callbackEvent("Rate a pickpoint")) {
		t.Error("callback event must not match a text matcher")
	}
}

func TestAnyTextExclusions(t *testing.T) {
	m := AnyText("Back", "Return to main menu")
	if !m(textEvent("Great service!")) {
		t.Error("expected free text to match")
	}
	if m(textEvent("⬅️ Back")) {
		t.Error("excluded suffix must not match")
	}
	if m(textEvent("🏠 Return to main menu")) {
		t.Error("excluded suffix must not match")
	}
	if m(textEvent("")) {
		t.Error("empty text must not match")
	}
	if m(callbackEvent("anything")) {
		t.Error("callback event must not match")
	}
}

func TestCallbackPrefix(t *testing.T) {
	m := CallbackPrefix("pickpoint")
	if !m(callbackEvent("pickpoint:3")) {
		t.Error("expected prefixed payload to match")
	}
	if m(callbackEvent("pickpoints:3")) {
		t.Error("wrong prefix must not match")
	}
	if m(textEvent("pickpoint:3")) {
		t.Error("plain text must not match a callback matcher")
	}
}

func TestCallbackInScoreDomain(t *testing.T) {
	m := CallbackIn("1", "2", "3", "4", "5")
	for _, v := range []string{"1", "2", "3", "4", "5"} {
		if !m(callbackEvent(v)) {
			t.Errorf("expected score %q to match", v)
		}
	}
	for _, v := range []string{"0", "6", "10", "yes", ""} {
		if m(callbackEvent(v)) {
			t.Errorf("payload %q must not match the score domain", v)
		}
	}
}

func TestContactMatchers(t *testing.T) {
	contact := models.Event{ChatID: 1, Contact: &models.Contact{PhoneNumber: "+78887776655"}}
	if !HasContact()(contact) {
		t.Error("expected contact event to match HasContact")
	}
	if NoContact()(contact) {
		t.Error("contact event must not match NoContact")
	}
	if !NoContact()(textEvent("hello")) {
		t.Error("expected plain text to match NoContact")
	}
}
