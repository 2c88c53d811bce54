package util

import "testing"

func TestCanonicalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+78887776655", "+78887776655"},
		{"78887776655", "+78887776655"},
		{" 78887776655 ", "+78887776655"},
		{"+78887776655 ", "+78887776655"},
		{"", ""},
	}
	for _, c := range cases {
		if got := CanonicalizePhone(c.in); got != c.want {
			t.Errorf("CanonicalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCanonicalizePhoneBothSpellingsMatch(t *testing.T) {
	bare := CanonicalizePhone("78887776655")
	prefixed := CanonicalizePhone("+78887776655")
	if bare != prefixed {
		t.Errorf("spellings diverge: %q vs %q", bare, prefixed)
	}
	if len(bare) != CanonicalPhoneLength {
		t.Errorf("canonical length = %d, want %d", len(bare), CanonicalPhoneLength)
	}
}
