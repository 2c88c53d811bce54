package util

import "testing"

func TestSanitizeFreeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Great service!", "Great service!"},
		{"Great service! 👍", "Great service!"},
		{"👍🔥", ""},
		{"  padded  ", "padded"},
	}
	for _, c := range cases {
		if got := SanitizeFreeText(c.in); got != c.want {
			t.Errorf("SanitizeFreeText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
