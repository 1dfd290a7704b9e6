package handlers

import "testing"

func TestIfNoneMatchMatches(t *testing.T) {
	const tag = `"abc"`

	cases := map[string]bool{
		"":             false,
		"*":            true,
		`"abc"`:        true,
		`W/"abc"`:      true,
		`"x", W/"abc"`: true,
		`"abcd"`:       false,
		`  "abc"  `:    true,
	}

	for header, want := range cases {
		if got := ifNoneMatchMatches(header, tag); got != want {
			t.Errorf("ifNoneMatchMatches(%q) = %v, want %v", header, got, want)
		}
	}
}
