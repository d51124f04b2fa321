package utils

import (
	"strings"
	"testing"
)

func TestGenerateReferralCode(t *testing.T) {
	code := GenerateReferralCode(8)
	if len(code) != 8 {
		t.Fatalf("len = %d, want 8", len(code))
	}
	for _, r := range code {
		if !strings.ContainsRune(referralCharset, r) {
			t.Errorf("unexpected character %q in code %s", r, code)
		}
	}

	// Ambiguous characters never appear.
	for i := 0; i < 50; i++ {
		c := GenerateReferralCode(16)
		if strings.ContainsAny(c, "0O1I") {
			t.Fatalf("code %s contains ambiguous characters", c)
		}
	}
}

func TestDurationLabel(t *testing.T) {
	tests := []struct {
		mins int
		want string
	}{
		{15, "15 min"},
		{45, "45 min"},
		{60, "1 hr"},
		{90, "1 hr 30 min"},
		{120, "2 hr"},
		{150, "2 hr 30 min"},
	}
	for _, tt := range tests {
		if got := DurationLabel(tt.mins); got != tt.want {
			t.Errorf("DurationLabel(%d) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}

func TestNormalizeReferralCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abcd2345", "ABCD2345"},
		{"  XYZW234  ", "XYZW234"},
		{"MixedCase", "MIXEDCASE"},
	}
	for _, tt := range tests {
		if got := NormalizeReferralCode(tt.in); got != tt.want {
			t.Errorf("NormalizeReferralCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
