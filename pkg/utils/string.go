package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const referralCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var randGenerator = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateReferralCode returns a short shareable code. Ambiguous characters
// (0/O, 1/I) are excluded from the charset.
func GenerateReferralCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = referralCharset[randGenerator.Intn(len(referralCharset))]
	}
	return string(b)
}

// DurationLabel renders a human-readable length for a story, e.g.
// "15 min", "1 hr", "2 hr 30 min".
func DurationLabel(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%d min", mins)
	}
	h := mins / 60
	m := mins % 60
	if m == 0 {
		return fmt.Sprintf("%d hr", h)
	}
	return fmt.Sprintf("%d hr %d min", h, m)
}

// NormalizeReferralCode uppercases and trims an inbound code.
func NormalizeReferralCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
