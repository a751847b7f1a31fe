package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Code prefixes for human-readable reference codes
const (
	PrefixDebt           = "CN"
	PrefixTransaction    = "TR"
	PrefixReceiptPayment = "PC"
)

// GenerateCode builds a reference code like TR-20250912-1A2B3C4D5E6F.
// The suffix comes from a random UUID so codes stay unique without a sequence table.
func GenerateCode(prefix string, t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return fmt.Sprintf("%s-%s-%s", prefix, t.UTC().Format("20060102"), suffix)
}

// IsPastDue reports whether now is strictly after the due date.
// A nil due date is never past due.
func IsPastDue(dueDate *time.Time, now time.Time) bool {
	if dueDate == nil {
		return false
	}
	return now.After(*dueDate)
}

// DaysUntil returns whole days from now until t, negative when t is in the past.
func DaysUntil(t time.Time, now time.Time) int {
	return int(t.Sub(now).Hours() / 24)
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Percentage converts a ratio in [0,1] to a percentage rounded to one decimal place
func Percentage(ratio decimal.Decimal) decimal.Decimal {
	return ratio.Mul(decimal.NewFromInt(100)).Round(1)
}
