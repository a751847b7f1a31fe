package domain

import (
	"strconv"
	"strings"

	customError "github.com/segyhp/receipt-debt-engine/pkg/errors"
)

// Money is an amount in the currency's minor unit. The dashboard currency has
// no subunit, so one Money is one whole currency unit.
type Money int64

func (m Money) Add(o Money) Money {
	return m + o
}

// Sub returns m - o and fails with NEGATIVE_AMOUNT when the result would be below zero.
func (m Money) Sub(o Money) (Money, error) {
	if o > m {
		return 0, customError.WrapNegativeAmount(int64(m), int64(o))
	}
	return m - o, nil
}

func (m Money) IsZero() bool {
	return m == 0
}

func (m Money) IsPositive() bool {
	return m > 0
}

func (m Money) Int64() int64 {
	return int64(m)
}

// Format renders m with dot thousands separators and a currency suffix,
// e.g. 15.000.000 VND. Presentation only.
func (m Money) Format(currency string) string {
	s := strconv.FormatInt(int64(m), 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	if currency != "" {
		out += " " + currency
	}
	return out
}
