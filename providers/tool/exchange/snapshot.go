package exchange

import (
	"math/big"
	"strings"
)

// Rate is the value of one unit of the base currency in Code.
type Rate struct {
	Code  string
	Value float64
}

// Snapshot is the filtered set of rates for a base currency.
type Snapshot struct {
	Base  string
	Rates []Rate
	// Date is the provider's last-update date, verbatim.
	Date string
}

// Text renders the rates report.
func (s Snapshot) Text() string {
	var b strings.Builder
	b.WriteString("💱 Exchange Rates (Base: ")
	b.WriteString(s.Base)
	b.WriteString(")\n\n")
	for _, rate := range s.Rates {
		b.WriteString(rate.Code)
		b.WriteString(": ")
		b.WriteString(formatRate(rate.Value))
		b.WriteByte('\n')
	}
	date := s.Date
	if date == "" {
		date = "unknown"
	}
	b.WriteString("\n📅 Last Updated: ")
	b.WriteString(date)
	return b.String()
}

// formatRate renders v with four decimals. Exact ties round away from zero,
// so 1.03125 becomes "1.0313" where %.4f would give "1.0312".
func formatRate(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	scaled := new(big.Float).SetPrec(256).SetFloat64(v)
	scaled.Mul(scaled, big.NewFloat(10000))
	scaled.Add(scaled, big.NewFloat(0.5))
	n, _ := scaled.Int(nil)

	digits := n.String()
	if len(digits) < 5 {
		digits = strings.Repeat("0", 5-len(digits)) + digits
	}
	return sign + digits[:len(digits)-4] + "." + digits[len(digits)-4:]
}
