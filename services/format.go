package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatINR formats an amount in Indian Rupee notation with two decimals.
// After the rightmost three digits the integer part is grouped in pairs,
// e.g. ₹1,23,45,678.90.
func FormatINR(amount float64) string {
	d := decimal.NewFromFloat(amount)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	intPart, decPart, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + "₹" + applyIndianGrouping(intPart) + "." + decPart
}

// applyIndianGrouping inserts commas into a digit string: the last three
// digits form one group and every two digits to their left form another.
func applyIndianGrouping(s string) string {
	if len(s) <= 3 {
		return s
	}

	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}

// FormatPercent renders a rate without trailing zeros, e.g. 18 → "18%", 2.5 → "2.5%".
func FormatPercent(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}

// FormatDate renders a quotation date as 17-Oct-2026.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02-Jan-2006")
}

// SanitizeFilename makes a quotation number safe to use in a download name.
func SanitizeFilename(s string) string {
	r := strings.NewReplacer(" ", "-", "/", "-", "\\", "-", ":", "-", "\"", "")
	s = r.Replace(strings.TrimSpace(s))
	if s == "" {
		return "quotation"
	}
	return s
}
