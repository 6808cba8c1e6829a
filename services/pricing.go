// Package services provides quotation document assembly, rendering and the
// lookups that feed the quotation ledger.
package services

import (
	"math"
	"strings"

	"quotationdesk/ledger"
)

// DocumentTotals extends the ledger totals with the rupee round-off printed on
// the quotation footer.
type DocumentTotals struct {
	ledger.Totals
	RoundOff      float64
	PayableTotal  float64
	AmountInWords string
}

// CalcDocumentTotals recomputes the ledger totals for items and rounds the
// grand total to the nearest rupee.
func CalcDocumentTotals(items []ledger.LineItem, discountPercent float64) DocumentTotals {
	t := ledger.RecomputeTotals(items, discountPercent)
	roundOff := calcRoundOff(t.GrandTotal)
	payable := t.GrandTotal + roundOff
	return DocumentTotals{
		Totals:        t,
		RoundOff:      roundOff,
		PayableTotal:  payable,
		AmountInWords: AmountToWords(payable),
	}
}

// calcRoundOff returns the signed adjustment to the nearest rupee.
// Fractions below 0.50 round down, 0.50 and above round up.
func calcRoundOff(amount float64) float64 {
	return math.Round(amount) - amount
}

// AmountToWords spells an amount in Indian English words, including paise.
// Example: 913183.50 → "Nine Lakhs Thirteen Thousand One Hundred and Eighty Three Rupees and Fifty Paise Only"
func AmountToWords(amount float64) string {
	if amount < 0 {
		return "Minus " + AmountToWords(-amount)
	}

	totalPaise := int64(math.Round(amount * 100))
	rupees := totalPaise / 100
	paise := totalPaise % 100

	var b strings.Builder
	if rupees == 0 {
		b.WriteString("Zero")
	} else {
		b.WriteString(indianWords(rupees))
	}
	b.WriteString(" Rupees")
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(wordsUnder100(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

// indianWords groups n into crores, lakhs, thousands and hundreds.
func indianWords(n int64) string {
	groups := []struct {
		size int64
		name string
	}{
		{10000000, "Crore"},
		{100000, "Lakh"},
		{1000, "Thousand"},
	}

	var parts []string
	for _, g := range groups {
		if n < g.size {
			continue
		}
		count := n / g.size
		n %= g.size
		name := g.name
		if count > 1 && g.size != 1000 {
			name += "s"
		}
		// Crore counts can exceed 99.
		if count >= 100 {
			parts = append(parts, indianWords(count)+" "+name)
		} else {
			parts = append(parts, wordsUnder100(count)+" "+name)
		}
	}

	if n >= 100 {
		parts = append(parts, onesWords[n/100]+" Hundred")
		n %= 100
	}
	if n > 0 {
		if len(parts) > 0 {
			parts = append(parts, "and "+wordsUnder100(n))
		} else {
			parts = append(parts, wordsUnder100(n))
		}
	}
	return strings.Join(parts, " ")
}

func wordsUnder100(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	result := tensWords[n/10]
	if n%10 != 0 {
		result += " " + onesWords[n%10]
	}
	return result
}

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
