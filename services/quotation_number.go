package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// GetFiscalYear returns the Indian fiscal year string for a given date.
// Indian fiscal year runs April to March.
// Jan 2026 → "25-26", May 2026 → "26-27"
func GetFiscalYear(t time.Time) string {
	year := t.Year()
	month := t.Month()

	var startYear int
	if month >= time.April {
		startYear = year
	} else {
		startYear = year - 1
	}
	endYear := startYear + 1

	return fmt.Sprintf("%02d-%02d", startYear%100, endYear%100)
}

// formatQuotationNumber constructs the quotation number from its components.
func formatQuotationNumber(prefix, fiscalYear string, sequence int) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, fiscalYear, sequence)
}

// GenerateQuotationNumber returns the next quotation number for the fiscal
// year containing now.
// Format: {prefix}-{fiscal_year}-{sequence}, e.g. QT-26-27-004.
// The sequence is one past the highest existing sequence for the year, so
// deleted quotations never cause a number to be reused.
func GenerateQuotationNumber(app core.App, prefix string, now time.Time) (string, error) {
	fiscalYear := GetFiscalYear(now)
	base := fmt.Sprintf("%s-%s-", prefix, fiscalYear)

	existing, err := app.FindRecordsByFilter(
		"quotations",
		"quotation_id ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": base + "%"},
	)
	if err != nil {
		return "", fmt.Errorf("quotation_number: query existing: %w", err)
	}

	maxSeq := 0
	for _, r := range existing {
		id := r.GetString("quotation_id")
		if !strings.HasPrefix(id, base) {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimPrefix(id, base))
		if err != nil {
			continue
		}
		maxSeq = max(maxSeq, seq)
	}

	return formatQuotationNumber(prefix, fiscalYear, maxSeq+1), nil
}
