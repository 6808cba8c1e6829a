package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/text/cases"

	"quotationdesk/ledger"
)

// HardFallbackGST applies when neither a rule nor the settings default is available.
const HardFallbackGST = 18.0

// GSTRuleSet resolves a product's GST rate by exact, case-insensitive name match.
type GSTRuleSet struct {
	rules      map[string]float64
	defaultGST float64
}

var _ ledger.RateResolver = (*GSTRuleSet)(nil)

// NewGSTRuleSet builds a rule set from a name → percent map.
func NewGSTRuleSet(rules map[string]float64, defaultGST float64) *GSTRuleSet {
	rs := &GSTRuleSet{
		rules:      make(map[string]float64, len(rules)),
		defaultGST: defaultGST,
	}
	for name, pct := range rules {
		rs.rules[foldName(name)] = pct
	}
	return rs
}

func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// ResolveGST returns the matching rule's percent, else the default rate.
func (rs *GSTRuleSet) ResolveGST(productName string) float64 {
	if pct, ok := rs.rules[foldName(productName)]; ok {
		return pct
	}
	return rs.defaultGST
}

// DefaultGST is the rate used when no rule matches.
func (rs *GSTRuleSet) DefaultGST() float64 {
	return rs.defaultGST
}

// LoadGSTRules reads gst_rules and settings.default_gst. A settings default of
// zero or less counts as unset, in which case fallback applies.
func LoadGSTRules(app core.App, fallback float64) (*GSTRuleSet, error) {
	records, err := app.FindAllRecords("gst_rules")
	if err != nil {
		return nil, fmt.Errorf("gst_rules: load rules: %w", err)
	}

	rules := make(map[string]float64, len(records))
	// First rule wins when two names fold to the same key.
	for _, r := range records {
		key := foldName(r.GetString("product_name"))
		if _, seen := rules[key]; seen || key == "" {
			continue
		}
		rules[key] = ledger.CoerceRate(r.Get("percent"))
	}

	defaultGST := fallback
	settings, err := app.FindRecordsByFilter("settings", "1=1", "", 1, 0)
	if err != nil {
		log.Printf("gst_rules: LoadGSTRules: could not read settings, using fallback %v: %v", fallback, err)
	} else if len(settings) > 0 {
		if v := settings[0].GetFloat("default_gst"); v > 0 {
			defaultGST = v
		}
	}

	return NewGSTRuleSet(rules, defaultGST), nil
}
