package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Rule is a single named extraction heuristic: a pure function from normalized
// snippet text to an optional value. Rules for one field are tried in priority
// order and the first match wins; they are never combined or voted.
type Rule struct {
	Name  string
	Apply func(text string) (string, bool)
}

// FirstMatch runs rules in order and returns the first successful value.
func FirstMatch(rules []Rule, text string) (string, bool) {
	for _, r := range rules {
		if v, ok := r.Apply(text); ok {
			return v, true
		}
	}
	return "", false
}

var (
	// Only one currency and one decimal convention are supported. This is a
	// scope limitation, not an oversight: the notifications this parses all
	// quote INR with a dot separator.
	amountRe = regexp.MustCompile(`(?i)(?:Rs\.?|INR)\s?(\d+(?:\.\d{1,2})?)`)

	// Human-readable counterparty name following a VPA identifier, terminated
	// by an "on" token or a DD-MM-YY-shaped date.
	merchantNameRe = regexp.MustCompile(`to VPA [\w.\-@]+\s+([A-Z][\w\s\-&]+?)(?:\s+on|\s+\d{2}-\d{2}-\d{2})`)

	// The raw VPA identifier itself.
	vpaRe = regexp.MustCompile(`to VPA ([\w.\-@]+)`)

	// Any email/VPA-shaped token anywhere in the snippet.
	anyVPARe = regexp.MustCompile(`[\w.\-]+@[\w\-]+`)

	// Reference id following one of the known label phrases.
	refIDRe = regexp.MustCompile(`(?i)(?:transaction reference number is|transaction ref no\.?|ref no\.?|reference number)\s*[:\-]?\s*([0-9A-Za-z]+)`)
)

// AmountRules extract a currency-prefixed decimal amount, formatted to exactly
// two fraction digits.
var AmountRules = []Rule{
	{
		Name: "currency-prefixed-decimal",
		Apply: func(text string) (string, bool) {
			m := amountRe.FindStringSubmatch(text)
			if m == nil {
				return "", false
			}
			f, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return "", false
			}
			return fmt.Sprintf("%.2f", f), true
		},
	},
}

// MerchantRules extract the counterparty, strongest heuristic first. Names are
// more useful for categorization than opaque ids, so the name pattern leads and
// the id patterns are strictly weaker fallbacks.
var MerchantRules = []Rule{
	{
		Name: "name-after-vpa",
		Apply: func(text string) (string, bool) {
			m := merchantNameRe.FindStringSubmatch(text)
			if m == nil {
				return "", false
			}
			return strings.TrimSpace(m[1]), true
		},
	},
	{
		Name: "vpa-identifier",
		Apply: func(text string) (string, bool) {
			m := vpaRe.FindStringSubmatch(text)
			if m == nil {
				return "", false
			}
			return m[1], true
		},
	},
	{
		Name: "any-vpa-token",
		Apply: func(text string) (string, bool) {
			m := anyVPARe.FindString(text)
			if m == "" {
				return "", false
			}
			return m, true
		},
	},
}

// ReferenceIDRules extract the transaction reference id from labelled phrases.
var ReferenceIDRules = []Rule{
	{
		Name: "labelled-reference",
		Apply: func(text string) (string, bool) {
			m := refIDRe.FindStringSubmatch(text)
			if m == nil {
				return "", false
			}
			return m[1], true
		},
	},
}
