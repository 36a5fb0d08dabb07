// Package category assigns a spending category to an extracted transaction.
// The policy is strictly two-tier: an exact dictionary hit on the normalized
// merchant name is ground truth and always wins; only on a miss is the injected
// classifier consulted. The two are never merged or blended.
package category

import (
	"context"
	"fmt"
	"strings"
)

// Classifier labels raw notification text with exactly one category from a
// fixed label set. It is deterministic per input and always answers; a weak
// signal still yields its highest-probability label, never "don't know".
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// Resolver holds the merchant dictionary and the fallback classifier. Both are
// injected at construction and owned by the caller; the resolver never mutates
// the dictionary.
type Resolver struct {
	dictionary map[string]string
	classifier Classifier
}

// NewResolver builds a resolver. Dictionary keys are normalized (uppercased,
// trimmed) on the way in so lookups are exact regardless of how the source
// file spells them. Dictionary values are free-form labels and are not
// constrained to the classifier's label set.
func NewResolver(dictionary map[string]string, classifier Classifier) *Resolver {
	normalized := make(map[string]string, len(dictionary))
	for merchant, label := range dictionary {
		normalized[NormalizeMerchant(merchant)] = label
	}
	return &Resolver{
		dictionary: normalized,
		classifier: classifier,
	}
}

// Resolve returns the category for a merchant. A classifier failure is a hard
// failure for this record's categorization; the resolver never substitutes a
// default label on error.
func (r *Resolver) Resolve(ctx context.Context, merchant, rawText string) (string, error) {
	if label, ok := r.dictionary[NormalizeMerchant(merchant)]; ok {
		return label, nil
	}

	label, err := r.classifier.Classify(ctx, rawText)
	if err != nil {
		return "", fmt.Errorf("resolve category for merchant %q: %w", merchant, err)
	}
	return label, nil
}

// NormalizeMerchant normalizes a merchant name for dictionary lookup.
func NormalizeMerchant(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
