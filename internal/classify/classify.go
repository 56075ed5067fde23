// Package classify assigns places to meal-time buckets using ordered keyword rules.
package classify

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/guestbites/guestbites/internal/model"
)

// Rule maps places whose categories or name match Pattern to Bucket.
type Rule struct {
	Bucket  model.Bucket
	Pattern *regexp.Regexp
}

// DefaultRules returns the built-in rule chain. Order is priority: a place
// tagged both "Bakery" and "Restaurant" lands in Breakfast because that rule
// is checked before Dinner.
func DefaultRules() []Rule {
	return []Rule{
		{Bucket: model.BucketPizza, Pattern: regexp.MustCompile(`pizza|pizzeria`)},
		{Bucket: model.BucketBreakfast, Pattern: regexp.MustCompile(`coffee|cafe|café|bakery|diner|brunch|\btea\b`)},
		{Bucket: model.BucketLunch, Pattern: regexp.MustCompile(`deli|sandwich|burger|fast food|lunch|\bsubs?\b`)},
		{Bucket: model.BucketDinner, Pattern: regexp.MustCompile(`grill|steak|seafood|dinner|bar|restaurant`)},
		{Bucket: model.BucketDessert, Pattern: regexp.MustCompile(`ice cream|dessert|chocolate|sweet|cake|gelato`)},
	}
}

// Classifier is a pure, deterministic function from category tags and a
// place name to exactly one classifier bucket.
type Classifier struct {
	rules    []Rule
	fallback model.Bucket
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRules replaces the default rule chain.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) {
		c.rules = rules
	}
}

// WithFallback sets the bucket returned when no rule matches.
func WithFallback(b model.Bucket) Option {
	return func(c *Classifier) {
		c.fallback = b
	}
}

// New creates a Classifier. Without options it uses DefaultRules and falls
// back to Other.
func New(opts ...Option) (*Classifier, error) {
	c := &Classifier{
		rules:    DefaultRules(),
		fallback: model.BucketOther,
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.fallback.Classified() {
		return nil, eris.Errorf("classify: invalid fallback bucket %q", c.fallback)
	}
	for i, r := range c.rules {
		if !r.Bucket.Classified() {
			return nil, eris.Errorf("classify: rule %d has invalid bucket %q", i, r.Bucket)
		}
		if r.Pattern == nil {
			return nil, eris.Errorf("classify: rule %d has no pattern", i)
		}
	}
	return c, nil
}

// Default returns a Classifier with the built-in rules.
func Default() *Classifier {
	c, _ := New()
	return c
}

// Classify returns the first bucket whose rule matches the lowercased
// category names and place name.
func (c *Classifier) Classify(categories []string, name string) model.Bucket {
	parts := make([]string, 0, len(categories)+1)
	parts = append(parts, categories...)
	parts = append(parts, name)
	// Casers keep state between calls, so each call gets its own.
	haystack := cases.Lower(language.Und).String(strings.Join(parts, " "))

	for _, r := range c.rules {
		if r.Pattern.MatchString(haystack) {
			return r.Bucket
		}
	}
	return c.fallback
}

// ClassifyPlace classifies a place record by its categories and name.
func (c *Classifier) ClassifyPlace(p model.PlaceRecord) model.Bucket {
	return c.Classify(p.CategoryNames(), p.Name)
}
