package classify

import (
	"os"
	"regexp"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/guestbites/guestbites/internal/model"
)

// rulesFile is the on-disk form of a rule chain:
//
//	rules:
//	  - bucket: Pizza
//	    pattern: "pizza|pizzeria"
//
// Rules are applied in file order.
type rulesFile struct {
	Fallback string     `yaml:"fallback"`
	Rules    []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	Bucket  string `yaml:"bucket"`
	Pattern string `yaml:"pattern"`
}

// RuleSet is a parsed rules file.
type RuleSet struct {
	Rules []Rule
	// Fallback is empty when the file does not set one.
	Fallback model.Bucket
}

// Options returns the classifier options described by the rule set.
func (rs *RuleSet) Options() []Option {
	opts := []Option{WithRules(rs.Rules)}
	if rs.Fallback != "" {
		opts = append(opts, WithFallback(rs.Fallback))
	}
	return opts
}

// LoadRules reads a YAML rules file.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "classify: read rules %s", path)
	}
	return ParseRules(data)
}

// ParseRules parses a YAML rule chain. Patterns are matched against
// lowercased text.
func ParseRules(data []byte) (*RuleSet, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "classify: parse rules")
	}
	if len(f.Rules) == 0 {
		return nil, eris.New("classify: rules file has no rules")
	}

	rs := &RuleSet{Rules: make([]Rule, 0, len(f.Rules))}
	if f.Fallback != "" {
		b, ok := model.ParseBucket(f.Fallback)
		if !ok {
			return nil, eris.Errorf("classify: unknown fallback bucket %q", f.Fallback)
		}
		rs.Fallback = b
	}
	for i, spec := range f.Rules {
		b, ok := model.ParseBucket(spec.Bucket)
		if !ok {
			return nil, eris.Errorf("classify: rule %d: unknown bucket %q", i, spec.Bucket)
		}
		if spec.Pattern == "" {
			return nil, eris.Errorf("classify: rule %d: empty pattern", i)
		}
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, eris.Wrapf(err, "classify: rule %d: compile pattern", i)
		}
		rs.Rules = append(rs.Rules, Rule{Bucket: b, Pattern: re})
	}
	return rs, nil
}
