// Package classifier maps a free-text prompt to a template topic.
package classifier

import (
	"strings"
	"unicode"

	"github.com/mathanim/api/internal/model"
)

type compiledRule struct {
	topic    model.Topic
	keywords map[string]struct{}
}

// Classifier assigns a topic using the first rule whose keywords appear in the
// prompt. It never fails: prompts matching no rule are generic.
type Classifier struct {
	rules []compiledRule
}

// New builds a classifier from an ordered rule table.
func New(rules []Rule) *Classifier {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		set := make(map[string]struct{}, len(r.Keywords))
		for _, kw := range r.Keywords {
			set[strings.ToLower(kw)] = struct{}{}
		}
		c.rules = append(c.rules, compiledRule{topic: r.Topic, keywords: set})
	}
	return c
}

// Default returns a classifier using DefaultRules.
func Default() *Classifier {
	return New(DefaultRules())
}

// Classify returns the topic for prompt.
func (c *Classifier) Classify(prompt string) model.Topic {
	tokens := Tokenize(prompt)
	for _, r := range c.rules {
		for _, tok := range tokens {
			if _, ok := r.keywords[tok]; ok {
				return r.topic
			}
		}
	}
	return model.TopicGeneric
}

// Tokenize lower-cases s and splits it on every rune that is not a letter or digit.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
