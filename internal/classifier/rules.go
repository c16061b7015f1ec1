package classifier

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mathanim/api/internal/model"
)

// Rule maps a set of keywords to a topic.
type Rule struct {
	Topic    model.Topic `yaml:"topic"`
	Keywords []string    `yaml:"keywords"`
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// DefaultRules is the built-in table. Earlier rules win.
func DefaultRules() []Rule {
	return []Rule{
		{Topic: model.TopicShapeTransform, Keywords: []string{"circle", "circles", "square", "squares", "transform", "transformation", "morph", "morphing"}},
		{Topic: model.TopicPythagorean, Keywords: []string{"pythagoras", "pythagorean", "theorem", "triangle", "triangles", "hypotenuse"}},
		{Topic: model.TopicTrigWave, Keywords: []string{"sine", "cosine", "wave", "waves", "trig", "trigonometry", "trigonometric", "sin", "cos"}},
		{Topic: model.TopicBouncingPhysics, Keywords: []string{"bounce", "bounces", "bouncing", "ball", "balls", "physics", "gravity"}},
		{Topic: model.TopicQuadratic, Keywords: []string{"quadratic", "parabola", "formula", "equation"}},
		{Topic: model.TopicDerivative, Keywords: []string{"derivative", "derivatives", "calculus", "integral", "limit", "slope", "tangent"}},
	}
}

// LoadRules reads an ordered rule table from a YAML file of the form
//
//	rules:
//	  - topic: trig_wave
//	    keywords: [sine, cosine]
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes and validates a YAML rule table.
func ParseRules(data []byte) ([]Rule, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("rules file defines no rules")
	}

	for i, r := range f.Rules {
		if !r.Topic.IsValid() || r.Topic == model.TopicGeneric {
			return nil, fmt.Errorf("rule %d: unknown topic %q", i, r.Topic)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no keywords", i, r.Topic)
		}
		for j, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("rule %d (%s): empty keyword", i, r.Topic)
			}
			f.Rules[i].Keywords[j] = kw
		}
	}
	return f.Rules, nil
}
