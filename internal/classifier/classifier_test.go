package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathanim/api/internal/model"
)

func TestClassify(t *testing.T) {
	c := Default()

	tests := []struct {
		prompt   string
		expected model.Topic
	}{
		{"show me a bouncing ball", model.TopicBouncingPhysics},
		{"Transform a circle into a square", model.TopicShapeTransform},
		{"prove the Pythagorean theorem", model.TopicPythagorean},
		{"plot a sine wave", model.TopicTrigWave},
		{"solve a quadratic equation", model.TopicQuadratic},
		{"what is a derivative?", model.TopicDerivative},
		{"explain photosynthesis", model.TopicGeneric},
		{"", model.TopicGeneric},
		{"   ", model.TopicGeneric},
		// earlier rules win
		{"a triangle riding a wave", model.TopicPythagorean},
		{"a ball rolling down a parabola", model.TopicBouncingPhysics},
		{"circle, derivative", model.TopicShapeTransform},
		// whole tokens only
		{"a cosmic ballet", model.TopicGeneric},
		{"sinusoidal things", model.TopicGeneric},
		{"GRAVITY!!!", model.TopicBouncingPhysics},
		{"cos(x)+sin(x)", model.TopicTrigWave},
	}

	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.prompt))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := Default()
	for i := 0; i < 10; i++ {
		assert.Equal(t, model.TopicTrigWave, c.Classify("draw cosine waves"))
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"f", "x", "x2", "slope"}, Tokenize("f(x)=x2; Slope"))
	assert.Empty(t, Tokenize("!!! ..."))
}

func TestParseRules(t *testing.T) {
	rules, err := ParseRules([]byte(`
rules:
  - topic: derivative
    keywords: [Slope, " tangent "]
  - topic: shape_transform
    keywords: [circle]
`))
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, []string{"slope", "tangent"}, rules[0].Keywords)

	c := New(rules)
	assert.Equal(t, model.TopicDerivative, c.Classify("tangent to a circle"))
}

func TestParseRules_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown topic", "rules:\n  - topic: astronomy\n    keywords: [star]\n"},
		{"generic topic", "rules:\n  - topic: generic\n    keywords: [thing]\n"},
		{"no keywords", "rules:\n  - topic: quadratic\n    keywords: []\n"},
		{"blank keyword", "rules:\n  - topic: quadratic\n    keywords: [\"  \"]\n"},
		{"empty", "rules: []\n"},
		{"malformed", "rules: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - topic: trig_wave\n    keywords: [oscillation]\n"), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, model.TopicTrigWave, New(rules).Classify("an oscillation"))

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
