package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mathanim/api/internal/classifier"
	"github.com/mathanim/api/internal/model"
	"github.com/mathanim/api/internal/scene"
)

func newTestCodegen(llm TextGenerator) *CodegenService {
	return NewCodegenService(llm, classifier.Default(), scene.NewLibrary())
}

func TestCodegen_NoCredentialUsesTemplate(t *testing.T) {
	llm := &fakeLLM{reply: "class GeneratedScene(Scene): pass", configured: false}
	out := newTestCodegen(llm).Generate(context.Background(), "show me a bouncing ball")

	assert.Equal(t, 0, llm.calls)
	assert.Equal(t, model.ScriptSourceTemplate, out.Source)
	assert.Equal(t, model.TopicBouncingPhysics, out.Topic)
	assert.True(t, scene.HasEntryPoint(out.Code))
}

func TestCodegen_NilGeneratorUsesTemplate(t *testing.T) {
	out := newTestCodegen(nil).Generate(context.Background(), "sine wave")

	assert.Equal(t, model.ScriptSourceTemplate, out.Source)
	assert.Equal(t, model.TopicTrigWave, out.Topic)
}

func TestCodegen_ModelFailureFallsBack(t *testing.T) {
	llm := &fakeLLM{err: errors.New("context deadline exceeded"), configured: true}
	out := newTestCodegen(llm).Generate(context.Background(), "explain the pythagorean theorem")

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, model.ScriptSourceTemplate, out.Source)
	expected, err := scene.NewLibrary().Script(model.TopicPythagorean, "")
	assert.NoError(t, err)
	assert.Equal(t, expected, out.Code)
}

func TestCodegen_InvalidModelOutputFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no entry point", "```python\nfrom manim import *\nclass Other(Scene):\n    pass\n```"},
		{"two entry points", "class GeneratedScene(Scene):\n    pass\nclass GeneratedScene(Scene):\n    pass\n"},
		{"prose", "Sorry, I cannot help with that."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{reply: tt.reply, configured: true}
			out := newTestCodegen(llm).Generate(context.Background(), "morph a circle")
			assert.Equal(t, model.ScriptSourceTemplate, out.Source)
			assert.Equal(t, 1, scene.CountEntryPoints(out.Code))
		})
	}
}

func TestCodegen_ValidModelOutputIsRewritten(t *testing.T) {
	reply := "Here you go:\n```python\nfrom manim import *\n\nclass GeneratedScene(Scene):\n    def construct(self):\n        axes = Axes()\n        g = axes.get_graph(lambda x: x)\n        self.play(ShowCreation(g), runtime=2, rate_func=ease_in)\n```\nEnjoy!"
	llm := &fakeLLM{reply: reply, configured: true}

	out := newTestCodegen(llm).Generate(context.Background(), "plot a line")

	assert.Equal(t, model.ScriptSourceLLM, out.Source)
	assert.Contains(t, out.Code, "axes.plot(lambda x: x)")
	assert.Contains(t, out.Code, "self.play(Create(g), run_time=2, rate_func=smooth)")
	assert.NotContains(t, out.Code, "```")
	assert.Empty(t, scene.Compat.Find(out.Code))
	assert.True(t, scene.HasEntryPoint(out.Code))
}

func TestCodegen_AlwaysValid(t *testing.T) {
	prompts := []string{"", "x", "show me a bouncing ball", "\"); import os; os.system(\"rm -rf /", "円と正方形"}
	for _, p := range prompts {
		out := newTestCodegen(nil).Generate(context.Background(), p)
		assert.Equal(t, 1, scene.CountEntryPoints(out.Code), p)
	}
}
