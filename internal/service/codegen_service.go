package service

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mathanim/api/internal/classifier"
	"github.com/mathanim/api/internal/model"
	"github.com/mathanim/api/internal/scene"
)

// TextGenerator is an external chat-completion model.
type TextGenerator interface {
	ChatCompletion(ctx context.Context, system, user string) (string, error)
	IsConfigured() bool
}

const codegenSystemPrompt = `You are a Manim code generator. Generate ONLY valid Python code.
Requirements:
1. Start with: from manim import *
2. Create ONE class named 'GeneratedScene' inheriting from Scene (or ThreeDScene for 3D)
3. Implement construct(self) using Write, Create, FadeIn, FadeOut, Transform and .animate
4. Use correct Manim Community syntax:
   - Use ParametricFunction (NOT ParametricCurve)
   - For plotting graphs: use axes.plot(function, color=COLOR, x_range=[min, max])
   - Use run_time=X instead of runtime=X
   - Use rate_functions.smooth, never ease_in or ease_out
   - Use Create, Text and MathTex (NOT ShowCreation, TextMobject, TexMobject)
5. Keep animations under 30 seconds total and fade everything out at the end
6. Return ONLY code, no explanations or markdown`

// CodegenService turns a prompt into a scene script. It always returns a
// script with exactly one entry point.
type CodegenService struct {
	llm        TextGenerator
	classifier *classifier.Classifier
	library    *scene.Library
}

func NewCodegenService(llm TextGenerator, c *classifier.Classifier, lib *scene.Library) *CodegenService {
	return &CodegenService{
		llm:        llm,
		classifier: c,
		library:    lib,
	}
}

// Generate tries the external model once and falls back to a template on any
// failure. It never returns an error.
func (s *CodegenService) Generate(ctx context.Context, prompt string) model.GeneratedScript {
	topic := s.classifier.Classify(prompt)

	if s.llm != nil && s.llm.IsConfigured() {
		if code, ok := s.fromModel(ctx, prompt); ok {
			return model.GeneratedScript{Code: code, Topic: topic, Source: model.ScriptSourceLLM}
		}
	}

	code, err := s.library.Script(topic, prompt)
	if err != nil {
		log.Errorf("Codegen: template %s failed to build, using safe script: %v", topic, err)
		code = scene.SafeScript
	}
	log.WithField("topic", topic).Debug("Codegen: using template")
	return model.GeneratedScript{Code: code, Topic: topic, Source: model.ScriptSourceTemplate}
}

func (s *CodegenService) fromModel(ctx context.Context, prompt string) (string, bool) {
	raw, err := s.llm.ChatCompletion(ctx, codegenSystemPrompt, "Create a Manim animation for: "+prompt)
	if err != nil {
		log.Warnf("Codegen: model call failed, falling back to template: %v", err)
		return "", false
	}

	code := scene.Compat.Apply(scene.ExtractCode(raw))
	if n := scene.CountEntryPoints(code); n != 1 {
		log.Warnf("Codegen: model output declares %s %d times, falling back to template", scene.EntryPoint, n)
		return "", false
	}
	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	return code, true
}
