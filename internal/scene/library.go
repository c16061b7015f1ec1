package scene

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mathanim/api/internal/model"
)

// maxTitleRunes caps the prompt text embedded as the generic scene title.
const maxTitleRunes = 50

const defaultTitle = "Generated Animation"

type sceneTemplate func(b *Builder, title string)

// Library maps every topic to exactly one template. It is immutable and safe
// for concurrent use.
type Library struct {
	templates map[model.Topic]sceneTemplate
}

func NewLibrary() *Library {
	return &Library{
		templates: map[model.Topic]sceneTemplate{
			model.TopicShapeTransform:  shapeTransform,
			model.TopicPythagorean:     pythagorean,
			model.TopicTrigWave:        trigWave,
			model.TopicBouncingPhysics: bouncingPhysics,
			model.TopicQuadratic:       quadratic,
			model.TopicDerivative:      derivative,
			model.TopicGeneric:         generic,
		},
	}
}

// Script returns the scene script for topic. title is only used by the
// generic template; pass the raw prompt. Stale Manim names in it are rewritten.
func (l *Library) Script(topic model.Topic, title string) (string, error) {
	tmpl, ok := l.templates[topic]
	if !ok {
		tmpl = generic
	}
	b := NewBuilder()
	// the title is user text; keep stale names out of the script even inside a string
	tmpl(b, Compat.Apply(TitleFromPrompt(title)))
	code, err := b.Build()
	if err != nil {
		return "", fmt.Errorf("template %s: %w", topic, err)
	}
	return code, nil
}

// TitleFromPrompt trims the prompt, collapses control characters and keeps
// the first 50 runes.
func TitleFromPrompt(prompt string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, prompt)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return defaultTitle
	}
	runes := []rune(cleaned)
	if len(runes) > maxTitleRunes {
		runes = runes[:maxTitleRunes]
	}
	return strings.TrimSpace(string(runes))
}

// pyString quotes s as a double-quoted Python string literal.
func pyString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n', '\r', '\t':
			sb.WriteByte(' ')
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
