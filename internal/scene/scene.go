// Package scene holds the Manim scene templates and the helpers that keep
// generated scripts inside what the renderer accepts.
package scene

import (
	"regexp"
	"strings"
)

// EntryPoint is the scene class name the renderer is always invoked with.
const EntryPoint = "GeneratedScene"

// MaxDuration is the ceiling, in seconds, on the summed play and wait time of a template.
const MaxDuration = 30.0

var (
	entryPointRegex = regexp.MustCompile(`(?m)^class\s+` + EntryPoint + `\s*\(`)
	fencedRegex     = regexp.MustCompile("(?s)```(?:[a-zA-Z0-9_+-]*[ \t]*\r?\n)?(.*?)```")
)

// SafeScript is the minimal static-text scene used when a render has to be retried.
var SafeScript = mustBuild(func(b *Builder) {
	b.Let("text", `Text("Generated Animation", font_size=48)`)
	b.Play(Write("text"))
	b.Wait(1)
	b.Play(Animate("text", ".scale(1.5).set_color(BLUE)"))
	b.Wait(1)
	b.Play(FadeOut("text"))
})

// CountEntryPoints returns how many times the entry point class is declared.
func CountEntryPoints(code string) int {
	return len(entryPointRegex.FindAllStringIndex(code, -1))
}

// HasEntryPoint reports whether code declares the entry point class exactly once.
func HasEntryPoint(code string) bool {
	return CountEntryPoints(code) == 1
}

// ExtractCode strips markdown code fences from model output.
func ExtractCode(raw string) string {
	if m := fencedRegex.FindStringSubmatch(raw); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	// unterminated fence
	if i := strings.Index(raw, "```"); i != -1 {
		rest := raw[i+3:]
		if nl := strings.IndexByte(rest, '\n'); nl != -1 {
			rest = rest[nl+1:]
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(raw)
}

func mustBuild(fn func(b *Builder)) string {
	b := NewBuilder()
	fn(b)
	code, err := b.Build()
	if err != nil {
		panic("scene: " + err.Error())
	}
	return code
}
