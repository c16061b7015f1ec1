package scene

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// defaultRunTime is Manim's run_time for a play call without one.
const defaultRunTime = 1.0

var (
	ErrObjectsOnScreen  = errors.New("objects still on screen at end of scene")
	ErrDurationExceeded = errors.New("scene duration exceeds ceiling")
	ErrUnknownObject    = errors.New("animation references undeclared object")
)

// Anim is one animation passed to self.play, along with the objects it
// brings on screen or removes.
type Anim struct {
	expr  string
	shows []string
	hides []string
	uses  []string
}

func Write(name string) Anim {
	return Anim{expr: "Write(" + name + ")", shows: []string{name}, uses: []string{name}}
}

func Create(name string) Anim {
	return Anim{expr: "Create(" + name + ")", shows: []string{name}, uses: []string{name}}
}

func FadeIn(name string) Anim {
	return Anim{expr: "FadeIn(" + name + ")", shows: []string{name}, uses: []string{name}}
}

func FadeOut(name string) Anim {
	return Anim{expr: "FadeOut(" + name + ")", hides: []string{name}, uses: []string{name}}
}

// Transform morphs src into the shape of dst. src stays on screen, dst never appears.
func Transform(src, dst string) Anim {
	return Anim{expr: "Transform(" + src + ", " + dst + ")", uses: []string{src, dst}}
}

// Animate builds name.animate<chain>, e.g. Animate("title", ".to_edge(UP)").
func Animate(name, chain string) Anim {
	return Anim{expr: name + ".animate" + chain, uses: []string{name}}
}

// PlayOptions are the keyword arguments of a play call.
type PlayOptions struct {
	RunTime  float64
	RateFunc string
}

// Builder assembles a scene script while tracking what is on screen and how
// long the scene runs.
type Builder struct {
	imports  []string
	body     []string
	declared map[string]bool
	onScreen []string
	duration float64
	err      error
}

func NewBuilder() *Builder {
	return &Builder{
		imports:  []string{"from manim import *"},
		declared: make(map[string]bool),
	}
}

// Import adds an import line after the manim star import.
func (b *Builder) Import(line string) *Builder {
	if slices.Contains(b.imports, line) {
		return b
	}
	b.imports = append(b.imports, line)
	return b
}

// Let declares a mobject. Declaring does not put it on screen.
func (b *Builder) Let(name, expr string) *Builder {
	b.declared[name] = true
	b.body = append(b.body, name+" = "+expr)
	return b
}

// Stmt appends a raw statement that neither animates nor declares.
func (b *Builder) Stmt(line string) *Builder {
	b.body = append(b.body, line)
	return b
}

func (b *Builder) Comment(text string) *Builder {
	b.body = append(b.body, "# "+text)
	return b
}

func (b *Builder) Blank() *Builder {
	b.body = append(b.body, "")
	return b
}

func (b *Builder) Play(anims ...Anim) *Builder {
	return b.PlayWith(PlayOptions{}, anims...)
}

func (b *Builder) PlayWith(opts PlayOptions, anims ...Anim) *Builder {
	args := make([]string, 0, len(anims)+2)
	for _, a := range anims {
		b.track(a)
		args = append(args, a.expr)
	}
	if opts.RateFunc != "" {
		args = append(args, "rate_func="+opts.RateFunc)
	}
	runTime := defaultRunTime
	if opts.RunTime > 0 {
		runTime = opts.RunTime
		args = append(args, "run_time="+formatSeconds(opts.RunTime))
	}
	b.duration += runTime
	b.body = append(b.body, "self.play("+strings.Join(args, ", ")+")")
	return b
}

func (b *Builder) Wait(seconds float64) *Builder {
	b.duration += seconds
	b.body = append(b.body, "self.wait("+formatSeconds(seconds)+")")
	return b
}

// Clear fades out everything still on screen, in the order it appeared.
func (b *Builder) Clear() *Builder {
	if len(b.onScreen) == 0 {
		return b
	}
	names := append([]string(nil), b.onScreen...)
	if len(names) <= 3 {
		anims := make([]Anim, len(names))
		for i, n := range names {
			anims[i] = FadeOut(n)
		}
		return b.Play(anims...)
	}
	b.onScreen = nil
	b.duration += defaultRunTime
	b.body = append(b.body, "self.play(*[FadeOut(obj) for obj in ["+strings.Join(names, ", ")+"]])")
	return b
}

// Duration is the accumulated play and wait time so far.
func (b *Builder) Duration() float64 {
	return b.duration
}

// Build renders the script. It fails if anything is left on screen or the
// scene runs past MaxDuration.
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if len(b.onScreen) > 0 {
		return "", fmt.Errorf("%w: %s", ErrObjectsOnScreen, strings.Join(b.onScreen, ", "))
	}
	if b.duration > MaxDuration {
		return "", fmt.Errorf("%w: %s > %s", ErrDurationExceeded, formatSeconds(b.duration), formatSeconds(MaxDuration))
	}

	var sb strings.Builder
	for _, imp := range b.imports {
		sb.WriteString(imp)
		sb.WriteByte('\n')
	}
	sb.WriteString("\nclass " + EntryPoint + "(Scene):\n")
	sb.WriteString("    def construct(self):\n")
	for _, line := range b.body {
		if line == "" {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString("        ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func (b *Builder) track(a Anim) {
	for _, n := range a.uses {
		if !b.declared[n] && b.err == nil {
			b.err = fmt.Errorf("%w: %s", ErrUnknownObject, n)
		}
	}
	for _, n := range a.shows {
		if !slices.Contains(b.onScreen, n) {
			b.onScreen = append(b.onScreen, n)
		}
	}
	for _, n := range a.hides {
		b.onScreen = slices.DeleteFunc(b.onScreen, func(v string) bool { return v == n })
	}
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
