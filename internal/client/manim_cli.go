package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mathanim/api/internal/config"
)

// execCommand allows exec.CommandContext to be replaced in tests
var execCommand = exec.CommandContext

// ErrRenderTimeout is returned when the renderer is killed at its deadline.
var ErrRenderTimeout = errors.New("render timed out")

// RenderError is a failed render together with the renderer's diagnostic output.
type RenderError struct {
	Output string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("manim render failed: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Detail is the renderer's output, or the error itself when there was none.
func (e *RenderError) Detail() string {
	if strings.TrimSpace(e.Output) != "" {
		return e.Output
	}
	return e.Err.Error()
}

// RenderInput describes one invocation of the manim CLI.
type RenderInput struct {
	Interpreter string
	ScriptPath  string
	OutputDir   string
	WorkDir     string
	SceneName   string
}

// ManimCLI runs the manim command line through a Python interpreter.
type ManimCLI struct {
	interpreters []string
	ffmpeg       string
	timeout      time.Duration
	probeTimeout time.Duration
}

func NewManimCLI(cfg *config.RendererConfig) *ManimCLI {
	return &ManimCLI{
		interpreters: cfg.Interpreters,
		ffmpeg:       cfg.FFmpeg,
		timeout:      cfg.RenderTimeout(),
		probeTimeout: cfg.ProbeDeadline(),
	}
}

// RenderArgs returns the arguments passed to the interpreter.
func RenderArgs(in RenderInput) []string {
	return []string{
		"-m", "manim",
		"render",
		in.ScriptPath,
		in.SceneName,
		"--media_dir", in.OutputDir,
		"-ql",
		"--disable_caching",
		"-v", "WARNING",
	}
}

// Render runs one render and blocks until the process exits or the timeout
// elapses, in which case the process is killed and ErrRenderTimeout returned.
func (m *ManimCLI) Render(ctx context.Context, in RenderInput) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := execCommand(ctx, in.Interpreter, RenderArgs(in)...)
	cmd.Dir = in.WorkDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	output := stderr.String()
	if output == "" {
		output = stdout.String()
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &RenderError{
			Output: output,
			Err:    fmt.Errorf("%w after %s", ErrRenderTimeout, m.timeout),
		}
	}
	if err != nil {
		return &RenderError{Output: output, Err: err}
	}
	return nil
}

// FindInterpreter returns the first configured interpreter that can import
// manim, or "" if none can.
func (m *ManimCLI) FindInterpreter(ctx context.Context) string {
	for _, candidate := range m.interpreters {
		if m.probe(ctx, candidate, "-c", "import manim; print('OK')") {
			return candidate
		}
	}
	return ""
}

// FFmpegAvailable reports whether ffmpeg runs.
func (m *ManimCLI) FFmpegAvailable(ctx context.Context) bool {
	return m.probe(ctx, m.ffmpeg, "-version")
}

func (m *ManimCLI) probe(ctx context.Context, name string, args ...string) bool {
	ctx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()

	cmd := execCommand(ctx, name, args...)
	cmd.WaitDelay = time.Second
	return cmd.Run() == nil
}
