package service

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrPromptRequired is returned for an empty or whitespace-only prompt.
var ErrPromptRequired = errors.New("prompt is required")

// ErrorKind classifies errors that reach the caller.
type ErrorKind string

const (
	KindInput       ErrorKind = "input"
	KindEnvironment ErrorKind = "environment"
	KindRender      ErrorKind = "render"
	KindUnexpected  ErrorKind = "unexpected"
)

// maxDetailBytes caps renderer diagnostics returned to callers.
const maxDetailBytes = 500

// PipelineError is a generation failure carrying the payload shown to the caller.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Details string
	Code    string
	Checks  interface{}
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func unexpectedError(err error) *PipelineError {
	return &PipelineError{
		Kind:    KindUnexpected,
		Message: "Generation failed",
		Details: "An unexpected error occurred while generating the animation",
		Err:     err,
	}
}

// truncateDetail cuts s to at most maxDetailBytes without splitting a rune.
func truncateDetail(s string) string {
	if len(s) <= maxDetailBytes {
		return s
	}
	cut := maxDetailBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
