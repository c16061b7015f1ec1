package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mathanim/api/internal/client"
	"github.com/mathanim/api/internal/model"
	"github.com/mathanim/api/internal/scene"
)

// Renderer runs one render of a script on disk.
type Renderer interface {
	Render(ctx context.Context, in client.RenderInput) error
}

// Observer is told about every state a job enters. It may be nil.
type Observer func(jobID string, state model.JobState)

func (o Observer) notify(jobID string, state model.JobState) {
	log.WithField("job_id", jobID).Debugf("Render: %s", state)
	if o != nil {
		o(jobID, state)
	}
}

// RenderResult is a published video and the script that produced it.
type RenderResult struct {
	VideoURL string
	Code     string
	Retried  bool
}

// RenderService renders a job's script, retrying once with the safe script,
// and publishes the resulting video.
type RenderService struct {
	renderer  Renderer
	publisher Publisher
}

func NewRenderService(renderer Renderer, publisher Publisher) *RenderService {
	return &RenderService{
		renderer:  renderer,
		publisher: publisher,
	}
}

// Render runs the job with code through the given interpreter. A failed first
// attempt, including a timeout, is retried exactly once with scene.SafeScript.
func (s *RenderService) Render(ctx context.Context, job *Job, interpreter, code string, observe Observer) (*RenderResult, error) {
	logger := log.WithField("job_id", job.ID)
	input := client.RenderInput{
		Interpreter: interpreter,
		ScriptPath:  job.ScriptPath,
		OutputDir:   job.OutputDir,
		WorkDir:     job.WorkDir,
		SceneName:   scene.EntryPoint,
	}

	if err := job.WriteScript(code); err != nil {
		return nil, unexpectedError(err)
	}

	rendered := code
	retried := false
	observe.notify(job.ID, model.JobStateRendering)
	if err := s.renderer.Render(ctx, input); err != nil {
		detail := renderDetail(err)
		logger.Warnf("Render: first attempt failed: %s", truncateDetail(detail))
		observe.notify(job.ID, model.JobStateRenderFailed)

		if err := job.WriteScript(scene.SafeScript); err != nil {
			return nil, unexpectedError(err)
		}
		observe.notify(job.ID, model.JobStateRetrying)
		if retryErr := s.renderer.Render(ctx, input); retryErr != nil {
			logger.Errorf("Render: safe script retry failed: %v", retryErr)
			observe.notify(job.ID, model.JobStateRetryFailed)
			return nil, &PipelineError{
				Kind:    KindRender,
				Message: "Animation rendering failed",
				Details: truncateDetail(detail),
				Code:    code,
				Err:     retryErr,
			}
		}
		rendered = scene.SafeScript
		retried = true
	}

	videoPath, err := findVideo(job.OutputDir)
	if err != nil {
		return nil, unexpectedError(err)
	}
	if videoPath == "" {
		observe.notify(job.ID, model.JobStateVideoMissing)
		return nil, &PipelineError{
			Kind:    KindRender,
			Message: "Video file not found after generation",
			Details: "Output directory: " + job.OutputDir,
			Code:    rendered,
		}
	}
	observe.notify(job.ID, model.JobStateVideoFound)

	url, err := s.publisher.Publish(ctx, job.ID, videoPath)
	if err != nil {
		return nil, unexpectedError(err)
	}
	logger.Infof("Render: video published to %s", url)

	return &RenderResult{VideoURL: url, Code: rendered, Retried: retried}, nil
}

func renderDetail(err error) string {
	var renderErr *client.RenderError
	if errors.As(err, &renderErr) {
		return renderErr.Detail()
	}
	return err.Error()
}

var errVideoFound = errors.New("video found")

// findVideo returns the first .mp4 under dir in lexical walk order, or "".
func findVideo(dir string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".mp4") {
			found = path
			return errVideoFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errVideoFound) {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to scan output directory: %w", err)
	}
	return found, nil
}
