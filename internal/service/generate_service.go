package service

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mathanim/api/internal/model"
)

// GenerateService runs a prompt through code generation, rendering and
// publishing.
type GenerateService struct {
	codegen   *CodegenService
	render    *RenderService
	workspace *Workspace
	health    *HealthService
}

func NewGenerateService(codegen *CodegenService, render *RenderService, workspace *Workspace, health *HealthService) *GenerateService {
	return &GenerateService{
		codegen:   codegen,
		render:    render,
		workspace: workspace,
		health:    health,
	}
}

// Generate produces a video for prompt. Every returned error is a *PipelineError.
func (s *GenerateService) Generate(ctx context.Context, prompt string, observe Observer) (*model.GenerateResponse, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, &PipelineError{Kind: KindInput, Message: "Prompt is required", Err: ErrPromptRequired}
	}

	snap := s.health.Snapshot(ctx)
	if snap.PythonWithManim == nil {
		return nil, &PipelineError{
			Kind:    KindEnvironment,
			Message: "Manim not installed",
			Details: "Install with: pip install manim",
			Checks:  snap.Checks,
		}
	}

	script := s.codegen.Generate(ctx, prompt)

	job, err := s.workspace.Acquire()
	if err != nil {
		return nil, unexpectedError(err)
	}
	defer s.workspace.Release(job)

	logger := log.WithField("job_id", job.ID)
	logger.Infof("Generate: rendering %s script (topic %s)", script.Source, script.Topic)
	observe.notify(job.ID, model.JobStatePending)

	result, err := s.render.Render(ctx, job, *snap.PythonWithManim, script.Code, observe)
	if err != nil {
		return nil, err
	}
	observe.notify(job.ID, model.JobStateDone)

	return &model.GenerateResponse{
		Success:   true,
		ManimCode: result.Code,
		VideoURL:  result.VideoURL,
		JobID:     job.ID,
	}, nil
}

// Script returns the scene script for prompt without rendering it.
func (s *GenerateService) Script(ctx context.Context, prompt string) (model.GeneratedScript, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return model.GeneratedScript{}, &PipelineError{Kind: KindInput, Message: "Prompt is required", Err: ErrPromptRequired}
	}
	return s.codegen.Generate(ctx, prompt), nil
}

// Health returns a fresh environment snapshot.
func (s *GenerateService) Health(ctx context.Context) *model.HealthSnapshot {
	return s.health.Snapshot(ctx)
}
