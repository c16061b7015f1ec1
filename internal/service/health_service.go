package service

import (
	"context"

	"github.com/mathanim/api/internal/model"
)

// Prober inspects the host for the renderer's dependencies.
type Prober interface {
	FindInterpreter(ctx context.Context) string
	FFmpegAvailable(ctx context.Context) bool
}

// HealthService reports the environment. Snapshots are never cached.
type HealthService struct {
	prober         Prober
	groqConfigured bool
	storage        string
	dirs           model.HealthDirectories
}

func NewHealthService(prober Prober, groqConfigured bool, storage string, dirs model.HealthDirectories) *HealthService {
	return &HealthService{
		prober:         prober,
		groqConfigured: groqConfigured,
		storage:        storage,
		dirs:           dirs,
	}
}

// Snapshot probes the environment now.
func (s *HealthService) Snapshot(ctx context.Context) *model.HealthSnapshot {
	snap := &model.HealthSnapshot{
		Checks: model.HealthChecks{
			FFmpegInstalled: s.prober.FFmpegAvailable(ctx),
			// the template fallback means a script can always be produced
			LLMConfigured: true,
		},
		GroqConfigured: s.groqConfigured,
		Storage:        s.storage,
		Directories:    s.dirs,
	}

	if interpreter := s.prober.FindInterpreter(ctx); interpreter != "" {
		snap.Checks.ManimInstalled = true
		snap.PythonWithManim = &interpreter
	}

	snap.Status = model.HealthStatusUnhealthy
	if snap.Checks.AllPassed() {
		snap.Status = model.HealthStatusHealthy
	}
	return snap
}
