package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathanim/api/internal/client"
	"github.com/mathanim/api/internal/model"
	"github.com/mathanim/api/internal/scene"
)

const testCode = "from manim import *\n\nclass GeneratedScene(Scene):\n    def construct(self):\n        self.wait(1)\n"

func newTestJob(t *testing.T) (*Workspace, *Job) {
	t.Helper()
	ws := NewWorkspace(t.TempDir())
	job, err := ws.Acquire()
	require.NoError(t, err)
	return ws, job
}

func TestRender_FirstAttemptSucceeds(t *testing.T) {
	videoDir := t.TempDir()
	renderer := &fakeRenderer{}
	svc := NewRenderService(renderer, NewLocalPublisher(videoDir))
	_, job := newTestJob(t)
	rec := &recorder{}

	result, err := svc.Render(context.Background(), job, "python3", testCode, rec.observe)
	require.NoError(t, err)

	assert.Equal(t, 1, renderer.calls())
	assert.False(t, result.Retried)
	assert.Equal(t, testCode, result.Code)
	assert.Equal(t, "/videos/animation_"+job.ID+".mp4", result.VideoURL)
	assert.FileExists(t, filepath.Join(videoDir, "animation_"+job.ID+".mp4"))
	assert.Equal(t, []model.JobState{model.JobStateRendering, model.JobStateVideoFound}, rec.states)
}

func TestRender_RetriesOnceWithSafeScript(t *testing.T) {
	renderer := &fakeRenderer{results: []error{&client.RenderError{Output: "SyntaxError", Err: errors.New("exit status 1")}}}
	svc := NewRenderService(renderer, NewLocalPublisher(t.TempDir()))
	_, job := newTestJob(t)
	rec := &recorder{}

	result, err := svc.Render(context.Background(), job, "python3", testCode, rec.observe)
	require.NoError(t, err)

	require.Equal(t, 2, renderer.calls())
	assert.Equal(t, testCode, renderer.scripts[0])
	assert.Equal(t, scene.SafeScript, renderer.scripts[1])
	assert.True(t, result.Retried)
	assert.Equal(t, scene.SafeScript, result.Code)
	assert.Equal(t, []model.JobState{
		model.JobStateRendering, model.JobStateRenderFailed, model.JobStateRetrying, model.JobStateVideoFound,
	}, rec.states)
}

func TestRender_TimeoutTriggersRetry(t *testing.T) {
	timeout := &client.RenderError{Err: fmt.Errorf("%w after 60s", client.ErrRenderTimeout)}
	renderer := &fakeRenderer{results: []error{timeout}}
	svc := NewRenderService(renderer, NewLocalPublisher(t.TempDir()))
	_, job := newTestJob(t)

	result, err := svc.Render(context.Background(), job, "python3", testCode, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, renderer.calls())
	assert.True(t, result.Retried)
}

func TestRender_NeverRetriesTwice(t *testing.T) {
	first := &client.RenderError{Output: strings.Repeat("E", 900), Err: errors.New("exit status 1")}
	second := &client.RenderError{Output: "safe failed too", Err: errors.New("exit status 1")}
	renderer := &fakeRenderer{results: []error{first, second, nil}}
	svc := NewRenderService(renderer, NewLocalPublisher(t.TempDir()))
	_, job := newTestJob(t)
	rec := &recorder{}

	_, err := svc.Render(context.Background(), job, "python3", testCode, rec.observe)
	require.Error(t, err)
	assert.Equal(t, 2, renderer.calls())

	var perr *PipelineError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindRender, perr.Kind)
	assert.Equal(t, "Animation rendering failed", perr.Message)
	assert.Equal(t, strings.Repeat("E", 500), perr.Details)
	assert.Equal(t, testCode, perr.Code)
	assert.Equal(t, model.JobStateRetryFailed, rec.states[len(rec.states)-1])
}

func TestRender_VideoMissing(t *testing.T) {
	renderer := &fakeRenderer{noVideo: true}
	svc := NewRenderService(renderer, NewLocalPublisher(t.TempDir()))
	_, job := newTestJob(t)
	rec := &recorder{}

	_, err := svc.Render(context.Background(), job, "python3", testCode, rec.observe)

	var perr *PipelineError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindRender, perr.Kind)
	assert.Equal(t, "Video file not found after generation", perr.Message)
	assert.Equal(t, "Output directory: "+job.OutputDir, perr.Details)
	assert.Equal(t, testCode, perr.Code)
	assert.Equal(t, 1, renderer.calls())
	assert.Equal(t, []model.JobState{model.JobStateRendering, model.JobStateVideoMissing}, rec.states)
}

func TestRender_StoragePublisher(t *testing.T) {
	storage := newFakeStorage()
	svc := NewRenderService(&fakeRenderer{}, NewStoragePublisher(storage))
	_, job := newTestJob(t)

	result, err := svc.Render(context.Background(), job, "python3", testCode, nil)
	require.NoError(t, err)

	key := StoragePrefix + "animation_" + job.ID + ".mp4"
	assert.Equal(t, "https://cdn.example.com/"+key, result.VideoURL)
	assert.Equal(t, []byte("mp4"), storage.objects[key])
	assert.Equal(t, "video/mp4", storage.types[key])
}

func TestRender_PublishFailureIsUnexpected(t *testing.T) {
	storage := newFakeStorage()
	storage.err = errors.New("bucket unavailable")
	svc := NewRenderService(&fakeRenderer{}, NewStoragePublisher(storage))
	_, job := newTestJob(t)

	_, err := svc.Render(context.Background(), job, "python3", testCode, nil)

	var perr *PipelineError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindUnexpected, perr.Kind)
	assert.Equal(t, "Generation failed", perr.Message)
}

func TestFindVideo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "partial"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b", "z.mp4"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "partial", "x.MP4"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "notes.txt"), nil, 0o644))

	found, err := findVideo(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a", "partial", "x.MP4"), found)

	found, err = findVideo(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestTruncateDetail(t *testing.T) {
	assert.Equal(t, "short", truncateDetail("short"))
	long := strings.Repeat("a", 499) + "é"
	assert.Equal(t, strings.Repeat("a", 499), truncateDetail(long+"tail"))
}
