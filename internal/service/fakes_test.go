package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mathanim/api/internal/client"
	"github.com/mathanim/api/internal/model"
)

// fakeLLM returns a fixed reply or error.
type fakeLLM struct {
	reply      string
	err        error
	configured bool
	calls      int
}

func (f *fakeLLM) ChatCompletion(ctx context.Context, system, user string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeLLM) IsConfigured() bool { return f.configured }

// fakeRenderer replays results in order. A nil result writes an mp4 unless
// noVideo is set.
type fakeRenderer struct {
	mu      sync.Mutex
	results []error
	noVideo bool
	scripts []string
}

func (f *fakeRenderer) Render(ctx context.Context, in client.RenderInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	script, _ := os.ReadFile(in.ScriptPath)
	f.scripts = append(f.scripts, string(script))

	var err error
	if len(f.results) > 0 {
		err = f.results[0]
		f.results = f.results[1:]
	}
	if err != nil {
		return err
	}
	if f.noVideo {
		return nil
	}
	dir := filepath.Join(in.OutputDir, "videos", "scene", "480p15")
	if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
		return mkErr
	}
	return os.WriteFile(filepath.Join(dir, in.SceneName+".mp4"), []byte("mp4"), 0o644)
}

func (f *fakeRenderer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scripts)
}

type fakeProber struct {
	interpreter string
	ffmpeg      bool
	probes      int
}

func (f *fakeProber) FindInterpreter(ctx context.Context) string {
	f.probes++
	return f.interpreter
}

func (f *fakeProber) FFmpegAvailable(ctx context.Context) bool { return f.ffmpeg }

// fakeStorage is an in-memory client.StorageClient.
type fakeStorage struct {
	mu       sync.Mutex
	objects  map[string][]byte
	modified map[string]time.Time
	types    map[string]string
	err      error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects:  make(map[string][]byte),
		modified: make(map[string]time.Time),
		types:    make(map[string]string),
	}
}

func (f *fakeStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.modified[key] = time.Now()
	f.types[key] = contentType
	return f.GetPublicURL(key), nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key]; !ok {
		return errors.New("no such key")
	}
	delete(f.objects, key)
	delete(f.modified, key)
	return nil
}

func (f *fakeStorage) List(ctx context.Context, prefix string) ([]client.StorageObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []client.StorageObject
	for key, mod := range f.modified {
		if strings.HasPrefix(key, prefix) {
			out = append(out, client.StorageObject{Key: key, LastModified: mod})
		}
	}
	return out, nil
}

func (f *fakeStorage) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

// recorder collects observed states.
type recorder struct {
	mu     sync.Mutex
	states []model.JobState
}

func (r *recorder) observe(jobID string, state model.JobState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}
