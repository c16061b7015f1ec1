package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Job is one render attempt's private slice of the temp directory.
type Job struct {
	ID         string
	ScriptPath string
	OutputDir  string
	WorkDir    string
}

// Workspace hands out per-job script paths and output directories under a
// shared temp directory. Ids never collide, so jobs need no locking.
type Workspace struct {
	tempDir string
}

// NewWorkspace roots jobs at tempDir. A relative tempDir is made absolute,
// since the renderer runs inside it.
func NewWorkspace(tempDir string) *Workspace {
	if abs, err := filepath.Abs(tempDir); err == nil {
		tempDir = abs
	}
	return &Workspace{tempDir: tempDir}
}

func newJobID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Acquire reserves a new job and creates its output directory.
func (w *Workspace) Acquire() (*Job, error) {
	id := newJobID()
	job := &Job{
		ID:         id,
		ScriptPath: filepath.Join(w.tempDir, "scene_"+id+".py"),
		OutputDir:  filepath.Join(w.tempDir, "output_"+id),
		WorkDir:    w.tempDir,
	}
	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return job, nil
}

// Release removes the job's script and output directory. Failures are logged.
func (w *Workspace) Release(job *Job) {
	if job == nil {
		return
	}
	if err := os.Remove(job.ScriptPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithField("job_id", job.ID).Warnf("Cleanup: failed to remove script: %v", err)
	}
	if err := os.RemoveAll(job.OutputDir); err != nil {
		log.WithField("job_id", job.ID).Warnf("Cleanup: failed to remove output directory: %v", err)
	}
}

// WriteScript replaces the job's script with code.
func (j *Job) WriteScript(code string) error {
	if err := os.WriteFile(j.ScriptPath, []byte(code), 0o644); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	return nil
}
