package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"github.com/mathanim/api/internal/client"
	"github.com/mathanim/api/internal/service"
)

// TaskTypeSweep deletes published videos older than the retention period.
const TaskTypeSweep = "videos:sweep"

// SweepPayload is the task payload. A zero MaxAgeHours uses the worker default.
type SweepPayload struct {
	MaxAgeHours int `json:"maxAgeHours,omitempty"`
}

// NewSweepTask builds a sweep task.
func NewSweepTask(maxAge time.Duration) (*asynq.Task, error) {
	payload, err := json.Marshal(SweepPayload{MaxAgeHours: int(maxAge / time.Hour)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TaskTypeSweep, payload), nil
}

// SweepWorker removes expired videos from the local videos directory and,
// when configured, from object storage.
type SweepWorker struct {
	videoDir string
	storage  client.StorageClient
	maxAge   time.Duration
	now      func() time.Time
}

// NewSweepWorker creates a new sweep worker. storage may be nil.
func NewSweepWorker(videoDir string, storage client.StorageClient, maxAge time.Duration) *SweepWorker {
	return &SweepWorker{
		videoDir: videoDir,
		storage:  storage,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// ProcessTask handles sweep task processing
func (w *SweepWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	maxAge := w.maxAge
	if len(t.Payload()) > 0 {
		var payload SweepPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal task payload: %w", asynq.SkipRetry)
		}
		if payload.MaxAgeHours > 0 {
			maxAge = time.Duration(payload.MaxAgeHours) * time.Hour
		}
	}
	if maxAge <= 0 {
		return nil
	}

	cutoff := w.now().Add(-maxAge)
	removed, err := w.sweepLocal(cutoff)
	if err != nil {
		return err
	}

	if w.storage != nil {
		n, err := w.sweepStorage(ctx, cutoff)
		if err != nil {
			return err
		}
		removed += n
	}

	log.Infof("Sweep: removed %d videos older than %s", removed, maxAge)
	return nil
}

func (w *SweepWorker) sweepLocal(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(w.videoDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read videos directory: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !isPublishedVideo(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(w.videoDir, e.Name())); err != nil {
			log.Warnf("Sweep: failed to remove %s: %v", e.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}

func (w *SweepWorker) sweepStorage(ctx context.Context, cutoff time.Time) (int, error) {
	objects, err := w.storage.List(ctx, service.StoragePrefix)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, obj := range objects {
		if !isPublishedVideo(filepath.Base(obj.Key)) || !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := w.storage.Delete(ctx, obj.Key); err != nil {
			log.Warnf("Sweep: failed to delete %s: %v", obj.Key, err)
			continue
		}
		removed++
	}
	return removed, nil
}

func isPublishedVideo(name string) bool {
	return strings.HasPrefix(name, "animation_") && strings.HasSuffix(name, ".mp4")
}
