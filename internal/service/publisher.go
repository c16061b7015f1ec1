package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mathanim/api/internal/client"
)

// Publisher moves a rendered video to where clients can fetch it.
type Publisher interface {
	Publish(ctx context.Context, jobID, videoPath string) (string, error)
	Name() string
}

// VideoName is the published file name for a job.
func VideoName(jobID string) string {
	return "animation_" + jobID + ".mp4"
}

// LocalPublisher copies videos into the directory served under /videos.
type LocalPublisher struct {
	videoDir string
}

func NewLocalPublisher(videoDir string) *LocalPublisher {
	return &LocalPublisher{videoDir: videoDir}
}

func (p *LocalPublisher) Name() string { return "local" }

func (p *LocalPublisher) Publish(_ context.Context, jobID, videoPath string) (string, error) {
	name := VideoName(jobID)
	if err := copyFile(videoPath, filepath.Join(p.videoDir, name)); err != nil {
		return "", fmt.Errorf("failed to publish video: %w", err)
	}
	return "/videos/" + name, nil
}

// StoragePrefix is the key prefix of videos published to object storage.
const StoragePrefix = "animations/"

// StoragePublisher uploads videos to an S3-compatible bucket.
type StoragePublisher struct {
	storage client.StorageClient
}

func NewStoragePublisher(storage client.StorageClient) *StoragePublisher {
	return &StoragePublisher{storage: storage}
}

func (p *StoragePublisher) Name() string { return "r2" }

func (p *StoragePublisher) Publish(ctx context.Context, jobID, videoPath string) (string, error) {
	f, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video: %w", err)
	}
	defer f.Close()

	url, err := p.storage.Upload(ctx, StoragePrefix+VideoName(jobID), f, "video/mp4")
	if err != nil {
		return "", fmt.Errorf("failed to publish video: %w", err)
	}
	return url, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
