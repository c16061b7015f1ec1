package handler

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mathanim/api/pkg/response"
)

type VideoHandler struct {
	videoDir string
}

func NewVideoHandler(videoDir string) *VideoHandler {
	return &VideoHandler{videoDir: videoDir}
}

// Serve handles GET /videos/:name. Only plain .mp4 file names inside the
// videos directory are served.
func (h *VideoHandler) Serve(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || !validVideoName(name) {
		return response.NotFound(c, "Video not found")
	}

	path := filepath.Join(h.videoDir, name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return response.NotFound(c, "Video not found")
	}

	c.Set(fiber.HeaderContentType, "video/mp4")
	return c.SendFile(path)
}

func validVideoName(name string) bool {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".mp4")
}
