package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mathanim/api/pkg/response"
)

type HealthHandler struct {
	service Generator
}

func NewHealthHandler(svc Generator) *HealthHandler {
	return &HealthHandler{service: svc}
}

// Health handles GET /health. The environment is probed on every call.
// @Summary      Health check
// @Produce      json
// @Success      200 {object} model.HealthSnapshot
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return response.OK(c, h.service.Health(c.UserContext()))
}

// SetupInfo handles GET /setup-info
func (h *HealthHandler) SetupInfo(c *fiber.Ctx) error {
	return response.OK(c, fiber.Map{
		"quick_setup": []string{
			"1. Install Python 3.8+",
			"2. pip install manim",
			"3. Install FFmpeg and make sure it is on PATH",
			"4. Optional: set GROQ_API_KEY for model-generated scenes",
			"5. Start the server and open http://localhost:5000",
		},
		"linux": []string{
			"sudo apt update",
			"sudo apt install -y ffmpeg libcairo2-dev libpango1.0-dev pkg-config python3-dev",
			"pip install manim",
		},
		"mac": []string{
			"brew install ffmpeg cairo pango pkg-config",
			"pip install manim",
		},
		"windows": []string{
			"Install FFmpeg from https://ffmpeg.org and add it to PATH",
			"pip install manim",
			"Set RENDERER_INTERPRETERS=py if python is not on PATH",
		},
		"docker": []string{
			"docker run --rm -it -v \"$PWD:/manim\" manimcommunity/manim manim --version",
			"Run this server in an image based on manimcommunity/manim",
		},
	})
}
