package handler

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/mathanim/api/internal/model"
	"github.com/mathanim/api/internal/service"
	ws "github.com/mathanim/api/internal/websocket"
	"github.com/mathanim/api/pkg/response"
)

// Generator is the part of service.GenerateService the handlers use.
type Generator interface {
	Generate(ctx context.Context, prompt string, observe service.Observer) (*model.GenerateResponse, error)
	Health(ctx context.Context) *model.HealthSnapshot
}

type GenerateHandler struct {
	service   Generator
	validator *validator.Validate
}

func NewGenerateHandler(svc Generator, v *validator.Validate) *GenerateHandler {
	return &GenerateHandler{
		service:   svc,
		validator: v,
	}
}

// Generate handles POST /generate
// @Summary      Generate animation
// @Description  Generate a Manim scene for a prompt, render it and return the video URL
// @Accept       json
// @Produce      json
// @Param        request body model.GenerateRequest true "Generation request"
// @Success      200 {object} model.GenerateResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Router       /generate [post]
func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	var req model.GenerateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return response.BadRequest(c, "Prompt is required")
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.ErrorResponse{
			Error:   "Invalid prompt",
			Details: formatValidationErrors(err),
		})
	}

	result, err := h.service.Generate(c.UserContext(), req.Prompt, nil)
	if err != nil {
		status, body := ErrorBody(err)
		return response.Error(c, status, body)
	}

	return response.OK(c, result)
}

// Stream handles GET /ws/generate. The client sends one prompt and receives
// progress messages followed by the result or an error.
func (h *GenerateHandler) Stream(c *websocket.Conn) {
	stream := ws.NewStream(c)
	defer stream.Close()

	prompt, err := stream.ReadPrompt()
	if err != nil {
		return
	}

	req := model.GenerateRequest{Prompt: prompt}
	if prompt == "" {
		stream.Error(response.ErrorResponse{Error: "Prompt is required"})
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		stream.Error(response.ErrorResponse{Error: "Invalid prompt", Details: formatValidationErrors(err)})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream.WatchClose(cancel)

	result, err := h.service.Generate(ctx, prompt, stream.Progress)
	if err != nil {
		_, body := ErrorBody(err)
		stream.Error(body)
		return
	}
	stream.Complete(result)
}
