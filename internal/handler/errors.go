package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/mathanim/api/internal/service"
	"github.com/mathanim/api/pkg/response"
)

// ErrorBody converts a generation error into the flat error body and status.
func ErrorBody(err error) (int, response.ErrorResponse) {
	var perr *service.PipelineError
	if !errors.As(err, &perr) {
		log.Errorf("Generate: unexpected error: %+v", err)
		return fiber.StatusInternalServerError, response.ErrorResponse{
			Error:   "Generation failed",
			Details: "An unexpected error occurred while generating the animation",
		}
	}

	body := response.ErrorResponse{
		Error:     perr.Message,
		Details:   perr.Details,
		ManimCode: perr.Code,
		Checks:    perr.Checks,
	}
	switch perr.Kind {
	case service.KindInput:
		return fiber.StatusBadRequest, body
	case service.KindUnexpected:
		log.Errorf("Generate: unexpected error: %v", perr)
	}
	return fiber.StatusInternalServerError, body
}

func formatValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		e := validationErrors[0]
		return e.Field() + " failed " + e.Tag()
	}
	return err.Error()
}
