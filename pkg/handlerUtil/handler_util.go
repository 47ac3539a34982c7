package handlerUtil

import (
	"errors"

	"ProjectBodycheck/internal/api/analyze"
	"ProjectBodycheck/pkg/log"
	"ProjectBodycheck/pkg/pose"
	"ProjectBodycheck/pkg/response"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// Handle maps domain errors onto the wire contract. Analyzer failures keep
// the {"error": message} envelope with user-readable Japanese text; the
// message for a missing pose is the guidance the bot relays verbatim.
func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(fields).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{"error": err.Error()})
	}

	if errors.Is(err, analyze.ErrMissingImage) {
		h.logger.WithFields(fields).Warn("Request carried no usable image")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": analyze.MsgMissingImage,
		})
	}

	if errors.Is(err, pose.ErrImageDecode) {
		h.logger.WithFields(fields).Warn("Image could not be decoded")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": analyze.MsgImageDecode,
		})
	}

	if errors.Is(err, pose.ErrNoPoseDetected) {
		h.logger.WithFields(fields).Warn("No full-body pose detected")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": analyze.MsgNoPoseDetected,
		})
	}

	h.logger.WithFields(fields).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "An unexpected error occurred",
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
