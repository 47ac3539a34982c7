package analyzeHandler

import (
	"time"

	"ProjectBodycheck/internal/api/analyze"
	"ProjectBodycheck/internal/entity"
	contextPkg "ProjectBodycheck/pkg/context"
	"ProjectBodycheck/pkg/handlerUtil"
	"ProjectBodycheck/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// Analyze accepts either multipart form fields named "front"/"side" (JPEG
// blobs) or a JSON body with base64 payloads, and responds with the score
// envelope or {"error": ...}.
func (h *AnalyzeHandler) Analyze(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing analyze request")

	front, side, err := h.collectImages(ctx, requestID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "collect_images")
	}

	result, err := h.analyzeService.AnalyzeImages(c, front, side)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_images")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"overall":    result.Scores.Overall,
		}).Info("Analyze request successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, analyze.NewAnalyzeResponse(result))
	}
}

func (h *AnalyzeHandler) collectImages(ctx *fiber.Ctx, requestID string) (front, side []byte, err error) {
	frontFile, frontErr := ctx.FormFile(string(entity.SlotFront))
	sideFile, sideErr := ctx.FormFile(string(entity.SlotSide))

	if frontErr == nil || sideErr == nil {
		if frontErr == nil {
			if err := h.utils.ValidateImageFile(frontFile); err != nil {
				return nil, nil, analyze.ErrMissingImage
			}
			if front, err = h.utils.ReadMultipartFile(frontFile); err != nil {
				return nil, nil, err
			}
		}
		if sideErr == nil {
			if err := h.utils.ValidateImageFile(sideFile); err != nil {
				return nil, nil, analyze.ErrMissingImage
			}
			if side, err = h.utils.ReadMultipartFile(sideFile); err != nil {
				return nil, nil, err
			}
		}

		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"has_front":  len(front) > 0,
			"has_side":   len(side) > 0,
		}).Debug("Processing multipart upload")

		return front, side, nil
	}

	var req analyze.AnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, nil, analyze.ErrMissingImage
	}

	if err := h.validator.Struct(req); err != nil {
		return nil, nil, analyze.ErrMissingImage
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing JSON request")

	if req.FrontBase64 != "" {
		if front, err = h.utils.DecodeBase64Image(req.FrontBase64); err != nil {
			return nil, nil, analyze.ErrMissingImage
		}
	}
	if req.SideBase64 != "" {
		if side, err = h.utils.DecodeBase64Image(req.SideBase64); err != nil {
			return nil, nil, analyze.ErrMissingImage
		}
	}

	return front, side, nil
}
