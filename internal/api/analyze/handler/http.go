package analyzeHandler

import (
	analyzeService "ProjectBodycheck/internal/api/analyze/service"
	"ProjectBodycheck/internal/middleware"
	"ProjectBodycheck/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AnalyzeHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	analyzeService analyzeService.IAnalyzeService
	utils          utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	as analyzeService.IAnalyzeService,
	utils utils.IUtils,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		log:            log,
		validator:      validator,
		middleware:     middleware,
		analyzeService: as,
		utils:          utils,
	}
}

func (h *AnalyzeHandler) Start(srv fiber.Router) {
	srv.Post("/analyze", h.middleware.NewRateLimiter, h.Analyze)
}
