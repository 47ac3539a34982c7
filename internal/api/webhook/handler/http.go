package webhookHandler

import (
	webhookService "ProjectBodycheck/internal/api/webhook/service"
	"ProjectBodycheck/internal/middleware"
	linePkg "ProjectBodycheck/pkg/line"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type WebhookHandler struct {
	log            *logrus.Logger
	middleware     middleware.Middleware
	webhookService webhookService.IWebhookService
	line           linePkg.ILineClient
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	ws webhookService.IWebhookService,
	line linePkg.ILineClient,
) *WebhookHandler {
	return &WebhookHandler{
		log:            log,
		middleware:     middleware,
		webhookService: ws,
		line:           line,
	}
}

func (h *WebhookHandler) Start(srv fiber.Router) {
	line := srv.Group("/line")
	line.Post("/callback", h.Callback)
}
