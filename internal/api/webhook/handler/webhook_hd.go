package webhookHandler

import (
	"ProjectBodycheck/internal/api/webhook"
	contextPkg "ProjectBodycheck/pkg/context"
	"ProjectBodycheck/pkg/log"
	"github.com/gofiber/fiber/v2"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Callback receives a signed event batch from the platform. Signature
// verification happens inside the SDK parser; a batch that fails it is
// rejected at the boundary without touching any session.
func (h *WebhookHandler) Callback(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c := contextPkg.FromFiberCtx(ctx)

	events, err := h.line.ParseWebhook(ctx)
	if err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Rejected webhook request")
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": webhook.ErrInvalidSignature.Error(),
		})
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"events":     len(events),
	}).Debug("Processing webhook batch")

	for _, event := range events {
		if event.Type != linebot.EventTypeMessage || event.Source == nil {
			h.log.WithFields(log.Fields{
				"request_id": requestID,
				"event_type": event.Type,
			}).Debug("Skipping unhandled event type")
			continue
		}

		userID := event.Source.UserID
		if userID == "" || event.ReplyToken == "" {
			continue
		}

		switch message := event.Message.(type) {
		case *linebot.TextMessage:
			if err := h.webhookService.HandleTextMessage(c, userID, event.ReplyToken, message.Text); err != nil {
				h.log.WithFields(log.Fields{
					"request_id": requestID,
					"user_id":    userID,
					"error":      err.Error(),
				}).Error("Text message handling failed")
			}

		case *linebot.ImageMessage:
			if err := h.webhookService.HandleImageMessage(c, userID, event.ReplyToken, message.ID); err != nil {
				h.log.WithFields(log.Fields{
					"request_id": requestID,
					"user_id":    userID,
					"error":      err.Error(),
				}).Error("Image message handling failed")
			}

		default:
			h.log.WithFields(log.Fields{
				"request_id": requestID,
				"user_id":    userID,
			}).Debug("Skipping unhandled message type")
		}
	}

	// The platform only needs a 200 once the batch is accepted; individual
	// event failures were already answered to the user directly.
	return ctx.Status(fiber.StatusOK).JSON(webhook.CallbackResponse{Message: "OK"})
}
