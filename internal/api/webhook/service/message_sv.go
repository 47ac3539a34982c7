package webhookService

import (
	"errors"
	"strings"

	"ProjectBodycheck/internal/api/webhook"
	"ProjectBodycheck/internal/entity"
	contextPkg "ProjectBodycheck/pkg/context"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// HandleTextMessage processes command text: start/reset clears the session,
// front/side declares which slot the next photo fills, anything else gets
// the help menu.
func (s *webhookService) HandleTextMessage(ctx context.Context, userID, replyToken, text string) error {
	requestID := contextPkg.GetRequestID(ctx)
	command := strings.ToLower(strings.TrimSpace(text))

	unlock := s.lockUser(userID)
	defer unlock()

	switch command {
	case webhook.CommandStart, webhook.CommandStartJa, webhook.CommandReset:
		if err := s.store.Delete(ctx, userID); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"user_id":    userID,
				"error":      err.Error(),
			}).Error("Failed to clear session on start command")
		}
		return s.line.ReplyText(replyToken, msgStart)

	case webhook.CommandFront, webhook.CommandSide:
		session := s.loadSession(ctx, userID)
		session.Expect = entity.PhotoSlot(command)
		session.UpdatedAt = s.now()

		if err := s.store.Put(ctx, session); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"user_id":    userID,
				"error":      err.Error(),
			}).Error("Failed to store declared slot")
			return s.line.ReplyText(replyToken, msgAnalyzerDown)
		}

		return s.line.ReplyText(replyToken, msgSlotDeclared(session.Expect))

	default:
		return s.line.ReplyText(replyToken, msgHelp)
	}
}

// loadSession fetches the user's session, treating missing or stale
// entries as a fresh empty one (the lazy timeout from the state machine).
func (s *webhookService) loadSession(ctx context.Context, userID string) entity.UserSession {
	session, err := s.store.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, webhook.ErrSessionNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
				"user_id":    userID,
				"error":      err.Error(),
			}).Error("Session store read failed, starting fresh")
		}
		return entity.UserSession{UserID: userID}
	}

	if session.Expired(s.now(), s.sessionTTL) {
		session.Reset(s.now())
	}

	session.UserID = userID
	return session
}
