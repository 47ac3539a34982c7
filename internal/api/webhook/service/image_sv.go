package webhookService

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"ProjectBodycheck/internal/entity"
	analyzerPkg "ProjectBodycheck/pkg/analyzer"
	contextPkg "ProjectBodycheck/pkg/context"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const analysisTimeout = 90 * time.Second

// HandleImageMessage records the photo in the slot that is expected next
// and, once both slots are filled, acknowledges immediately and hands the
// pair to the analyzer in the background. The result arrives as a push
// message so the platform's reply deadline is never at risk.
func (s *webhookService) HandleImageMessage(ctx context.Context, userID, replyToken, messageID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	unlock := s.lockUser(userID)
	defer unlock()

	session := s.loadSession(ctx, userID)
	slot := nextSlot(session)

	image, err := s.line.GetImageContent(messageID)
	if err != nil {
		// Retryable: the slot stays as it was, the user just resends.
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"message_id": messageID,
			"error":      err.Error(),
		}).Warn("Image content fetch failed")
		return s.line.ReplyText(replyToken, msgFetchFailed)
	}

	if !looksLikeImage(image) {
		// Also retryable: unreadable bytes never fill a slot.
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"message_id": messageID,
		}).Warn("Fetched content is not a decodable image")
		return s.line.ReplyText(replyToken, msgUnreadableImage)
	}

	session.Fill(slot, image, s.now())

	if session.State() == entity.SessionComplete {
		front, side := session.Front, session.Side

		// The pair is consumed exactly once: clear before analysis so a
		// failed run never re-triggers with the same photos.
		if err := s.store.Delete(ctx, userID); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"user_id":    userID,
				"error":      err.Error(),
			}).Error("Failed to clear completed session")
		}

		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
		}).Info("Photo pair complete, dispatching analysis")

		s.background.Add(1)
		go func() {
			defer s.background.Done()
			s.runAnalysis(userID, front, side)
		}()

		return s.line.ReplyText(replyToken, msgAnalyzing)
	}

	if err := s.store.Put(ctx, session); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"error":      err.Error(),
		}).Error("Failed to store session slot")
		return s.line.ReplyText(replyToken, msgAnalyzerDown)
	}

	return s.line.ReplyText(replyToken, msgSlotStored(slot))
}

// looksLikeImage sniffs the content type from the first bytes. The platform
// hands over JPEGs in practice but the blob is user-supplied.
func looksLikeImage(data []byte) bool {
	return strings.HasPrefix(http.DetectContentType(data), "image/")
}

// nextSlot picks the slot the photo fills: a declared intent wins, with no
// intent the first photo is treated as front and the second as side. A
// declared slot that is already filled gets overwritten - the freshest
// capture wins.
func nextSlot(session entity.UserSession) entity.PhotoSlot {
	if session.Expect.Valid() {
		return session.Expect
	}
	if len(session.Front) == 0 {
		return entity.SlotFront
	}
	return entity.SlotSide
}

// runAnalysis is the out-of-band half of the flow: it calls the analyzer
// with its own deadline and pushes the outcome to the user.
func (s *webhookService) runAnalysis(userID string, front, side []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
	defer cancel()

	result, err := s.analyzer.AnalyzePair(ctx, front, side)
	if err != nil {
		var analysisErr *analyzerPkg.AnalysisError
		if errors.As(err, &analysisErr) {
			// The analyzer produced user guidance (e.g. no full body in
			// the photo). Relay it as-is.
			if pushErr := s.line.PushText(userID, analysisErr.Message); pushErr != nil {
				s.log.Errorf("Failed to push analysis guidance to %s: %v", userID, pushErr)
			}
			return
		}

		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Analysis failed")

		if pushErr := s.line.PushText(userID, msgAnalyzerDown); pushErr != nil {
			s.log.Errorf("Failed to push analysis apology to %s: %v", userID, pushErr)
		}
		return
	}

	if err := s.line.PushText(userID, formatResult(result)); err != nil {
		s.log.Errorf("Failed to push analysis result to %s: %v", userID, err)
	}
}
