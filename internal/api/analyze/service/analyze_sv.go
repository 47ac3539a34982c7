package analyzeService

import (
	"ProjectBodycheck/internal/api/analyze"
	"ProjectBodycheck/internal/entity"
	contextPkg "ProjectBodycheck/pkg/context"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// AnalyzeImages runs pose detection on whichever views were supplied and
// derives the score record, per-view metrics, and advice. It holds no state
// between calls.
func (s *analyzeService) AnalyzeImages(ctx context.Context, front, side []byte) (*entity.AnalysisResult, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if len(front) == 0 && len(side) == 0 {
		return nil, analyze.ErrMissingImage
	}

	result := &entity.AnalysisResult{}

	var scoreFrameSource *entity.PoseFrame

	if len(front) > 0 {
		frame, err := s.estimator.Detect(ctx, front)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"view":       entity.SlotFront,
				"error":      err.Error(),
			}).Warn("Front view analysis failed")
			return nil, err
		}
		result.FrontMetrics = frontMetrics(frame)
		scoreFrameSource = &frame
	}

	if len(side) > 0 {
		frame, err := s.estimator.Detect(ctx, side)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"view":       entity.SlotSide,
				"error":      err.Error(),
			}).Warn("Side view analysis failed")
			return nil, err
		}
		result.SideMetrics = sideMetrics(frame)
		if scoreFrameSource == nil {
			scoreFrameSource = &frame
		}
	}

	result.Scores = scoreFrame(*scoreFrameSource)
	result.Advice = selectAdvice(result.Scores)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"overall":    result.Scores.Overall,
		"has_front":  len(front) > 0,
		"has_side":   len(side) > 0,
	}).Info("Analysis completed")

	return result, nil
}
