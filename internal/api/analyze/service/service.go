package analyzeService

import (
	"ProjectBodycheck/internal/entity"
	"ProjectBodycheck/pkg/pose"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IAnalyzeService interface {
	AnalyzeImages(ctx context.Context, front, side []byte) (*entity.AnalysisResult, error)
}

type analyzeService struct {
	log       *logrus.Logger
	estimator pose.IPoseEstimator
}

func NewAnalyzeService(log *logrus.Logger, estimator pose.IPoseEstimator) IAnalyzeService {
	return &analyzeService{
		log:       log,
		estimator: estimator,
	}
}
