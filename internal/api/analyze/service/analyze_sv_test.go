package analyzeService

import (
	"errors"
	"io"
	"testing"

	"ProjectBodycheck/internal/api/analyze"
	"ProjectBodycheck/internal/entity"
	"ProjectBodycheck/pkg/pose"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type stubEstimator struct {
	frame entity.PoseFrame
	err   error
	calls int
}

func (s *stubEstimator) Detect(_ context.Context, _ []byte) (entity.PoseFrame, error) {
	s.calls++
	if s.err != nil {
		return entity.PoseFrame{}, s.err
	}
	return s.frame, nil
}

func (s *stubEstimator) Close() {}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestAnalyzeImagesMissingBoth(t *testing.T) {
	svc := NewAnalyzeService(testLogger(), &stubEstimator{})

	_, err := svc.AnalyzeImages(context.Background(), nil, nil)
	if !errors.Is(err, analyze.ErrMissingImage) {
		t.Fatalf("err = %v, want ErrMissingImage", err)
	}
}

func TestAnalyzeImagesBothViews(t *testing.T) {
	stub := &stubEstimator{frame: idealFrame()}
	svc := NewAnalyzeService(testLogger(), stub)

	result, err := svc.AnalyzeImages(context.Background(), []byte("front"), []byte("side"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.calls != 2 {
		t.Errorf("estimator called %d times, want 2", stub.calls)
	}
	if len(result.FrontMetrics) == 0 {
		t.Error("expected front metrics")
	}
	if len(result.SideMetrics) == 0 {
		t.Error("expected side metrics")
	}
	if !almostEqual(result.Scores.Overall, 10.0) {
		t.Errorf("Overall = %v, want 10.0", result.Scores.Overall)
	}
	if len(result.Advice) == 0 {
		t.Error("expected at least one advice line")
	}
}

func TestAnalyzeImagesFrontOnly(t *testing.T) {
	stub := &stubEstimator{frame: idealFrame()}
	svc := NewAnalyzeService(testLogger(), stub)

	result, err := svc.AnalyzeImages(context.Background(), []byte("front"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.calls != 1 {
		t.Errorf("estimator called %d times, want 1", stub.calls)
	}
	if len(result.FrontMetrics) == 0 {
		t.Error("expected front metrics")
	}
	if result.SideMetrics != nil {
		t.Errorf("side metrics should be absent, got %v", result.SideMetrics)
	}
}

func TestAnalyzeImagesSideOnlyScoresFromSide(t *testing.T) {
	stub := &stubEstimator{frame: idealFrame()}
	svc := NewAnalyzeService(testLogger(), stub)

	result, err := svc.AnalyzeImages(context.Background(), nil, []byte("side"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FrontMetrics != nil {
		t.Errorf("front metrics should be absent, got %v", result.FrontMetrics)
	}
	if !almostEqual(result.Scores.Overall, 10.0) {
		t.Errorf("Overall = %v, want scores derived from the side frame", result.Scores.Overall)
	}
}

func TestAnalyzeImagesNoPose(t *testing.T) {
	stub := &stubEstimator{err: pose.ErrNoPoseDetected}
	svc := NewAnalyzeService(testLogger(), stub)

	result, err := svc.AnalyzeImages(context.Background(), []byte("front"), []byte("side"))
	if !errors.Is(err, pose.ErrNoPoseDetected) {
		t.Fatalf("err = %v, want ErrNoPoseDetected", err)
	}
	// Failure is all or nothing, never a partial record.
	if result != nil {
		t.Errorf("result should be nil on failure, got %+v", result)
	}
}
