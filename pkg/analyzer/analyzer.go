package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"ProjectBodycheck/internal/entity"

	"github.com/sirupsen/logrus"
)

// ErrUnavailable covers transport failures: connection errors, timeouts,
// and responses that are not valid JSON. These are retryable by the user.
var ErrUnavailable = errors.New("analyzer: service unavailable")

// AnalysisError is an error the analyzer itself reported, e.g. no pose was
// detected. Its message is safe to surface to the user.
type AnalysisError struct {
	Message string
}

func (e *AnalysisError) Error() string {
	return e.Message
}

type IAnalyzer interface {
	AnalyzePair(ctx context.Context, front, side []byte) (*entity.AnalysisResult, error)
}

type analyzerClient struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

func New(log *logrus.Logger) IAnalyzer {
	baseURL := os.Getenv("ANALYZER_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8001/api/v1/analyze"
	}

	return &analyzerClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log,
	}
}

func (a *analyzerClient) AnalyzePair(ctx context.Context, front, side []byte) (*entity.AnalysisResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writeImagePart(writer, string(entity.SlotFront), front); err != nil {
		return nil, err
	}
	if err := writeImagePart(writer, string(entity.SlotSide), side); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.log.Errorf("Analyzer request failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var envelope struct {
		entity.AnalysisResult
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		a.log.Errorf("Analyzer returned invalid JSON (status %d): %.200s", resp.StatusCode, payload)
		return nil, fmt.Errorf("%w: invalid response", ErrUnavailable)
	}

	if envelope.Error != "" {
		return nil, &AnalysisError{Message: envelope.Error}
	}

	if resp.StatusCode != http.StatusOK {
		a.log.Errorf("Analyzer returned status %d without error payload", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	return &envelope.AnalysisResult, nil
}

func writeImagePart(writer *multipart.Writer, field string, image []byte) error {
	if len(image) == 0 {
		return nil
	}

	part, err := writer.CreateFormFile(field, field+".jpg")
	if err != nil {
		return err
	}
	_, err = part.Write(image)
	return err
}
