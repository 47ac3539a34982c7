package analyze

import "ProjectBodycheck/internal/entity"

// AnalyzeRequest is the JSON alternative to the multipart form: base64
// image payloads, at least one view required.
type AnalyzeRequest struct {
	FrontBase64 string `json:"front_base64" validate:"required_without=SideBase64"`
	SideBase64  string `json:"side_base64" validate:"required_without=FrontBase64"`
}

// AnalyzeResponse is the wire envelope: either a populated result or an
// error message, never both.
type AnalyzeResponse struct {
	Scores       *entity.ScoreRecord `json:"scores,omitempty"`
	FrontMetrics map[string]float64  `json:"front_metrics,omitempty"`
	SideMetrics  map[string]float64  `json:"side_metrics,omitempty"`
	Advice       []string            `json:"advice,omitempty"`
	Error        string              `json:"error,omitempty"`
}

func NewAnalyzeResponse(result *entity.AnalysisResult) AnalyzeResponse {
	return AnalyzeResponse{
		Scores:       &result.Scores,
		FrontMetrics: result.FrontMetrics,
		SideMetrics:  result.SideMetrics,
		Advice:       result.Advice,
	}
}
