package entity

// ScoreRecord is the fixed set of 0-10 scores produced by one analysis.
// Every value is clamped to [0, 10] and rounded to one decimal.
type ScoreRecord struct {
	Overall   float64 `json:"overall"`
	Posture   float64 `json:"posture"`
	Balance   float64 `json:"balance"`
	MuscleFat float64 `json:"muscle_fat"`
	Fashion   float64 `json:"fashion"`
}

// AnalysisResult is a ScoreRecord plus the per-view metric groups and the
// advice lines selected for the weakest dimensions.
type AnalysisResult struct {
	Scores       ScoreRecord        `json:"scores"`
	FrontMetrics map[string]float64 `json:"front_metrics,omitempty"`
	SideMetrics  map[string]float64 `json:"side_metrics,omitempty"`
	Advice       []string           `json:"advice"`
}
