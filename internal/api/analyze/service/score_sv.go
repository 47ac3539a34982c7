package analyzeService

import (
	"math"
	"sort"

	"ProjectBodycheck/internal/entity"
)

// Per-metric reference values: the ideal ratio and the deviation band at
// which the score bottoms out at zero.
const (
	postureIdeal     = 0.25
	postureTolerance = 0.10

	balanceIdeal     = 0.25
	balanceTolerance = 0.10

	proportionIdeal     = 0.10
	proportionTolerance = 0.05

	neckIdeal     = 0.15
	neckTolerance = 0.05

	overallBoost = 1.0
)

// calculateScore maps a ratio to [0, 10] with a linear penalty for
// deviating from the ideal: max(0, 10 - (|val-ideal|/tolerance)*10),
// rounded to one decimal. The ideal point yields exactly 10.
func calculateScore(val, ideal, tolerance float64) float64 {
	diff := math.Abs(val - ideal)
	score := math.Max(0, 10-(diff/tolerance)*10)
	return round1(score)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// scoreFrame derives the four component scores plus the overall impression
// from one frame's landmark geometry.
func scoreFrame(frame entity.PoseFrame) entity.ScoreRecord {
	shoulderY := frame.MidY(entity.KeypointLeftShoulder, entity.KeypointRightShoulder)
	hipY := frame.MidY(entity.KeypointLeftHip, entity.KeypointRightHip)
	kneeY := frame.MidY(entity.KeypointLeftKnee, entity.KeypointRightKnee)
	eyeY := frame.MidY(entity.KeypointLeftEye, entity.KeypointRightEye)
	hipX := frame.MidX(entity.KeypointLeftHip, entity.KeypointRightHip)
	kneeX := frame.MidX(entity.KeypointLeftKnee, entity.KeypointRightKnee)

	postureRatio := math.Abs(shoulderY - hipY)
	balanceRatio := math.Abs(hipY - kneeY)
	proportionRatio := math.Abs(hipX - kneeX)
	neckRatio := math.Abs(shoulderY - eyeY)

	record := entity.ScoreRecord{
		Posture:   calculateScore(postureRatio, postureIdeal, postureTolerance),
		Balance:   calculateScore(balanceRatio, balanceIdeal, balanceTolerance),
		MuscleFat: calculateScore(proportionRatio, proportionIdeal, proportionTolerance),
		Fashion:   calculateScore(neckRatio, neckIdeal, neckTolerance),
	}

	average := (record.Posture + record.Balance + record.MuscleFat + record.Fashion) / 4
	record.Overall = round1(math.Min(10, average+overallBoost))

	return record
}

// frontMetrics reads lateral symmetry off the front view: the shoulder
// line angle and the pelvis line angle, in degrees.
func frontMetrics(frame entity.PoseFrame) map[string]float64 {
	return map[string]float64{
		"shoulder_angle": lineAngleDegrees(
			frame.Get(entity.KeypointLeftShoulder),
			frame.Get(entity.KeypointRightShoulder),
		),
		"pelvis_tilt": lineAngleDegrees(
			frame.Get(entity.KeypointLeftHip),
			frame.Get(entity.KeypointRightHip),
		),
	}
}

// sideMetrics reads sagittal alignment off the side view: forward head
// displacement (ear ahead of shoulder) and a thoracic kyphosis estimate
// (shoulder ahead of hip), both as normalized offsets.
func sideMetrics(frame entity.PoseFrame) map[string]float64 {
	earX := frame.MidX(entity.KeypointLeftEar, entity.KeypointRightEar)
	shoulderX := frame.MidX(entity.KeypointLeftShoulder, entity.KeypointRightShoulder)
	hipX := frame.MidX(entity.KeypointLeftHip, entity.KeypointRightHip)

	return map[string]float64{
		"forward_head": round3(math.Abs(earX - shoulderX)),
		"kyphosis":     round3(math.Abs(shoulderX - hipX)),
	}
}

func lineAngleDegrees(a, b entity.Landmark) float64 {
	angle := math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
	return round1(math.Abs(angle))
}

// Advice templates keyed by score dimension. Selection is deterministic:
// the weakest dimensions, lowest first, ties broken by fixed order.
const adviceThreshold = 8.0

const maxAdvice = 3

type scoredDimension struct {
	name   string
	score  float64
	advice string
}

func selectAdvice(record entity.ScoreRecord) []string {
	dimensions := []scoredDimension{
		{"posture", record.Posture, "背筋を伸ばして、肩を軽く後ろに引く意識を持ちましょう。"},
		{"balance", record.Balance, "骨盤まわりのストレッチで上半身と下半身のバランスを整えましょう。"},
		{"muscle_fat", record.MuscleFat, "下半身の筋力トレーニングを取り入れてみましょう。"},
		{"fashion", record.Fashion, "首元がすっきり見えるトップスを選ぶと着映えが変わります。"},
	}

	sort.SliceStable(dimensions, func(i, j int) bool {
		return dimensions[i].score < dimensions[j].score
	})

	advice := make([]string, 0, maxAdvice)
	for _, d := range dimensions {
		if d.score >= adviceThreshold || len(advice) == maxAdvice {
			break
		}
		advice = append(advice, d.advice)
	}

	if len(advice) == 0 {
		advice = append(advice, "全体的にバランスの取れた姿勢です。この調子を維持しましょう。")
	}

	return advice
}
