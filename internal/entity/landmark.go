package entity

// Keypoint indices follow the single-pose 17-point model output order.
type Keypoint int

const (
	KeypointNose Keypoint = iota
	KeypointLeftEye
	KeypointRightEye
	KeypointLeftEar
	KeypointRightEar
	KeypointLeftShoulder
	KeypointRightShoulder
	KeypointLeftElbow
	KeypointRightElbow
	KeypointLeftWrist
	KeypointRightWrist
	KeypointLeftHip
	KeypointRightHip
	KeypointLeftKnee
	KeypointRightKnee
	KeypointLeftAnkle
	KeypointRightAnkle

	KeypointCount
)

var keypointNames = map[Keypoint]string{
	KeypointNose:          "nose",
	KeypointLeftEye:       "left_eye",
	KeypointRightEye:      "right_eye",
	KeypointLeftEar:       "left_ear",
	KeypointRightEar:      "right_ear",
	KeypointLeftShoulder:  "left_shoulder",
	KeypointRightShoulder: "right_shoulder",
	KeypointLeftElbow:     "left_elbow",
	KeypointRightElbow:    "right_elbow",
	KeypointLeftWrist:     "left_wrist",
	KeypointRightWrist:    "right_wrist",
	KeypointLeftHip:       "left_hip",
	KeypointRightHip:      "right_hip",
	KeypointLeftKnee:      "left_knee",
	KeypointRightKnee:     "right_knee",
	KeypointLeftAnkle:     "left_ankle",
	KeypointRightAnkle:    "right_ankle",
}

func (k Keypoint) String() string {
	return keypointNames[k]
}

// Landmark is one detected anatomical point with normalized image
// coordinates (x, y in [0,1]) and the detector's confidence for it.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// PoseFrame is the full landmark set detected in one image. It only lives
// for the duration of a single analysis request.
type PoseFrame struct {
	Landmarks [KeypointCount]Landmark
}

func (f PoseFrame) Get(k Keypoint) Landmark {
	return f.Landmarks[k]
}

// MidY returns the average y of two keypoints, MidX the average x.
func (f PoseFrame) MidY(a, b Keypoint) float64 {
	return (f.Landmarks[a].Y + f.Landmarks[b].Y) / 2
}

func (f PoseFrame) MidX(a, b Keypoint) float64 {
	return (f.Landmarks[a].X + f.Landmarks[b].X) / 2
}
