package pose

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"ProjectBodycheck/internal/entity"

	"github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"
)

var (
	// ErrNoPoseDetected is returned when the detector cannot find a full
	// body in the image. Callers turn this into guidance asking the user
	// for a full-body photo.
	ErrNoPoseDetected = errors.New("pose: no full-body pose detected")

	// ErrImageDecode is returned for bytes that are not a decodable image.
	ErrImageDecode = errors.New("pose: image could not be decoded")
)

// The estimator runs a single-pose 17-keypoint model in static-image mode.
// Keypoints with confidence below this threshold are treated as missing.
const keypointConfidenceThreshold = 0.25

// requiredKeypoints must all be visible for a frame to count as full-body.
var requiredKeypoints = []entity.Keypoint{
	entity.KeypointLeftEye,
	entity.KeypointRightEye,
	entity.KeypointLeftShoulder,
	entity.KeypointRightShoulder,
	entity.KeypointLeftHip,
	entity.KeypointRightHip,
	entity.KeypointLeftKnee,
	entity.KeypointRightKnee,
}

type IPoseEstimator interface {
	Detect(ctx context.Context, image []byte) (entity.PoseFrame, error)
	Close()
}

type estimator struct {
	pool *sessionPool
	log  *logrus.Logger
}

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

func initRuntime() error {
	ortInitOnce.Do(func() {
		if libPath := os.Getenv("ONNXRUNTIME_LIB_PATH"); libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

func New(log *logrus.Logger) (IPoseEstimator, error) {
	if err := initRuntime(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	modelPath := os.Getenv("POSE_MODEL_PATH")
	if modelPath == "" {
		modelPath = "./models/movenet_singlepose_lightning.onnx"
	}

	pool, err := newSessionPool(modelPath, defaultPoolSize)
	if err != nil {
		return nil, err
	}

	log.Infof("Pose estimator ready with model %s", modelPath)

	return &estimator{
		pool: pool,
		log:  log,
	}, nil
}

func (e *estimator) Detect(ctx context.Context, image []byte) (entity.PoseFrame, error) {
	input, err := prepareInput(image)
	if err != nil {
		return entity.PoseFrame{}, err
	}

	session, err := e.pool.acquire(ctx)
	if err != nil {
		return entity.PoseFrame{}, err
	}
	defer e.pool.release(session)

	copy(session.input.GetData(), input)

	if err := session.session.Run(); err != nil {
		e.log.Errorf("Pose inference failed: %v", err)
		return entity.PoseFrame{}, fmt.Errorf("pose inference: %w", err)
	}

	frame := decodeKeypoints(session.output.GetData())

	for _, k := range requiredKeypoints {
		if frame.Get(k).Confidence < keypointConfidenceThreshold {
			e.log.Debugf("Keypoint %s below threshold (%.2f)", k, frame.Get(k).Confidence)
			return entity.PoseFrame{}, ErrNoPoseDetected
		}
	}

	return frame, nil
}

// decodeKeypoints unpacks the [1,1,17,3] model output. Each keypoint is
// (y, x, score) with coordinates already normalized to [0,1].
func decodeKeypoints(raw []float32) entity.PoseFrame {
	var frame entity.PoseFrame
	for k := 0; k < int(entity.KeypointCount); k++ {
		frame.Landmarks[k] = entity.Landmark{
			Y:          float64(raw[k*3]),
			X:          float64(raw[k*3+1]),
			Confidence: float64(raw[k*3+2]),
		}
	}
	return frame
}

func (e *estimator) Close() {
	e.pool.destroy()
}
