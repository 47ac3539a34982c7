package pose

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"ProjectBodycheck/internal/entity"

	ort "github.com/yalue/onnxruntime_go"
)

const (
	// Model input geometry: NHWC float32, 192x192 RGB.
	inputWidth  = 192
	inputHeight = 192

	defaultPoolSize = 2
	acquireTimeout  = 5 * time.Second
)

type modelSession struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

func (s *modelSession) destroy() {
	if s.session != nil {
		s.session.Destroy()
	}
	if s.input != nil {
		s.input.Destroy()
	}
	if s.output != nil {
		s.output.Destroy()
	}
}

func newModelSession(modelPath string) (*modelSession, error) {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("error creating session options: %w", err)
	}
	defer options.Destroy()

	options.SetIntraOpNumThreads(runtime.NumCPU())
	options.SetInterOpNumThreads(runtime.NumCPU())

	inputShape := ort.NewShape(1, inputHeight, inputWidth, 3)
	outputShape := ort.NewShape(1, 1, int64(entity.KeypointCount), 3)

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("error creating input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("error creating output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input"},
		[]string{"output_0"},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	return &modelSession{
		session: session,
		input:   inputTensor,
		output:  outputTensor,
	}, nil
}

// sessionPool hands out inference sessions so concurrent analyze requests
// do not serialize on a single one.
type sessionPool struct {
	sessions chan *modelSession
	size     int
}

func newSessionPool(modelPath string, size int) (*sessionPool, error) {
	if size <= 0 {
		size = defaultPoolSize
	}

	pool := &sessionPool{
		sessions: make(chan *modelSession, size),
		size:     size,
	}

	for i := 0; i < size; i++ {
		session, err := newModelSession(modelPath)
		if err != nil {
			pool.destroy()
			return nil, fmt.Errorf("failed to initialize session %d: %w", i, err)
		}
		pool.sessions <- session
	}

	return pool, nil
}

func (p *sessionPool) acquire(ctx context.Context) (*modelSession, error) {
	select {
	case session := <-p.sessions:
		return session, nil
	case <-time.After(acquireTimeout):
		return nil, fmt.Errorf("timeout waiting for available session")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *sessionPool) release(session *modelSession) {
	p.sessions <- session
}

func (p *sessionPool) destroy() {
	close(p.sessions)
	for session := range p.sessions {
		session.destroy()
	}
}
