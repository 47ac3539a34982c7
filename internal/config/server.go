package config

import (
	analyzeHandler "ProjectBodycheck/internal/api/analyze/handler"
	analyzeService "ProjectBodycheck/internal/api/analyze/service"
	webhookHandler "ProjectBodycheck/internal/api/webhook/handler"
	webhookRepository "ProjectBodycheck/internal/api/webhook/repository"
	webhookService "ProjectBodycheck/internal/api/webhook/service"
	"ProjectBodycheck/internal/middleware"
	analyzerPkg "ProjectBodycheck/pkg/analyzer"
	linePkg "ProjectBodycheck/pkg/line"
	posePkg "ProjectBodycheck/pkg/pose"
	redisPkg "ProjectBodycheck/pkg/redis"
	"ProjectBodycheck/pkg/utils"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	handlers       []handler
	redisServer    redisPkg.IRedis
	lineClient     linePkg.ILineClient
	analyzerClient analyzerPkg.IAnalyzer
	poseEstimator  posePkg.IPoseEstimator
	sessionStore   webhookRepository.Store
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithRedisServer(redisServer redisPkg.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithLineClient() ServerOption {
	return func(s *Server) error {
		client, err := linePkg.New(s.log)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize LINE client: %v", err)
			}
			return fmt.Errorf("failed to create LINE client: %w", err)
		}
		s.lineClient = client
		return nil
	}
}

func WithAnalyzerClient() ServerOption {
	return func(s *Server) error {
		s.analyzerClient = analyzerPkg.New(s.log)
		return nil
	}
}

func WithPoseEstimator() ServerOption {
	return func(s *Server) error {
		estimator, err := posePkg.New(s.log)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize pose estimator: %v", err)
			}
			return fmt.Errorf("failed to create pose estimator: %w", err)
		}
		s.poseEstimator = estimator
		return nil
	}
}

// WithSessionStore picks Redis when an address is configured and falls
// back to the in-process map otherwise. Losing in-flight sessions on
// restart is acceptable for this domain.
func WithSessionStore() ServerOption {
	return func(s *Server) error {
		ttl := sessionTTLFromEnv()

		if s.redisServer != nil && os.Getenv("REDIS_ADDRESS") != "" {
			s.sessionStore = webhookRepository.NewRedisStore(s.redisServer, s.log, ttl)
			return nil
		}

		if s.log != nil {
			s.log.Warn("REDIS_ADDRESS not set, using in-memory session store")
		}
		s.sessionStore = webhookRepository.NewMemoryStore(ttl)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func sessionTTLFromEnv() time.Duration {
	minutes, err := strconv.Atoi(os.Getenv("SESSION_TTL_MINUTES"))
	if err != nil || minutes <= 0 {
		return webhookRepository.DefaultSessionTTL
	}
	return time.Duration(minutes) * time.Minute
}

// RegisterBotHandlers wires the webhook domain: the collection state
// machine backed by the session store, relaying to the analyzer service.
func (s *Server) RegisterBotHandlers() {
	webhookServices := webhookService.NewWebhookService(s.log, s.sessionStore, s.lineClient, s.analyzerClient, sessionTTLFromEnv())
	webhookHandlers := webhookHandler.New(s.log, s.middleware, webhookServices, s.lineClient)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, webhookHandlers)
}

// RegisterAnalyzerHandlers wires the pose scoring domain.
func (s *Server) RegisterAnalyzerHandlers() {
	analyzeServices := analyzeService.NewAnalyzeService(s.log, s.poseEstimator)
	analyzeHandlers := analyzeHandler.New(s.log, s.validator, s.middleware, analyzeServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, analyzeHandlers)
}

func (s *Server) Run(port string) error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.poseEstimator != nil {
			s.poseEstimator.Close()
		}
		return err
	}

	return nil
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
	s.engine.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.SendString("ok")
	})
}
