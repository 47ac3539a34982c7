package main

import (
	"ProjectBodycheck/internal/config"
	"ProjectBodycheck/pkg/log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	fiberApp := config.NewFiber(logger, "Bodycheck Analyzer")
	validator := config.NewValidator()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithMiddleware(),
		config.WithPoseEstimator(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterAnalyzerHandlers()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	port := os.Getenv("ANALYZER_PORT")
	if port == "" {
		port = "8001"
	}

	go func() {
		if err := server.Run(port); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Analyzer server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
}
