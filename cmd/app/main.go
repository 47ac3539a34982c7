package main

import (
	"ProjectBodycheck/internal/config"
	"ProjectBodycheck/pkg/log"
	"ProjectBodycheck/pkg/redis"
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

	fiberApp := config.NewFiber(logger, "Bodycheck Bot")
	validator := config.NewValidator()

	options := []config.ServerOption{
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithMiddleware(),
		config.WithLineClient(),
		config.WithAnalyzerClient(),
		config.WithUtils(),
	}

	if os.Getenv("REDIS_ADDRESS") != "" {
		options = append(options, config.WithRedisServer(redis.New()))
	}
	options = append(options, config.WithSessionStore())

	server, err := config.NewServer(options...)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterBotHandlers()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8000"
	}

	go func() {
		if err := server.Run(port); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Bot server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
}
