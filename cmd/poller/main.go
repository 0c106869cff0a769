package main

import (
	"go-onboard/internal/app"
	"go-onboard/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunPoller(); err != nil {
		logger.Fatal("run poller failed", zap.Error(err))
	}
}
