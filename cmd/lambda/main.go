package main

import (
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/napolitain/solver-oasis/internal/api"
	"github.com/napolitain/solver-oasis/internal/lambdafn"
	"github.com/napolitain/solver-oasis/internal/loader"
	"github.com/napolitain/solver-oasis/internal/logging"
	"github.com/napolitain/solver-oasis/internal/solver/raid"
)

func main() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	logger, err := logging.New(level, true)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	roster, catalog, err := loader.LoadAll(os.Getenv("DATA_DIR"))
	if err != nil {
		logger.Fatal("loading data", zap.Error(err))
	}

	timeout := 25 * time.Second
	if v := os.Getenv("OPTIMIZE_TIMEOUT"); v != "" {
		if timeout, err = time.ParseDuration(v); err != nil {
			logger.Fatal("invalid OPTIMIZE_TIMEOUT", zap.String("value", v), zap.Error(err))
		}
	}

	svc := api.NewService(raid.NewSolver(roster, catalog))
	lambda.Start(lambdafn.New(svc, logger, timeout).Handle)
}
