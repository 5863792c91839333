package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/medipay/relayfn/config"
	"github.com/medipay/relayfn/handler"
	"github.com/medipay/relayfn/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if missing := cfg.Missing(); len(missing) > 0 {
		logger.Warn("missing credentials", zap.Strings("env", missing))
	}

	router, err := handler.FromConfig(cfg, logger)
	if err != nil {
		logger.Fatal("failed building router", zap.Error(err))
	}

	lambda.Start(router.Route)
}
