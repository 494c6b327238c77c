package main

import (
	"stayinn/config"
	"stayinn/di"
	"stayinn/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
