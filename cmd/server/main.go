package main

import (
	"github.com/vidgraph/backend/internal/server"
	"github.com/vidgraph/backend/internal/util"
	"github.com/vidgraph/backend/pkg/logger"
	"github.com/vidgraph/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
