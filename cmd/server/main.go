package main

import (
	"github.com/docugraph/backend/internal/server"
	"github.com/docugraph/backend/internal/util"
	"github.com/docugraph/backend/pkg/logger"
	"github.com/docugraph/backend/pkg/logger/console"

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
