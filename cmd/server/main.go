package main

import (
	"github.com/finsight/graphview/internal/server"
	"github.com/finsight/graphview/internal/util"
	"github.com/finsight/graphview/pkg/logger"
	"github.com/finsight/graphview/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Service: "graphview",
		Debug:   debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
