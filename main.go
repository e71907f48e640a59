package main

import (
	"log"

	"github.com/Rakhulsr/go-shop/app/cmd"
	"github.com/Rakhulsr/go-shop/app/configs"
)

func main() {
	env := configs.LoadEnv()

	logger, err := configs.InitLogger(env)
	if err != nil {
		log.Fatalf("failed to initialise logger: %v", err)
	}
	defer logger.Sync()

	if err := cmd.RunCli(env); err != nil {
		logger.Sugar().Fatal(err)
	}
}
