package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ElMonstro/Lean/cmd/lean/commands"
	"github.com/ElMonstro/Lean/internal/infrastructure/logger"
)

func main() {
	logger.Setup()

	if err := commands.NewRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("lean exited")
		os.Exit(1)
	}
}
