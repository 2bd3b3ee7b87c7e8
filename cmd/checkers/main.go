package main

import (
	"os"

	"github.com/chzyer/readline"
	"github.com/justinabrahms/checkers/internal/cli"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "checkers> ",
		HistoryFile:     ".checkers_history",
		AutoComplete:    cli.Completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize terminal")
	}
	defer rl.Close()

	if err := cli.New(rl.Stdout()).Run(rl); err != nil {
		log.Error().Err(err).Msg("Terminal session ended with an error")
		os.Exit(1)
	}
}
