package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"spellfix/internal/bootstrap"
)

func main() {
	confPath := flag.String("config", os.Getenv("SPELLFIX_CONFIG"), "path to a YAML config file")
	flag.Parse()

	conf, err := bootstrap.Setup(*confPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Serve(ctx, conf); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
