package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"resto-pos/cli"
	"resto-pos/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := cli.Env{
		Config: config.Load(),
		In:     os.Stdin,
		Out:    os.Stdout,
		Log:    log.New(os.Stderr, "[resto-pos] ", log.LstdFlags),
	}
	if err := cli.Run(ctx, env, os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}
