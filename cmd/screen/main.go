package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"veria/internal/platform/config"
	"veria/internal/platform/logger"
	"veria/internal/screening/cli"
	"veria/internal/screening/client"
)

// main screens one address: the first argument, or a sample address when none
// is given. Exit status is 1 for high-risk addresses and for any failure.
func main() {
	_ = godotenv.Load()

	cfg, err := config.ClientFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitError)
	}
	log := logger.New(os.Stderr, cfg.Log)

	if cfg.Veria.APIKey == "" {
		log.Warn("VERIA_API_KEY is not set; the screening API will reject the request")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Stdout, log, client.New(cfg.Veria, client.WithLogger(log)), cli.AddressFromArgs(os.Args[1:]))
	stop()
	os.Exit(code)
}
