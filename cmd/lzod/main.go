// Command lzod is the accelerator daemon: a long-lived process that holds
// kernel program and device buffer state across requests, avoiding the
// per-invocation setup cost a short-lived CLI process would pay.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lzoblock/lzo1x/internal/config"
	"github.com/lzoblock/lzo1x/internal/daemon"
)

func main() {
	configFile := flag.String("config", "", "path to a config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lzod: %v\n", err)
		os.Exit(1)
	}

	logger := slog.Default()
	srv := daemon.NewServer(cfg.DaemonSocket, cfg.KernelDir, cfg.Workers, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "lzod: %v\n", err)
		os.Exit(1)
	}
}
