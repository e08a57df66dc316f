// Command riskgate is a pre-trade risk gate: it accepts order-lifecycle
// events and trade notifications over a TCP byte stream and enforces a
// configured maximum long and short position per instrument.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskgate/riskgate/internal/adminhttp"
	"github.com/riskgate/riskgate/internal/config"
	"github.com/riskgate/riskgate/internal/engine"
	"github.com/riskgate/riskgate/internal/healthcheck"
	"github.com/riskgate/riskgate/internal/service"
	"github.com/riskgate/riskgate/internal/transport"
)

func main() {
	healthcheckFlag := flag.Bool("healthcheck", false, "Run health check against a running risk gate")
	flag.Parse()
	args := flag.Args()

	if *healthcheckFlag {
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "usage: riskgate -healthcheck ip_address tcp_port")
			os.Exit(2)
		}
		if !healthcheck.Run(args[0], args[1]) {
			os.Exit(1)
		}
		os.Exit(0)
	}

	cfg, err := config.Parse(args)
	if err != nil {
		if err == config.ErrArgCount {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, "usage: riskgate ip_address tcp_port max_buy_position max_sell_position")
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	e := engine.New(engine.Limits{MaxBuyPos: cfg.MaxBuyPos, MaxSellPos: cfg.MaxSellPos}, logger)
	worker := service.NewWorker(e, 256)
	loop := service.NewLoop(worker, logger)

	ln, err := transport.Listen(cfg.Address, cfg.Port)
	if err != nil {
		logger.Error("failed to bind", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Run(ctx)

	go func() {
		logger.Info("risk gate listening", slog.String("addr", ln.Addr().String()))
		if err := transport.ServeUntil(ctx, ln, func(c transport.Conn) { loop.Serve(ctx, c) }); err != nil {
			logger.Error("listener error", slog.String("error", err.Error()))
		}
	}()

	adminSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.AdminPort),
		Handler: adminhttp.NewRouter(e, logger),
	}
	go func() {
		logger.Info("admin sidecar listening", slog.Int("port", cfg.AdminPort))
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("admin server error", slog.String("error", err.Error()))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin server shutdown error", slog.String("error", err.Error()))
	}

	cancel()
	logger.Info("risk gate stopped")
}
