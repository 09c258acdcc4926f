package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moments_copywriter/config"
	"moments_copywriter/generator"
	"moments_copywriter/logger"
	"moments_copywriter/server"
)

func main() {
	configPath := flag.String("config", "config/config.json", "path to config.json (optional)")
	addr := flag.String("addr", "", "http listen address (overrides config server.addr)")
	mock := flag.Bool("mock", false, "use the offline mock model instead of Moonshot")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	level := cfg.Log.Level
	if *verbose {
		level = "debug"
	}
	logger.Init(level, cfg.Log.Format)

	llm, err := buildLLM(cfg, *mock)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	agent, err := generator.NewAgent(llm)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	srv, err := server.New(agent, server.Options{SessionIdleTTL: cfg.Session.IdleTTL})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	listen := cfg.Server.Addr
	if *addr != "" {
		listen = *addr
	}
	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Moonshot.Timeout+5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "starting web server", "addr", listen, "model", cfg.Moonshot.Model, "mock", *mock)
	if cfg.Moonshot.InsecureSkipVerify {
		logger.Warn(ctx, "TLS certificate verification is disabled for the model endpoint")
	}
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(ctx, "web server stopped", err)
		os.Exit(1)
	}
}

func buildLLM(cfg config.Config, mock bool) (generator.LLMClient, error) {
	if mock {
		return generator.MockLLM{}, nil
	}
	return generator.NewMoonshotLLM(cfg.LLMSettings())
}
