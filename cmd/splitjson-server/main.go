package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-splitjson/internal/config"
	"github.com/goliatone/go-splitjson/pkg/store"
	"github.com/goliatone/go-splitjson/pkg/widget"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML or TOML config file")
		addrFlag   = flag.String("addr", "", "HTTP listen address (overrides config)")
		envFile    = flag.String("env", ".env", "dotenv file loaded before the config")
	)
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Fatalf("dotenv: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	options := append(cfg.WidgetOptions(), widget.WithLogger(log.Default()))
	w, err := widget.New(options...)
	if err != nil {
		log.Fatalf("widget: %v", err)
	}

	server, err := newDocumentServer(w, st)
	if err != nil {
		log.Fatalf("server: %v", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.routes(),
	}

	log.Printf("listening on %s (store %s)", cfg.Server.Addr, cfg.Store.Driver)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Printf("listen: %v", err)
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Grace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
