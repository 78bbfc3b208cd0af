// Command resolvqd is the resolvq daemon. It owns the pending address
// queue, the background reverse-DNS worker, and the hostname store, and
// serves the JSON API over a Unix domain socket for producers and the
// resolvq CLI.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lc/resolvq/internal/config"
	"github.com/lc/resolvq/internal/hoststore"
	"github.com/lc/resolvq/internal/log"
	"github.com/lc/resolvq/internal/resolver"
	"github.com/lc/resolvq/internal/reverse"
	"github.com/lc/resolvq/pkg/api"
)

func main() {
	// load config
	cfg, err := config.New().Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// build deps
	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("opening hostname store: %v", err)
	}

	lookuper := reverse.New(
		cfg.Resolver.DNSTimeout,
		reverse.WithNameservers(cfg.Resolver.Nameservers),
	)

	svc := resolver.New(lookuper, store)
	if err := svc.Start(cfg.Resolver.QueueCapacity); err != nil {
		log.Fatalf("starting resolver: %v", err)
	}

	// start the api over unix socket
	apiSrv := api.New(svc, store)
	sockPath := cfg.Socket.Path

	go func() {
		if err := apiSrv.ListenAndServe(sockPath); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("api listen: %v", err)
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	<-sig
	log.Info("shutting down…")

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()

	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("api shutdown error: %v", err)
	}
	svc.Close()
	if err := store.Close(); err != nil {
		log.Errorf("store close error: %v", err)
	}
}

// openStore builds the configured hostname store backend.
func openStore(cfg *config.Config) (hoststore.Store, error) {
	switch cfg.Store.Backend {
	case "badger":
		return hoststore.NewBadgerStore(cfg.Store.Path)
	default:
		return hoststore.NewMemoryStore(), nil
	}
}
