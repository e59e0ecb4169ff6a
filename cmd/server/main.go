package main

import (
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/splitledger/splitledger/internal/api"
	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/config"
	"github.com/splitledger/splitledger/internal/service"
	"github.com/splitledger/splitledger/internal/storage/sqlite"
	"github.com/splitledger/splitledger/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	policy := service.DefaultPolicy()
	policy.RecomputeGoalsOnDelete = cfg.RecomputeGoalsOnDelete

	groups, err := service.NewGroupService(store)
	if err != nil {
		slog.Error("Failed to initialize group service", "error", err)
		os.Exit(1)
	}
	splits, err := service.NewSplitService(store, policy)
	if err != nil {
		slog.Error("Failed to initialize split service", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(&api.API{
		Auth:   service.NewAuthService(store, authenticator, tokens),
		Ledger: service.NewLedgerService(store),
		Groups: groups,
		Splits: splits,
	}, tokens)

	// h2c allows HTTP/2 clients without TLS termination in front
	handler := h2c.NewHandler(router, &http2.Server{})

	addr := ":" + cfg.Port
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
