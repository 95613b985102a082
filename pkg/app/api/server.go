// Package api implements app.Runner for the dex-server process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apphttp "github.com/kitswap/dex-middleware/pkg/app/http"
	"github.com/kitswap/dex-middleware/pkg/chain"
	"github.com/kitswap/dex-middleware/pkg/config"
	"github.com/kitswap/dex-middleware/pkg/contracts"
	"github.com/kitswap/dex-middleware/pkg/pgutil"
	"github.com/kitswap/dex-middleware/pkg/txexec"
	"github.com/kitswap/dex-middleware/pkg/txhistory"
	"github.com/kitswap/dex-middleware/pkg/txstore"
)

const defaultRequestTimeout = 60

// Server holds cfg to init the dex server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new dex server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("dex server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting DEX middleware server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() { _ = db.Close() }()

	store := txstore.NewStore(txstore.NewPGBackend(db), txstore.NewFallback(), logger)

	chainClient, err := chain.NewEVMClient(&cfg.Chain, logger)
	if err != nil {
		return fmt.Errorf("connect chain: %w", err)
	}
	defer chainClient.Close()

	kitABI, err := contracts.KitABI()
	if err != nil {
		return fmt.Errorf("parse contract ABI: %w", err)
	}

	executor := txexec.NewLog(txexec.NewManager(chainClient, store, logger), logger)
	historyService := txhistory.NewService(store, logger)

	router := s.setupRouter(executor, historyService, kitABI, logger)

	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)
}

func (s *Server) setupRouter(
	executor txexec.Executor,
	historyService txhistory.Service,
	kitABI abi.ABI,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(time.Second * defaultRequestTimeout))

		txhistory.RegisterRoutes(r, historyService, logger)

		if s.cfg.Monitoring.Enabled {
			r.Handle("/metrics", promhttp.Handler())
		}
	})

	// The confirmation wait has no deadline of its own and a slow block
	// must not be recorded as a failure, so the execute route stays
	// outside the request timeout.
	txexec.RegisterRoutes(r, executor,
		common.HexToAddress(s.cfg.Chain.KitContract),
		kitABI,
		s.cfg.Chain.ExplorerURL,
		logger)

	return r
}
