package web

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/solwatch/memetrader/internal/config"
	"github.com/solwatch/memetrader/internal/domain"
	"github.com/solwatch/memetrader/internal/usecase"
)

// Server exposes the bot's state as a JSON API: levels, target
// watches, the trade ledger and the advisory scores. Rendering is left
// to whatever front end consumes it.
type Server struct {
	router    *http.ServeMux
	server    *http.Server
	scheduler *usecase.AutoLevelScheduler
	targets   *usecase.TargetMonitor
	ledger    domain.TradeLedger
	analysis  *usecase.AnalysisService
	snapshots *usecase.SnapshotWorker
	assets    []config.AssetConfig
	logger    *zap.Logger
}

func NewServer(
	port int,
	scheduler *usecase.AutoLevelScheduler,
	targets *usecase.TargetMonitor,
	ledger domain.TradeLedger,
	analysis *usecase.AnalysisService,
	snapshots *usecase.SnapshotWorker,
	assets []config.AssetConfig,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:    http.NewServeMux(),
		scheduler: scheduler,
		targets:   targets,
		ledger:    ledger,
		analysis:  analysis,
		snapshots: snapshots,
		assets:    assets,
		logger:    logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("GET /levels/{asset}", s.handleListLevels)
	s.router.HandleFunc("POST /levels", s.handleAddLevel)
	s.router.HandleFunc("DELETE /levels/{asset}/{id}", s.handleCancelLevel)

	s.router.HandleFunc("GET /trades/{asset}", s.handleTradeHistory)

	s.router.HandleFunc("GET /score/{asset}", s.handleScore)

	s.router.HandleFunc("GET /target/{asset}", s.handleTargetStatus)
	s.router.HandleFunc("POST /target", s.handleArmTarget)
	s.router.HandleFunc("DELETE /target/{asset}", s.handleCancelTarget)
}

func (s *Server) Start() error {
	s.logger.Info("api server listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
