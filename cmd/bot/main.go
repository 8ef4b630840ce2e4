package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/solwatch/memetrader/internal/config"
	"github.com/solwatch/memetrader/internal/domain"
	"github.com/solwatch/memetrader/internal/infrastructure/feed"
	"github.com/solwatch/memetrader/internal/infrastructure/logger"
	"github.com/solwatch/memetrader/internal/infrastructure/provider"
	"github.com/solwatch/memetrader/internal/infrastructure/storage"
	"github.com/solwatch/memetrader/internal/infrastructure/wallet"
	"github.com/solwatch/memetrader/internal/scoring"
	"github.com/solwatch/memetrader/internal/usecase"
	"github.com/solwatch/memetrader/internal/web"
)

func main() {
	// Credentials come from .env when present; absence is fine in
	// containerized deployments where the environment is set directly.
	_ = godotenv.Load()

	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var log *zap.Logger
	if cfg.Logging.File != "" {
		log, err = logger.NewFileLogger(cfg.Logging.File, cfg.Logging.Level)
	} else {
		log, err = logger.NewLogger(cfg.Logging.Level)
	}
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := storage.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatal("Failed to init sqlite", zap.Error(err))
	}
	defer store.Close()

	// Providers.
	market := provider.NewDexScreenerProvider(cfg.Providers.DexScreenerURL)
	social := provider.NewTwitterProvider("", cfg.Providers.TwitterBearerToken)
	if !social.Enabled() {
		log.Warn("No Twitter bearer token, sentiment scoring disabled")
	}

	// Executor: live signing when a signer service is configured,
	// otherwise simulated fills against live prices.
	var executor domain.TradeExecutor
	if cfg.Providers.SignerURL != "" {
		signer := wallet.NewRemoteSigner(cfg.Providers.SignerURL, cfg.Providers.WalletAddress)
		executor = wallet.NewSolanaExecutor(cfg.Providers.SolanaRPCURL, signer)
		log.Info("Live execution enabled", zap.String("rpc", cfg.Providers.SolanaRPCURL))
	} else {
		executor = wallet.NewPaperExecutor()
		log.Warn("No signer configured, running in paper trading mode")
	}

	trades := usecase.NewTradeService(executor, store, log)
	scheduler := usecase.NewAutoLevelScheduler(trades, store, log)
	targets := usecase.NewTargetMonitor(trades, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go scheduler.Run(ctx)
	if err := scheduler.LoadLevels(ctx); err != nil {
		log.Error("Failed to load stored levels", zap.Error(err))
	}

	// Seed levels and target watches declared in config.
	for _, asset := range cfg.Assets {
		for _, lc := range asset.Levels {
			level := &domain.AutoLevel{
				AssetID:      asset.ID,
				Side:         domain.Side(lc.Side),
				TriggerPrice: lc.TriggerPrice,
				Amount:       lc.Amount,
			}
			if err := scheduler.AddLevel(ctx, level); err != nil {
				log.Error("Failed to add configured level",
					zap.String("asset", asset.ID), zap.Error(err))
			}
		}
		if t := asset.Target; t != nil {
			if err := targets.Arm(asset.ID, t.TargetPrice, t.StopLoss, t.Amount); err != nil {
				log.Error("Failed to arm configured target",
					zap.String("asset", asset.ID), zap.Error(err))
			}
		}
	}

	// One polling monitor per asset; ticks drive both the level
	// scheduler and the fixed-target watches.
	interval := time.Duration(cfg.Polling.IntervalMs) * time.Millisecond
	monitor := usecase.NewAssetMonitor(market, scheduler, targets, interval, log)
	for _, asset := range cfg.Assets {
		go monitor.Watch(ctx, asset.ID)
	}

	// Optional push feed on top of polling: same tick path, lower
	// latency when an endpoint is configured.
	if cfg.Feed.WSEndpoint != "" {
		wsFeed := feed.NewWSFeed(cfg.Feed.WSEndpoint, log)
		wsFeed.OnPriceUpdate(func(assetID string, price float64) {
			scheduler.OnPriceTick(ctx, assetID, price)
			targets.OnPriceTick(ctx, assetID, price)
		})
		ids := make([]string, 0, len(cfg.Assets))
		for _, asset := range cfg.Assets {
			ids = append(ids, asset.ID)
		}
		if err := wsFeed.Connect(ids); err != nil {
			log.Error("Price feed connect failed, polling only", zap.Error(err))
		} else {
			defer wsFeed.Close()
		}
	}

	// Advisory scoring pass on a cron schedule.
	riskScorer := scoring.NewRiskScorer(cfg.Scoring)
	healthAnalyzer := scoring.NewHealthAnalyzer()
	engine := scoring.NewRecommendationEngine(cfg.Scoring)
	analysis := usecase.NewAnalysisService(market, social, riskScorer, healthAnalyzer, engine, log)

	snapshots := usecase.NewSnapshotWorker(analysis, cfg.Assets, log)
	if err := snapshots.Start(cfg.Snapshot.Cron); err != nil {
		log.Error("Failed to start snapshot worker", zap.Error(err))
	} else {
		defer snapshots.Stop()
	}

	server := web.NewServer(cfg.Server.Port, scheduler, targets, store, analysis, snapshots, cfg.Assets, log)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown", zap.Error(err))
	}
}
