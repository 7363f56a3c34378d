package main

import (
	"context"
	"database/sql"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/oddsdeck/oddsdeck/adapters/theoddsapi"
	"github.com/oddsdeck/oddsdeck/internal/api"
	"github.com/oddsdeck/oddsdeck/internal/catalog"
	"github.com/oddsdeck/oddsdeck/internal/config"
	"github.com/oddsdeck/oddsdeck/internal/eventcache"
	"github.com/oddsdeck/oddsdeck/internal/facade"
	"github.com/oddsdeck/oddsdeck/internal/logging"
	"github.com/oddsdeck/oddsdeck/internal/metrics"
	"github.com/oddsdeck/oddsdeck/internal/normalizer"
	"github.com/oddsdeck/oddsdeck/internal/orchestrator"
	"github.com/oddsdeck/oddsdeck/internal/store"
	"github.com/oddsdeck/oddsdeck/internal/synthetic"
	"github.com/oddsdeck/oddsdeck/internal/validator"
	"github.com/oddsdeck/oddsdeck/pkg/contracts"
	"github.com/oddsdeck/oddsdeck/pkg/models"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	resolver := contracts.KeyResolverFunc(func(context.Context) (string, error) {
		if cfg.OddsAPIKey == "" {
			return theoddsapi.DemoKey, nil
		}
		return cfg.OddsAPIKey, nil
	})

	client := theoddsapi.NewClient(resolver, log.Named("theoddsapi"),
		theoddsapi.WithBaseURL(cfg.OddsAPIBaseURL),
		theoddsapi.WithSpacing(cfg.RequestSpacing),
		theoddsapi.WithKeyCacheTTL(cfg.KeyCacheTTL),
		theoddsapi.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	)

	// Cross-check the static allow-list against the provider catalog. The
	// static list stays authoritative; mismatches are only logged.
	if sports, err := client.FetchSports(ctx); err != nil {
		log.Warn("sport catalog fetch failed, using static allow-list", zap.Error(err))
	} else {
		known := 0
		for _, s := range sports {
			if catalog.IsAllowed(s.Key) {
				known++
			}
		}
		log.Info("sport catalog cross-checked",
			zap.Int("provider_sports", len(sports)), zap.Int("allow_listed", known))
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	orch := orchestrator.New(
		client,
		validator.New(log.Named("validator")),
		normalizer.New(rng),
		log.Named("orchestrator"),
		orchestrator.WithBatchSize(cfg.SportBatchSize),
		orchestrator.WithPacing(cfg.RegionDelay, cfg.BatchDelay),
	)

	gen := synthetic.NewGenerator(rng, log.Named("synthetic"))

	var eventSink facade.EventSink
	var healthFns []metrics.HealthFunc
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err == nil {
			err = db.PingContext(ctx)
		}
		if err != nil {
			log.Warn("postgres unavailable, durable sink disabled", zap.Error(err))
		} else {
			defer db.Close()
			es := store.NewEventStore(db)
			eventSink = es
			healthFns = append(healthFns, es.Ping)
			log.Info("connected to postgres")
		}
	}

	var resultSink facade.ResultSink
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, result sink disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			rs := store.NewResultStore(rdb, cfg.RedisResultTTL)
			resultSink = rs
			healthFns = append(healthFns, rs.Ping)
			log.Info("connected to redis")
		}
	}

	f := facade.New(
		orch,
		gen,
		eventcache.NewResultCache(cfg.ResultTTL),
		eventSink,
		resultSink,
		log.Named("facade"),
	)
	f.Hydrate(ctx)

	metricsSrv := metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error {
		for _, fn := range healthFns {
			if err := fn(ctx); err != nil {
				return err
			}
		}
		return nil
	})

	stopRefresh := f.StartAutoRefresh(cfg.RefreshInterval, func(events []models.Event) {
		log.Info("auto-refresh complete", zap.Int("live_events", len(events)))
	})

	srv := api.NewServer(f, log.Named("api"), cfg.HTTPPort)
	go func() {
		log.Info("serving", zap.String("port", cfg.HTTPPort))
		if err := srv.Start(); err != nil {
			log.Warn("http server stopped", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	stopRefresh()
	srv.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
}
