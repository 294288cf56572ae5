// Package server wires the application together and owns its lifecycle.
// The object graph is small, so construction is explicit.
package server

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TradePulse/internal/handler/api"
	"TradePulse/internal/ledger"
	"TradePulse/internal/repository"
	icache "TradePulse/internal/service/cache"
	"TradePulse/internal/services/predictor"
	"TradePulse/internal/usecase"
	"TradePulse/pkg/config"
	xhttp "TradePulse/pkg/http"
	pkgkafka "TradePulse/pkg/kafka"
	applogger "TradePulse/pkg/logger"
	appmetrics "TradePulse/pkg/metrics"

	domrepo "TradePulse/internal/domain/repository"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg *config.Config
	log *applogger.Logger

	board      *ledger.PriceBoard
	recorder   *appmetrics.Recorder
	publisher  domrepo.Publisher
	httpServer *xhttp.Server
	autoTrader *usecase.AutoTrader
}

// New builds the full object graph from config.
func New(cfg *config.Config) (*App, error) {
	log, err := applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, err
	}

	seed := cfg.Prices.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	board := ledger.NewPriceBoard(ledger.DefaultBasePrices(), rand.New(rand.NewSource(seed)))
	led := ledger.New(ledger.Config{
		StartBalance:      cfg.Ledger.StartBalance,
		FeeRate:           cfg.Ledger.FeeRate,
		OrderHistoryLimit: cfg.Ledger.OrderHistoryLimit,
	}, board)

	recorder := appmetrics.New()

	var backend icache.BytesCache
	if cfg.Prediction.Redis.Enabled {
		backend = icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Prediction.Redis.Addr,
			Password: cfg.Prediction.Redis.Password,
			DB:       cfg.Prediction.Redis.DB,
			Prefix:   cfg.Prediction.Redis.Prefix,
		})
		log.Info("prediction cache backed by redis", applogger.String("addr", cfg.Prediction.Redis.Addr))
	} else {
		backend = icache.NewTTLCache()
	}
	predCache := icache.NewPredictionCache(backend, cfg.Prediction.CacheFreshness)

	var publisher domrepo.Publisher
	if cfg.Kafka.Enabled {
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(cfg.Kafka.Brokers),
			pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
			pkgkafka.WithCompression(cfg.Kafka.Compression),
			pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
			pkgkafka.WithAsync(cfg.Kafka.Async),
			pkgkafka.WithHashByKey(true),
		)
		if err != nil {
			return nil, err
		}
		publisher = repository.NewKafkaOrderEvents(producer, cfg.Kafka.Topic)
		log.Info("order events enabled",
			applogger.Strings("brokers", cfg.Kafka.Brokers),
			applogger.String("topic", cfg.Kafka.Topic),
		)
	}

	registry := predictor.NewRegistry(predictor.NewSeededRand(seed + 1))
	predSvc := usecase.NewPredictionService(registry, predCache, recorder)
	tradeSvc := usecase.NewTradingService(led, board, publisher, recorder, log)

	var trader *usecase.AutoTrader
	if cfg.AutoTrader.Enabled {
		trader = usecase.NewAutoTrader(usecase.AutoTraderConfig{
			Enabled:       true,
			Interval:      cfg.AutoTrader.Interval,
			Stake:         cfg.AutoTrader.Stake,
			MinConfidence: cfg.AutoTrader.MinConfidence,
			Model:         cfg.AutoTrader.Model,
		}, predSvc, tradeSvc, log)
	}

	router := api.NewRouter(
		api.NewPredictHandler(log, predSvc),
		api.NewTradingHandler(log, tradeSvc),
		api.NewWSHandler(log, board),
	)

	httpServer := xhttp.NewServer(router,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithLogger(log),
	)

	return &App{
		cfg:        cfg,
		log:        log,
		board:      board,
		recorder:   recorder,
		publisher:  publisher,
		httpServer: httpServer,
		autoTrader: trader,
	}, nil
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tick := a.cfg.Prices.TickInterval
	if tick <= 0 {
		tick = 5 * time.Second
	}
	go a.board.Run(ctx, tick)
	go a.exportPrices(ctx)
	a.log.Info("price board started", applogger.Duration("tick", tick))

	if a.autoTrader != nil {
		go a.autoTrader.Run(ctx)
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// exportPrices mirrors each board tick into the last-price gauge.
func (a *App) exportPrices(ctx context.Context) {
	ticks, cancel := a.board.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-ticks:
			if !ok {
				return
			}
			for sym, p := range snap {
				a.recorder.RecordLastPrice(sym, p)
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("order event publisher close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
