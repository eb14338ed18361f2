package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/party-bet-platform/internal/betting"
	brepo "github.com/radieske/party-bet-platform/internal/betting/repo"
	"github.com/radieske/party-bet-platform/internal/broadcast"
	"github.com/radieske/party-bet-platform/internal/httpapi"
	"github.com/radieske/party-bet-platform/internal/shared/cache"
	"github.com/radieske/party-bet-platform/internal/shared/config"
	"github.com/radieske/party-bet-platform/internal/shared/db"
	skafka "github.com/radieske/party-bet-platform/internal/shared/kafka"
	"github.com/radieske/party-bet-platform/internal/shared/logger"
	"github.com/radieske/party-bet-platform/internal/shared/metrics"
	urepo "github.com/radieske/party-bet-platform/internal/users/repo"
	"github.com/radieske/party-bet-platform/internal/ws"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	ctx := context.Background()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()
	if err := db.EnsureSchema(ctx, pg); err != nil {
		log.Fatal("schema", zap.Error(err))
	}
	log.Info("postgres connected")

	// Redis (pub/sub do fan-out ao vivo)
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()
	log.Info("redis connected")

	// Kafka writer (jornal bet_events)
	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetEvents)
	defer writer.Close()
	log.Info("kafka writer ready", zap.String("topic", cfg.TopicBetEvents))

	// métricas de domínio
	transitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "partybet_events_published_total", Help: "eventos publicados por tipo"},
		[]string{"type"},
	)
	wsConnections := prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "partybet_ws_connections", Help: "conexões WebSocket ativas"},
	)
	prometheus.MustRegister(transitions, wsConnections)

	// deps
	betStore := brepo.NewPostgres(pg)
	userDir := urepo.NewPostgres(pg)
	pub := broadcast.NewRedisBroadcaster(rdb, cfg.RedisPubSubChannel)

	engine := betting.NewEngine(log, betStore, userDir, pub)
	engine.Journal = broadcast.NewKafkaJournal(writer)
	engine.OnTransition = func(kind string) { transitions.WithLabelValues(kind).Inc() }

	// hub WebSocket alimentado pelo canal Redis
	hub := ws.NewHub(func(_ *http.Request) bool { return true }) // festa na rede local, origem liberada
	hub.OnConnect = wsConnections.Inc
	hub.OnDisconnect = wsConnections.Dec
	ws.StartRedisSubscriber(ctx, rdb, cfg.RedisPubSubChannel, hub, log)

	// HTTP público: REST + /ws no mesmo listener
	api := httpapi.NewServer(log, engine, userDir)
	root := chi.NewRouter()
	root.Mount("/", api.Router())
	root.Get("/ws", hub.HandleWS)

	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: root,
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("party-bet-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
