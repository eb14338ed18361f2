package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/party-bet-platform/internal/shared/config"
	"github.com/radieske/party-bet-platform/internal/shared/db"
	"github.com/radieske/party-bet-platform/internal/shared/kafka"
	"github.com/radieske/party-bet-platform/internal/shared/logger"
	"github.com/radieske/party-bet-platform/internal/shared/metrics"
	ev "github.com/radieske/party-bet-platform/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres para a trilha de auditoria bet_transitions
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx, pg); err != nil {
		log.Fatal("schema", zap.Error(err))
	}

	// Kafka consumer: consome o jornal bet_events
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetEvents, "bet-audit")
	defer reader.Close()

	var dlqWriter *kafkago.Writer
	if cfg.TopicBetEventsDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetEventsDLQ)
		defer dlqWriter.Close()
	}

	// métricas por etapa
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "bet_audit_messages_consumed_total", Help: "mensagens consumidas"})
	persisted := prometheus.NewCounter(prometheus.CounterOpts{Name: "bet_audit_rows_persisted_total", Help: "linhas gravadas em bet_transitions"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "bet_audit_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, persisted, errorsBy)

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	log.Info("bet-audit-worker started",
		zap.String("consume", cfg.TopicBetEvents),
		zap.String("dlq", cfg.TopicBetEventsDLQ),
	)

	// Loop principal: consome o jornal e grava uma linha de auditoria por evento
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			errorsBy.WithLabelValues("read").Inc()
			time.Sleep(time.Second)
			continue
		}
		consumed.Inc()

		var event ev.BetEvent
		if jerr := json.Unmarshal(msg.Value, &event); jerr != nil {
			log.Error("unmarshal bet event", zap.Error(jerr))
			errorsBy.WithLabelValues("decode").Inc()
			if dlqWriter != nil {
				_ = kafka.WriteJSON(ctx, dlqWriter, string(msg.Key), msg.Value)
			}
			continue
		}

		if err := persistWithRetry(ctx, pg, &event, msg.Value); err != nil {
			log.Error("persist transition", zap.String("betId", event.Bet.ID), zap.Error(err))
			errorsBy.WithLabelValues("persist").Inc()
			if dlqWriter != nil {
				_ = kafka.WriteJSON(ctx, dlqWriter, event.Bet.ID, msg.Value)
			}
			continue
		}
		persisted.Inc()
	}
}

// persistWithRetry insere a linha de auditoria com backoff simples:
// tenta até 3 vezes antes de desistir (e mandar pra DLQ).
func persistWithRetry(ctx context.Context, pg *sql.DB, event *ev.BetEvent, payload []byte) error {
	var err error
	const retries = 3
	for i := 0; i < retries; i++ {
		if i > 0 {
			time.Sleep(time.Duration(300*i) * time.Millisecond)
		}
		if err = insertTransition(ctx, pg, event, payload); err == nil {
			return nil
		}
	}
	return err
}

func insertTransition(ctx context.Context, pg *sql.DB, event *ev.BetEvent, payload []byte) error {
	_, err := pg.ExecContext(ctx, `
		INSERT INTO bet_transitions (bet_id, kind, status, payload)
		VALUES ($1,$2,$3,$4)`,
		event.Bet.ID, event.Type, event.Bet.Status, payload,
	)
	return err
}
