package broadcast

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/party-bet-platform/pkg/contracts/events"
)

// KafkaJournal acrescenta cada evento de aposta ao tópico bet_events,
// chaveado pelo id da aposta para preservar a ordem por bet na partição.
// O bet-audit-worker consome esse tópico.
type KafkaJournal struct {
	Writer *kafka.Writer
}

func NewKafkaJournal(w *kafka.Writer) *KafkaJournal {
	return &KafkaJournal{Writer: w}
}

func (j *KafkaJournal) AppendBetEvent(ctx context.Context, ev events.BetEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return j.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Bet.ID),
		Value: b,
	})
}
