package broadcast

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/party-bet-platform/pkg/contracts/events"
)

// ChannelBetBroadcast é o canal Redis Pub/Sub default para o fan-out ao vivo.
const ChannelBetBroadcast = "bet_events_broadcast"

// RedisBroadcaster publica os envelopes de evento no canal Pub/Sub que o hub
// WebSocket assina. É o caminho do fan-out ao vivo; o jornal Kafka é separado.
type RedisBroadcaster struct {
	r       *redis.Client
	channel string
}

func NewRedisBroadcaster(r *redis.Client, channel string) *RedisBroadcaster {
	if channel == "" {
		channel = ChannelBetBroadcast
	}
	return &RedisBroadcaster{r: r, channel: channel}
}

func (b *RedisBroadcaster) publish(ctx context.Context, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.r.Publish(ctx, b.channel, payload).Err()
}

func (b *RedisBroadcaster) PublishBetEvent(ctx context.Context, ev events.BetEvent) error {
	return b.publish(ctx, ev)
}

func (b *RedisBroadcaster) PublishStats(ctx context.Context, st events.Stats) error {
	return b.publish(ctx, events.StatsEvent{Type: events.StatsUpdated, Stats: st})
}

func (b *RedisBroadcaster) PublishLeaderboard(ctx context.Context, entries []events.LeaderboardEntry) error {
	return b.publish(ctx, events.LeaderboardEvent{Type: events.LeaderboardUpdated, Entries: entries})
}
