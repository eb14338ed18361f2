package betting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Apostas criadas no mesmo instante saem em ordem determinística: o desempate
// do created_at desc é id asc, igual ao ORDER BY do Postgres.
func TestListBetsSameTimestampOrder(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	at := time.Now().UTC()

	// inserção fora de ordem alfabética de propósito
	for _, id := range []string{"bet-z", "bet-a", "bet-m"} {
		require.NoError(t, store.InsertBet(ctx, &Bet{
			ID:        id,
			Status:    StatusOpen,
			CreatorID: "u1",
			CreatedAt: at,
		}))
	}

	out, err := store.ListBets(ctx, BetFilter{})
	require.NoError(t, err)
	require.Len(t, out, 3)

	var ids []string
	for _, b := range out {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"bet-a", "bet-m", "bet-z"}, ids)

	// mais recente continua vindo primeiro, independente do id
	require.NoError(t, store.InsertBet(ctx, &Bet{
		ID:        "bet-0",
		Status:    StatusOpen,
		CreatorID: "u1",
		CreatedAt: at.Add(time.Second),
	}))
	out, err = store.ListBets(ctx, BetFilter{})
	require.NoError(t, err)
	assert.Equal(t, "bet-0", out[0].ID)
}
