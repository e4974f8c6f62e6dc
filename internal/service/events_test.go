package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockaura/internal/contracts"
)

func TestSubscribe_ReceivesVerdictAndDelete(t *testing.T) {
	svc, _, _ := newService(t, false)
	ctx := context.Background()

	events, cancel := svc.Subscribe()
	defer cancel()
	assert.Equal(t, 1, svc.Subscribers())

	require.NoError(t, svc.PutSnapshot(ctx, uptrend("nvda")))
	ev := <-events
	assert.Equal(t, EventVerdict, ev.Type)
	assert.Equal(t, "NVDA", ev.Ticker)
	require.NotNil(t, ev.Verdict)
	assert.Equal(t, contracts.TierTradeable, ev.Verdict.Signal.Tier)
	assert.Equal(t, "NVDA", ev.Verdict.Ticker)

	require.NoError(t, svc.DeleteSnapshot(ctx, "nvda"))
	ev = <-events
	assert.Equal(t, EventDeleted, ev.Type)
	assert.Nil(t, ev.Verdict)
}

func TestSubscribe_CancelClosesOnce(t *testing.T) {
	svc, _, _ := newService(t, false)

	events, cancel := svc.Subscribe()
	cancel()
	cancel()

	_, open := <-events
	assert.False(t, open)
	assert.Zero(t, svc.Subscribers())
}

func TestSubscribe_SlowClientDropsWithoutBlocking(t *testing.T) {
	svc, _, _ := newService(t, false)
	ctx := context.Background()

	events, cancel := svc.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		require.NoError(t, svc.PutSnapshot(ctx, uptrend(fmt.Sprintf("T%03d", i))))
	}
	assert.Len(t, events, subscriberBuffer)
}
