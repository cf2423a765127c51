package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motoreg/internal/audit"
	"motoreg/internal/audit/store/memory"
)

func TestWorkerPersistsEmittedEvents(t *testing.T) {
	store := memory.New()
	inbox := NewInbox(16, nil)
	w := New(store, inbox, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, inbox.Emit(ctx, audit.Event{Action: audit.ActionRegistrationCreated}))
	require.NoError(t, inbox.Emit(ctx, audit.Event{Action: audit.ActionDuplicateBlocked}))

	assert.Eventually(t, func() bool {
		events, err := store.List(ctx)
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	events, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, audit.ActionRegistrationCreated, events[0].Action)
	assert.Equal(t, audit.ActionDuplicateBlocked, events[1].Action)
}

// Emit never blocks the caller: a full inbox drops the event.
func TestInboxDropsWhenFull(t *testing.T) {
	inbox := NewInbox(1, nil)
	ctx := context.Background()

	require.NoError(t, inbox.Emit(ctx, audit.Event{Action: "first"}))
	require.NoError(t, inbox.Emit(ctx, audit.Event{Action: "dropped"}))

	store := memory.New()
	runCtx, cancel := context.WithCancel(ctx)
	go New(store, inbox, nil).Run(runCtx)

	assert.Eventually(t, func() bool {
		events, err := store.List(ctx)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)
	cancel()

	events, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", events[0].Action)
}

func TestWorkerStopsOnCancel(t *testing.T) {
	inbox := NewInbox(1, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		New(memory.New(), inbox, nil).Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
