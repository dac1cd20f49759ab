package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterPublishAndStatus(t *testing.T) {
	b := NewBroadcaster()
	_, ok := b.Status("run-1")
	assert.False(t, ok)

	b.Publish(RunStatus{RunID: "run-1", Generation: 3, BestFitness: 1.5})
	status, ok := b.Status("run-1")
	require.True(t, ok)
	assert.Equal(t, 3, status.Generation)
	assert.Equal(t, 1.5, status.BestFitness)
}

func TestBroadcasterSubscribeReceivesUpdates(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe("run-2")
	defer b.Unsubscribe("run-2", ch)

	go b.Publish(RunStatus{RunID: "run-2", Generation: 1})

	select {
	case status := <-ch:
		assert.Equal(t, "run-2", status.RunID)
	case <-time.After(time.Second):
		t.Fatal("expected a published status within one second")
	}
}

func TestBroadcasterUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe("run-3")
	b.Unsubscribe("run-3", ch)

	_, open := <-ch
	assert.False(t, open)
}

func TestBroadcasterAllListsEveryRun(t *testing.T) {
	b := NewBroadcaster()
	b.Publish(RunStatus{RunID: "a"})
	b.Publish(RunStatus{RunID: "b"})
	assert.Len(t, b.All(), 2)
}
