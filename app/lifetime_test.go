package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifetimeCloseCancelsContext(t *testing.T) {
	life := NewLifetime(context.Background())

	cancelled := make(chan struct{})
	require.True(t, life.Go(func(ctx context.Context) {
		<-ctx.Done()
		close(cancelled)
	}))

	life.Close()
	life.Wait()

	<-cancelled
	assert.True(t, life.Closed())
	assert.ErrorIs(t, life.Context().Err(), context.Canceled)
}

func TestLifetimeRejectsWorkAfterClose(t *testing.T) {
	life := NewLifetime(context.Background())
	life.Close()
	life.Close()

	ran := false
	assert.False(t, life.Go(func(context.Context) { ran = true }))
	assert.False(t, life.Apply(func() { ran = true }))
	life.Wait()
	assert.False(t, ran)
}

func TestLifetimeApplyWhileOpen(t *testing.T) {
	life := NewLifetime(context.Background())
	defer life.Close()

	applied := false
	assert.True(t, life.Apply(func() { applied = true }))
	assert.True(t, applied)
}

func TestNotificationsQueue(t *testing.T) {
	notes := NewNotifications()
	ok := notes.Success("Hecho", "todo bien")
	bad := notes.Error("Falla", "algo salió mal")

	assert.NotEqual(t, ok.ID, bad.ID)
	assert.Len(t, notes.Pending(), 2)

	assert.True(t, notes.Dismiss(ok.ID))
	assert.False(t, notes.Dismiss(ok.ID))

	drained := notes.Drain()
	require.Len(t, drained, 1)
	assert.Equal(t, NoticeError, drained[0].Kind)
	assert.Equal(t, "algo salió mal", drained[0].Description)
	assert.Empty(t, notes.Drain())
}
