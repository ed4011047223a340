package memory

import (
	"testing"

	"ai-assistant-be/pkg/chat"
	"ai-assistant-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositoryRoundTrip(t *testing.T) {
	repo := NewSessionRepository()

	state := store.NewSessionState("sess-1", chat.Identity{UserID: uuid.New()}, uuid.New())
	repo.Save(state)

	got, found := repo.Get("sess-1")
	require.True(t, found)
	assert.Same(t, state, got)
}

func TestSessionRepositoryMiss(t *testing.T) {
	repo := NewSessionRepository()

	got, found := repo.Get("nope")
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestSessionRepositoryDelete(t *testing.T) {
	repo := NewSessionRepository()

	state := store.NewSessionState("sess-2", chat.Identity{UserID: uuid.New()}, uuid.New())
	repo.Save(state)
	repo.Delete("sess-2")

	_, found := repo.Get("sess-2")
	assert.False(t, found)
}

func TestSessionRepositorySaveOverwrites(t *testing.T) {
	repo := NewSessionRepository()
	threadID := uuid.New()

	first := store.NewSessionState("sess-3", chat.Identity{UserID: uuid.New()}, threadID)
	repo.Save(first)

	second := store.NewSessionState("sess-3", chat.Identity{UserID: uuid.New()}, threadID)
	second.State = store.StateReady
	repo.Save(second)

	got, found := repo.Get("sess-3")
	require.True(t, found)
	assert.Equal(t, store.StateReady, got.State)
}
