package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestBufferLifecycle(t *testing.T) {
	b := NewIngestBuffer()
	assert.Equal(t, StateIdle, b.State())

	require.NoError(t, b.Start())
	assert.Equal(t, StateRecording, b.State())

	require.NoError(t, b.Append([]byte("one")))
	require.NoError(t, b.Append([]byte("two")))
	require.NoError(t, b.Append([]byte("three")))

	payload, err := b.End()
	require.NoError(t, err)
	assert.Equal(t, []byte("onetwothree"), payload)
	assert.Equal(t, StateIdle, b.State())
}

func TestIngestBufferDoubleStart(t *testing.T) {
	b := NewIngestBuffer()
	require.NoError(t, b.Start())
	assert.ErrorIs(t, b.Start(), ErrAlreadyRecording)
}

func TestIngestBufferAppendWhileIdle(t *testing.T) {
	b := NewIngestBuffer()
	assert.ErrorIs(t, b.Append([]byte("chunk")), ErrNotRecording)
}

func TestIngestBufferEndWhileIdle(t *testing.T) {
	b := NewIngestBuffer()
	_, err := b.End()
	assert.ErrorIs(t, err, ErrNotRecording)
}

func TestIngestBufferEmptyRecording(t *testing.T) {
	b := NewIngestBuffer()
	require.NoError(t, b.Start())

	payload, err := b.End()
	require.NoError(t, err)
	assert.Empty(t, payload)
}

func TestIngestBufferCopiesChunks(t *testing.T) {
	b := NewIngestBuffer()
	require.NoError(t, b.Start())

	chunk := []byte("abc")
	require.NoError(t, b.Append(chunk))
	chunk[0] = 'z' // caller reuses its read buffer

	payload, err := b.End()
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), payload)
}

func TestIngestBufferRestartDropsOldChunks(t *testing.T) {
	b := NewIngestBuffer()
	require.NoError(t, b.Start())
	require.NoError(t, b.Append([]byte("stale")))
	_, err := b.End()
	require.NoError(t, err)

	require.NoError(t, b.Start())
	require.NoError(t, b.Append([]byte("fresh")))
	payload, err := b.End()
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), payload)
}
