package audio

import "errors"

var (
	// ErrAlreadyRecording is returned by Start while a recording is open.
	ErrAlreadyRecording = errors.New("audio recording already in progress")

	// ErrNotRecording is returned by Append/End without an open recording.
	ErrNotRecording = errors.New("no audio recording in progress")
)

// State of the ingest buffer.
type State int

const (
	StateIdle State = iota
	StateRecording
)

// IngestBuffer accumulates binary audio chunks for one recording session.
// IDLE -> RECORDING on Start, chunks accumulate while RECORDING, End drains
// the buffer into one contiguous payload and returns to IDLE. At most one
// recording is open per session; the buffer is owned by that session's event
// loop and is not safe for concurrent use.
type IngestBuffer struct {
	state  State
	chunks [][]byte
	size   int
}

func NewIngestBuffer() *IngestBuffer {
	return &IngestBuffer{state: StateIdle}
}

func (b *IngestBuffer) State() State {
	return b.state
}

// Start opens a new recording. Starting while one is already open is an
// error: there are no concurrent recordings within a session.
func (b *IngestBuffer) Start() error {
	if b.state == StateRecording {
		return ErrAlreadyRecording
	}
	b.state = StateRecording
	b.chunks = nil
	b.size = 0
	return nil
}

// Append adds one chunk to the open recording, preserving arrival order.
// The chunk is copied; websocket read buffers are reused by the caller.
func (b *IngestBuffer) Append(chunk []byte) error {
	if b.state != StateRecording {
		return ErrNotRecording
	}
	if len(chunk) == 0 {
		return nil
	}
	owned := make([]byte, len(chunk))
	copy(owned, chunk)
	b.chunks = append(b.chunks, owned)
	b.size += len(owned)
	return nil
}

// End closes the recording, concatenates all chunks in arrival order into a
// single payload and resets the buffer to IDLE. Ending while IDLE is an
// error.
func (b *IngestBuffer) End() ([]byte, error) {
	if b.state != StateRecording {
		return nil, ErrNotRecording
	}
	payload := make([]byte, 0, b.size)
	for _, chunk := range b.chunks {
		payload = append(payload, chunk...)
	}
	b.state = StateIdle
	b.chunks = nil
	b.size = 0
	return payload, nil
}
