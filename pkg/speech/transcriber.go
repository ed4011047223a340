package speech

import (
	"bytes"
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ITranscriber turns captured audio into text.
type ITranscriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type openaiTranscriber struct {
	client openai.Client
	model  string
}

func NewOpenAITranscriber(apiKey, model string) ITranscriber {
	if model == "" {
		model = openai.AudioModelWhisper1
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiTranscriber{
		client: client,
		model:  model,
	}
}

func (t *openaiTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("empty audio buffer")
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(audio), "audio.webm", "audio/webm"),
		Model: t.model,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}

	return resp.Text, nil
}
