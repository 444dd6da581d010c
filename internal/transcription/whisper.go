// Package transcription wraps the speech-to-text service. One shot, no
// partial results, no automatic retry.
package transcription

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type Whisper struct {
	api *openai.Client
	log *zap.SugaredLogger
}

// NewWhisper builds the transcription client. baseURL overrides the default
// API host, used for proxies and tests.
func NewWhisper(token string, baseURL string, log *zap.SugaredLogger) *Whisper {
	cfg := openai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Whisper{api: openai.NewClientWithConfig(cfg), log: log}
}

func (w *Whisper) Transcribe(ctx context.Context, audio []byte, mimeType string, filename string) (string, error) {
	start := time.Now()
	resp, err := w.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio),
		FilePath: filename,
	})
	if err != nil {
		return "", fmt.Errorf("creating transcription: %w", err)
	}

	w.log.Infow("Transcription completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"audio_bytes", len(audio),
		"mime_type", mimeType,
		"text_len", len(resp.Text))
	return resp.Text, nil
}
