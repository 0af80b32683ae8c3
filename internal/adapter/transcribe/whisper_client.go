package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"noon-assistant/internal/domain"
)

type inferenceResponse struct {
	Text string `json:"text"`
}

// WhisperClient transcribes audio via a whisper-server /inference endpoint.
// The server is started once per process and treated as a read-only
// collaborator; the pipeline never depends on transcription succeeding.
type WhisperClient struct {
	BaseURL string
	Client  *http.Client
	logger  *slog.Logger
}

func NewWhisperClient(baseURL string, timeout time.Duration, logger *slog.Logger, client ...*http.Client) *WhisperClient {
	var c *http.Client
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	} else {
		c = &http.Client{Timeout: timeout}
	}
	return &WhisperClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  c,
		logger:  logger,
	}
}

// Transcribe posts the audio bytes and returns the transcript. Callers at
// the UI boundary treat any error as an empty transcript.
func (w *WhisperClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("no audio data")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio payload: %w", err)
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("failed to write form field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := fmt.Sprintf("%s/inference", w.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	startTime := time.Now()
	resp, err := w.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call transcription endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcription endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var inference inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&inference); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}

	text := strings.TrimSpace(inference.Text)
	w.logger.Info("transcription_completed",
		slog.Int("audio_bytes", len(audio)),
		slog.Int("transcript_chars", len(text)),
		slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))

	return text, nil
}

var _ domain.Transcriber = (*WhisperClient)(nil)
