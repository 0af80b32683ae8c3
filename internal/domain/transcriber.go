package domain

import "context"

// Transcriber converts raw audio bytes into a best-effort transcript.
// Callers at the UI boundary treat any error as an empty transcript; the
// interface still surfaces the error so it can be logged.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
