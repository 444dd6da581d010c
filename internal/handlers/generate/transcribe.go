package generate

import (
	"io"
	"net/http"

	"clarify-api/internal/metrics"
	"clarify-api/internal/setup"
	"clarify-api/internal/shared"
)

// handleTranscription converts an uploaded audio file to text and returns it
// for review in the prompt box. No credit is read or spent here; the user
// commits a credit only when they submit the transcript for generation.
func (h *Handler) handleTranscription(c *setup.Context) error {
	file, err := c.FormFile("audio")
	if err != nil {
		return c.JSON(http.StatusBadRequest, shared.ErrorResponse{Error: shared.ErrAudioRequired.Err.Error()})
	}
	if file.Size > shared.MaxAudioUploadSize {
		return c.JSON(http.StatusBadRequest, shared.ErrorResponse{Error: "audio file too large"})
	}

	src, err := file.Open()
	if err != nil {
		c.Log.Errorw("Failed to open audio upload", "error", err)
		return c.JSON(http.StatusInternalServerError, shared.ErrorResponse{Error: shared.ErrTranscriptionFailed.Err.Error()})
	}
	defer func() {
		_ = src.Close()
	}()

	audio, err := io.ReadAll(src)
	if err != nil {
		c.Log.Errorw("Failed to read audio upload", "error", err)
		return c.JSON(http.StatusInternalServerError, shared.ErrorResponse{Error: shared.ErrTranscriptionFailed.Err.Error()})
	}

	mimeType := file.Header.Get("Content-Type")
	text, err := h.transcriber.Transcribe(c.Request().Context(), audio, mimeType, file.Filename)
	if err != nil {
		c.Log.Errorw("Transcription failed", "error", err, "filename", file.Filename, "mime_type", mimeType)
		metrics.Transcriptions.WithLabelValues("error").Inc()
		metrics.ErrorCount.WithLabelValues("generate", "transcription").Inc()
		return c.JSON(http.StatusInternalServerError, shared.ErrorResponse{Error: shared.ErrTranscriptionFailed.Err.Error()})
	}

	metrics.Transcriptions.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, shared.TranscriptionResponse{
		Success:       true,
		Transcription: text,
		Action:        shared.ActionTranscriptionComplete,
	})
}
