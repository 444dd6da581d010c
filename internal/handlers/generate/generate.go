// Package generate includes the prompt generation pipeline: payload
// dispatch, auth, credit policy and streamed generation.
package generate

import (
	"context"
	"io"
	"net/http"
	"strings"

	"clarify-api/internal/setup"
	"clarify-api/internal/shared"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string, filename string) (string, error)
}

type Generator interface {
	Stream(ctx context.Context, prompt string, onFragment func(string) error) (string, error)
}

type CreditLedger interface {
	Balance(ctx context.Context, userID uint64) (uint64, error)
	DecrementOne(ctx context.Context, userID uint64) error
}

// SessionCache invalidates cached user metadata after a balance change.
type SessionCache interface {
	Invalidate(ctx context.Context, token string)
}

type Handler struct {
	ledger      CreditLedger
	transcriber Transcriber
	generator   Generator
	sessions    SessionCache
	log         *zap.SugaredLogger
}

func NewHandler(ledger CreditLedger, transcriber Transcriber, generator Generator, sessions SessionCache, log *zap.SugaredLogger) *Handler {
	return &Handler{
		ledger:      ledger,
		transcriber: transcriber,
		generator:   generator,
		sessions:    sessions,
		log:         log,
	}
}

// HandleGenerate accepts either a multipart audio upload or a JSON text
// prompt. Audio is transcribed and returned for review without spending a
// credit; text goes through the credit policy and streams the rewrite back.
func (h *Handler) HandleGenerate(cc echo.Context) error {
	c := cc.(*setup.Context)

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return h.handleTranscription(c)
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		c.Log.Errorw("Failed to read request body", "error", err)
		return c.JSON(http.StatusBadRequest, shared.ErrorResponse{Error: shared.ErrInvalidRequest.Err.Error()})
	}

	prompt, rerr := parsePrompt(body)
	if rerr != nil {
		return c.JSON(rerr.StatusCode, shared.ErrorResponse{Error: rerr.Err.Error()})
	}

	// Auth runs after payload validation but before any credit work.
	if c.User == nil {
		return c.JSON(http.StatusUnauthorized, shared.ErrorResponse{Error: shared.ErrUnauthorized.Err.Error()})
	}

	return h.process(c, prompt)
}

// HandleCredits reports the caller's current ledger balance.
func (h *Handler) HandleCredits(cc echo.Context) error {
	c := cc.(*setup.Context)
	if c.User == nil {
		return c.JSON(http.StatusUnauthorized, shared.ErrorResponse{Error: shared.ErrUnauthorized.Err.Error()})
	}

	balance, err := h.ledger.Balance(c.Request().Context(), c.User.UserID)
	if err != nil {
		c.Log.Errorw("Failed to read credit balance", "error", err)
		return c.JSON(http.StatusInternalServerError, shared.ErrorResponse{Error: shared.ErrCreditCheckFailed.Err.Error()})
	}
	return c.JSON(http.StatusOK, shared.CreditsResponse{Credits: balance})
}
