package generate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"clarify-api/internal/metrics"
	"clarify-api/internal/setup"
	"clarify-api/internal/shared"
)

func setupSSEHeaders(c *setup.Context) {
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)
}

func createEventWriter(c *setup.Context) func(ev shared.StreamEvent) error {
	return func(ev shared.StreamEvent) error {
		if c.Request().Context().Err() != nil {
			return c.Request().Context().Err()
		}
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.Response(), "data: %s\n\n", data); err != nil {
			return err
		}
		c.Response().Flush()
		return nil
	}
}

// process runs the credit policy and streams the rewritten prompt. Each step
// short-circuits: read balance, reject empty balances, spend one credit,
// then open the event stream. Once streaming has started every failure is
// reported in-band as a terminal error event because headers are committed.
func (h *Handler) process(c *setup.Context, prompt string) error {
	ctx := c.Request().Context()
	startTime := time.Now()

	balance, err := h.ledger.Balance(ctx, c.User.UserID)
	if err != nil {
		c.Log.Errorw("Failed to read credit balance", "error", err)
		return c.JSON(http.StatusInternalServerError, shared.ErrorResponse{Error: shared.ErrCreditCheckFailed.Err.Error()})
	}
	if balance == 0 {
		return c.JSON(http.StatusPaymentRequired, shared.ErrorResponse{Error: shared.ErrInsufficientCredits.Err.Error()})
	}

	if err := h.ledger.DecrementOne(ctx, c.User.UserID); err != nil {
		c.Log.Errorw("Failed to decrement credits", "error", err)
		metrics.ErrorCount.WithLabelValues("generate", "ledger").Inc()
		return c.JSON(http.StatusInternalServerError, shared.ErrorResponse{Error: shared.ErrCreditChargeFailed.Err.Error()})
	}
	metrics.CreditsSpent.Inc()
	if h.sessions != nil {
		h.sessions.Invalidate(ctx, c.User.SessionToken)
	}

	// Reported remaining credits come from the pre-decrement read. A racing
	// request for the same user can make this stale; accepted, see README.
	remaining := balance - 1

	setupSSEHeaders(c)
	write := createEventWriter(c)

	var ttftRecorded bool
	chunks := 0
	full, err := h.generator.Stream(ctx, prompt, func(fragment string) error {
		if !ttftRecorded {
			ttftRecorded = true
			metrics.TimeToFirstToken.WithLabelValues("generate").Observe(time.Since(startTime).Seconds())
		}
		chunks++
		metrics.StreamedChunks.Inc()
		return write(shared.StreamEvent{Type: shared.EventChunk, Content: fragment})
	})
	if err != nil {
		// The credit already spent is not refunded.
		c.Log.Errorw("Generation failed mid-stream", "error", err, "chunks_sent", chunks)
		metrics.ErrorCount.WithLabelValues("generate", "streaming").Inc()
		if werr := write(shared.StreamEvent{Type: shared.EventError, Error: "Failed to generate response"}); werr != nil {
			c.Log.Warnw("Failed to deliver error event", "error", werr)
		}
		return nil
	}

	if err := write(shared.StreamEvent{Type: shared.EventComplete, CreditsRemaining: &remaining}); err != nil {
		c.Log.Warnw("Failed to deliver completion event", "error", err)
		return nil
	}

	c.Log.Infow("Generation completed",
		"chunks", chunks,
		"output_len", len(full),
		"credits_remaining", remaining,
		"total_ms", time.Since(startTime).Milliseconds())
	return nil
}
