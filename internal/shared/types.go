package shared

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response is one decoded SSE payload from the generation upstream
// (OpenAI-compatible chat completions chunk).
type Response struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Delta Delta `json:"delta"`
}
type Delta struct {
	Content string `json:"content"`
}

// Stream event types relayed to the client. Every streamed request ends with
// exactly one terminal event, either "complete" or "error".
const (
	EventChunk    = "chunk"
	EventComplete = "complete"
	EventError    = "error"
)

type StreamEvent struct {
	Type             string  `json:"type"`
	Content          string  `json:"content,omitempty"`
	CreditsRemaining *uint64 `json:"creditsRemaining,omitempty"`
	Error            string  `json:"error,omitempty"`
}

type TranscriptionResponse struct {
	Success       bool   `json:"success"`
	Transcription string `json:"transcription"`
	Action        string `json:"action"`
}

const ActionTranscriptionComplete = "transcription_complete"

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreditsResponse struct {
	Credits uint64 `json:"credits"`
}

type UserMetadata struct {
	Email        string `json:"email,omitempty"`
	UserID       uint64 `json:"user_id,omitempty"`
	Credits      uint64 `json:"credits,omitempty"`
	SessionToken string `json:"-"`
}
