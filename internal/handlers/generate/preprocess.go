package generate

import (
	"encoding/json"
	"strings"

	"clarify-api/internal/shared"
)

// parsePrompt validates the text path payload. The resolved prompt is always
// non-empty and trimmed.
func parsePrompt(body []byte) (string, *shared.RequestError) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", shared.ErrInvalidRequest
	}

	prompt, ok := payload["prompt"].(string)
	if !ok {
		return "", shared.ErrPromptRequired
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", shared.ErrPromptRequired
	}
	return prompt, nil
}
