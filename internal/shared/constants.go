package shared

import "time"

// HTTP Client Configuration
const (
	DefaultHTTPTimeout     = 180 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Cache Configuration
const (
	UserInfoCacheTTL = 1 * time.Minute
)

// API Configuration
const (
	SessionTokenLength = 32
	MaxAudioUploadSize = 25 << 20 // whisper upload limit
)

// Generation Configuration
const (
	GenerationMaxTokens   = 800
	GenerationTemperature = 0.1
)

// SystemInstruction is sent with every generation request. The model's only
// job is to rewrite the user's prompt, not to answer it.
const SystemInstruction = `You are an AI assistant specialized in improving user prompts for other AI systems.
Your goal is to take the user's original prompt and rewrite it to make it clearer, more detailed, and more likely to get high-quality results.
- Do not change the meaning or intention of the original prompt.
- Do not comment on what you improved, just write the improved prompt with no other comment.
- Add hex codes if the user references a color without a specific value.
- Try to not exceed 800 tokens.`
