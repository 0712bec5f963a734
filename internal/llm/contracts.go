package llm

import "context"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the extraction conversation. A turn carries either
// plain text, or text plus a base64-encoded image attached as a vision part.
type Message struct {
	Role     Role
	Text     string
	ImageB64 string
}

// TextMessage builds a plain text turn.
func TextMessage(role Role, text string) Message {
	return Message{Role: role, Text: text}
}

// ImageMessage builds a user turn carrying an inline image for the vision
// model alongside an instruction.
func ImageMessage(text, imageB64 string) Message {
	return Message{Role: RoleUser, Text: text, ImageB64: imageB64}
}

// ChatClient is the model boundary the extraction gateway depends on.
// Complete sends the conversation, requests a JSON response and validates it
// against schema before returning the raw content bytes. Failures surface as
// the typed errors in errors.go; the caller's retry policy keys off them.
type ChatClient interface {
	Complete(ctx context.Context, msgs []Message, schema map[string]any) ([]byte, error)
}
