package assess

import (
	"context"
	"fmt"

	"chiron/internal/logging"

	"google.golang.org/genai"
)

// Fixed fallback replies used when the generative backend is absent or
// errors out. Follow-up chat shares the resolver's philosophy: the user
// always gets an answer.
const (
	chatOfflineReply = "I'm currently operating in offline mode. Based on the information provided, I recommend following the assessment steps and immediate actions listed above. If this is an emergency, focus on those critical steps first."
	chatErrorReply   = "I apologize, but I'm having trouble processing your question. Please try rephrasing it, or if this is an emergency, focus on the critical care steps provided above."
)

// ChatResponder answers free-form follow-up questions about a completed
// assessment. A nil responder (no credential) still answers, with the
// fixed offline reply.
type ChatResponder struct {
	client *genai.Client
	model  string
}

// NewChatResponder creates the follow-up chat backend. Returns
// ErrNotConfigured when no API key is available.
func NewChatResponder(ctx context.Context, config GeminiConfig) (*ChatResponder, error) {
	if config.APIKey == "" {
		return nil, ErrNotConfigured
	}
	model := config.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: config.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &ChatResponder{client: client, model: model}, nil
}

// Respond answers a follow-up question in the context of an injury
// assessment. Never returns an error; failures degrade to fixed replies.
func (c *ChatResponder) Respond(ctx context.Context, injuryContext, userMessage string) string {
	if c == nil || c.client == nil {
		return chatOfflineReply
	}

	prompt := fmt.Sprintf("Context: %s\n\nQuestion: %s", injuryContext, userMessage)
	result, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(chatPrompt, genai.RoleUser),
		},
	)
	if err != nil {
		logging.API("Chat response failed: %v", err)
		return chatErrorReply
	}

	text := result.Text()
	if text == "" {
		return chatErrorReply
	}
	return text
}
