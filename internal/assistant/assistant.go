package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/domain"
)

// Assistant drafts customer-facing text for documents using OpenAI
type Assistant struct {
	client *openai.Client
	log    zerolog.Logger
}

// New creates an assistant. Returns nil when no API key is configured,
// which disables the assistant endpoints.
func New(apiKey string, log zerolog.Logger) *Assistant {
	if apiKey == "" {
		return nil
	}
	return &Assistant{
		client: openai.NewClient(apiKey),
		log:    log,
	}
}

// DraftEmail produces a short email body for sending the document,
// written in the document's language.
func (a *Assistant) DraftEmail(ctx context.Context, doc *domain.Document, customer *domain.Customer) (string, error) {
	summary, err := json.Marshal(map[string]interface{}{
		"document_type":   string(doc.Type),
		"document_number": doc.DocumentNumber,
		"customer_name":   customer.Name,
		"total":           doc.GrandTotal().StringFixed(2),
		"issue_date":      doc.IssueDate.Format("2006-01-02"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal document summary: %w", err)
	}

	prompt := fmt.Sprintf(`Write a short, polite email body for sending this sales document to a customer.

DOCUMENT:
%s

Requirements:
- Write in the language with ISO code %q.
- Address the customer by name.
- Mention the document number and the total amount.
- No subject line, no signature placeholder, plain text only.`, summary, doc.LanguageCode)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	a.log.Debug().
		Str("document_number", doc.DocumentNumber).
		Str("language", doc.LanguageCode).
		Msg("drafted email body")

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
