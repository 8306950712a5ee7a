package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/lookscan/backend/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const describeSystemPrompt = `You are a fashion item identification expert. Analyze the clothing/fashion items visible in the image and identify the celebrity wearing them if recognizable.

Return a JSON object:
{
  "celebrityName": "full name, or \"Unknown\" if not recognizable",
  "items": [
    {
      "brand": "brand name (best guess if uncertain)",
      "productName": "specific model/product name",
      "searchKeywords": "short query optimized for shopping search",
      "blogSearchQueries": ["up to 2 web queries to confirm the product identity"],
      "category": "one of Tops, Outerwear, Bottoms, Dresses, Shoes, Bags, Accessories, Jewelry, Eyewear, Headwear",
      "color": "primary color",
      "material": "primary material composition (e.g. 70% Viscose, 30% Polyamide)",
      "hsCode": "6-digit HS tariff code (e.g. 6110.30)",
      "hsDescription": "short description of the HS classification",
      "originalPrice": estimated retail price in USD,
      "officialStatus": "one of InStock, SoldOut, LimitedEdition, Discontinued",
      "confidence": confidence percentage 0-100,
      "isVintage": true if the item is from a past season or archival
    }
  ]
}

Return ONLY valid JSON, no markdown or explanation.`

// Describer identifies fashion items in an image using a vision model
type Describer struct {
	client *openai.Client
	model  string
}

// NewDescriber creates a describer backed by the OpenAI chat completions API
func NewDescriber(apiKey, model string) *Describer {
	return &Describer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// DescribeImage analyzes a base64-encoded image and returns the identified
// celebrity and items, normalized to the canonical envelope shape.
func (d *Describer) DescribeImage(ctx context.Context, imageBase64, contextHint string) (*domain.DescribeResult, error) {
	userText := "Identify all fashion items in this image. Return JSON."
	if contextHint != "" {
		userText = fmt.Sprintf("Context hint from the user: %q. %s", contextHint, userText)
	}

	resp, err := d.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: d.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: describeSystemPrompt,
				},
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{
							Type: openai.ChatMessagePartTypeText,
							Text: userText,
						},
						{
							Type: openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{
								URL: fmt.Sprintf("data:image/jpeg;base64,%s", imageBase64),
							},
						},
					},
				},
			},
			MaxTokens:   2000,
			Temperature: 0.2,
		},
	)
	if err != nil {
		return nil, mapAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", domain.ErrDescriberFailure)
	}

	result := parseDescribeContent(resp.Choices[0].Message.Content)
	return result, nil
}

// parseDescribeContent normalizes the model output to the canonical
// {celebrityName, items} shape. The legacy shape is a bare item array.
// Unparseable output degrades to an empty item list.
func parseDescribeContent(content string) *domain.DescribeResult {
	cleaned := stripCodeFences(content)

	var envelope domain.DescribeResult
	if err := json.Unmarshal([]byte(cleaned), &envelope); err == nil && envelope.Items != nil {
		if envelope.CelebrityName == "" {
			envelope.CelebrityName = domain.CelebrityUnknown
		}
		normalizeItems(envelope.Items)
		return &envelope
	}

	var items []domain.ItemDescription
	if err := json.Unmarshal([]byte(cleaned), &items); err == nil {
		normalizeItems(items)
		return &domain.DescribeResult{
			CelebrityName: domain.CelebrityUnknown,
			Items:         items,
		}
	}

	log.Printf("[DESCRIBE] failed to parse model response (length=%d)", len(content))
	return &domain.DescribeResult{
		CelebrityName: domain.CelebrityUnknown,
		Items:         []domain.ItemDescription{},
	}
}

// normalizeItems clamps describer fields so downstream stages never see
// out-of-range values.
func normalizeItems(items []domain.ItemDescription) {
	for i := range items {
		if items[i].Confidence < 0 {
			items[i].Confidence = 0
		}
		if items[i].Confidence > 100 {
			items[i].Confidence = 100
		}
		if items[i].OriginalPrice < 0 {
			items[i].OriginalPrice = 0
		}
	}
}

// mapAPIError maps provider error signals to domain sentinel errors so
// callers can distinguish rate limiting and quota exhaustion.
func mapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		case http.StatusPaymentRequired:
			return fmt.Errorf("%w: %v", domain.ErrQuotaExhausted, err)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrDescriberFailure, err)
}
