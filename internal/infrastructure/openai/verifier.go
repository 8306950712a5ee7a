package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/lookscan/backend/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const verifySystemPrompt = `You are a strict fashion product verification expert. Given a candidate product image and a textual description of the target item, rate how closely the image matches.

STRICT RULES (all must pass for MATCH):
- Pattern/print direction must match exactly (e.g. diagonal vs horizontal check)
- Logo position and size must match
- Closure type (buttons, hooks, zip) must match
- Neckline shape must match
- Sleeve length must match
- Overall silhouette and proportions must match
- Color tone must be within the same shade family

If ANY of the above differs, the verdict CANNOT be MATCH.

Return ONLY valid JSON: {"score": 0-100, "verdict": "MATCH"|"SIMILAR"|"MISMATCH"}
- MATCH: 92-100, nearly identical product with all details matching
- SIMILAR: 55-91, same brand/category but one or more details differ
- MISMATCH: 0-54, clearly different product`

// fallbackVerification is used when a verification call fails or returns
// unparseable output; a single bad call must not fail the resolution.
var fallbackVerification = domain.Verification{Score: 45, Verdict: domain.VerdictSimilar}

var codeFenceRegex = regexp.MustCompile("```(?:json)?\n?")

// Verifier scores visual similarity between candidate images and a
// target item description using a vision model
type Verifier struct {
	client *openai.Client
	model  string
}

// NewVerifier creates a verifier backed by the OpenAI chat completions API
func NewVerifier(apiKey, model string) *Verifier {
	return &Verifier{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// VerifyImage compares a candidate listing image against the item
// description. Failures degrade to the fallback verification instead of
// propagating: the pipeline treats verification as best-effort.
func (v *Verifier) VerifyImage(ctx context.Context, candidateImageURL, description string) (domain.Verification, error) {
	resp, err := v.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: v.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: verifySystemPrompt,
				},
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{
							Type: openai.ChatMessagePartTypeText,
							Text: fmt.Sprintf("Target item description: %q\n\nCompare this product image strictly against the description. Check pattern direction, logo position, closure type, neckline, sleeve length. Return JSON only.", description),
						},
						{
							Type: openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{
								URL: candidateImageURL,
							},
						},
					},
				},
			},
			MaxTokens:   1000,
			Temperature: 0.1,
		},
	)
	if err != nil {
		log.Printf("[VERIFY] call failed, using fallback verdict: %v", err)
		return fallbackVerification, nil
	}

	if len(resp.Choices) == 0 {
		return fallbackVerification, nil
	}

	return parseVerification(resp.Choices[0].Message.Content), nil
}

// parseVerification decodes the model verdict, defaulting on bad output.
func parseVerification(content string) domain.Verification {
	cleaned := stripCodeFences(content)

	var verification domain.Verification
	if err := json.Unmarshal([]byte(cleaned), &verification); err != nil {
		log.Printf("[VERIFY] unparseable verdict, using fallback: %q", content)
		return fallbackVerification
	}

	switch verification.Verdict {
	case domain.VerdictMatch, domain.VerdictSimilar, domain.VerdictMismatch:
	default:
		return fallbackVerification
	}

	if verification.Score < 0 || verification.Score > 100 {
		return fallbackVerification
	}

	return verification
}

// stripCodeFences removes markdown code fences the model sometimes wraps
// around its JSON output.
func stripCodeFences(content string) string {
	return strings.TrimSpace(codeFenceRegex.ReplaceAllString(content, ""))
}
