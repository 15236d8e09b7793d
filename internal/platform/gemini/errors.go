package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/phrazzld/inbox-ai/internal/ai"
)

// classifyError maps an error from the genai client onto the ai sentinels so
// callers and the retry loop can reason about it.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", ai.ErrRateLimited, apiErr.Message)
		case apiErr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %s", ai.ErrProviderUnavailable, apiErr.Message)
		case apiErr.Code == http.StatusUnauthorized,
			apiErr.Code == http.StatusForbidden,
			apiErr.Code == http.StatusNotFound:
			return fmt.Errorf("%w: %s", ai.ErrInvalidConfig, apiErr.Message)
		case apiErr.Code == http.StatusBadRequest:
			if strings.Contains(strings.ToLower(apiErr.Message), "safety") {
				return fmt.Errorf("%w: %s", ai.ErrContentFiltered, apiErr.Message)
			}
			return fmt.Errorf("%w: %s", ai.ErrInvalidResponse, apiErr.Message)
		}
	}

	return fmt.Errorf("%w: %v", ai.ErrProviderUnavailable, err)
}

// responseText extracts the text of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ai.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", ai.ErrContentFiltered, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", ai.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response blocked by safety filters", ai.ErrContentFiltered)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", ai.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: response has no text", ai.ErrInvalidResponse)
	}
	return text, nil
}
