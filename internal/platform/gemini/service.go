package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/phrazzld/inbox-ai/internal/ai"
	"github.com/phrazzld/inbox-ai/internal/config"
)

// contentGenerator is the subset of the genai client used by Service.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Service implements ai.Service using the Gemini API.
type Service struct {
	logger     *slog.Logger
	models     contentGenerator
	model      string
	maxRetries int
	retryDelay time.Duration
	now        func() time.Time
}

var _ ai.Service = (*Service)(nil)

// NewService creates a Gemini client from cfg. maxRetries is the number of
// additional attempts made for retryable failures.
func NewService(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig, maxRetries int) (*Service, error) {
	if err := validateConfig(cfg, maxRetries); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ai.ErrInvalidConfig, err)
	}

	return newService(logger, client.Models, cfg, maxRetries)
}

func newService(logger *slog.Logger, models contentGenerator, cfg config.LLMConfig, maxRetries int) (*Service, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if models == nil {
		return nil, fmt.Errorf("%w: content generator cannot be nil", ai.ErrInvalidConfig)
	}

	return &Service{
		logger:     logger.With("component", "gemini_service"),
		models:     models,
		model:      cfg.ModelName,
		maxRetries: maxRetries,
		retryDelay: cfg.RetryDelay,
		now:        time.Now,
	}, nil
}

// Summarize implements ai.Service.
func (s *Service) Summarize(ctx context.Context, content string, maxLength int) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ai.ErrEmptyInput
	}

	prompt, err := renderPrompt("summarize", promptData{Content: content, MaxLength: maxLength})
	if err != nil {
		return "", err
	}

	summary, err := s.generate(ctx, "summarize", prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.3),
	})
	if err != nil {
		return "", err
	}
	return truncate(summary, maxLength), nil
}

// SuggestReplies implements ai.Service.
func (s *Service) SuggestReplies(ctx context.Context, content, userContext string) ([]string, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ai.ErrEmptyInput
	}

	prompt, err := renderPrompt("reply", promptData{Content: content, Context: userContext})
	if err != nil {
		return nil, err
	}

	var resp repliesResponse
	if err := s.generateJSON(ctx, "suggest_replies", prompt, repliesSchema, &resp); err != nil {
		return nil, err
	}

	replies := make([]string, 0, len(resp.Replies))
	for _, r := range resp.Replies {
		if r = strings.TrimSpace(r); r != "" {
			replies = append(replies, r)
		}
	}
	if len(replies) == 0 {
		return nil, fmt.Errorf("%w: no replies in response", ai.ErrInvalidResponse)
	}
	return replies, nil
}

// Categorize implements ai.Service.
func (s *Service) Categorize(ctx context.Context, content string) (ai.Category, error) {
	if strings.TrimSpace(content) == "" {
		return "", ai.ErrEmptyInput
	}

	prompt, err := renderPrompt("categorize", promptData{Content: content, Categories: categoryList()})
	if err != nil {
		return "", err
	}

	var resp categoryResponse
	if err := s.generateJSON(ctx, "categorize", prompt, categorySchema(), &resp); err != nil {
		return "", err
	}
	return ai.ParseCategory(resp.Category), nil
}

// ParseSchedulingIntent implements ai.Service.
func (s *Service) ParseSchedulingIntent(ctx context.Context, text string) (*ai.SchedulingIntent, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ai.ErrEmptyInput
	}

	prompt, err := renderPrompt("schedule", promptData{Content: text, Now: s.now().Format(time.RFC3339)})
	if err != nil {
		return nil, err
	}

	var resp intentResponse
	if err := s.generateJSON(ctx, "parse_scheduling_intent", prompt, intentSchema, &resp); err != nil {
		return nil, err
	}

	intent := &ai.SchedulingIntent{
		IntentType:   resp.IntentType,
		Title:        resp.Title,
		Duration:     resp.Duration,
		Participants: resp.Participants,
		Location:     resp.Location,
		Description:  resp.Description,
		Confidence:   float32(math.Min(math.Max(float64(resp.Confidence), 0), 1)),
	}
	if intent.Participants == nil {
		intent.Participants = []string{}
	}
	if resp.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, resp.DateTime); err == nil {
			intent.DateTime = &t
		} else {
			s.logger.WarnContext(ctx, "ignoring unparseable datetime in scheduling intent",
				"datetime", resp.DateTime)
		}
	}
	return intent, nil
}

// CompleteText implements ai.Service.
func (s *Service) CompleteText(ctx context.Context, prompt string, opts *ai.CompletionContext) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ai.ErrEmptyInput
	}

	data := promptData{Prompt: prompt}
	genConfig := &genai.GenerateContentConfig{}
	if opts != nil {
		data.Thread = opts.EmailThread
		data.MaxLength = opts.MaxLength
		genConfig.Temperature = opts.Creativity
	}

	rendered, err := renderPrompt("complete", data)
	if err != nil {
		return "", err
	}

	text, err := s.generate(ctx, "complete_text", rendered, genConfig)
	if err != nil {
		return "", err
	}
	return truncate(text, data.MaxLength), nil
}

func (s *Service) generateJSON(ctx context.Context, op, prompt string, schema *genai.Schema, v any) error {
	text, err := s.generate(ctx, op, prompt, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: failed to parse JSON response: %v", ai.ErrInvalidResponse, err)
	}
	return nil
}

// generate calls the model with exponential backoff retry. Non-retryable errors
// are returned immediately.
func (s *Service) generate(ctx context.Context, op, prompt string, genConfig *genai.GenerateContentConfig) (string, error) {
	contents := genai.Text(prompt)

	for attempt := 0; ; attempt++ {
		s.logger.DebugContext(ctx, "calling Gemini",
			"operation", op,
			"attempt", attempt+1,
			"max_attempts", s.maxRetries+1,
			"prompt_length", len(prompt))

		resp, err := s.models.GenerateContent(ctx, s.model, contents, genConfig)
		var text string
		if err != nil {
			err = classifyError(err)
		} else {
			text, err = responseText(resp)
		}
		if err == nil {
			return text, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%s aborted: %w", op, ctxErr)
		}

		if !ai.IsRetryable(err) {
			s.logger.WarnContext(ctx, "Gemini call failed, not retrying",
				"operation", op,
				"attempt", attempt+1,
				"error", err)
			return "", err
		}

		if attempt >= s.maxRetries {
			s.logger.WarnContext(ctx, "maximum retry attempts reached",
				"operation", op,
				"max_retries", s.maxRetries,
				"error", err)
			return "", fmt.Errorf("%w after %d attempts: %w", ai.ErrTransientFailure, attempt+1, err)
		}

		delay := s.backoff(attempt)
		s.logger.InfoContext(ctx, "retrying Gemini call after delay",
			"operation", op,
			"attempt", attempt+1,
			"delay", delay,
			"error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%s aborted during retry delay: %w", op, ctx.Err())
		}
	}
}

// backoff returns retryDelay * 2^attempt scaled by a jitter factor in [0.5, 1).
func (s *Service) backoff(attempt int) time.Duration {
	base := float64(s.retryDelay) * math.Pow(2, float64(attempt))
	return time.Duration(base * (0.5 + rand.Float64()*0.5))
}

// truncate shortens s to at most limit runes. A non-positive limit means no limit.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}
