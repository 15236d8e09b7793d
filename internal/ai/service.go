package ai

import (
	"context"
	"strings"
	"time"
)

// Service is the AI execution capability consumed by the operation processor.
// Every method honours ctx cancellation.
type Service interface {
	// Summarize condenses content. maxLength limits the summary in characters;
	// zero means no limit.
	Summarize(ctx context.Context, content string, maxLength int) (string, error)

	// SuggestReplies proposes replies to an email given the user's context.
	SuggestReplies(ctx context.Context, content, userContext string) ([]string, error)

	// Categorize assigns content to one of the known categories.
	Categorize(ctx context.Context, content string) (Category, error)

	// ParseSchedulingIntent extracts a meeting or reminder request from free text.
	ParseSchedulingIntent(ctx context.Context, text string) (*SchedulingIntent, error)

	// CompleteText runs a free-form prompt. opts may be nil.
	CompleteText(ctx context.Context, prompt string, opts *CompletionContext) (string, error)
}

// CompletionContext carries optional context for a free-form completion.
type CompletionContext struct {
	// EmailThread is prepended to the prompt as conversation context.
	EmailThread string

	// MaxLength limits the completion in characters; zero means no limit.
	MaxLength int

	// Creativity maps to the sampling temperature; nil uses the provider default.
	Creativity *float32
}

// Category is an email category.
type Category string

// Known categories
const (
	CategoryWork          Category = "Work"
	CategoryPersonal      Category = "Personal"
	CategoryPromotional   Category = "Promotional"
	CategorySocial        Category = "Social"
	CategoryFinancial     Category = "Financial"
	CategoryTravel        Category = "Travel"
	CategoryShopping      Category = "Shopping"
	CategoryNewsletter    Category = "Newsletter"
	CategorySystem        Category = "System"
	CategorySpam          Category = "Spam"
	CategoryUncategorized Category = "Uncategorized"
)

// Categories lists every known category.
var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryPromotional,
	CategorySocial,
	CategoryFinancial,
	CategoryTravel,
	CategoryShopping,
	CategoryNewsletter,
	CategorySystem,
	CategorySpam,
	CategoryUncategorized,
}

// ParseCategory matches name case-insensitively against the known categories.
// Unknown names map to CategoryUncategorized.
func ParseCategory(name string) Category {
	name = strings.TrimSpace(name)
	for _, c := range Categories {
		if strings.EqualFold(string(c), name) {
			return c
		}
	}
	return CategoryUncategorized
}

// SchedulingIntent is a structured reading of a natural-language scheduling request.
type SchedulingIntent struct {
	// IntentType is e.g. "meeting", "appointment" or "reminder".
	IntentType   string     `json:"intent_type"`
	Title        string     `json:"title,omitempty"`
	DateTime     *time.Time `json:"datetime,omitempty"`
	Duration     string     `json:"duration,omitempty"`
	Participants []string   `json:"participants"`
	Location     string     `json:"location,omitempty"`
	Description  string     `json:"description,omitempty"`

	// Confidence is in [0, 1].
	Confidence float32 `json:"confidence"`
}
