package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/phrazzld/inbox-ai/internal/ai"
)

// ErrUnsupportedOperation is returned for an operation type the processor does
// not know how to run.
var ErrUnsupportedOperation = errors.New("unsupported operation type")

// customCreativity is the sampling temperature used for custom prompts that
// carry context.
const customCreativity float32 = 0.7

// progressFunc reports fractional progress of a running operation.
type progressFunc func(progress float64, message string)

// dispatch maps an operation onto a single call to the AI service. It does no
// caching or retrying of its own.
func (p *Processor) dispatch(ctx context.Context, op *Operation, report progressFunc) (string, error) {
	switch t := op.Type.(type) {
	case EmailSummarization:
		return p.service.Summarize(ctx, t.Content, t.MaxLength)

	case EmailReply:
		replies, err := p.service.SuggestReplies(ctx, t.Content, t.Context)
		if err != nil {
			return "", err
		}
		return strings.Join(replies, "\n"), nil

	case EmailCategorization:
		category, err := p.service.Categorize(ctx, t.Content)
		if err != nil {
			return "", err
		}
		return string(category), nil

	case CalendarParsing:
		intent, err := p.service.ParseSchedulingIntent(ctx, t.Text)
		if err != nil {
			return "", err
		}
		encoded, err := json.Marshal(intent)
		if err != nil {
			return "", fmt.Errorf("failed to encode scheduling intent: %w", err)
		}
		return string(encoded), nil

	case BatchEmailProcessing:
		return p.processBatch(ctx, t, report)

	case Custom:
		var opts *ai.CompletionContext
		if t.Context != "" {
			creativity := customCreativity
			opts = &ai.CompletionContext{EmailThread: t.Context, Creativity: &creativity}
		}
		return p.service.CompleteText(ctx, t.Prompt, opts)

	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedOperation, op.Type)
	}
}

// processBatch handles the emails one at a time with a short pause between
// them, reporting progress after every BatchSize items.
func (p *Processor) processBatch(ctx context.Context, batch BatchEmailProcessing, report progressFunc) (string, error) {
	total := len(batch.EmailIDs)
	lines := make([]string, 0, total)

	for i, emailID := range batch.EmailIDs {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		lines = append(lines, batchLine(batch.Operation, emailID))

		done := i + 1
		if done%p.config.BatchSize == 0 || done == total {
			report(float64(done)/float64(total), fmt.Sprintf("Processed %d of %d emails", done, total))
		}

		if done < total && p.config.BatchItemDelay > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(p.config.BatchItemDelay):
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}

func batchLine(operation, emailID string) string {
	switch operation {
	case "summarize":
		return fmt.Sprintf("Summary for email %s", emailID)
	case "categorize":
		return fmt.Sprintf("Category for email %s", emailID)
	default:
		return fmt.Sprintf("Processed email %s with operation %s", emailID, operation)
	}
}
