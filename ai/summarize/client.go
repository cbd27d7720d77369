package summarize

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hrygo/docbrief/ai/core/llm"
)

// FallbackText replaces a summary whose generative call failed. It is
// length-independent: a degraded entry looks the same in every slot.
const FallbackText = "Summary temporarily unavailable. Please try again later."

// Result is one settled summarization call. Fallback marks a degraded
// result carrying FallbackText rather than generated text.
type Result struct {
	Text     string
	Fallback bool
}

// Client produces one summary per call. A generic upstream failure settles
// as a fallback Result, not an error; the error return is reserved for
// conditions that must abort the whole request.
type Client interface {
	Summarize(ctx context.Context, text string, length Length) (Result, error)
}

type llmClient struct {
	llm llm.Service
}

// NewClient wraps an LLM service. A nil service is allowed and makes every
// call settle as a fallback, so the pipeline stays usable without an API key.
func NewClient(svc llm.Service) Client {
	return &llmClient{llm: svc}
}

func (c *llmClient) Summarize(ctx context.Context, text string, length Length) (Result, error) {
	if c.llm == nil {
		return Result{Text: FallbackText, Fallback: true}, nil
	}

	messages := []llm.Message{
		llm.SystemPrompt(summarySystemPrompt),
		llm.UserMessage(length.prompt(text)),
	}

	content, _, err := c.llm.Chat(ctx, messages)
	if err != nil {
		// Quota exhaustion would fail the sibling calls identically, so it
		// escalates instead of settling as one more fallback entry.
		if llm.IsQuotaExceeded(err) {
			return Result{}, &SummarizationError{Reason: "quota exceeded", Quota: true, Err: err}
		}
		slog.Warn("summarization call failed, using fallback", "length", string(length), "error", err)
		return Result{Text: FallbackText, Fallback: true}, nil
	}

	summary := strings.TrimSpace(content)
	if summary == "" {
		slog.Warn("summarization call returned empty content, using fallback", "length", string(length))
		return Result{Text: FallbackText, Fallback: true}, nil
	}

	return Result{Text: summary}, nil
}

const summarySystemPrompt = `You are a document summarization assistant. Your task is to summarize the provided document text.

Rules:
1. Match the requested summary length
2. Keep the key points and factual claims of the original
3. Use the same language as the original text
4. Do not add information that is not in the original
5. Output the summary text directly, with no preamble or headings`
