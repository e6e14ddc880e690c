package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Transcript summarization. Primary path is the configured LLM; any LLM
// failure degrades to a deterministic extractive summary so the endpoint
// stays useful without an API key or during provider outages.

// SummarySourceLLM and SummarySourceFallback identify which path produced a summary.
const (
	SummarySourceLLM      = "llm"
	SummarySourceFallback = "fallback"
)

const summaryPrompt = `You are tasked with creating a concise summary of a video transcript.

The video title is: %q

Based on the transcript, provide:
1. A brief 2-3 sentence summary of what the video is about
2. 3-5 key points or main takeaways from the content
3. The overall tone or style of the video (educational, entertainment, tutorial, etc.)

Format your response in clear, well-organized paragraphs.

Here is the transcript:
%s`

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CallLLM sends a prompt using the configured temperature and max_tokens.
func CallLLM(ctx context.Context, prompt string) (string, error) {
	IncrLLMCalls()
	resp, err := cfg.LLMClient.Complete(ctx, "", prompt)
	if err != nil {
		IncrLLMErrors()
		return "", err
	}
	return stripFences(resp), nil
}

func IncrLLMCalls()  { metrics.LLMCalls.Add(1) }
func IncrLLMErrors() { metrics.LLMErrors.Add(1) }

// SummarizeTranscript summarizes cleaned transcript text. Returns the
// summary and which path produced it. Only an empty transcript is an error.
func SummarizeTranscript(ctx context.Context, text, title string) (string, string, error) {
	IncrSummarizeRequests()

	text = CollapseWhitespace(CleanHTML(text))
	if text == "" {
		return "", "", fmt.Errorf("empty transcript")
	}

	limit := cfg.SummaryMaxChars
	if limit <= 0 {
		limit = 10000
	}
	text = Truncate(text, limit)

	if cfg.LLMClient == nil {
		return fallbackSummary(text, title), SummarySourceFallback, nil
	}

	summary, err := CallLLM(ctx, fmt.Sprintf(summaryPrompt, title, text))
	if err != nil || strings.TrimSpace(summary) == "" {
		slog.Warn("summarize: LLM failed, using extractive fallback", slog.Any("error", err))
		return fallbackSummary(text, title), SummarySourceFallback, nil
	}
	return summary, SummarySourceLLM, nil
}

// fallbackSummary samples the beginning, middle, and end of the transcript.
// Mirrors the shape produced when no AI backend is configured: word count
// plus three excerpts of up to 100 words each.
func fallbackSummary(text, title string) string {
	words := strings.Fields(text)
	total := len(words)

	if total < 50 {
		return fmt.Sprintf("This video has very little spoken content. The transcript contains only %d words.", total)
	}

	excerpt := func(from int) string {
		to := from + 100
		if to > total {
			to = total
		}
		return strings.Join(words[from:to], " ")
	}

	middleStart := total/2 - 50
	if middleStart < 0 {
		middleStart = 0
	}
	endStart := total - 100
	if endStart < 0 {
		endStart = 0
	}

	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "Video: %s\n\n", title)
	}
	sb.WriteString("This is a basic summary as the AI summarization service is unavailable.\n\n")
	fmt.Fprintf(&sb, "The video contains approximately %d words of spoken content.\n\n", total)
	fmt.Fprintf(&sb, "Beginning excerpt: %s...\n\n", excerpt(0))
	fmt.Fprintf(&sb, "Middle excerpt: %s...\n\n", excerpt(middleStart))
	fmt.Fprintf(&sb, "Ending excerpt: %s...\n", excerpt(endStart))
	return sb.String()
}
