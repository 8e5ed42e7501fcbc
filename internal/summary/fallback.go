package summary

import (
	"context"
	"log"
	"regexp"
	"strings"
)

// Model is a summarizer that may fail: either of the model-backed clients.
type Model interface {
	Summarize(ctx context.Context, body, title string) (Result, error)
}

// Fallback wraps a model-backed summarizer and guarantees a result: when the
// model fails, or the input is too short to be worth a model call, it degrades
// to heading-from-title and lead-sentence truncation. With a nil inner
// summarizer it runs in truncation-only mode.
type Fallback struct {
	inner Model
}

func NewFallback(inner Model) *Fallback {
	return &Fallback{inner: inner}
}

func (f *Fallback) Summarize(ctx context.Context, body, title string) Result {
	if len(strings.TrimSpace(body)) < 50 {
		return Result{
			Heading: headingFromTitle(title, body),
			Summary: "Content too short to summarize effectively.",
		}
	}

	if f.inner != nil {
		res, err := f.inner.Summarize(ctx, body, title)
		if err == nil {
			return res
		}
		log.Printf("[WARN] summarization failed, falling back to truncation: %v", err)
	}

	return Result{
		Heading: headingFromTitle(title, body),
		Summary: leadSentences(body),
	}
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// headingFromTitle prefers the original title, truncated on a word boundary at
// 80 chars; with no usable title it falls back to the body's first sentence.
func headingFromTitle(title, body string) string {
	if len(title) > 10 {
		if len(title) <= 80 {
			return strings.TrimSpace(title)
		}
		heading := strings.TrimSpace(title[:80])
		if lastSpace := strings.LastIndex(heading, " "); lastSpace > 40 {
			heading = heading[:lastSpace]
		}
		return heading + "..."
	}

	sentences := sentenceSplit.Split(body, 2)
	if len(sentences) == 0 || strings.TrimSpace(sentences[0]) == "" {
		return "News Update"
	}

	heading := strings.TrimSpace(sentences[0])
	if len(heading) > 80 {
		heading = strings.TrimSpace(heading[:80]) + "..."
	}
	return heading
}

// leadSentences joins the first few meaningful sentences, capped at 500 chars.
func leadSentences(body string) string {
	sentences := sentenceSplit.Split(body, -1)

	var picked []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len(s) <= 20 {
			continue
		}
		picked = append(picked, s)
		if len(picked) >= 4 {
			break
		}
	}

	summary := strings.Join(picked, ". ")
	if summary == "" {
		summary = strings.TrimSpace(body)
	}
	if !strings.HasSuffix(summary, ".") {
		summary += "."
	}
	if len(summary) > 500 {
		summary = summary[:500] + "..."
	}
	return summary
}
