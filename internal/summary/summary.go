// Package summary produces a short heading and narrative summary for an
// article body. Two model-backed implementations (OpenAI-compatible and
// Ollama) return errors; the Fallback wrapper absorbs them so callers always
// get a usable result.
package summary

import (
	"encoding/json"
	"strings"
)

// Result is a compact heading plus a few-sentence summary.
type Result struct {
	Heading string `json:"heading"`
	Summary string `json:"summary"`
}

const systemPrompt = `You are a helpful summarization assistant. Produce a compact headline ` +
	`(6-10 words) and a 3-5 sentence summary. Return ONLY valid JSON with ` +
	`keys: "heading" and "summary". Avoid metadata, author names, and dates.`

// maxInputChars bounds prompt size to stay under model token limits.
const maxInputChars = 8000

func truncateInput(text string) string {
	if len(text) > maxInputChars {
		return text[:maxInputChars] + "..."
	}
	return text
}

// parseResult decodes the model's JSON reply. Models occasionally wrap JSON
// in markdown fences or prepend prose, so it scans for the outermost braces.
func parseResult(raw string) (Result, bool) {
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return Result{}, false
	}

	var res Result
	if err := json.Unmarshal([]byte(raw[start:end+1]), &res); err != nil {
		return Result{}, false
	}
	if res.Heading == "" || res.Summary == "" {
		return Result{}, false
	}

	return res, true
}
