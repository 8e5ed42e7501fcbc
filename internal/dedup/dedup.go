// Package dedup removes near-duplicate listing entries. Two titles are near
// duplicates when the overlap between their word sets exceeds a fixed
// threshold; the earlier-positioned entry always survives.
package dedup

import (
	"strings"

	"newsdigest/internal/model"
)

// Threshold is the token-overlap ratio above which a title is dropped as a
// near duplicate. Downstream behavior depends on this exact value.
const Threshold = 0.7

// Filter walks stubs in order and drops every entry whose normalized title is
// too similar to an already-kept one. The output preserves input order.
// O(n²) in the number of stubs, which stays in the tens per category.
func Filter(stubs []model.ArticleStub) []model.ArticleStub {
	if len(stubs) == 0 {
		return nil
	}

	kept := make([]model.ArticleStub, 0, len(stubs))
	seenTitles := make([][]string, 0, len(stubs))

	for _, stub := range stubs {
		tokens := tokenize(stub.Title)

		dup := false
		for _, seen := range seenTitles {
			if overlap(tokens, seen) > Threshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}

		kept = append(kept, stub)
		seenTitles = append(seenTitles, tokens)
	}

	return kept
}

// Similarity reports the token-overlap ratio between two titles:
// |intersection| / max(|a|, |b|) over their normalized word sets.
func Similarity(a, b string) float64 {
	return overlap(tokenize(a), tokenize(b))
}

func tokenize(title string) []string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(title)))

	m := map[string]bool{}
	var out []string
	for _, f := range fields {
		if !m[f] {
			m[f] = true
			out = append(out, f)
		}
	}
	return out
}

func overlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]bool, len(a))
	for _, w := range a {
		set[w] = true
	}

	common := 0
	for _, w := range b {
		if set[w] {
			common++
		}
	}

	return float64(common) / float64(max(len(a), len(b)))
}
