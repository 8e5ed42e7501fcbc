package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/internal/model"
)

func stubs(titles ...string) []model.ArticleStub {
	out := make([]model.ArticleStub, len(titles))
	for i, t := range titles {
		out[i] = model.ArticleStub{URL: "https://example.com/" + t, Title: t, Category: "world"}
	}
	return out
}

func TestFilterDropsNearDuplicates(t *testing.T) {
	in := stubs(
		"Government announces new infrastructure spending plan today",
		"Government announces new infrastructure spending plan",
		"Completely unrelated sports result from the weekend",
	)

	out := Filter(in)

	require.Len(t, out, 2)
	assert.Equal(t, in[0].Title, out[0].Title, "earlier-positioned entry must survive")
	assert.Equal(t, in[2].Title, out[1].Title)
}

func TestFilterKeepsDistinctTitles(t *testing.T) {
	in := stubs(
		"Markets rally as inflation numbers come in lower",
		"Cricket team seals series win in final over",
		"New metro line opens after decade of construction",
	)

	out := Filter(in)
	assert.Len(t, out, 3)
}

func TestFilterPreservesOrder(t *testing.T) {
	in := stubs("first headline about the economy", "second headline about cricket scores", "third headline about local elections")

	out := Filter(in)

	require.Len(t, out, 3)
	for i := range out {
		assert.Equal(t, in[i].Title, out[i].Title)
	}
}

func TestFilterExactThresholdIsKept(t *testing.T) {
	// 7 of 10 tokens shared: overlap == 0.7, not strictly above the
	// threshold, so both survive.
	a := "one two three four five six seven alpha beta gamma"
	b := "one two three four five six seven delta epsilon zeta"
	require.InDelta(t, 0.7, Similarity(a, b), 1e-9)

	out := Filter(stubs(a, b))
	assert.Len(t, out, 2)
}

func TestFilterEmptyInput(t *testing.T) {
	assert.Empty(t, Filter(nil))
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "prime minister visits flood zone", b: "prime minister visits flood zone", want: 1},
		{name: "case and trim insensitive", a: "  Prime Minister Visits Flood Zone ", b: "prime minister visits flood zone", want: 1},
		{name: "disjoint", a: "cricket final tonight", b: "markets rally sharply", want: 0},
		{name: "empty side", a: "", b: "anything at all", want: 0},
		{name: "partial", a: "alpha beta gamma delta", b: "alpha beta gamma epsilon", want: 0.75},
		{name: "normalized by larger set", a: "alpha beta", b: "alpha beta gamma delta", want: 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Similarity(tc.a, tc.b), 1e-9)
		})
	}
}
