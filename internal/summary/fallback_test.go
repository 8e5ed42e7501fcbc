package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingModel struct{ calls int }

func (f *failingModel) Summarize(context.Context, string, string) (Result, error) {
	f.calls++
	return Result{}, errors.New("model unavailable")
}

type stubModel struct{ res Result }

func (s stubModel) Summarize(context.Context, string, string) (Result, error) {
	return s.res, nil
}

const longBody = "The irrigation department released new reservoir figures on Tuesday showing a strong recovery. " +
	"Officials said the recovery eases concerns about drinking water supply for the winter months. " +
	"Groundwater tables in several districts remain below normal levels. " +
	"Farmers have been advised to proceed with the planned second sowing. " +
	"Canal releases are scheduled to begin next week across the delta region."

func TestFallbackUsesModelResultWhenAvailable(t *testing.T) {
	want := Result{Heading: "Reservoirs recover after late rains", Summary: "A short model summary."}
	f := NewFallback(stubModel{res: want})

	got := f.Summarize(context.Background(), longBody, "original title of the article")
	assert.Equal(t, want, got)
}

func TestFallbackDegradesOnModelFailure(t *testing.T) {
	model := &failingModel{}
	f := NewFallback(model)

	got := f.Summarize(context.Background(), longBody, "Reservoir levels recover after late monsoon surge")

	assert.Equal(t, 1, model.calls)
	assert.Equal(t, "Reservoir levels recover after late monsoon surge", got.Heading)
	assert.NotEmpty(t, got.Summary)
	assert.True(t, strings.HasSuffix(got.Summary, ".") || strings.HasSuffix(got.Summary, "..."))
	assert.LessOrEqual(t, len(got.Summary), 503)
}

func TestFallbackShortInputSkipsModel(t *testing.T) {
	model := &failingModel{}
	f := NewFallback(model)

	got := f.Summarize(context.Background(), "too short", "A headline longer than ten chars")

	assert.Zero(t, model.calls, "short input must not spend a model call")
	assert.Equal(t, "A headline longer than ten chars", got.Heading)
	assert.Equal(t, "Content too short to summarize effectively.", got.Summary)
}

func TestFallbackNilModelTruncates(t *testing.T) {
	f := NewFallback(nil)

	got := f.Summarize(context.Background(), longBody, "Reservoir recovery update from the delta")
	assert.Equal(t, "Reservoir recovery update from the delta", got.Heading)
	assert.Contains(t, got.Summary, "irrigation department")
}

func TestHeadingFromTitleTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("longword ", 15) // 135 chars
	got := headingFromTitle(long, longBody)

	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), 83)
}

func TestHeadingFromTitleFallsBackToBody(t *testing.T) {
	got := headingFromTitle("short", "First sentence here for the heading. Second sentence is ignored.")
	assert.Equal(t, "First sentence here for the heading", got)
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   Result
		wantOK bool
	}{
		{
			name:   "plain json",
			raw:    `{"heading": "H", "summary": "S"}`,
			want:   Result{Heading: "H", Summary: "S"},
			wantOK: true,
		},
		{
			name:   "fenced json",
			raw:    "```json\n{\"heading\": \"H\", \"summary\": \"S\"}\n```",
			want:   Result{Heading: "H", Summary: "S"},
			wantOK: true,
		},
		{
			name:   "prose around json",
			raw:    `Sure! {"heading": "H", "summary": "S"} Hope that helps.`,
			want:   Result{Heading: "H", Summary: "S"},
			wantOK: true,
		},
		{name: "no json", raw: "just some prose"},
		{name: "missing keys", raw: `{"heading": "H"}`},
		{name: "malformed", raw: `{"heading": "H", "summary":`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseResult(tc.raw)
			require.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestTruncateInput(t *testing.T) {
	long := strings.Repeat("a", maxInputChars+100)
	got := truncateInput(long)

	assert.Len(t, got, maxInputChars+3)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "short text", truncateInput("short text"))
}
