package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/pagedeck/internal/ai"
	"github.com/local/pagedeck/internal/config"
)

type scriptedClient struct {
	name  string
	text  string
	err   error
	calls []string // models requested, in order
}

func (c *scriptedClient) Name() string { return c.name }

func (c *scriptedClient) Do(_ context.Context, req ai.Request) (ai.Response, error) {
	c.calls = append(c.calls, req.Model)
	if c.err != nil {
		return ai.Response{}, c.err
	}
	return ai.Response{Text: c.text}, nil
}

func insightCfg() config.InsightConfig {
	return config.InsightConfig{
		PrimaryEngine:   "openai",
		SecondaryEngine: "anthropic",
		OpenAI:          config.InsightModels{Primary: "gpt-4o-mini", Secondary: "gpt-4o"},
		Anthropic:       config.InsightModels{Primary: "claude-sonnet-4-20250514"},
		RequestTimeout:  5 * time.Second,
	}
}

func TestSummarizeUsesPrimaryEngine(t *testing.T) {
	primary := &scriptedClient{name: "openai", text: "  A short summary.  "}
	secondary := &scriptedClient{name: "anthropic", text: "unused"}
	a := New(insightCfg(), primary, secondary)

	got := a.summarize(context.Background(), "doc.pdf", "sample text")
	assert.Equal(t, "A short summary.", got)
	assert.Equal(t, []string{"gpt-4o-mini"}, primary.calls)
	assert.Empty(t, secondary.calls)
}

func TestSummarizeFailsOverToSecondaryEngine(t *testing.T) {
	primary := &scriptedClient{name: "openai", err: ai.ErrRateLimited}
	secondary := &scriptedClient{name: "anthropic", text: "From the backup."}
	a := New(insightCfg(), primary, secondary)

	got := a.summarize(context.Background(), "doc.pdf", "sample text")
	assert.Equal(t, "From the backup.", got)
	require.Len(t, primary.calls, 1)
	assert.Equal(t, []string{"claude-sonnet-4-20250514"}, secondary.calls)
}

func TestSummarizeFallsBackToSecondaryModel(t *testing.T) {
	// Only one engine is wired; after its primary model fails the ladder
	// retries the same engine on the secondary model.
	primary := &scriptedClient{name: "openai", err: errors.New("server error")}
	a := New(insightCfg(), primary)

	got := a.summarize(context.Background(), "doc.pdf", "sample text")
	assert.Equal(t, Fallback, got)
	assert.Equal(t, []string{"gpt-4o-mini", "gpt-4o"}, primary.calls)
}

func TestSummarizeExhaustedReturnsFallback(t *testing.T) {
	primary := &scriptedClient{name: "openai", err: errors.New("down")}
	secondary := &scriptedClient{name: "anthropic", err: errors.New("also down")}
	a := New(insightCfg(), primary, secondary)

	got := a.summarize(context.Background(), "doc.pdf", "sample text")
	assert.Equal(t, Fallback, got)
}

func TestSummarizeNoClientsReturnsFallback(t *testing.T) {
	a := New(insightCfg())
	assert.Equal(t, Fallback, a.summarize(context.Background(), "doc.pdf", "text"))
}

func TestAnalyzeGarbageInputReturnsFallback(t *testing.T) {
	primary := &scriptedClient{name: "openai", text: "never reached"}
	a := New(insightCfg(), primary)

	got := a.Analyze(context.Background(), "junk.bin", []byte("not a pdf"))
	assert.Equal(t, Fallback, got)
	assert.Empty(t, primary.calls)
}

func TestSampleIndices(t *testing.T) {
	tests := []struct {
		name  string
		total int
		max   int
		want  []int
	}{
		{"fewer pages than limit", 3, 5, []int{0, 1, 2}},
		{"exact fit", 5, 5, []int{0, 1, 2, 3, 4}},
		{"even spread", 100, 5, []int{0, 24, 49, 74, 99}},
		{"single page", 1, 5, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sampleIndices(tt.total, tt.max)
			assert.Equal(t, tt.want, got)
			require.NotEmpty(t, got)
			assert.Zero(t, got[0], "first page is always sampled")
		})
	}
}
