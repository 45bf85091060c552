package insight

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/pagedeck/internal/ai"
	"github.com/local/pagedeck/internal/config"
	"github.com/local/pagedeck/internal/metrics"
)

// Fallback is served whenever analysis cannot produce anything better.
// The adapter never surfaces an error to its callers.
const Fallback = "No insight is available for this document."

// Analyzer turns a source document into a short advisory summary. Text is
// sampled with go-fitz and sent to the primary AI engine, failing over to
// the secondary; any failure degrades to the fallback string.
type Analyzer struct {
	cfg     config.InsightConfig
	clients map[string]ai.Client
}

// New returns an analyzer over the given provider clients.
func New(cfg config.InsightConfig, clients ...ai.Client) *Analyzer {
	m := make(map[string]ai.Client, len(clients))
	for _, c := range clients {
		m[c.Name()] = c
	}
	return &Analyzer{cfg: cfg, clients: m}
}

// Analyze extracts representative text from data and returns an advisory
// summary. It always returns a usable string; analysis failures are logged
// and swallowed here, at the adapter boundary.
func (a *Analyzer) Analyze(ctx context.Context, name string, data []byte) string {
	text, err := SampleText(data, a.cfg.SamplePages, a.cfg.MaxSampleChars)
	if err != nil {
		log.Warn().Err(err).Str("name", name).Msg("insight text extraction failed")
		return Fallback
	}
	if strings.TrimSpace(text) == "" {
		log.Debug().Str("name", name).Msg("no extractable text for insight")
		return Fallback
	}
	return a.summarize(ctx, name, text)
}

// summarize walks the provider attempt ladder and degrades to the fallback
// string when every attempt fails.
func (a *Analyzer) summarize(ctx context.Context, name, text string) string {
	attempts := []struct {
		engine string
		model  string
	}{
		{a.cfg.PrimaryEngine, a.model(a.cfg.PrimaryEngine, true)},
		{a.cfg.SecondaryEngine, a.model(a.cfg.SecondaryEngine, true)},
		{a.cfg.PrimaryEngine, a.model(a.cfg.PrimaryEngine, false)},
	}

	for _, at := range attempts {
		client, ok := a.clients[at.engine]
		if !ok || at.model == "" {
			continue
		}
		summary, err := a.call(ctx, client, at.model, text)
		if err == nil {
			log.Info().Str("name", name).Str("provider", at.engine).Str("model", at.model).Msg("insight produced")
			return summary
		}
		log.Warn().Err(err).Str("name", name).Str("provider", at.engine).Str("model", at.model).Msg("insight provider failed, trying next")
	}
	return Fallback
}

func (a *Analyzer) call(ctx context.Context, client ai.Client, model, text string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := client.Do(cctx, ai.Request{Text: text, Model: model})
	dur := time.Since(start)

	result := "success"
	if err != nil {
		result = "error"
		if ai.IsRateLimited(err) {
			result = "rate_limited"
		}
	}
	metrics.ObserveInsight(client.Name(), model, result)
	if err != nil {
		return "", err
	}
	log.Debug().Str("provider", client.Name()).Str("model", model).Dur("duration", dur).Int("tokens_in", resp.TokensIn).Int("tokens_out", resp.TokensOut).Msg("insight provider call")
	return strings.TrimSpace(resp.Text), nil
}

func (a *Analyzer) model(engine string, primary bool) string {
	switch engine {
	case "openai":
		if primary {
			return a.cfg.OpenAI.Primary
		}
		return a.cfg.OpenAI.Secondary
	case "anthropic":
		if primary {
			return a.cfg.Anthropic.Primary
		}
		return a.cfg.Anthropic.Secondary
	}
	return ""
}
