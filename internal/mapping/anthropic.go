package mapping

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/latspace/mapping-agent/internal/config"
	"github.com/latspace/mapping-agent/internal/model"
	"github.com/latspace/mapping-agent/pkg/anthropic"
)

// AnthropicMapper maps headers with a single deterministic Messages call.
type AnthropicMapper struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
}

// NewAnthropicMapper creates a mapper. A positive RequestsPerMinute paces
// calls across all files sharing the mapper.
func NewAnthropicMapper(client anthropic.Client, cfg config.AnthropicConfig) *AnthropicMapper {
	m := &AnthropicMapper{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
	if cfg.RequestsPerMinute > 0 {
		m.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	return m
}

// MapHeaders asks the model for one mapping per header.
func (m *AnthropicMapper) MapHeaders(ctx context.Context, req Request) ([]model.MappingRecord, error) {
	if req.Registry == nil {
		return nil, eris.New("mapping: registry is required")
	}
	if len(req.Headers) == 0 {
		return []model.MappingRecord{}, nil
	}

	system, err := buildSystemPrompt(req)
	if err != nil {
		return nil, err
	}
	user, err := buildUserPrompt(req)
	if err != nil {
		return nil, err
	}

	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "mapping: rate limit wait")
		}
	}

	temperature := 0.0
	resp, err := m.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       m.model,
		MaxTokens:   m.maxTokens,
		System:      anthropic.BuildCachedSystemBlocks(system),
		Messages:    []anthropic.Message{{Role: "user", Content: user}},
		Temperature: &temperature,
	})
	if err != nil {
		return nil, eris.Wrap(err, "mapping: create message")
	}

	resp.Usage.LogCost(m.model, "mapping")
	if resp.StopReason == "max_tokens" {
		return nil, eris.Errorf("mapping: response truncated at %d tokens", m.maxTokens)
	}

	records, err := ParseResponse(resp.Text())
	if err != nil {
		return nil, err
	}

	zap.L().Debug("mapping: headers mapped",
		zap.Int("headers", len(req.Headers)),
		zap.Int("records", len(records)),
	)
	return records, nil
}
