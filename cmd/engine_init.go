package main

import (
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/latspace/mapping-agent/internal/config"
	"github.com/latspace/mapping-agent/internal/ingest"
	"github.com/latspace/mapping-agent/internal/mapping"
	"github.com/latspace/mapping-agent/internal/pipeline"
	"github.com/latspace/mapping-agent/internal/registry"
	anthropicpkg "github.com/latspace/mapping-agent/pkg/anthropic"
)

// newMapper picks the mapping backend. The API client never retries on its
// own; batch runs retry whole files through their policy.
var newMapper = func(c *config.Config, offline bool) mapping.Mapper {
	if offline {
		zap.L().Info("offline mode, using exact registry matcher")
		return mapping.NewExactMapper()
	}
	client := anthropicpkg.NewClient(c.Anthropic.Key, option.WithMaxRetries(0))
	return mapping.NewAnthropicMapper(client, c.Anthropic)
}

// initEngine validates config for mode, loads the canonical registry and
// builds the Engine shared by the serve/parse/batch commands. A missing
// registry is fatal.
func initEngine(c *config.Config, mode string, offline bool) (*pipeline.Engine, error) {
	if err := c.Validate(mode, offline); err != nil {
		return nil, err
	}

	reg, err := registry.LoadFirst(c.RegistryPaths())
	if err != nil {
		return nil, eris.Wrap(err, "init engine: load registry")
	}

	engine, err := pipeline.New(ingest.NewFileLoader(), newMapper(c, offline), reg, pipeline.Options{
		ScanLimit:  c.Ingest.ScanLimit,
		SampleRows: c.Ingest.SampleRows,
	})
	if err != nil {
		return nil, eris.Wrap(err, "init engine")
	}

	zap.L().Info("engine ready",
		zap.String("mode", mode),
		zap.Bool("offline", offline),
		zap.Int("parameters", reg.Len()),
	)
	return engine, nil
}
