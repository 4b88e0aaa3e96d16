package observability

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/qa-api/internal/config"
)

func TestSetupDisabled(t *testing.T) {
	for _, cfg := range []*config.Config{
		{EnableTracing: false, OTLPEndpoint: "collector:4318"},
		{EnableTracing: true},
	} {
		shutdown, err := Setup(context.Background(), cfg, zerolog.Nop())
		require.NoError(t, err)
		assert.NoError(t, shutdown(context.Background()))
	}
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestExporterOptions(t *testing.T) {
	assert.Len(t, exporterOptions(&config.Config{OTLPEndpoint: "c:4318", OTLPInsecure: true}), 2)
	assert.Len(t, exporterOptions(&config.Config{OTLPEndpoint: "c:4318"}), 1)
}
