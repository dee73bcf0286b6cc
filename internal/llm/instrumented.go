package llm

import (
	"context"
	"time"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
)

type instrumented struct {
	base     Client
	provider string
	model    string
}

// Instrument logs every completion as llm.complete and records its latency.
func Instrument(base Client, provider, model string) Client {
	if base == nil {
		return nil
	}
	return instrumented{base: base, provider: provider, model: model}
}

func (i instrumented) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := i.base.Complete(ctx, req)
	elapsed := time.Since(start).Milliseconds()

	metrics.ObserveLLM(i.provider, req.Operation, err == nil, float64(elapsed))
	fields := map[string]any{
		"provider":       i.provider,
		"model":          i.model,
		"operation":      req.Operation,
		"duration_ms":    elapsed,
		"prompt_chars":   len(req.Prompt),
		"response_chars": len(out),
	}
	if err != nil {
		fields["error"] = err
		telemetry.Error("llm.complete", fields)
		return "", err
	}
	telemetry.Info("llm.complete", fields)
	return out, nil
}
