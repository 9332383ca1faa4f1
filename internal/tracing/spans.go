package tracing

import (
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrTemplateKind = "template.kind"
	AttrTemplateName = "template.name"

	AttrLLMProvider  = "llm.provider"
	AttrLLMModel     = "llm.model"
	AttrCritiqueKind = "critique.kind"
	AttrPromptBytes  = "prompt.bytes"
	AttrCacheHit     = "cache.hit"
)

// End records err on span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
