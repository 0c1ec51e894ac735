package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName is reported as service.name on exported spans.
const ServiceName = "cottonsite"

// TraceFile exports the spans of one build as JSON lines into a file.
type TraceFile struct {
	Provider *sdktrace.TracerProvider
	file     *os.File
}

// NewTraceFile creates path and returns a tracer provider that writes every
// ended span to it synchronously. Close flushes the provider and closes the
// file.
func NewTraceFile(path string) (*TraceFile, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
	)
	return &TraceFile{Provider: tp, file: f}, nil
}

// Close shuts the provider down and closes the file.
func (t *TraceFile) Close(ctx context.Context) error {
	return errors.Join(t.Provider.Shutdown(ctx), t.file.Close())
}
