// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func configure(ctx context.Context, opts ...Option) (*config, error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	r, err := resolveResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve resource: %w", err)
	}
	cfg.resource = r

	if err := configureExporters(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to configure exporters: %w", err)
	}
	return cfg, nil
}

// resolveResource merges the default resource, which honors
// OTEL_SERVICE_NAME and OTEL_RESOURCE_ATTRIBUTES, with the resource from
// config when present.
func resolveResource(ctx context.Context, cfg *config) (*resource.Resource, error) {
	r := resource.Default()
	if cfg.resource == nil {
		return r, nil
	}
	merged, err := resource.Merge(r, cfg.resource)
	if err != nil {
		return nil, fmt.Errorf("failed to merge resources: %w", err)
	}
	return merged, nil
}

// configureExporters creates OTLP HTTP exporters when an endpoint is
// configured explicitly or via the standard environment variables.
func configureExporters(ctx context.Context, cfg *config) error {
	_, endpointEnv := os.LookupEnv("OTEL_EXPORTER_OTLP_ENDPOINT")
	_, tracesEnv := os.LookupEnv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")
	if cfg.endpointURL == "" && !endpointEnv && !tracesEnv {
		return nil
	}

	var traceOpts []otlptracehttp.Option
	var logOpts []otlploghttp.Option
	if cfg.endpointURL != "" {
		traceOpts = append(traceOpts, otlptracehttp.WithEndpointURL(cfg.endpointURL))
		logOpts = append(logOpts, otlploghttp.WithEndpointURL(cfg.endpointURL))
	}

	spanExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	cfg.spanProcessors = append(cfg.spanProcessors, sdktrace.NewBatchSpanProcessor(spanExporter))

	logExporter, err := otlploghttp.New(ctx, logOpts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}
	cfg.logProcessors = append(cfg.logProcessors, sdklog.NewBatchProcessor(logExporter))
	return nil
}

func newProviders(cfg *config) (*providers, error) {
	p := &providers{}

	switch {
	case cfg.tracerProvider != nil:
		p.tracerProvider = cfg.tracerProvider
	case len(cfg.spanProcessors) > 0:
		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithResource(cfg.resource),
		}
		for _, sp := range cfg.spanProcessors {
			opts = append(opts, sdktrace.WithSpanProcessor(sp))
		}
		p.tracerProvider = sdktrace.NewTracerProvider(opts...)
	}

	if len(cfg.logProcessors) > 0 {
		opts := []sdklog.LoggerProviderOption{
			sdklog.WithResource(cfg.resource),
		}
		for _, lp := range cfg.logProcessors {
			opts = append(opts, sdklog.WithProcessor(lp))
		}
		p.loggerProvider = sdklog.NewLoggerProvider(opts...)
	}
	return p, nil
}
