package main

import (
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/university-library-go/features/books"
	"github.com/AntonStoeckl/university-library-go/features/decommission"
	"github.com/AntonStoeckl/university-library-go/features/loans"
	"github.com/AntonStoeckl/university-library-go/httpapi"
	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/library/oteladapters"
	"github.com/AntonStoeckl/university-library-go/library/sqlengine"
)

// observability holds the adapters handed to the store and the services.
// Metrics and Tracing stay nil unless telemetry export is configured.
type observability struct {
	Logger  library.ContextualLogger
	Metrics library.MetricsCollector
	Tracing library.TracingCollector
}

func newObservability(logger library.ContextualLogger, telemetryEnabled bool) observability {
	obs := observability{Logger: logger}

	if telemetryEnabled {
		obs.Metrics = oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))
		obs.Tracing = oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))
	}

	return obs
}

func (o observability) storeOptions() []sqlengine.Option {
	options := []sqlengine.Option{sqlengine.WithContextualLogger(o.Logger)}

	if o.Metrics != nil {
		options = append(options, sqlengine.WithMetrics(o.Metrics))
	}

	if o.Tracing != nil {
		options = append(options, sqlengine.WithTracing(o.Tracing))
	}

	return options
}

func buildServices(store sqlengine.Store, obs observability) (httpapi.Services, error) {
	bookOptions := []books.Option{books.WithContextualLogger(obs.Logger)}
	loanOptions := []loans.Option{loans.WithContextualLogger(obs.Logger)}
	decommissionOptions := []decommission.Option{decommission.WithContextualLogger(obs.Logger)}

	if obs.Metrics != nil {
		bookOptions = append(bookOptions, books.WithMetrics(obs.Metrics))
		loanOptions = append(loanOptions, loans.WithMetrics(obs.Metrics))
		decommissionOptions = append(decommissionOptions, decommission.WithMetrics(obs.Metrics))
	}

	if obs.Tracing != nil {
		bookOptions = append(bookOptions, books.WithTracing(obs.Tracing))
		loanOptions = append(loanOptions, loans.WithTracing(obs.Tracing))
		decommissionOptions = append(decommissionOptions, decommission.WithTracing(obs.Tracing))
	}

	bookService, err := books.NewService(store, bookOptions...)
	if err != nil {
		return httpapi.Services{}, err
	}

	loanService, err := loans.NewService(store, loanOptions...)
	if err != nil {
		return httpapi.Services{}, err
	}

	commandHandler, err := decommission.NewCommandHandler(store, decommissionOptions...)
	if err != nil {
		return httpapi.Services{}, err
	}

	previewHandler, err := decommission.NewPreviewHandler(store, decommissionOptions...)
	if err != nil {
		return httpapi.Services{}, err
	}

	return httpapi.Services{
		Books:        bookService,
		Loans:        loanService,
		Decommission: commandHandler,
		Preview:      previewHandler,
		Health:       store,
	}, nil
}
