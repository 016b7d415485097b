// Package middleware provides observability for navigation pipelines.
//
// Each helper wraps a sub-pipeline and observes how it resolves:
//   - Logging writes one slog record per resolution
//   - Metrics records Prometheus counters, durations and in-flight navigations
//   - Tracing opens an OpenTelemetry span per resolution
//
// Incoming errors pass through the wrapped pipeline without being observed.
//
// # Prometheus Metrics
//
//	metrics := middleware.NewMetrics(middleware.WithNamespace("myapp"))
//	r := pipeline.New(metrics.Wrap(router.Routes(routes...)))
//
// Then expose metrics on a separate port:
//
//	http.Handle("/metrics", promhttp.Handler())
//	go http.ListenAndServe(":9090", nil)
//
// # OpenTelemetry
//
//	tracing := middleware.NewTracing(middleware.WithTracerName("my-app"))
//	r := pipeline.New(tracing.Wrap(router.Routes(routes...)))
//
// The span is stored in the state's context, so loaders that use
// State.Context inherit the trace:
//
//	GetComponent: func(s pipeline.State, cb func(error, any)) {
//	    req, _ := http.NewRequestWithContext(s.Context(), "GET", url, nil)
//	    ...
//	}
//
// # Composition
//
// The wrappers nest like any other middleware:
//
//	r := pipeline.New(
//	    middleware.Logging(logger,
//	        tracing.Wrap(
//	            metrics.Wrap(router.Routes(routes...)),
//	        ),
//	    ),
//	)
package middleware
