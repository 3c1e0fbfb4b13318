// Package middleware provides observability for syringe passes.
//
// Metrics is a syringe.Observer recording Prometheus counters and a pass
// duration histogram:
//
//	reg := prometheus.NewRegistry()
//	s := syringe.New(syringe.Options{
//	    Observer: middleware.NewMetrics(middleware.WithRegistry(reg)),
//	})
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Tracing wraps passes and renders in OpenTelemetry spans:
//
//	tracing := middleware.NewTracing(middleware.WithTracerName("my-app"))
//	children, stats := tracing.Inject(ctx, s, wrapper)
package middleware
