// Package metrics exports Prometheus metrics for render cycles and server
// sessions.
//
// A Collector implements driver.Observer, so it can be passed wherever an
// observer is accepted:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(metrics.WithRegistry(reg))
//	a := app.New(app.Config[Model, Msg]{
//	    Init:     initModel,
//	    Update:   update,
//	    View:     view,
//	    Observer: m,
//	})
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// The server package additionally reports sessions, frames and client events
// through the same collector.
package metrics
