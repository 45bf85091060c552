package metrics

import (
    "net/http"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
    uploadsTotal = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "pagedeck",
            Name:      "uploads_total",
            Help:      "Uploaded source files by result (loaded, rejected)",
        },
        []string{"result"},
    )

    pagesRegistered = prometheus.NewCounter(
        prometheus.CounterOpts{
            Namespace: "pagedeck",
            Name:      "pages_registered_total",
            Help:      "Page references appended to the workspace",
        },
    )

    assemblyTotal = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "pagedeck",
            Name:      "assembly_total",
            Help:      "Assembly operations by mode (merge, split) and result",
        },
        []string{"mode", "result"},
    )

    assemblyDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "pagedeck",
            Name:      "assembly_duration_seconds",
            Help:      "Duration of assembly operations by mode",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"mode"},
    )

    assemblyPages = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "pagedeck",
            Name:      "assembly_pages",
            Help:      "Pages per assembly operation by mode",
            Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
        },
        []string{"mode"},
    )

    renderDuration = prometheus.NewHistogram(
        prometheus.HistogramOpts{
            Namespace: "pagedeck",
            Name:      "thumbnail_render_duration_seconds",
            Help:      "Duration of thumbnail renders",
            Buckets:   prometheus.DefBuckets,
        },
    )

    rendersTotal = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "pagedeck",
            Name:      "thumbnail_renders_total",
            Help:      "Thumbnail renders by result (hit, rendered, failed)",
        },
        []string{"result"},
    )

    insightReqs = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "pagedeck",
            Name:      "insight_provider_requests_total",
            Help:      "Insight provider requests by provider, model and result",
        },
        []string{"provider", "model", "result"},
    )
)

// Init registers collectors.
func Init() {
    prometheus.MustRegister(uploadsTotal, pagesRegistered, assemblyTotal, assemblyDuration, assemblyPages, renderDuration, rendersTotal, insightReqs)
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func IncUpload(result string) { uploadsTotal.WithLabelValues(result).Inc() }

func AddPages(n int) { pagesRegistered.Add(float64(n)) }

// ObserveAssembly records a successful assembly pass.
func ObserveAssembly(mode string, pages int, dur time.Duration) {
    assemblyTotal.WithLabelValues(mode, "success").Inc()
    assemblyDuration.WithLabelValues(mode).Observe(dur.Seconds())
    assemblyPages.WithLabelValues(mode).Observe(float64(pages))
}

func IncAssemblyFailed(mode string) { assemblyTotal.WithLabelValues(mode, "failed").Inc() }

func ObserveRender(dur time.Duration) { renderDuration.Observe(dur.Seconds()) }

func IncRender(result string) { rendersTotal.WithLabelValues(result).Inc() }

func ObserveInsight(provider, model, result string) {
    insightReqs.WithLabelValues(provider, model, result).Inc()
}
