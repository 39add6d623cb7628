// Package metrics records transfer activity as Prometheus metrics and writes
// them in the node-exporter textfile format.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/glorpus-work/pxget/pkg/fsutil"
	"github.com/glorpus-work/pxget/pkg/transfer"
)

// Recorder collects the metrics of one pxget run.
type Recorder struct {
	registry *prometheus.Registry
	now      func() time.Time

	connects         prometheus.Counter
	reconnects       prometheus.Counter
	listings         prometheus.Counter
	filesTotal       *prometheus.CounterVec
	bytesDownloaded  prometheus.Counter
	downloadDuration prometheus.Histogram
	lastRun          prometheus.Gauge

	mu      sync.Mutex
	started map[string]time.Time
}

// New creates a recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		now:      time.Now,
		started:  map[string]time.Time{},

		connects: factory.NewCounter(prometheus.CounterOpts{
			Name: "pxget_ftp_connects_total",
			Help: "Total number of FTP sessions established",
		}),
		reconnects: factory.NewCounter(prometheus.CounterOpts{
			Name: "pxget_ftp_reconnects_total",
			Help: "Total number of FTP reconnect attempts after a transport failure",
		}),
		listings: factory.NewCounter(prometheus.CounterOpts{
			Name: "pxget_ftp_listings_total",
			Help: "Total number of remote directories listed",
		}),
		filesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pxget_files_total",
			Help: "Total number of files handled by download batches",
		}, []string{"result"}),
		bytesDownloaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "pxget_bytes_downloaded_total",
			Help: "Total bytes retrieved from remote repositories",
		}),
		downloadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pxget_file_download_duration_seconds",
			Help:    "Time to retrieve a single file",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pxget_last_run_timestamp_seconds",
			Help: "Unix time the metrics were last written",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Hooks returns transfer hooks feeding this recorder.
func (r *Recorder) Hooks() transfer.Hooks {
	return transfer.Hooks{OnEvent: r.Observe}
}

// Observe records a single transfer event.
func (r *Recorder) Observe(e transfer.Event) {
	switch e.Phase {
	case transfer.PhaseConnect:
		r.connects.Inc()
	case transfer.PhaseReconnect:
		r.reconnects.Inc()
	case transfer.PhaseList:
		r.listings.Inc()
	case transfer.PhaseFileSkip:
		r.filesTotal.WithLabelValues("skipped").Inc()
	case transfer.PhaseFileStart:
		r.mu.Lock()
		r.started[e.Path] = r.now()
		r.mu.Unlock()
	case transfer.PhaseFileDone:
		r.filesTotal.WithLabelValues("downloaded").Inc()
		r.bytesDownloaded.Add(float64(e.Bytes))
		r.mu.Lock()
		if start, ok := r.started[e.Path]; ok {
			r.downloadDuration.Observe(r.now().Sub(start).Seconds())
			delete(r.started, e.Path)
		}
		r.mu.Unlock()
	}
}

// WriteTextfile stamps the run time and writes all metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := fsutil.EnsureFileDir(path); err != nil {
		return err
	}
	r.lastRun.Set(float64(r.now().Unix()))
	return prometheus.WriteToTextfile(path, r.registry)
}
