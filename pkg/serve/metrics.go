package serve

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// counters tracks serving activity for the /metrics endpoint.
type counters struct {
	started      time.Time
	served       atomic.Int64
	notFound     atomic.Int64
	failed       atomic.Int64
	payloadBytes atomic.Int64
	sessionSwaps atomic.Int64
}

func newCounters() *counters {
	return &counters{started: time.Now()}
}

// families renders the counters as Prometheus metric families, plus gauges
// for the current session's shape.
func (c *counters) families(routes, datasets int) []*dto.MetricFamily {
	return []*dto.MetricFamily{
		counterFamily("cellserve_requests_served_total",
			"Data route requests answered with a payload.",
			float64(c.served.Load())),
		counterFamily("cellserve_requests_not_found_total",
			"Requests for paths with no registered route.",
			float64(c.notFound.Load())),
		counterFamily("cellserve_payload_failures_total",
			"Dispatches whose payload build failed.",
			float64(c.failed.Load())),
		counterFamily("cellserve_payload_bytes_total",
			"Total payload bytes served over data routes.",
			float64(c.payloadBytes.Load())),
		counterFamily("cellserve_session_swaps_total",
			"Serving sessions installed, including the first.",
			float64(c.sessionSwaps.Load())),
		gaugeFamily("cellserve_routes",
			"Routes registered in the current session.",
			float64(routes)),
		gaugeFamily("cellserve_datasets",
			"Datasets in the current session.",
			float64(datasets)),
		gaugeFamily("cellserve_uptime_seconds",
			"Seconds since the server started.",
			time.Since(c.started).Seconds()),
	}
}

func counterFamily(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{Counter: &dto.Counter{Value: proto.Float64(v)}}},
	}
}

func gaugeFamily(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(v)}}},
	}
}

// metrics serves GET /metrics in Prometheus text exposition format.
func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	routes, datasets := 0, 0
	if sess := s.currentSession(); sess != nil {
		routes = sess.Table.Len()
		datasets = len(sess.Manifest.Datasets)
	}

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range s.counters.families(routes, datasets) {
		if err := enc.Encode(mf); err != nil {
			slog.Error("metrics encode failed", "family", mf.GetName(), "err", err)
			return
		}
	}
}
