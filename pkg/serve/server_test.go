package serve_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/cellserve/cellserve/pkg/dataset"
	"github.com/cellserve/cellserve/pkg/route"
	"github.com/cellserve/cellserve/pkg/serve"
	"github.com/cellserve/cellserve/pkg/singlecell"
	"github.com/cellserve/cellserve/pkg/wrapper"
)

// --- helpers ----------------------------------------------------------------

func experiment() *singlecell.Experiment {
	return &singlecell.Experiment{
		CellIDs: []string{"c1", "c2"},
		Embeddings: []singlecell.Embedding{
			{Name: "tsne", Coords: [][]float64{{1, 2}, {3, 4}}},
		},
		Annotations: []singlecell.Annotation{
			{Name: "cluster", Values: []string{"a", "b"}},
		},
		Assay: &singlecell.Matrix{
			RowIDs: []string{"g1"},
			ColIDs: []string{"c1", "c2"},
			Values: [][]float64{{5, 6}},
		},
	}
}

// session builds a serving session for the given datasets.
func session(t *testing.T, port int, datasets ...*dataset.Dataset) *serve.Session {
	t.Helper()
	tbl := route.NewTable()
	m, err := dataset.Build(port, tbl, datasets...)
	if err != nil {
		t.Fatalf("build session: %v", err)
	}
	return &serve.Session{Table: tbl, Manifest: m}
}

// startServer swaps in a session over a fresh server and returns the test
// server plus the serve.Server for later swaps.
func startServer(t *testing.T, sess *serve.Session) (*httptest.Server, *serve.Server) {
	t.Helper()
	s := serve.New()
	if sess != nil {
		s.Swap(sess)
	}
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return srv, s
}

// get fetches path and returns the response with its body read.
func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body of %s: %v", path, err)
	}
	return resp, body
}

func pbmcDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	d, err := dataset.New("pbmc")
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	d.AddObject(wrapper.NewSingleCell(experiment()))
	return d
}

// --- data routes ------------------------------------------------------------

func TestServer_ServesDataRoute(t *testing.T) {
	srv, _ := startServer(t, session(t, 8000, pbmcDataset(t)))

	resp, body := get(t, srv, "/pbmc/0/cells")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cors := resp.Header.Get("Access-Control-Allow-Origin"); cors != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", cors)
	}

	var cells map[string]struct {
		Mappings map[string][]float64 `json:"mappings"`
	}
	if err := json.Unmarshal(body, &cells); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if got := cells["c2"].Mappings["tsne"]; len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("c2 tsne = %v", got)
	}
}

func TestServer_EmptyCellsPayloadIsObject(t *testing.T) {
	d, err := dataset.New("empty")
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	d.AddObject(wrapper.NewSingleCell(&singlecell.Experiment{CellIDs: []string{}}))
	srv, _ := startServer(t, session(t, 8000, d))

	resp, body := get(t, srv, "/empty/0/cells")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if string(body) != "{}" {
		t.Errorf("empty payload = %s, want {}", body)
	}
}

func TestServer_UnknownPathReturns404(t *testing.T) {
	srv, _ := startServer(t, session(t, 8000, pbmcDataset(t)))

	resp, body := get(t, srv, "/pbmc/0/raster")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
		t.Errorf("expected JSON error body, got %s", body)
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv, _ := startServer(t, session(t, 8000, pbmcDataset(t)))

	for _, path := range []string{"/pbmc/0/cells", "/manifest", "/health", "/metrics"} {
		resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader("{}"))
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: status = %d, want 405", path, resp.StatusCode)
		}
	}
}

func TestServer_NoSessionReturns503(t *testing.T) {
	srv, _ := startServer(t, nil)

	for _, path := range []string{"/pbmc/0/cells", "/manifest"} {
		resp, _ := get(t, srv, path)
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("GET %s: status = %d, want 503", path, resp.StatusCode)
		}
	}
}

// --- manifest ---------------------------------------------------------------

func TestServer_ManifestListsFiles(t *testing.T) {
	srv, _ := startServer(t, session(t, 8000, pbmcDataset(t)))

	resp, body := get(t, srv, "/manifest")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var m struct {
		Datasets []struct {
			UID   string `json:"uid"`
			Files []struct {
				Type     string `json:"type"`
				FileType string `json:"fileType"`
				URL      string `json:"url"`
			} `json:"files"`
		} `json:"datasets"`
		GeneratedAt string `json:"generatedAt"`
	}
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(m.Datasets) != 1 || m.Datasets[0].UID != "pbmc" {
		t.Fatalf("unexpected manifest: %s", body)
	}
	if m.GeneratedAt == "" {
		t.Error("generatedAt missing")
	}
	if len(m.Datasets[0].Files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(m.Datasets[0].Files))
	}
}

func TestServer_ManifestURLsResolve(t *testing.T) {
	srv, _ := startServer(t, session(t, 8000, pbmcDataset(t)))

	_, body := get(t, srv, "/manifest")
	var m struct {
		Datasets []struct {
			Files []struct {
				URL string `json:"url"`
			} `json:"files"`
		} `json:"datasets"`
	}
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Every advertised URL path must dispatch against the same server.
	for _, d := range m.Datasets {
		for _, f := range d.Files {
			u, err := url.Parse(f.URL)
			if err != nil {
				t.Fatalf("bad url %q: %v", f.URL, err)
			}
			resp, _ := get(t, srv, u.Path)
			if resp.StatusCode != http.StatusOK {
				t.Errorf("GET %s: status = %d", u.Path, resp.StatusCode)
			}
		}
	}
}

// --- health -----------------------------------------------------------------

func TestServer_HealthBeforeFirstSession(t *testing.T) {
	srv, _ := startServer(t, nil)

	resp, body := get(t, srv, "/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var h serve.HealthResponse
	if err := json.Unmarshal(body, &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if h.Status != "starting" || h.Routes != 0 {
		t.Errorf("unexpected health: %+v", h)
	}
}

func TestServer_HealthCounts(t *testing.T) {
	srv, _ := startServer(t, session(t, 8000, pbmcDataset(t)))

	_, body := get(t, srv, "/health")
	var h serve.HealthResponse
	if err := json.Unmarshal(body, &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if h.Status != "serving" {
		t.Errorf("status = %q", h.Status)
	}
	if h.Datasets != 1 || h.Routes != 3 || h.Files != 3 {
		t.Errorf("counts = %+v", h)
	}
}

// --- metrics ----------------------------------------------------------------

func TestServer_MetricsExposition(t *testing.T) {
	srv, _ := startServer(t, session(t, 8000, pbmcDataset(t)))

	// Serve one payload so the request counter moves.
	if resp, _ := get(t, srv, "/pbmc/0/cells"); resp.StatusCode != http.StatusOK {
		t.Fatalf("data route failed: %d", resp.StatusCode)
	}

	resp, body := get(t, srv, "/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(strings.NewReader(string(body)))
	if err != nil {
		t.Fatalf("exposition does not parse: %v", err)
	}

	served, ok := mfs["cellserve_requests_served_total"]
	if !ok {
		t.Fatalf("cellserve_requests_served_total missing, have %v", keys(mfs))
	}
	if v := served.GetMetric()[0].GetCounter().GetValue(); v < 1 {
		t.Errorf("served counter = %v, want >= 1", v)
	}

	routes, ok := mfs["cellserve_routes"]
	if !ok {
		t.Fatal("cellserve_routes missing")
	}
	if v := routes.GetMetric()[0].GetGauge().GetValue(); v != 3 {
		t.Errorf("routes gauge = %v, want 3", v)
	}

	if _, ok := mfs["cellserve_session_swaps_total"]; !ok {
		t.Error("cellserve_session_swaps_total missing")
	}
}

// keys lists the family names in a parsed exposition.
func keys(mfs map[string]*dto.MetricFamily) []string {
	out := make([]string, 0, len(mfs))
	for name := range mfs {
		out = append(out, name)
	}
	return out
}

// --- session swap -----------------------------------------------------------

func TestServer_SwapReplacesSession(t *testing.T) {
	srv, s := startServer(t, session(t, 8000, pbmcDataset(t)))

	if resp, _ := get(t, srv, "/pbmc/0/cells"); resp.StatusCode != http.StatusOK {
		t.Fatalf("initial route failed: %d", resp.StatusCode)
	}

	d, err := dataset.New("brain")
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	d.AddObject(wrapper.NewSingleCell(experiment()))
	s.Swap(session(t, 8000, d))

	if resp, _ := get(t, srv, "/brain/0/cells"); resp.StatusCode != http.StatusOK {
		t.Errorf("new session route not served: %d", resp.StatusCode)
	}
	if resp, _ := get(t, srv, "/pbmc/0/cells"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("old session route should be gone, got %d", resp.StatusCode)
	}
}
