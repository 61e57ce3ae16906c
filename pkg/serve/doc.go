// Package serve exposes a serving session over local HTTP.
//
// A Session pairs a fully-built route.Table with the dataset.Manifest that
// describes it. Sessions are immutable; Swap installs a new one atomically,
// so a rebuild never tears an in-flight request. Data routes are served
// under /<dataset>/<objectIndex>/<suffix>; alongside them the server exposes
// /manifest, /health, /metrics in Prometheus text format, and /ws for
// live-reload notifications.
//
// All payloads are JSON with a permissive CORS header, since the expected
// client is a browser-based viewer on another origin.
package serve
