// Package route builds and dispatches the canonical serving paths.
//
// Every payload of every wrapped object is served under
// /<dataset>/<objectIndex>/<suffix>, where the suffix is the payload's data
// type name. Path and URL are the only places this scheme is spelled out;
// wrappers, manifests, and tests all go through them, so the scheme cannot
// drift between the route table and the URLs handed to clients.
//
// Table holds the (path, responder) bindings of one serving session. It is
// append-only: routes are registered during session setup and never updated
// or removed. A rebuild produces a whole new Table.
package route
