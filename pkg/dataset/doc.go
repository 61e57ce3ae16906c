// Package dataset groups wrapped objects into datasets and builds serving
// sessions from them.
//
// A Dataset is an ordered collection of wrappers under one uid; object
// indices are assigned sequentially at AddObject and never change. Build
// probes every capability of every object, registers the produced routes
// into a route.Table, and aggregates the file definitions into a Manifest.
//
// Build fails fast on contract violations (out-of-catalog identifiers,
// duplicate route paths) but treats a missing-field failure as a per-
// capability skip: the capability is logged and dropped, and the rest of
// the session still builds.
package dataset
