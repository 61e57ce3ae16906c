// Package singlecell defines the in-memory single-cell objects that
// wrappers serve from.
//
// An Experiment carries per-cell structure: cell identifiers, named
// dimensionality-reduction embeddings, named categorical annotations, and
// optionally a dense expression Matrix. All per-cell slices are aligned by
// position with CellIDs, and stored order is meaningful everywhere; nothing
// in this package sorts.
//
// Objects are built once, validated, and then treated as read-only while
// being served.
package singlecell
