// Package payload implements the JSON encoding policy for served data.
//
// The wire contract distinguishes map-like containers from sequences.
// Map-like containers always encode as JSON objects, including when empty:
// {} and never []. Clients index them by key, and an empty container that
// flips to array encoding breaks them silently. Object is the map-like
// type: string-keyed, insertion-ordered, object-encoded at every size.
//
// Sequences stay ordinary slices. Pair is the two-element coordinate
// sequence used for embedding positions.
package payload
