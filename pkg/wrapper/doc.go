// Package wrapper defines the polymorphic contract that adapts in-memory
// domain objects to the canonical serving scheme.
//
// A Wrapper exposes one capability per data type in the vocab catalog. Each
// capability is a pure read-only transform: given the serving port, the
// owning dataset uid, and the object's index, it returns the routes to
// register and the file definitions describing them, without touching any
// shared state. Registration is the caller's job, which keeps capability
// calls retryable and order-free.
//
// Concrete wrappers embed Unimplemented and override only the capabilities
// their object shape can supply; probing an unimplemented capability yields
// an empty Result and no error, in the style of gRPC's Unimplemented*Server
// base types. Capabilities lists the full vocabulary in serving order so a
// caller can probe every wrapper uniformly.
//
// A capability that cannot honor its contract because the wrapped object
// lacks the data fails with ErrMissingField. That failure is scoped to the
// one capability call; other capabilities of the same wrapper stay usable.
package wrapper
