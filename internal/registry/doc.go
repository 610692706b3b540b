// Package registry maps application type tags to metamodel classifiers and
// primitive types, separately for every protocol version.
//
// A Registry is created once per application with New, which bootstraps the
// builtin mappings of every protocol version: the Node concept, the String,
// Integer and Boolean primitive types, and the M3 classifiers. The
// application then adds its own mappings with RegisterClassifier and
// RegisterPrimitiveType during startup.
//
// # Lifecycle
//
// Registration is single-writer and must finish before the registry is
// shared. Afterwards lookups and the Prepare* calls only read, so any number
// of goroutines may use them concurrently. The registry does no locking of
// its own.
//
// # Preparing an engine
//
// PrepareJSONSerialization pushes the accumulated knowledge into a
// serialization engine: a factory per instantiable classifier mapping and
// every registered primitive codec.
//
// # Lookups
//
// Lookups return a (value, ok) pair. A missing mapping is an expected
// outcome and is never reported as an error; only registrations that break
// an invariant fail, with ErrConstraintViolation.
package registry
