// Package protocol defines the revisions of the metamodel protocol that the
// registry partitions its state by.
//
// Versions are totally ordered. A process-wide current version is kept for
// callers that do not pick one explicitly; components that own their own state
// (the registry, a serialization engine) snapshot it when they are built.
package protocol
