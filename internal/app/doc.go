// Package app wires the registry, the manifests, the serialization engine
// and the tree checker into one application instance, decoupled from any
// specific entrypoint like a CLI.
package app
