// Package sanity verifies that a node graph is a proper tree before it is
// serialized.
//
// The check walks down from a node and fails when a node is reachable twice,
// when a child has no id, or when an id repeats inside one containment.
// Proxies are treated as opaque leaves. On failure the root of the inspected
// tree is serialized into a dump file (error.json in the working directory
// by default) so the broken tree can be inspected offline. Failing to write
// the dump is logged and never replaces the original error.
//
// The checker is a debugging aid. Production paths that cannot afford the
// walk construct it WithDisabled.
package sanity
