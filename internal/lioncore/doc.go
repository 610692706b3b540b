// Package lioncore provides the built-in languages every protocol version
// ships with: the builtins (Node, String, Integer, Boolean, INamed and, in
// 2023.1, JSON) and the M3 language describing languages themselves.
//
// Instances are built once per version and shared, so pointer identity can be
// used as a map key.
package lioncore
