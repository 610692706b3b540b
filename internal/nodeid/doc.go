// internal/nodeid/doc.go

/*
Package nodeid centralizes the syntax of node identifiers.

An identifier is a non-empty sequence of ASCII letters, digits, `_` and `-`,
e.g. `calc-sum-1` or a UUID. Identifiers are unique within a tree; this
package only checks their shape, uniqueness is the sanity checker's job.
*/
package nodeid
