// Package language holds the M3 entities the registry maps host types onto:
// languages, classifiers (concepts, interfaces, annotations), primitive types
// and the features classifiers declare.
//
// Every entity is scoped to the protocol version of the language that owns
// it, so the same conceptual classifier has one instance per version.
package language
