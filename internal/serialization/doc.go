// Package serialization is the JSON chunk engine the registry prepares.
//
// A JSONSerialization is bound to one protocol version. It owns an
// Instantiator, which decides how incoming serialized nodes become in-memory
// nodes, and a PrimitiveValues table, which converts property values to and
// from their textual form. The registry fills both through
// RegisterCustomDeserializer and RegisterSerializer/RegisterDeserializer.
//
// Children that are not part of a chunk are materialized as proxies, so a
// partial tree can be deserialized and checked without its surroundings.
package serialization
