package tracing

// Span attribute keys.
const (
	AttrProtocolVersion = "metareg.protocol_version"
	AttrFactories       = "metareg.instantiator.factories"
	AttrSerializers     = "metareg.codecs.serializers"
	AttrDeserializers   = "metareg.codecs.deserializers"

	AttrCheckID  = "sanity.check.id"
	AttrNodeID   = "sanity.node.id"
	AttrVisited  = "sanity.nodes.visited"
	AttrDumpPath = "sanity.dump.path"

	AttrChunkFile  = "app.chunk.file"
	AttrChunkRoots = "app.chunk.roots"

	AttrErrorMessage = "error.message"
)

// Span name prefixes.
const (
	SpanPrefixRegistry = "registry."
	SpanPrefixSanity   = "sanity."
	SpanPrefixApp      = "app."
)

// Event names.
const (
	EventDumpWritten = "dump.written"
	EventDumpFailed  = "dump.failed"
)
