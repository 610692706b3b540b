package registry

import "errors"

var (
	// ErrConstraintViolation is returned when a registration would make a tag
	// stand for both a node type and a primitive type, or is otherwise invalid.
	ErrConstraintViolation = errors.New("registry constraint violation")

	// ErrMissingNodeID is returned by prepared factories when the serialized
	// node carries no id but the constructed instance needs one. It indicates
	// a broken chunk and is never retried.
	ErrMissingNodeID = errors.New("serialized node has no id")
)
