package protocol

import (
	"fmt"
	"sync/atomic"
)

// Version identifies a revision of the metamodel protocol.
type Version int

const (
	V2023_1 Version = iota
	V2024_1
	V2025_1
)

var allVersions = []Version{V2023_1, V2024_1, V2025_1}

// Versions returns every known version in ascending order.
func Versions() []Version {
	out := make([]Version, len(allVersions))
	copy(out, allVersions)
	return out
}

// String returns the canonical textual form, e.g. "2024.1".
func (v Version) String() string {
	switch v {
	case V2023_1:
		return "2023.1"
	case V2024_1:
		return "2024.1"
	case V2025_1:
		return "2025.1"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// Valid reports whether v is one of the known versions.
func (v Version) Valid() bool {
	return v >= V2023_1 && v <= V2025_1
}

// SupportsStructuredDataTypes reports whether the M3 of this version has
// StructuredDataType and Field.
func (v Version) SupportsStructuredDataTypes() bool {
	return v >= V2024_1
}

// Parse converts the canonical textual form back into a Version.
func Parse(s string) (Version, error) {
	for _, v := range allVersions {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown protocol version %q", s)
}

var current atomic.Int32

func init() {
	current.Store(int32(V2024_1))
}

// Current returns the process-wide default version.
func Current() Version {
	return Version(current.Load())
}

// SetCurrent changes the process-wide default version. It panics on an
// unknown version since that is a programming error.
func SetCurrent(v Version) {
	if !v.Valid() {
		panic(fmt.Sprintf("protocol: cannot set unknown version %d as current", int(v)))
	}
	current.Store(int32(v))
}
