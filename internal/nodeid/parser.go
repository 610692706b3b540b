// internal/nodeid/parser.go
package nodeid

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrEmpty is returned for the empty identifier.
var ErrEmpty = errors.New("identifier cannot be empty")

// idRegex matches a well-formed node identifier.
var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Validate checks that rawID is a well-formed node identifier.
func Validate(rawID string) error {
	if rawID == "" {
		return ErrEmpty
	}
	if !idRegex.MatchString(rawID) {
		return fmt.Errorf("invalid node identifier %q: only letters, digits, '_' and '-' are allowed", rawID)
	}
	return nil
}

// New returns a fresh random identifier.
func New() string {
	return uuid.NewString()
}

// Derive builds an identifier from parts joined by '-', e.g. a language id
// and a classifier name. It does not validate the result.
func Derive(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "-")
}
