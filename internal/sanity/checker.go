package sanity

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vk/metareg/internal/ctxlog"
	"github.com/vk/metareg/internal/node"
	"github.com/vk/metareg/internal/tracing"
)

// DefaultDumpPath is relative to the working directory.
const DefaultDumpPath = "error.json"

var tracer = otel.Tracer("github.com/vk/metareg/internal/sanity")

// Serializer renders trees for the failure dump.
type Serializer interface {
	SerializeTreesToJSON(roots ...node.Node) ([]byte, error)
}

// Checker validates trees. It holds no state between checks and is safe for
// concurrent use.
type Checker struct {
	serializer Serializer
	dumpPath   string
	disabled   bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithDumpPath overrides the file the failing tree is written to.
func WithDumpPath(path string) Option {
	return func(c *Checker) { c.dumpPath = path }
}

// WithDisabled turns every check into a no-op.
func WithDisabled() Option {
	return func(c *Checker) { c.disabled = true }
}

// New returns a checker that dumps failing trees with serializer. A nil
// serializer disables the dump but not the check.
func New(serializer Serializer, opts ...Option) *Checker {
	c := &Checker{serializer: serializer, dumpPath: DefaultDumpPath}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check verifies the tree below n.
func (c *Checker) Check(ctx context.Context, n node.Node) error {
	return c.CheckWith(ctx, n, make(map[string]string))
}

// CheckWith verifies the tree below n, recording every visited id in seen
// mapped to its parent id ("" for none). Ids already in seen count as
// visited.
func (c *Checker) CheckWith(ctx context.Context, n node.Node, seen map[string]string) error {
	if c.disabled || n == nil {
		return nil
	}

	checkID := uuid.NewString()
	ctx, logger := ctxlog.With(ctx, "check_id", checkID)
	ctx, span := tracer.Start(ctx, tracing.SpanPrefixSanity+"check",
		trace.WithAttributes(
			attribute.String(tracing.AttrCheckID, checkID),
			attribute.String(tracing.AttrNodeID, n.ID()),
		),
	)
	defer span.End()

	before := len(seen)
	err := safeWalk(n, seen)
	span.SetAttributes(attribute.Int(tracing.AttrVisited, len(seen)-before))
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	logger.Error("Tree check failed.", "node", n.ID(), "error", err)

	root := node.Root(n)
	checkErr := &CheckError{CheckID: checkID, RootID: root.ID(), Err: err}
	if c.dump(ctx, logger, root) {
		checkErr.DumpPath = c.dumpPath
	}
	return checkErr
}

// safeWalk turns a panic raised by a node implementation into an error so
// that it reaches the dump like any other failure.
func safeWalk(n node.Node, seen map[string]string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during tree check: %v", r)
		}
	}()
	return walk(n, seen)
}

func walk(n node.Node, seen map[string]string) error {
	if node.IsProxy(n) {
		return nil
	}
	id := n.ID()
	if id == "" {
		return violation("node of %s has no id", n.Classifier())
	}
	if parentID, dup := seen[id]; dup {
		return violation("duplicate node identity %q (first seen under %q)", id, parentID)
	}
	parentID := ""
	if p := n.Parent(); p != nil {
		parentID = p.ID()
	}
	seen[id] = parentID

	c := n.Classifier()
	if c == nil {
		return violation("node %q has no classifier", id)
	}

	var children []node.Node
	for _, ct := range c.AllContainments() {
		kids := n.Children(ct)
		ids := make(map[string]struct{}, len(kids))
		for _, k := range kids {
			if k == nil {
				return violation("containment %s of %q holds a nil child", ct.Name, id)
			}
			kid := k.ID()
			if kid == "" {
				return violation("containment %s of %q holds a child without id", ct.Name, id)
			}
			if _, dup := ids[kid]; dup {
				return violation("child %q appears twice in containment %s of %q", kid, ct.Name, id)
			}
			ids[kid] = struct{}{}
		}
		children = append(children, kids...)
	}

	for _, k := range children {
		if err := walk(k, seen); err != nil {
			return err
		}
	}
	return nil
}

// dump writes root to the dump path and reports whether it succeeded.
func (c *Checker) dump(ctx context.Context, logger *slog.Logger, root node.Node) bool {
	span := trace.SpanFromContext(ctx)
	if c.serializer == nil {
		logger.Warn("No serializer configured, skipping tree dump.")
		return false
	}

	data, err := c.serialize(root)
	if err != nil {
		logger.Error("Failed to serialize tree for dump.", "root", root.ID(), "error", err)
		span.AddEvent(tracing.EventDumpFailed, trace.WithAttributes(attribute.String(tracing.AttrErrorMessage, err.Error())))
		return false
	}
	if err := os.WriteFile(c.dumpPath, data, 0o644); err != nil {
		logger.Error("Failed to write tree dump.", "path", c.dumpPath, "error", err)
		span.AddEvent(tracing.EventDumpFailed, trace.WithAttributes(attribute.String(tracing.AttrErrorMessage, err.Error())))
		return false
	}

	logger.Info("Wrote failing tree.", "path", c.dumpPath, "root", root.ID())
	span.AddEvent(tracing.EventDumpWritten, trace.WithAttributes(attribute.String(tracing.AttrDumpPath, c.dumpPath)))
	return true
}

func (c *Checker) serialize(root node.Node) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during serialization: %v", r)
		}
	}()
	return c.serializer.SerializeTreesToJSON(root)
}
