package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vk/metareg/internal/ctxlog"
	"github.com/vk/metareg/internal/sanity"
	"github.com/vk/metareg/internal/serialization"
	"github.com/vk/metareg/internal/tracing"
)

var tracer = otel.Tracer("github.com/vk/metareg/internal/app")

// FileReport is the outcome of checking one chunk file.
type FileReport struct {
	Path  string
	Roots int
	Nodes int
	// DumpPath is set when a failing tree was written to disk.
	DumpPath string
	Err      error
}

// Check deserializes every file as a JSON chunk with an engine prepared from
// the registry and checks each root. Identities must be unique across the
// roots of a file. The returned error joins the failures of all files.
func (a *App) Check(ctx context.Context, files ...string) ([]FileReport, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	reports := make([]FileReport, 0, len(files))
	var errs []error
	for _, path := range files {
		r := a.checkFile(ctx, path)
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, r.Err))
		}
		reports = append(reports, r)
	}
	return reports, errors.Join(errs...)
}

func (a *App) checkFile(ctx context.Context, path string) FileReport {
	ctx, span := tracer.Start(ctx, tracing.SpanPrefixApp+"check_file",
		trace.WithAttributes(
			attribute.String(tracing.AttrChunkFile, path),
			attribute.String(tracing.AttrProtocolVersion, a.version.String()),
		),
	)
	defer span.End()
	logger := ctxlog.FromContext(ctx).With("file", path)

	report := FileReport{Path: path}
	fail := func(err error) FileReport {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		report.Err = err
		return report
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(err)
	}

	engine := serialization.NewJSON(a.version)
	if err := a.registry.PrepareJSONSerialization(ctx, engine); err != nil {
		return fail(err)
	}
	roots, err := engine.DeserializeJSON(data)
	if err != nil {
		return fail(err)
	}
	report.Roots = len(roots)
	span.SetAttributes(attribute.Int(tracing.AttrChunkRoots, len(roots)))

	var checkerOpts []sanity.Option
	checkerOpts = append(checkerOpts, sanity.WithDumpPath(a.config.DumpPath))
	if a.config.DisableChecks {
		checkerOpts = append(checkerOpts, sanity.WithDisabled())
	}
	checker := sanity.New(engine, checkerOpts...)

	seen := make(map[string]string)
	for _, root := range roots {
		if err := checker.CheckWith(ctx, root, seen); err != nil {
			var checkErr *sanity.CheckError
			if errors.As(err, &checkErr) {
				report.DumpPath = checkErr.DumpPath
			}
			return fail(err)
		}
	}
	report.Nodes = len(seen)

	logger.Debug("Chunk passed the tree check.", "roots", report.Roots, "nodes", report.Nodes)
	span.SetStatus(codes.Ok, "")
	return report
}
