package manifest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/metareg/internal/ctxlog"
	"github.com/vk/metareg/internal/fsutil"
)

// Loader reads manifests from files and directories.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// FileLoader parses a single manifest file.
type FileLoader interface {
	Loader
	// Extensions lists the file name suffixes the loader understands.
	Extensions() []string
	LoadFile(ctx context.Context, path string) ([]*LanguageDef, error)
}

// loadAll finds the files under paths that fl understands and loads them in
// path order.
func loadAll(ctx context.Context, fl FileLoader, paths []string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(paths, fl.Extensions()...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files), "extensions", fl.Extensions())

	model := &Model{}
	for _, file := range files {
		defs, err := fl.LoadFile(ctx, file)
		if err != nil {
			return nil, err
		}
		model.Languages = append(model.Languages, defs...)
	}
	return model, nil
}

// MultiLoader dispatches every file to the loader registered for its
// extension.
type MultiLoader struct {
	loaders []FileLoader
}

// NewMultiLoader returns a loader for the union of the extensions of
// loaders. Without arguments it understands HCL and YAML.
func NewMultiLoader(loaders ...FileLoader) *MultiLoader {
	if len(loaders) == 0 {
		loaders = []FileLoader{NewHCLLoader(), NewYAMLLoader()}
	}
	return &MultiLoader{loaders: loaders}
}

func (m *MultiLoader) Extensions() []string {
	var out []string
	for _, l := range m.loaders {
		out = append(out, l.Extensions()...)
	}
	return out
}

// LoadFile loads path with the first loader that understands it.
func (m *MultiLoader) LoadFile(ctx context.Context, path string) ([]*LanguageDef, error) {
	for _, l := range m.loaders {
		for _, ext := range l.Extensions() {
			if strings.HasSuffix(path, ext) {
				return l.LoadFile(ctx, path)
			}
		}
	}
	return nil, fmt.Errorf("no manifest loader for %s files", filepath.Ext(path))
}

func (m *MultiLoader) Load(ctx context.Context, paths ...string) (*Model, error) {
	model, err := loadAll(ctx, m, paths)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Manifest loading complete.", "languages", len(model.Languages))
	return model, nil
}
