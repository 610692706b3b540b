package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/metareg/internal/ctxlog"
	"github.com/vk/metareg/internal/language"
)

// hclFile is the top-level structure of an HCL manifest.
type hclFile struct {
	Languages []*hclLanguage `hcl:"language,block"`
}

type hclLanguage struct {
	Key      string `hcl:"key,label"`
	ID       string `hcl:"id,optional"`
	Name     string `hcl:"name,optional"`
	Version  string `hcl:"version"`
	Protocol string `hcl:"protocol,optional"`

	Primitives  []*hclPrimitive  `hcl:"primitive,block"`
	Concepts    []*hclClassifier `hcl:"concept,block"`
	Interfaces  []*hclClassifier `hcl:"interface,block"`
	Annotations []*hclClassifier `hcl:"annotation,block"`
}

type hclPrimitive struct {
	Name  string `hcl:"name,label"`
	ID    string `hcl:"id,optional"`
	Key   string `hcl:"key,optional"`
	Tag   string `hcl:"tag,optional"`
	Codec string `hcl:"codec,optional"`
}

type hclClassifier struct {
	Name         string   `hcl:"name,label"`
	ID           string   `hcl:"id,optional"`
	Key          string   `hcl:"key,optional"`
	Tag          string   `hcl:"tag,optional"`
	Abstract     bool     `hcl:"abstract,optional"`
	Extends      string   `hcl:"extends,optional"`
	Implements   []string `hcl:"implements,optional"`
	Annotates    string   `hcl:"annotates,optional"`
	Instantiable *bool    `hcl:"instantiable,optional"`

	Containments []*hclLink     `hcl:"containment,block"`
	References   []*hclLink     `hcl:"reference,block"`
	Properties   []*hclProperty `hcl:"property,block"`
}

type hclLink struct {
	Name     string `hcl:"name,label"`
	Type     string `hcl:"type"`
	Multiple bool   `hcl:"multiple,optional"`
	Optional bool   `hcl:"optional,optional"`
}

type hclProperty struct {
	Name     string `hcl:"name,label"`
	Type     string `hcl:"type"`
	Optional bool   `hcl:"optional,optional"`
}

// HCLLoader reads manifests written in HCL.
type HCLLoader struct{}

func NewHCLLoader() *HCLLoader {
	return &HCLLoader{}
}

func (l *HCLLoader) Extensions() []string { return []string{".hcl"} }

func (l *HCLLoader) Load(ctx context.Context, paths ...string) (*Model, error) {
	return loadAll(ctx, l, paths)
}

// LoadFile parses and decodes a single HCL manifest.
func (l *HCLLoader) LoadFile(ctx context.Context, path string) ([]*LanguageDef, error) {
	logger := ctxlog.FromContext(ctx).With("file", path)

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return decodeHCL(logger.Debug, f.Body, path)
}

// ParseHCL decodes an in-memory HCL manifest; filename is used in messages.
func ParseHCL(src []byte, filename string) ([]*LanguageDef, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decodeHCL(func(string, ...any) {}, f.Body, filename)
}

func decodeHCL(debug func(string, ...any), body hcl.Body, path string) ([]*LanguageDef, error) {
	var root hclFile
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	defs := make([]*LanguageDef, 0, len(root.Languages))
	for _, hl := range root.Languages {
		defs = append(defs, translateHCLLanguage(hl, path))
	}
	debug("Decoded HCL manifest.", "languages", len(defs))
	return defs, nil
}

func translateHCLLanguage(hl *hclLanguage, path string) *LanguageDef {
	def := &LanguageDef{
		Key:      hl.Key,
		ID:       hl.ID,
		Name:     hl.Name,
		Version:  hl.Version,
		Protocol: hl.Protocol,
		Source:   path,
	}
	for _, p := range hl.Primitives {
		def.Primitives = append(def.Primitives, &PrimitiveDef{
			Name: p.Name, ID: p.ID, Key: p.Key, Tag: p.Tag, Codec: p.Codec,
		})
	}
	groups := []struct {
		kind  language.Kind
		items []*hclClassifier
	}{
		{language.KindConcept, hl.Concepts},
		{language.KindInterface, hl.Interfaces},
		{language.KindAnnotation, hl.Annotations},
	}
	for _, g := range groups {
		for _, hc := range g.items {
			def.Classifiers = append(def.Classifiers, translateHCLClassifier(g.kind, hc))
		}
	}
	return def
}

func translateHCLClassifier(kind language.Kind, hc *hclClassifier) *ClassifierDef {
	c := &ClassifierDef{
		Kind:         kind,
		Name:         hc.Name,
		ID:           hc.ID,
		Key:          hc.Key,
		Tag:          hc.Tag,
		Abstract:     hc.Abstract,
		Extends:      hc.Extends,
		Implements:   hc.Implements,
		Annotates:    hc.Annotates,
		Instantiable: hc.Instantiable,
	}
	for _, ln := range hc.Containments {
		c.Containments = append(c.Containments, &LinkDef{Name: ln.Name, Type: ln.Type, Multiple: ln.Multiple, Optional: ln.Optional})
	}
	for _, ln := range hc.References {
		c.References = append(c.References, &LinkDef{Name: ln.Name, Type: ln.Type, Multiple: ln.Multiple, Optional: ln.Optional})
	}
	for _, p := range hc.Properties {
		c.Properties = append(c.Properties, &PropertyDef{Name: p.Name, Type: p.Type, Optional: p.Optional})
	}
	return c
}
