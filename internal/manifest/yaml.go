package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vk/metareg/internal/ctxlog"
	"github.com/vk/metareg/internal/language"
)

// yamlFile is the root structure of a YAML manifest.
type yamlFile struct {
	Languages []yamlLanguage `yaml:"languages"`
}

type yamlLanguage struct {
	Key         string           `yaml:"key"`
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Version     string           `yaml:"version"`
	Protocol    string           `yaml:"protocol"`
	Primitives  []yamlPrimitive  `yaml:"primitives"`
	Concepts    []yamlClassifier `yaml:"concepts"`
	Interfaces  []yamlClassifier `yaml:"interfaces"`
	Annotations []yamlClassifier `yaml:"annotations"`
}

type yamlPrimitive struct {
	Name  string `yaml:"name"`
	ID    string `yaml:"id"`
	Key   string `yaml:"key"`
	Tag   string `yaml:"tag"`
	Codec string `yaml:"codec"`
}

type yamlClassifier struct {
	Name         string         `yaml:"name"`
	ID           string         `yaml:"id"`
	Key          string         `yaml:"key"`
	Tag          string         `yaml:"tag"`
	Abstract     bool           `yaml:"abstract"`
	Extends      string         `yaml:"extends"`
	Implements   []string       `yaml:"implements"`
	Annotates    string         `yaml:"annotates"`
	Instantiable *bool          `yaml:"instantiable"`
	Containments []yamlLink     `yaml:"containments"`
	References   []yamlLink     `yaml:"references"`
	Properties   []yamlProperty `yaml:"properties"`
}

type yamlLink struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Multiple bool   `yaml:"multiple"`
	Optional bool   `yaml:"optional"`
}

type yamlProperty struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional"`
}

// YAMLLoader reads manifests written in YAML.
type YAMLLoader struct{}

func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

func (l *YAMLLoader) Extensions() []string { return []string{".yaml", ".yml"} }

func (l *YAMLLoader) Load(ctx context.Context, paths ...string) (*Model, error) {
	return loadAll(ctx, l, paths)
}

func (l *YAMLLoader) LoadFile(ctx context.Context, path string) ([]*LanguageDef, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defs, err := ParseYAML(content, path)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Decoded YAML manifest.", "file", path, "languages", len(defs))
	return defs, nil
}

// ParseYAML decodes an in-memory YAML manifest. Unknown fields are errors.
func ParseYAML(src []byte, filename string) ([]*LanguageDef, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var file yamlFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	defs := make([]*LanguageDef, 0, len(file.Languages))
	for _, yl := range file.Languages {
		defs = append(defs, translateYAMLLanguage(yl, filename))
	}
	return defs, nil
}

func translateYAMLLanguage(yl yamlLanguage, path string) *LanguageDef {
	def := &LanguageDef{
		Key:      yl.Key,
		ID:       yl.ID,
		Name:     yl.Name,
		Version:  yl.Version,
		Protocol: yl.Protocol,
		Source:   path,
	}
	for _, p := range yl.Primitives {
		def.Primitives = append(def.Primitives, &PrimitiveDef{
			Name: p.Name, ID: p.ID, Key: p.Key, Tag: p.Tag, Codec: p.Codec,
		})
	}
	groups := []struct {
		kind  language.Kind
		items []yamlClassifier
	}{
		{language.KindConcept, yl.Concepts},
		{language.KindInterface, yl.Interfaces},
		{language.KindAnnotation, yl.Annotations},
	}
	for _, g := range groups {
		for _, yc := range g.items {
			def.Classifiers = append(def.Classifiers, translateYAMLClassifier(g.kind, yc))
		}
	}
	return def
}

func translateYAMLClassifier(kind language.Kind, yc yamlClassifier) *ClassifierDef {
	c := &ClassifierDef{
		Kind:         kind,
		Name:         yc.Name,
		ID:           yc.ID,
		Key:          yc.Key,
		Tag:          yc.Tag,
		Abstract:     yc.Abstract,
		Extends:      yc.Extends,
		Implements:   yc.Implements,
		Annotates:    yc.Annotates,
		Instantiable: yc.Instantiable,
	}
	for _, ln := range yc.Containments {
		c.Containments = append(c.Containments, &LinkDef{Name: ln.Name, Type: ln.Type, Multiple: ln.Multiple, Optional: ln.Optional})
	}
	for _, ln := range yc.References {
		c.References = append(c.References, &LinkDef{Name: ln.Name, Type: ln.Type, Multiple: ln.Multiple, Optional: ln.Optional})
	}
	for _, p := range yc.Properties {
		c.Properties = append(c.Properties, &PropertyDef{Name: p.Name, Type: p.Type, Optional: p.Optional})
	}
	return c
}
