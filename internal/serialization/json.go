package serialization

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/vk/metareg/internal/language"
	"github.com/vk/metareg/internal/lioncore"
	"github.com/vk/metareg/internal/node"
	"github.com/vk/metareg/internal/nodeid"
	"github.com/vk/metareg/internal/primitives"
	"github.com/vk/metareg/internal/protocol"
)

// JSONSerialization converts node trees to and from JSON chunks of a single
// protocol version.
type JSONSerialization struct {
	version      protocol.Version
	instantiator *Instantiator
	primitives   *PrimitiveValues

	languages   map[string]*language.Language
	classifiers map[language.MetaPointer]*language.Classifier
}

// NewJSON returns an engine for v that knows the builtins and M3 languages
// and the codecs of the builtin primitive types.
func NewJSON(v protocol.Version) *JSONSerialization {
	s := &JSONSerialization{
		version:      v,
		instantiator: NewInstantiator(),
		primitives:   NewPrimitiveValues(),
		languages:    make(map[string]*language.Language),
		classifiers:  make(map[language.MetaPointer]*language.Classifier),
	}
	// Both languages are built for v, so registration cannot fail.
	_ = s.RegisterLanguage(lioncore.Builtins(v))
	_ = s.RegisterLanguage(lioncore.M3(v))

	builtin := map[*language.PrimitiveType]primitives.Codec{
		lioncore.String(v):  primitives.String(),
		lioncore.Integer(v): primitives.Integer(),
		lioncore.Boolean(v): primitives.Boolean(),
	}
	if pt, ok := lioncore.JSON(v); ok {
		builtin[pt] = primitives.JSON()
	}
	for pt, c := range builtin {
		s.primitives.RegisterSerializer(pt.ID, c.Serialize)
		s.primitives.RegisterDeserializer(pt.ID, c.Deserialize)
	}
	return s
}

func (s *JSONSerialization) Version() protocol.Version         { return s.version }
func (s *JSONSerialization) Instantiator() *Instantiator       { return s.instantiator }
func (s *JSONSerialization) PrimitiveValues() *PrimitiveValues { return s.primitives }

// RegisterLanguage makes the classifiers of l known to the engine.
// Registering the same language twice is a no-op.
func (s *JSONSerialization) RegisterLanguage(l *language.Language) error {
	if l == nil {
		return fmt.Errorf("cannot register nil language")
	}
	if l.Protocol != s.version {
		return fmt.Errorf("language %s is for protocol %s, engine uses %s", l.Key, l.Protocol, s.version)
	}
	s.languages[l.Key+"@"+l.Version] = l
	for _, c := range l.Classifiers {
		s.classifiers[c.MetaPointer()] = c
	}
	return nil
}

// HasLanguage reports whether the language with key and version is registered.
func (s *JSONSerialization) HasLanguage(key, version string) bool {
	_, ok := s.languages[key+"@"+version]
	return ok
}

// SerializeTrees flattens the trees under roots into a chunk. Nodes are
// emitted in depth-first order; a node reachable twice is emitted once and
// proxies are referenced by id but never emitted. Identity problems such as
// duplicate or empty ids are preserved as they are, so broken trees can be
// dumped for inspection.
func (s *JSONSerialization) SerializeTrees(roots ...node.Node) (*Chunk, error) {
	w := &treeWriter{
		s:       s,
		visited: make(map[node.Node]struct{}),
		used:    make(map[UsedLanguage]struct{}),
	}
	for _, r := range roots {
		if err := w.write(r); err != nil {
			return nil, err
		}
	}

	langs := make([]UsedLanguage, 0, len(w.used))
	for ul := range w.used {
		langs = append(langs, ul)
	}
	slices.SortFunc(langs, func(a, b UsedLanguage) int {
		if c := strings.Compare(a.Key, b.Key); c != 0 {
			return c
		}
		return strings.Compare(a.Version, b.Version)
	})

	nodes := w.nodes
	if nodes == nil {
		nodes = []*SerializedNode{}
	}
	return &Chunk{
		SerializationFormatVersion: s.version.String(),
		Languages:                  langs,
		Nodes:                      nodes,
	}, nil
}

// SerializeTreesToJSON is SerializeTrees followed by indented JSON encoding.
func (s *JSONSerialization) SerializeTreesToJSON(roots ...node.Node) ([]byte, error) {
	chunk, err := s.SerializeTrees(roots...)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(chunk, "", "  ")
}

type treeWriter struct {
	s       *JSONSerialization
	visited map[node.Node]struct{}
	used    map[UsedLanguage]struct{}
	nodes   []*SerializedNode
}

func (w *treeWriter) use(l *language.Language) {
	w.used[UsedLanguage{Key: l.Key, Version: l.Version}] = struct{}{}
}

func (w *treeWriter) write(n node.Node) error {
	if n == nil || node.IsProxy(n) {
		return nil
	}
	if _, ok := w.visited[n]; ok {
		return nil
	}
	w.visited[n] = struct{}{}

	c := n.Classifier()
	if c == nil {
		return fmt.Errorf("node %q has no classifier", n.ID())
	}
	w.use(c.Language)

	sn := &SerializedNode{
		ID:           strPtr(n.ID()),
		Classifier:   c.MetaPointer(),
		Properties:   []SerializedProperty{},
		Containments: []SerializedContainment{},
		References:   []SerializedReference{},
		Annotations:  []string{},
	}
	if p := n.Parent(); p != nil {
		sn.Parent = strPtr(p.ID())
	}

	for _, p := range c.AllProperties() {
		w.use(p.Owner.Language)
		v, err := w.s.primitives.Serialize(p.Type.ID, n.PropertyValue(p))
		if err != nil {
			return fmt.Errorf("node %q property %s: %w", n.ID(), p.Name, err)
		}
		sn.Properties = append(sn.Properties, SerializedProperty{Property: p.MetaPointer(), Value: v})
	}

	var children []node.Node
	for _, ct := range c.AllContainments() {
		w.use(ct.Owner.Language)
		kids := n.Children(ct)
		ids := make([]string, 0, len(kids))
		for _, k := range kids {
			ids = append(ids, k.ID())
		}
		sn.Containments = append(sn.Containments, SerializedContainment{Containment: ct.MetaPointer(), Children: ids})
		children = append(children, kids...)
	}

	for _, r := range c.AllReferences() {
		w.use(r.Owner.Language)
		vals := n.ReferenceValues(r)
		targets := make([]SerializedReferenceTarget, 0, len(vals))
		for _, rv := range vals {
			var t SerializedReferenceTarget
			if rv.ResolveInfo != "" {
				t.ResolveInfo = strPtr(rv.ResolveInfo)
			}
			if id := rv.TargetID(); id != "" {
				t.Reference = strPtr(id)
			}
			targets = append(targets, t)
		}
		sn.References = append(sn.References, SerializedReference{Reference: r.MetaPointer(), Targets: targets})
	}

	w.nodes = append(w.nodes, sn)
	for _, k := range children {
		if err := w.write(k); err != nil {
			return err
		}
	}
	return nil
}

type propertySetter interface {
	SetPropertyValue(p *language.Property, v any)
}

type childAdder interface {
	AddChild(c *language.Containment, child node.Node) error
}

type referenceAdder interface {
	AddReferenceValue(r *language.Reference, v node.ReferenceValue)
}

type parentSetter interface {
	SetParent(p node.Node)
}

// DeserializeJSON decodes data as a chunk and deserializes it.
func (s *JSONSerialization) DeserializeJSON(data []byte) ([]node.Node, error) {
	var chunk Chunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return nil, fmt.Errorf("decoding chunk: %w", err)
	}
	return s.Deserialize(&chunk)
}

// Deserialize rebuilds the nodes of chunk and returns its roots in chunk
// order. A root is a node without a parent or whose parent lies outside the
// chunk; the latter gets a proxy parent. Children and reference targets
// outside the chunk become proxies as well.
func (s *JSONSerialization) Deserialize(chunk *Chunk) ([]node.Node, error) {
	instances := make(map[string]node.Node, len(chunk.Nodes))
	built := make([]node.Node, len(chunk.Nodes))

	for i, sn := range chunk.Nodes {
		n, err := s.instantiate(sn, instances)
		if err != nil {
			return nil, err
		}
		if _, dup := instances[n.ID()]; dup {
			return nil, fmt.Errorf("chunk contains node %q twice", n.ID())
		}
		instances[n.ID()] = n
		built[i] = n
	}

	for i, sn := range chunk.Nodes {
		if err := s.link(built[i], sn, instances); err != nil {
			return nil, err
		}
	}

	var roots []node.Node
	for i, sn := range chunk.Nodes {
		n := built[i]
		if sn.Parent == nil {
			roots = append(roots, n)
			continue
		}
		parent, local := instances[*sn.Parent]
		if !local {
			if ps, ok := n.(parentSetter); ok {
				ps.SetParent(node.NewProxy(*sn.Parent))
			}
			roots = append(roots, n)
			continue
		}
		if n.Parent() == nil {
			if ps, ok := n.(parentSetter); ok {
				ps.SetParent(parent)
			}
		}
	}
	return roots, nil
}

func (s *JSONSerialization) instantiate(sn *SerializedNode, instances map[string]node.Node) (node.Node, error) {
	c, ok := s.classifiers[sn.Classifier]
	if !ok {
		return nil, fmt.Errorf("unknown classifier %s", sn.Classifier)
	}
	if id, ok := sn.NodeID(); ok {
		if err := nodeid.Validate(id); err != nil {
			return nil, fmt.Errorf("node of %s: %w", c.Name, err)
		}
	}

	props := make(map[*language.Property]any, len(sn.Properties))
	for _, sp := range sn.Properties {
		p, ok := findProperty(c, sp.Property)
		if !ok {
			return nil, fmt.Errorf("classifier %s has no property %s", c.Name, sp.Property)
		}
		v, err := s.primitives.Deserialize(p.Type.ID, sp.Value)
		if err != nil {
			return nil, err
		}
		props[p] = v
	}

	n, err := s.instantiator.Instantiate(c, sn, instances, props)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("factory for %s returned no node", c.Name)
	}
	if ps, ok := n.(propertySetter); ok {
		for p, v := range props {
			if v != nil {
				ps.SetPropertyValue(p, v)
			}
		}
	}
	return n, nil
}

func (s *JSONSerialization) link(n node.Node, sn *SerializedNode, instances map[string]node.Node) error {
	c := n.Classifier()
	if c == nil {
		return fmt.Errorf("node %q has no classifier", n.ID())
	}

	for _, sc := range sn.Containments {
		if len(sc.Children) == 0 {
			continue
		}
		ct, ok := findContainment(c, sc.Containment)
		if !ok {
			return fmt.Errorf("classifier %s has no containment %s", c.Name, sc.Containment)
		}
		adder, ok := n.(childAdder)
		if !ok {
			return fmt.Errorf("node %q cannot hold children", n.ID())
		}
		for _, childID := range sc.Children {
			child, local := instances[childID]
			if !local {
				child = node.NewProxy(childID)
			}
			if err := adder.AddChild(ct, child); err != nil {
				return fmt.Errorf("node %q: %w", n.ID(), err)
			}
		}
	}

	for _, sr := range sn.References {
		if len(sr.Targets) == 0 {
			continue
		}
		r, ok := findReference(c, sr.Reference)
		if !ok {
			return fmt.Errorf("classifier %s has no reference %s", c.Name, sr.Reference)
		}
		adder, ok := n.(referenceAdder)
		if !ok {
			return fmt.Errorf("node %q cannot hold references", n.ID())
		}
		for _, t := range sr.Targets {
			var rv node.ReferenceValue
			if t.ResolveInfo != nil {
				rv.ResolveInfo = *t.ResolveInfo
			}
			if t.Reference != nil {
				if target, local := instances[*t.Reference]; local {
					rv.Target = target
				} else {
					rv.Target = node.NewProxy(*t.Reference)
				}
			}
			adder.AddReferenceValue(r, rv)
		}
	}
	return nil
}

func findProperty(c *language.Classifier, mp language.MetaPointer) (*language.Property, bool) {
	for _, p := range c.AllProperties() {
		if p.MetaPointer() == mp {
			return p, true
		}
	}
	return nil, false
}

func findContainment(c *language.Classifier, mp language.MetaPointer) (*language.Containment, bool) {
	for _, ct := range c.AllContainments() {
		if ct.MetaPointer() == mp {
			return ct, true
		}
	}
	return nil, false
}

func findReference(c *language.Classifier, mp language.MetaPointer) (*language.Reference, bool) {
	for _, r := range c.AllReferences() {
		if r.MetaPointer() == mp {
			return r, true
		}
	}
	return nil, false
}
