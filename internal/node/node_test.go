package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/metareg/internal/language"
	"github.com/vk/metareg/internal/lioncore"
	"github.com/vk/metareg/internal/protocol"
)

type fixture struct {
	folder  *language.Classifier
	entries *language.Containment
	readme  *language.Containment
	label   *language.Property
	link    *language.Reference
}

func newFixture() fixture {
	v := protocol.V2024_1
	l := language.New(v, "fs", "fs", "FS", "1")
	folder := l.NewConcept("fs-Folder", "Folder", "Folder")
	return fixture{
		folder:  folder,
		entries: folder.AddContainment("fs-Folder-entries", "entries", "entries", folder, true, true),
		readme:  folder.AddContainment("fs-Folder-readme", "readme", "readme", folder, false, true),
		label:   folder.AddProperty("fs-Folder-label", "label", "label", lioncore.String(v), true),
		link:    folder.AddReference("fs-Folder-link", "link", "link", folder, false, true),
	}
}

func TestDynamicNode_AddChildSetsParent(t *testing.T) {
	f := newFixture()
	root := NewDynamic("root", f.folder)
	a := NewDynamic("a", f.folder)
	b := NewDynamic("b", f.folder)

	require.NoError(t, root.AddChild(f.entries, a))
	require.NoError(t, a.AddChild(f.entries, b))

	assert.Nil(t, root.Parent())
	assert.Same(t, root, a.Parent())
	assert.Same(t, a, b.Parent())
	assert.Equal(t, []Node{a}, root.Children(f.entries))
	assert.Same(t, root, Root(b))
}

func TestDynamicNode_SingleContainmentReplaces(t *testing.T) {
	f := newFixture()
	root := NewDynamic("root", f.folder)
	require.NoError(t, root.AddChild(f.readme, NewDynamic("r1", f.folder)))
	require.NoError(t, root.AddChild(f.readme, NewDynamic("r2", f.folder)))

	children := root.Children(f.readme)
	require.Len(t, children, 1)
	assert.Equal(t, "r2", children[0].ID())
}

func TestDynamicNode_AddNilChild(t *testing.T) {
	f := newFixture()
	err := NewDynamic("root", f.folder).AddChild(f.entries, nil)
	require.Error(t, err)
}

func TestDynamicNode_RemoveChild(t *testing.T) {
	f := newFixture()
	root := NewDynamic("root", f.folder)
	a := NewDynamic("a", f.folder)
	require.NoError(t, root.AddChild(f.entries, a))
	require.NoError(t, root.AddChild(f.entries, a))

	root.RemoveChild(f.entries, a)
	assert.Empty(t, root.Children(f.entries))
}

func TestDynamicNode_ChildrenIsACopy(t *testing.T) {
	f := newFixture()
	root := NewDynamic("root", f.folder)
	require.NoError(t, root.AddChild(f.entries, NewDynamic("a", f.folder)))

	children := root.Children(f.entries)
	children[0] = nil
	assert.NotNil(t, root.Children(f.entries)[0])
}

func TestDynamicNode_PropertiesAndReferences(t *testing.T) {
	f := newFixture()
	n := NewDynamic("n", f.folder)
	other := NewDynamic("o", f.folder)

	n.SetPropertyValue(f.label, "docs")
	assert.Equal(t, "docs", n.PropertyValue(f.label))
	n.SetPropertyValue(f.label, nil)
	assert.Nil(t, n.PropertyValue(f.label))

	n.AddReferenceValue(f.link, ReferenceValue{Target: other, ResolveInfo: "o"})
	n.AddReferenceValue(f.link, ReferenceValue{ResolveInfo: "dangling"})
	refs := n.ReferenceValues(f.link)
	require.Len(t, refs, 1, "single-valued reference keeps the last value")
	assert.Equal(t, "", refs[0].TargetID())
}

func TestDynamicNode_SetID(t *testing.T) {
	f := newFixture()
	var n Node = NewDynamic("", f.folder)
	setter, ok := n.(IDSetter)
	require.True(t, ok)
	setter.SetID("n1")
	assert.Equal(t, "n1", n.ID())
}

func TestAllChildren(t *testing.T) {
	f := newFixture()
	root := NewDynamic("root", f.folder)
	require.NoError(t, root.AddChild(f.entries, NewDynamic("a", f.folder)))
	require.NoError(t, root.AddChild(f.readme, NewDynamic("r", f.folder)))

	ids := []string{}
	for _, c := range AllChildren(root) {
		ids = append(ids, c.ID())
	}
	assert.Equal(t, []string{"a", "r"}, ids)
	assert.Nil(t, AllChildren(NewProxy("p")))
}

func TestProxy(t *testing.T) {
	p := NewProxy("remote-1")
	assert.True(t, IsProxy(p))
	assert.False(t, IsProxy(NewDynamic("x", nil)))
	assert.Equal(t, "remote-1", p.ID())
	assert.Nil(t, p.Parent())
	assert.Nil(t, p.Classifier())
}

func TestRoot_StopsOnParentCycle(t *testing.T) {
	f := newFixture()
	a := NewDynamic("a", f.folder)
	b := NewDynamic("b", f.folder)
	a.SetParent(b)
	b.SetParent(a)

	r := Root(a)
	assert.Contains(t, []Node{a, b}, r)
}

func TestRoot_StopsBelowProxyParent(t *testing.T) {
	f := newFixture()
	n := NewDynamic("n", f.folder)
	n.SetParent(NewProxy("elsewhere"))
	assert.Same(t, n, Root(n))
}
