package testutil

import (
	"github.com/vk/metareg/internal/language"
	"github.com/vk/metareg/internal/lioncore"
	"github.com/vk/metareg/internal/node"
	"github.com/vk/metareg/internal/protocol"
)

// Calc is a small expression language used as a fixture across packages.
//
//	Program  (concept, implements INamed and Scope)
//	  expressions: Expression[*]
//	Scope    (interface)
//	  locals: Expression[*]
//	Expression (abstract concept)
//	Literal  extends Expression, value: Integer
//	Sum      extends Expression, left: Expression, right: Expression
//	Ref      extends Expression, target -> Literal
//	Comment  (annotation on Program), text: String
type Calc struct {
	Language *language.Language

	Program    *language.Classifier
	Scope      *language.Classifier
	Expression *language.Classifier
	Literal    *language.Classifier
	Sum        *language.Classifier
	Ref        *language.Classifier
	Comment    *language.Classifier

	Expressions *language.Containment
	Locals      *language.Containment
	Left        *language.Containment
	Right       *language.Containment
	Target      *language.Reference
	Value       *language.Property
	Text        *language.Property
	Name        *language.Property
}

// NewCalc builds a fresh calc language for v. Every call returns new
// classifier pointers.
func NewCalc(v protocol.Version) *Calc {
	l := language.New(v, "calc-"+v.String(), "calc", "Calc", "1")
	c := &Calc{Language: l}

	c.Expression = l.NewConcept("calc-Expression", "Expression", "Expression")
	c.Expression.Abstract = true
	c.Expression.Extends = lioncore.Node(v)

	c.Scope = l.NewInterface("calc-Scope", "Scope", "Scope")
	c.Locals = c.Scope.AddContainment("calc-Scope-locals", "Scope-locals", "locals", c.Expression, true, true)

	c.Program = l.NewConcept("calc-Program", "Program", "Program")
	c.Program.Implements = []*language.Classifier{lioncore.INamed(v), c.Scope}
	c.Expressions = c.Program.AddContainment("calc-Program-expressions", "Program-expressions", "expressions", c.Expression, true, true)

	c.Literal = l.NewConcept("calc-Literal", "Literal", "Literal")
	c.Literal.Extends = c.Expression
	c.Value = c.Literal.AddProperty("calc-Literal-value", "Literal-value", "value", lioncore.Integer(v), false)

	c.Sum = l.NewConcept("calc-Sum", "Sum", "Sum")
	c.Sum.Extends = c.Expression
	c.Left = c.Sum.AddContainment("calc-Sum-left", "Sum-left", "left", c.Expression, false, false)
	c.Right = c.Sum.AddContainment("calc-Sum-right", "Sum-right", "right", c.Expression, false, false)

	c.Ref = l.NewConcept("calc-Ref", "Ref", "Ref")
	c.Ref.Extends = c.Expression
	c.Target = c.Ref.AddReference("calc-Ref-target", "Ref-target", "target", c.Literal, false, false)

	c.Comment = l.NewAnnotation("calc-Comment", "Comment", "Comment")
	c.Comment.Annotates = c.Program
	c.Text = c.Comment.AddProperty("calc-Comment-text", "Comment-text", "text", lioncore.String(v), false)

	c.Name = lioncore.INamed(v).Properties[0]
	return c
}

// ProgramNode is a host type for Program built on DynamicNode, the way
// applications usually wrap generic nodes.
type ProgramNode struct {
	*node.DynamicNode
}

// NewProgramNode returns an empty program without identity, as a zero-arg
// constructor would.
func (c *Calc) NewProgramNode() node.Node {
	return &ProgramNode{DynamicNode: node.NewDynamic("", c.Program)}
}

// NewProgram returns a program node holding exprs.
func (c *Calc) NewProgram(id, name string, exprs ...node.Node) *node.DynamicNode {
	p := node.NewDynamic(id, c.Program)
	p.SetPropertyValue(c.Name, name)
	for _, e := range exprs {
		mustAdd(p, c.Expressions, e)
	}
	return p
}

// Lit returns a literal node.
func (c *Calc) Lit(id string, value int) *node.DynamicNode {
	n := node.NewDynamic(id, c.Literal)
	n.SetPropertyValue(c.Value, value)
	return n
}

// Add returns a sum of left and right.
func (c *Calc) Add(id string, left, right node.Node) *node.DynamicNode {
	n := node.NewDynamic(id, c.Sum)
	mustAdd(n, c.Left, left)
	mustAdd(n, c.Right, right)
	return n
}

// RefTo returns a reference to target.
func (c *Calc) RefTo(id string, target node.Node) *node.DynamicNode {
	n := node.NewDynamic(id, c.Ref)
	n.AddReferenceValue(c.Target, node.ReferenceValue{Target: target, ResolveInfo: target.ID()})
	return n
}

func mustAdd(parent *node.DynamicNode, ct *language.Containment, child node.Node) {
	if err := parent.AddChild(ct, child); err != nil {
		panic(err)
	}
}
