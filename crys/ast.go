package crys

// Node is a syntax tree node. The set of node types is closed: evaluation,
// compilation and name collection switch over every concrete type below.
type Node interface {
	Pos() Position
	node()
}

// ConstantExpr is a literal integer, float, string, boolean or nil.
type ConstantExpr struct {
	Value    Value
	position Position
}

// KeywordExpr is a `:symbol` literal.
type KeywordExpr struct {
	Name     string
	position Position
}

// NameExpr is a bare identifier.
type NameExpr struct {
	Name     string
	position Position
}

type SelfExpr struct {
	position Position
}

// InstanceVarExpr is `@name`.
type InstanceVarExpr struct {
	Name     string
	position Position
}

// ClassVarExpr is `@@name`.
type ClassVarExpr struct {
	Name     string
	position Position
}

// GlobalVarExpr is `$name`.
type GlobalVarExpr struct {
	Name     string
	position Position
}

// AssignExpr writes Value into Target, which is a name or variable node.
type AssignExpr struct {
	Target   Node
	Value    Node
	position Position
}

// CallExpr is a free call `name(args)` or `name args`.
type CallExpr struct {
	Name     string
	Args     []Node
	position Position
}

// QualifiedCallExpr is `target.name(args)`; the no-argument form `target.name`
// is a call as well.
type QualifiedCallExpr struct {
	Target   Node
	Name     string
	Args     []Node
	position Position
}

// JSNamespaceExpr is the bare `js` root of the host namespace.
type JSNamespaceExpr struct {
	position Position
}

// JSMemberExpr is a property read on the host namespace, e.g. `js.Math.PI`.
type JSMemberExpr struct {
	Target   Node
	Name     string
	position Position
}

// JSCallExpr is a call through the host namespace, e.g. `js.Math.max(1, 2)`.
type JSCallExpr struct {
	Member   *JSMemberExpr
	Args     []Node
	position Position
}

type IfExpr struct {
	Cond     Node
	Then     Node
	Else     Node
	position Position
}

type UnlessExpr struct {
	Cond     Node
	Then     Node
	Else     Node
	position Position
}

type WhileExpr struct {
	Cond     Node
	Body     Node
	position Position
}

type UntilExpr struct {
	Cond     Node
	Body     Node
	position Position
}

// CompositeExpr is a sequence of expressions; its value is the last one.
type CompositeExpr struct {
	Exprs    []Node
	position Position
}

// DefExpr is `def name(params) body end`.
type DefExpr struct {
	Name     string
	Params   []string
	Body     Node
	position Position
}

// DefNamedExpr is `def target.name(params) body end`, where Target is
// `self` or a constant naming a class or module.
type DefNamedExpr struct {
	Target   string
	Name     string
	Params   []string
	Body     Node
	position Position
}

type ClassExpr struct {
	Name      string
	SuperName string
	Body      Node
	position  Position
}

type ModuleExpr struct {
	Name     string
	Body     Node
	position Position
}

type ArrayExpr struct {
	Elements []Node
	position Position
}

// IndexedExpr is `target[i, j]`, a chained lookup `target[i][j]`.
type IndexedExpr struct {
	Target   Node
	Indexes  []Node
	position Position
}

type BinaryExpr struct {
	Op       Operator
	Left     Node
	Right    Node
	position Position
}

type UnaryExpr struct {
	Op       Operator
	Operand  Node
	position Position
}

func (e *ConstantExpr) Pos() Position      { return e.position }
func (e *KeywordExpr) Pos() Position       { return e.position }
func (e *NameExpr) Pos() Position          { return e.position }
func (e *SelfExpr) Pos() Position          { return e.position }
func (e *InstanceVarExpr) Pos() Position   { return e.position }
func (e *ClassVarExpr) Pos() Position      { return e.position }
func (e *GlobalVarExpr) Pos() Position     { return e.position }
func (e *AssignExpr) Pos() Position        { return e.position }
func (e *CallExpr) Pos() Position          { return e.position }
func (e *QualifiedCallExpr) Pos() Position { return e.position }
func (e *JSNamespaceExpr) Pos() Position   { return e.position }
func (e *JSMemberExpr) Pos() Position      { return e.position }
func (e *JSCallExpr) Pos() Position        { return e.position }
func (e *IfExpr) Pos() Position            { return e.position }
func (e *UnlessExpr) Pos() Position        { return e.position }
func (e *WhileExpr) Pos() Position         { return e.position }
func (e *UntilExpr) Pos() Position         { return e.position }
func (e *CompositeExpr) Pos() Position     { return e.position }
func (e *DefExpr) Pos() Position           { return e.position }
func (e *DefNamedExpr) Pos() Position      { return e.position }
func (e *ClassExpr) Pos() Position         { return e.position }
func (e *ModuleExpr) Pos() Position        { return e.position }
func (e *ArrayExpr) Pos() Position         { return e.position }
func (e *IndexedExpr) Pos() Position       { return e.position }
func (e *BinaryExpr) Pos() Position        { return e.position }
func (e *UnaryExpr) Pos() Position         { return e.position }

func (*ConstantExpr) node()      {}
func (*KeywordExpr) node()       {}
func (*NameExpr) node()          {}
func (*SelfExpr) node()          {}
func (*InstanceVarExpr) node()   {}
func (*ClassVarExpr) node()      {}
func (*GlobalVarExpr) node()     {}
func (*AssignExpr) node()        {}
func (*CallExpr) node()          {}
func (*QualifiedCallExpr) node() {}
func (*JSNamespaceExpr) node()   {}
func (*JSMemberExpr) node()      {}
func (*JSCallExpr) node()        {}
func (*IfExpr) node()            {}
func (*UnlessExpr) node()        {}
func (*WhileExpr) node()         {}
func (*UntilExpr) node()         {}
func (*CompositeExpr) node()     {}
func (*DefExpr) node()           {}
func (*DefNamedExpr) node()      {}
func (*ClassExpr) node()         {}
func (*ModuleExpr) node()        {}
func (*ArrayExpr) node()         {}
func (*IndexedExpr) node()       {}
func (*BinaryExpr) node()        {}
func (*UnaryExpr) node()         {}

// DeclaredName returns the name a node binds when it appears as a statement:
// the identifier of a bare name or of a name assignment. Other nodes declare
// nothing.
func DeclaredName(n Node) string {
	switch n := n.(type) {
	case *NameExpr:
		return n.Name
	case *AssignExpr:
		if target, ok := n.Target.(*NameExpr); ok {
			return target.Name
		}
	}
	return ""
}

// describeNode names a node kind for error messages.
func describeNode(n Node) string {
	switch n := n.(type) {
	case *ConstantExpr:
		return "constant"
	case *KeywordExpr:
		return "keyword :" + n.Name
	case *NameExpr:
		return "name " + n.Name
	case *SelfExpr:
		return "self"
	case *InstanceVarExpr:
		return "instance variable @" + n.Name
	case *ClassVarExpr:
		return "class variable @@" + n.Name
	case *GlobalVarExpr:
		return "global variable $" + n.Name
	case *AssignExpr:
		return "assignment"
	case *CallExpr:
		return "call to " + n.Name
	case *QualifiedCallExpr:
		return "method call ." + n.Name
	case *JSNamespaceExpr, *JSMemberExpr, *JSCallExpr:
		return "js expression"
	case *IfExpr:
		return "if expression"
	case *UnlessExpr:
		return "unless expression"
	case *WhileExpr:
		return "while loop"
	case *UntilExpr:
		return "until loop"
	case *CompositeExpr:
		return "expression sequence"
	case *DefExpr:
		return "def " + n.Name
	case *DefNamedExpr:
		return "def " + n.Target + "." + n.Name
	case *ClassExpr:
		return "class " + n.Name
	case *ModuleExpr:
		return "module " + n.Name
	case *ArrayExpr:
		return "array literal"
	case *IndexedExpr:
		return "index expression"
	case *BinaryExpr:
		return "operator " + n.Op.String()
	case *UnaryExpr:
		return "unary operator " + n.Op.String()
	default:
		return "node"
	}
}
