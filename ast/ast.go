// Package ast defines the statement and expression trees executed by the
// protocore evaluator.
//
// Trees are produced by an external front end. Decode builds them from the
// YAML program format; embedders with their own parser construct the nodes
// directly.
package ast

// Node is any syntax tree node.
type Node interface {
	node()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// Program is a complete evaluation unit.
type Program struct {
	// Name labels the program in diagnostics, typically its file name.
	Name string
	Body []Stmt
}

type (
	// Block executes its statements in order.
	Block struct {
		Body []Stmt
	}

	// ExprStmt evaluates an expression for its effects.
	ExprStmt struct {
		X Expr
	}

	// VarDecl declares a function-scoped variable, optionally initializing
	// it. The declaration itself is hoisted; the initializer runs in place.
	VarDecl struct {
		Name string
		Init Expr
	}

	// FuncDecl declares a function. It is hoisted along with its body.
	FuncDecl struct {
		Func *FuncLit
	}

	// If is a conditional statement. Else may be nil.
	If struct {
		Cond Expr
		Then Stmt
		Else Stmt
	}

	// While is a pre-test loop.
	While struct {
		Cond Expr
		Body Stmt
	}

	// DoWhile is a post-test loop.
	DoWhile struct {
		Body Stmt
		Cond Expr
	}

	// For is an indexed loop. Init, Cond, and Update may each be nil; Init is
	// either a *VarDecl or an *ExprStmt.
	For struct {
		Init   Stmt
		Cond   Expr
		Update Expr
		Body   Stmt
	}

	// ForIn iterates over the enumerable keys of an object and its
	// prototypes. Decl indicates that Name was declared with var in the loop
	// head.
	ForIn struct {
		Name   string
		Decl   bool
		Object Expr
		Body   Stmt
	}

	// Labeled attaches a label to a statement.
	Labeled struct {
		Label string
		Body  Stmt
	}

	// Break exits the innermost loop or switch, or the labeled statement
	// named by Label.
	Break struct {
		Label string
	}

	// Continue restarts the innermost loop, or the loop named by Label.
	Continue struct {
		Label string
	}

	// Return exits the current function. X may be nil.
	Return struct {
		X Expr
	}

	// Throw raises a value as an exception.
	Throw struct {
		X Expr
	}

	// Try runs Block with optional catch and finally handlers. At least one
	// of Catch and Finally is non-nil.
	Try struct {
		Block   *Block
		Param   string
		Catch   *Block
		Finally *Block
	}

	// Switch dispatches on strict equality with each case's test.
	Switch struct {
		Disc  Expr
		Cases []*Case
	}

	// Case is one clause of a switch. Test is nil for the default clause.
	Case struct {
		Test Expr
		Body []Stmt
	}

	// Empty does nothing.
	Empty struct{}
)

type (
	// Number is a numeric literal.
	Number struct {
		Value float64
	}

	// String is a string literal.
	String struct {
		Value string
	}

	// Bool is a boolean literal.
	Bool struct {
		Value bool
	}

	// Null is the null literal.
	Null struct{}

	// Ident is a variable reference.
	Ident struct {
		Name string
	}

	// This is the receiver of the current call.
	This struct{}

	// ObjectLit is an object literal. Properties are created in order.
	ObjectLit struct {
		Props []*Prop
	}

	// Prop is a single property initializer in an object literal.
	Prop struct {
		Key   string
		Value Expr
	}

	// ArrayLit is an array literal.
	ArrayLit struct {
		Elems []Expr
	}

	// FuncLit is a function. Name, if not empty, is bound to the function
	// inside its own body.
	FuncLit struct {
		Name   string
		Params []string
		Body   []Stmt
	}

	// Member is a property access with a static key.
	Member struct {
		Object   Expr
		Property string
	}

	// Index is a property access with a computed key.
	Index struct {
		Object Expr
		Index  Expr
	}

	// Call invokes a function. When Callee is a Member or Index, the object
	// is the receiver.
	Call struct {
		Callee Expr
		Args   []Expr
	}

	// New invokes a function as a constructor.
	New struct {
		Callee Expr
		Args   []Expr
	}

	// Unary is a prefix operator other than ++ and --.
	Unary struct {
		Op string
		X  Expr
	}

	// Update is ++ or --. Op is "++" or "--".
	Update struct {
		Op     string
		Prefix bool
		X      Expr
	}

	// Binary is an arithmetic, bitwise, relational, or equality operator.
	Binary struct {
		Op   string
		L, R Expr
	}

	// Logical is a short-circuiting && or ||.
	Logical struct {
		Op   string
		L, R Expr
	}

	// Assign stores into an identifier, member, or index. Op is "=" or a
	// compound operator such as "+=".
	Assign struct {
		Op     string
		Target Expr
		Value  Expr
	}

	// Conditional is the ternary operator.
	Conditional struct {
		Test, Cons, Alt Expr
	}

	// Sequence evaluates each expression and produces the last.
	Sequence struct {
		Exprs []Expr
	}
)

func (*Program) node() {}

func (*Block) node()    {}
func (*ExprStmt) node() {}
func (*VarDecl) node()  {}
func (*FuncDecl) node() {}
func (*If) node()       {}
func (*While) node()    {}
func (*DoWhile) node()  {}
func (*For) node()      {}
func (*ForIn) node()    {}
func (*Labeled) node()  {}
func (*Break) node()    {}
func (*Continue) node() {}
func (*Return) node()   {}
func (*Throw) node()    {}
func (*Try) node()      {}
func (*Switch) node()   {}
func (*Case) node()     {}
func (*Empty) node()    {}

func (*Block) stmt()    {}
func (*ExprStmt) stmt() {}
func (*VarDecl) stmt()  {}
func (*FuncDecl) stmt() {}
func (*If) stmt()       {}
func (*While) stmt()    {}
func (*DoWhile) stmt()  {}
func (*For) stmt()      {}
func (*ForIn) stmt()    {}
func (*Labeled) stmt()  {}
func (*Break) stmt()    {}
func (*Continue) stmt() {}
func (*Return) stmt()   {}
func (*Throw) stmt()    {}
func (*Try) stmt()      {}
func (*Switch) stmt()   {}
func (*Empty) stmt()    {}

func (*Number) node()      {}
func (*String) node()      {}
func (*Bool) node()        {}
func (*Null) node()        {}
func (*Ident) node()       {}
func (*This) node()        {}
func (*ObjectLit) node()   {}
func (*Prop) node()        {}
func (*ArrayLit) node()    {}
func (*FuncLit) node()     {}
func (*Member) node()      {}
func (*Index) node()       {}
func (*Call) node()        {}
func (*New) node()         {}
func (*Unary) node()       {}
func (*Update) node()      {}
func (*Binary) node()      {}
func (*Logical) node()     {}
func (*Assign) node()      {}
func (*Conditional) node() {}
func (*Sequence) node()    {}

func (*Number) expr()      {}
func (*String) expr()      {}
func (*Bool) expr()        {}
func (*Null) expr()        {}
func (*Ident) expr()       {}
func (*This) expr()        {}
func (*ObjectLit) expr()   {}
func (*ArrayLit) expr()    {}
func (*FuncLit) expr()     {}
func (*Member) expr()      {}
func (*Index) expr()       {}
func (*Call) expr()        {}
func (*New) expr()         {}
func (*Unary) expr()       {}
func (*Update) expr()      {}
func (*Binary) expr()      {}
func (*Logical) expr()     {}
func (*Assign) expr()      {}
func (*Conditional) expr() {}
func (*Sequence) expr()    {}

// IsLoop returns whether s is a loop statement, i.e. a legal target for a
// labeled continue.
func IsLoop(s Stmt) bool {
	switch s.(type) {
	case *While, *DoWhile, *For, *ForIn:
		return true
	}
	return false
}
