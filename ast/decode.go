package ast

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v2"
)

// ErrEmptyNode is wrapped by decode errors for sequences with no operator.
var ErrEmptyNode = errors.New("node has no operator")

// DecodeError describes a malformed node in a YAML program.
type DecodeError struct {
	// Path locates the node, e.g. "main.yaml[3][2]".
	Path string
	Err  error
}

func (err *DecodeError) Error() string {
	return err.Path + ": " + err.Err.Error()
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}

func errorf(path, format string, args ...interface{}) error {
	return &DecodeError{Path: path, Err: fmt.Errorf(format, args...)}
}

// Decode reads a YAML program. The document must be a sequence of
// statements. Each node is a sequence whose first item is its operator, and
// YAML scalars are literals:
//
//	- [var, s, ""]
//	- [for, ~, ~, ~, [block,
//	    [try, [block, ["+=", [id, s], t], [break]], ~, ~,
//	      [block, ["+=", [id, s], f]]]]]
//
// Operators which collide with YAML indicators, such as "-", "!", "&&", and
// ">", must be quoted. Booleans follow YAML 1.2: only true and false are
// booleans, so names like y, n, yes, and off need no quotes.
func Decode(r io.Reader, name string) (*Program, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return DecodeBytes(b, name)
}

// DecodeBytes reads a YAML program from b.
func DecodeBytes(b []byte, name string) (*Program, error) {
	var root *yamlNode
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	doc := root.plain()
	p := &Program{Name: name}
	if doc == nil {
		return p, nil
	}
	items, ok := doc.([]interface{})
	if !ok {
		return nil, errorf(name, "program must be a sequence of statements, not %T", doc)
	}
	body, err := decodeStmts(items, name, 0)
	if err != nil {
		return nil, err
	}
	p.Body = body
	return p, nil
}

// yamlNode keeps the source text of boolean scalars alongside the values
// yaml.v2 resolves for them.
type yamlNode struct {
	value interface{}
	text  string
	items []*yamlNode
}

func (n *yamlNode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	if err := unmarshal(&n.value); err != nil {
		return err
	}
	switch n.value.(type) {
	case []interface{}:
		return unmarshal(&n.items)
	case bool:
		return unmarshal(&n.text)
	}
	return nil
}

// plain converts n to generic values. YAML 1.1 booleans other than true and
// false become the strings they were written as. Null nodes are nil.
func (n *yamlNode) plain() interface{} {
	if n == nil {
		return nil
	}
	switch v := n.value.(type) {
	case []interface{}:
		r := make([]interface{}, len(n.items))
		for i, it := range n.items {
			r[i] = it.plain()
		}
		return r
	case bool:
		switch n.text {
		case "true", "True", "TRUE", "false", "False", "FALSE":
			return v
		}
		return n.text
	}
	return n.value
}

func decodeStmts(items []interface{}, path string, offset int) ([]Stmt, error) {
	r := make([]Stmt, 0, len(items))
	for i, v := range items {
		s, err := decodeStmt(v, fmt.Sprintf("%s[%d]", path, i+offset))
		if err != nil {
			return nil, err
		}
		r = append(r, s)
	}
	return r, nil
}

// node splits a sequence node into its operator and arguments.
func node(v interface{}, path string) (string, []interface{}, error) {
	l, ok := v.([]interface{})
	if !ok {
		return "", nil, errorf(path, "expected a node, got %T", v)
	}
	if len(l) == 0 {
		return "", nil, &DecodeError{Path: path, Err: ErrEmptyNode}
	}
	op, ok := l[0].(string)
	if !ok {
		return "", nil, errorf(path, "operator must be a string, not %T", l[0])
	}
	return op, l[1:], nil
}

func name(v interface{}, path string) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	}
	return "", errorf(path, "expected a name, got %T", v)
}

func arity(op string, args []interface{}, path string, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		if min == max {
			return errorf(path, "%s takes %d operands, got %d", op, min, len(args))
		}
		return errorf(path, "%s takes %d to %d operands, got %d", op, min, max, len(args))
	}
	return nil
}

func decodeStmt(v interface{}, path string) (Stmt, error) {
	if _, ok := v.([]interface{}); !ok {
		// Scalars are literal expression statements.
		x, err := decodeExpr(v, path)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{X: x}, nil
	}
	op, args, err := node(v, path)
	if err != nil {
		return nil, err
	}
	sub := func(i int) string { return fmt.Sprintf("%s[%d]", path, i+1) }
	switch op {
	case "expr":
		if err := arity(op, args, path, 1, 1); err != nil {
			return nil, err
		}
		x, err := decodeExpr(args[0], sub(0))
		if err != nil {
			return nil, err
		}
		return &ExprStmt{X: x}, nil
	case "var":
		if err := arity(op, args, path, 1, 2); err != nil {
			return nil, err
		}
		n, err := name(args[0], sub(0))
		if err != nil {
			return nil, err
		}
		d := &VarDecl{Name: n}
		if len(args) == 2 {
			if d.Init, err = decodeExpr(args[1], sub(1)); err != nil {
				return nil, err
			}
		}
		return d, nil
	case "defun":
		f, err := decodeFunc(args, path)
		if err != nil {
			return nil, err
		}
		if f.Name == "" {
			return nil, errorf(path, "function declaration requires a name")
		}
		return &FuncDecl{Func: f}, nil
	case "block":
		return decodeBlock(args, path)
	case "if":
		if err := arity(op, args, path, 2, 3); err != nil {
			return nil, err
		}
		c, err := decodeExpr(args[0], sub(0))
		if err != nil {
			return nil, err
		}
		s := &If{Cond: c}
		if s.Then, err = decodeStmt(args[1], sub(1)); err != nil {
			return nil, err
		}
		if len(args) == 3 && args[2] != nil {
			if s.Else, err = decodeStmt(args[2], sub(2)); err != nil {
				return nil, err
			}
		}
		return s, nil
	case "while":
		if err := arity(op, args, path, 2, 2); err != nil {
			return nil, err
		}
		c, err := decodeExpr(args[0], sub(0))
		if err != nil {
			return nil, err
		}
		b, err := decodeStmt(args[1], sub(1))
		if err != nil {
			return nil, err
		}
		return &While{Cond: c, Body: b}, nil
	case "do":
		if err := arity(op, args, path, 2, 2); err != nil {
			return nil, err
		}
		b, err := decodeStmt(args[0], sub(0))
		if err != nil {
			return nil, err
		}
		c, err := decodeExpr(args[1], sub(1))
		if err != nil {
			return nil, err
		}
		return &DoWhile{Body: b, Cond: c}, nil
	case "for":
		if err := arity(op, args, path, 4, 4); err != nil {
			return nil, err
		}
		s := &For{}
		if args[0] != nil {
			if iop, _, err := node(args[0], sub(0)); err == nil && iop == "var" {
				s.Init, err = decodeStmt(args[0], sub(0))
				if err != nil {
					return nil, err
				}
			} else {
				x, err := decodeExpr(args[0], sub(0))
				if err != nil {
					return nil, err
				}
				s.Init = &ExprStmt{X: x}
			}
		}
		if args[1] != nil {
			if s.Cond, err = decodeExpr(args[1], sub(1)); err != nil {
				return nil, err
			}
		}
		if args[2] != nil {
			if s.Update, err = decodeExpr(args[2], sub(2)); err != nil {
				return nil, err
			}
		}
		if s.Body, err = decodeStmt(args[3], sub(3)); err != nil {
			return nil, err
		}
		return s, nil
	case "forin":
		if err := arity(op, args, path, 3, 3); err != nil {
			return nil, err
		}
		hop, hargs, err := node(args[0], sub(0))
		if err != nil {
			return nil, err
		}
		s := &ForIn{}
		switch hop {
		case "var":
			s.Decl = true
		case "id":
		default:
			return nil, errorf(sub(0), "for-in binding must be var or id, not %s", hop)
		}
		if err := arity(hop, hargs, sub(0), 1, 1); err != nil {
			return nil, err
		}
		if s.Name, err = name(hargs[0], sub(0)); err != nil {
			return nil, err
		}
		if s.Object, err = decodeExpr(args[1], sub(1)); err != nil {
			return nil, err
		}
		if s.Body, err = decodeStmt(args[2], sub(2)); err != nil {
			return nil, err
		}
		return s, nil
	case "label":
		if err := arity(op, args, path, 2, 2); err != nil {
			return nil, err
		}
		l, err := name(args[0], sub(0))
		if err != nil {
			return nil, err
		}
		b, err := decodeStmt(args[1], sub(1))
		if err != nil {
			return nil, err
		}
		return &Labeled{Label: l, Body: b}, nil
	case "break", "continue":
		if err := arity(op, args, path, 0, 1); err != nil {
			return nil, err
		}
		var l string
		if len(args) == 1 {
			if l, err = name(args[0], sub(0)); err != nil {
				return nil, err
			}
		}
		if op == "break" {
			return &Break{Label: l}, nil
		}
		return &Continue{Label: l}, nil
	case "return":
		if err := arity(op, args, path, 0, 1); err != nil {
			return nil, err
		}
		s := &Return{}
		if len(args) == 1 && args[0] != nil {
			if s.X, err = decodeExpr(args[0], sub(0)); err != nil {
				return nil, err
			}
		}
		return s, nil
	case "throw":
		if err := arity(op, args, path, 1, 1); err != nil {
			return nil, err
		}
		x, err := decodeExpr(args[0], sub(0))
		if err != nil {
			return nil, err
		}
		return &Throw{X: x}, nil
	case "try":
		return decodeTry(args, path)
	case "switch":
		return decodeSwitch(args, path)
	case "empty":
		return &Empty{}, nil
	}
	x, err := decodeExpr(v, path)
	if err != nil {
		return nil, err
	}
	return &ExprStmt{X: x}, nil
}

func decodeBlock(args []interface{}, path string) (*Block, error) {
	body, err := decodeStmts(args, path, 1)
	if err != nil {
		return nil, err
	}
	return &Block{Body: body}, nil
}

// blockArg decodes a block operand of try. A nil operand is a nil block.
func blockArg(v interface{}, path string) (*Block, error) {
	if v == nil {
		return nil, nil
	}
	op, args, err := node(v, path)
	if err != nil {
		return nil, err
	}
	if op != "block" {
		return nil, errorf(path, "expected block, got %s", op)
	}
	return decodeBlock(args, path)
}

func decodeTry(args []interface{}, path string) (Stmt, error) {
	if err := arity("try", args, path, 4, 4); err != nil {
		return nil, err
	}
	sub := func(i int) string { return fmt.Sprintf("%s[%d]", path, i+1) }
	s := &Try{}
	var err error
	if s.Block, err = blockArg(args[0], sub(0)); err != nil {
		return nil, err
	}
	if s.Block == nil {
		return nil, errorf(path, "try requires a block")
	}
	if s.Param, err = name(args[1], sub(1)); err != nil {
		return nil, err
	}
	if s.Catch, err = blockArg(args[2], sub(2)); err != nil {
		return nil, err
	}
	if s.Finally, err = blockArg(args[3], sub(3)); err != nil {
		return nil, err
	}
	if s.Catch == nil && s.Finally == nil {
		return nil, errorf(path, "try requires catch or finally")
	}
	return s, nil
}

func decodeSwitch(args []interface{}, path string) (Stmt, error) {
	if err := arity("switch", args, path, 1, -1); err != nil {
		return nil, err
	}
	d, err := decodeExpr(args[0], path+"[1]")
	if err != nil {
		return nil, err
	}
	s := &Switch{Disc: d}
	hasDefault := false
	for i, v := range args[1:] {
		cpath := fmt.Sprintf("%s[%d]", path, i+2)
		op, cargs, err := node(v, cpath)
		if err != nil {
			return nil, err
		}
		c := &Case{}
		switch op {
		case "case":
			if err := arity(op, cargs, cpath, 1, -1); err != nil {
				return nil, err
			}
			if c.Test, err = decodeExpr(cargs[0], cpath+"[1]"); err != nil {
				return nil, err
			}
			cargs = cargs[1:]
			if c.Body, err = decodeStmts(cargs, cpath, 2); err != nil {
				return nil, err
			}
		case "default":
			if hasDefault {
				return nil, errorf(cpath, "duplicate default clause")
			}
			hasDefault = true
			if c.Body, err = decodeStmts(cargs, cpath, 1); err != nil {
				return nil, err
			}
		default:
			return nil, errorf(cpath, "expected case or default, got %s", op)
		}
		s.Cases = append(s.Cases, c)
	}
	return s, nil
}

func decodeFunc(args []interface{}, path string) (*FuncLit, error) {
	if err := arity("function", args, path, 2, -1); err != nil {
		return nil, err
	}
	n, err := name(args[0], path+"[1]")
	if err != nil {
		return nil, err
	}
	f := &FuncLit{Name: n}
	if args[1] != nil {
		ps, ok := args[1].([]interface{})
		if !ok {
			return nil, errorf(path+"[2]", "parameters must be a sequence, not %T", args[1])
		}
		for i, p := range ps {
			pn, err := name(p, fmt.Sprintf("%s[2][%d]", path, i))
			if err != nil {
				return nil, err
			}
			f.Params = append(f.Params, pn)
		}
	}
	if f.Body, err = decodeStmts(args[2:], path, 3); err != nil {
		return nil, err
	}
	return f, nil
}

// binaryOps are the operators decoded to Binary.
var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true,
	"<<": true, ">>": true, ">>>": true, "&": true, "|": true, "^": true,
	"==": true, "!=": true, "===": true, "!==": true,
	"<": true, ">": true, "<=": true, ">=": true,
	"instanceof": true, "in": true,
}

// assignOps are the operators decoded to Assign.
var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<=": true, ">>=": true, ">>>=": true, "&=": true, "|=": true, "^=": true,
}

func decodeExpr(v interface{}, path string) (Expr, error) {
	switch v := v.(type) {
	case nil:
		return &Null{}, nil
	case bool:
		return &Bool{Value: v}, nil
	case int:
		return &Number{Value: float64(v)}, nil
	case int64:
		return &Number{Value: float64(v)}, nil
	case uint64:
		return &Number{Value: float64(v)}, nil
	case float64:
		return &Number{Value: v}, nil
	case string:
		return &String{Value: v}, nil
	case []interface{}:
		// handled below
	default:
		return nil, errorf(path, "unexpected %T", v)
	}
	op, args, err := node(v, path)
	if err != nil {
		return nil, err
	}
	sub := func(i int) string { return fmt.Sprintf("%s[%d]", path, i+1) }
	exprs := func(from int) ([]Expr, error) {
		r := make([]Expr, 0, len(args)-from)
		for i := from; i < len(args); i++ {
			x, err := decodeExpr(args[i], sub(i))
			if err != nil {
				return nil, err
			}
			r = append(r, x)
		}
		return r, nil
	}
	switch {
	case op == "id":
		if err := arity(op, args, path, 1, 1); err != nil {
			return nil, err
		}
		n, err := name(args[0], sub(0))
		if err != nil {
			return nil, err
		}
		return &Ident{Name: n}, nil
	case op == "this":
		return &This{}, nil
	case op == "num":
		// Allows NaN and infinities spelled as strings.
		if err := arity(op, args, path, 1, 1); err != nil {
			return nil, err
		}
		s := fmt.Sprint(args[0])
		f, err := strconv.ParseFloat(s, 64)
		if err != nil && !math.IsInf(f, 0) {
			return nil, errorf(path, "bad number %q", s)
		}
		return &Number{Value: f}, nil
	case op == "object":
		o := &ObjectLit{}
		for i, p := range args {
			pop, pargs, err := node(p, sub(i))
			if err != nil {
				return nil, err
			}
			if err := arity(pop, pargs, sub(i), 1, 1); err != nil {
				return nil, err
			}
			x, err := decodeExpr(pargs[0], sub(i)+"[1]")
			if err != nil {
				return nil, err
			}
			o.Props = append(o.Props, &Prop{Key: pop, Value: x})
		}
		return o, nil
	case op == "array":
		elems, err := exprs(0)
		if err != nil {
			return nil, err
		}
		return &ArrayLit{Elems: elems}, nil
	case op == "function":
		return decodeFunc(args, path)
	case op == ".":
		if err := arity(op, args, path, 2, 2); err != nil {
			return nil, err
		}
		o, err := decodeExpr(args[0], sub(0))
		if err != nil {
			return nil, err
		}
		p, err := name(args[1], sub(1))
		if err != nil {
			return nil, err
		}
		return &Member{Object: o, Property: p}, nil
	case op == "index":
		if err := arity(op, args, path, 2, 2); err != nil {
			return nil, err
		}
		xs, err := exprs(0)
		if err != nil {
			return nil, err
		}
		return &Index{Object: xs[0], Index: xs[1]}, nil
	case op == "call", op == "new":
		if err := arity(op, args, path, 1, -1); err != nil {
			return nil, err
		}
		xs, err := exprs(0)
		if err != nil {
			return nil, err
		}
		if op == "new" {
			return &New{Callee: xs[0], Args: xs[1:]}, nil
		}
		return &Call{Callee: xs[0], Args: xs[1:]}, nil
	case op == "typeof", op == "delete", op == "void", op == "!", op == "~",
		(op == "-" || op == "+") && len(args) == 1:
		if err := arity(op, args, path, 1, 1); err != nil {
			return nil, err
		}
		x, err := decodeExpr(args[0], sub(0))
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, X: x}, nil
	case op == "preinc", op == "predec", op == "postinc", op == "postdec":
		if err := arity(op, args, path, 1, 1); err != nil {
			return nil, err
		}
		x, err := decodeExpr(args[0], sub(0))
		if err != nil {
			return nil, err
		}
		u := &Update{Op: "++", Prefix: op[:3] == "pre", X: x}
		if op[len(op)-3:] == "dec" {
			u.Op = "--"
		}
		return u, nil
	case binaryOps[op], op == "&&", op == "||":
		if err := arity(op, args, path, 2, 2); err != nil {
			return nil, err
		}
		xs, err := exprs(0)
		if err != nil {
			return nil, err
		}
		if op == "&&" || op == "||" {
			return &Logical{Op: op, L: xs[0], R: xs[1]}, nil
		}
		return &Binary{Op: op, L: xs[0], R: xs[1]}, nil
	case assignOps[op]:
		if err := arity(op, args, path, 2, 2); err != nil {
			return nil, err
		}
		xs, err := exprs(0)
		if err != nil {
			return nil, err
		}
		switch xs[0].(type) {
		case *Ident, *Member, *Index:
		default:
			return nil, errorf(sub(0), "invalid assignment target")
		}
		return &Assign{Op: op, Target: xs[0], Value: xs[1]}, nil
	case op == "?":
		if err := arity(op, args, path, 3, 3); err != nil {
			return nil, err
		}
		xs, err := exprs(0)
		if err != nil {
			return nil, err
		}
		return &Conditional{Test: xs[0], Cons: xs[1], Alt: xs[2]}, nil
	case op == "seq":
		xs, err := exprs(0)
		if err != nil {
			return nil, err
		}
		return &Sequence{Exprs: xs}, nil
	}
	return nil, errorf(path, "unknown operator %q", op)
}
