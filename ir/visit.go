package ir

import "fmt"

// Visit invokes visitor for every direct child node of node. It does
// not recurse into those children itself; callers that need a full
// traversal call Visit again from inside visitor, mirroring
// gapil/ast.Visit's shallow-dispatch shape.
func Visit(node Node, visitor func(Node)) {
	switch n := node.(type) {
	case *Value:
		// leaf: no child nodes.
	case *Block:
		for _, s := range n.Statements {
			visitor(s)
		}
		if n.Result != nil {
			visitor(n.Result)
		}
	case *Let:
		visitor(n.Value)
	case *Assign:
		visitor(n.Value)
	case *If:
		for _, br := range n.Branches {
			visitor(br.Predicate)
			visitor(br.Body)
		}
		if n.Else != nil {
			visitor(n.Else)
		}
	case *While:
		visitor(n.Predicate)
		visitor(n.Body)
	case *For:
		visitor(n.Collection)
		visitor(n.Body)
	case *Return:
		visitor(n.Value)
	case *Break:
		// leaf
	case *Continue:
		// leaf
	case *Error:
		visitor(n.Message)
	case *Try:
		visitor(n.Body)
		visitor(n.Catch)
	case *Match:
		visitor(n.Scrutinee)
		for _, arm := range n.Arms {
			visitor(arm.Body)
		}
	case *Call:
		visitor(n.Callee)
		for _, a := range n.Args {
			visitor(a)
		}
	case *Platform:
		for _, a := range n.Args {
			visitor(a)
		}
	case *Builtin:
		for _, a := range n.Args {
			visitor(a)
		}
	case *Function:
		visitor(n.Body)
	case *AsyncFunction:
		visitor(n.Body)
	case *NewArray:
		for _, it := range n.Items {
			visitor(it)
		}
	case *NewSet:
		for _, it := range n.Items {
			visitor(it)
		}
	case *NewDict:
		for _, e := range n.Entries {
			visitor(e.Key)
			visitor(e.Value)
		}
	case *NewRef:
		visitor(n.Init)
	case *Struct:
		for _, f := range n.Fields {
			visitor(f.Value)
		}
	case *Variant:
		if n.Inner != nil {
			visitor(n.Inner)
		}
	case *WrapRecursive:
		visitor(n.Value)
	case *UnwrapRecursive:
		visitor(n.Value)
	case *Reference:
		// leaf
	default:
		panic(fmt.Errorf("ir: unsupported node type %T", n))
	}
}
