package beast2

import (
	"fmt"

	"github.com/elaraai/east/analyzer"
	"github.com/elaraai/east/compiler"
	"github.com/elaraai/east/ir"
	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

// function implements the Function/AsyncFunction value case of
// encoder.value: spec §4.E requires captures to be empty (the value's
// attached IR is what gets serialized), which is exactly the
// compiler's own "free function" contract -- values.Function.IR is
// nil whenever the closure that produced it captured anything.
func (enc *encoder) function(v values.Value) error {
	var node any
	switch fn := v.(type) {
	case *values.Function:
		node = fn.IR
	case *values.AsyncFunction:
		node = fn.IR
	default:
		return fmt.Errorf("beast2: expected a function value, got %T", v)
	}
	if node == nil {
		return fmt.Errorf("beast2: function has a non-empty capture set and cannot be serialized")
	}
	n, ok := node.(ir.Node)
	if !ok {
		return fmt.Errorf("beast2: function's attached IR is not an ir.Node")
	}
	return enc.node(n)
}

// function is the decode-side mirror: it always reconstructs the
// embedded ir.Node. If the decoder was built with platform bindings
// (DecodeFor/DecodeAnonymous's bindings argument), the function is
// re-analyzed and recompiled into a callable immediately -- spec
// §4.E's "re-runs analysis and the compiler... against the fresh
// platform" -- otherwise the returned value carries its IR but an
// Impl that reports the function was never compiled, rather than a
// nil func value that would panic a caller instead of erroring it.
func (dec *decoder) function(t types.Type) (values.Value, error) {
	n, err := dec.node()
	if err != nil {
		return nil, err
	}
	switch ft := t.(type) {
	case *types.Function:
		fn, ok := n.(*ir.Function)
		if !ok {
			return nil, fmt.Errorf("beast2: expected an ir.Function, got %T", n)
		}
		if dec.bindings == nil {
			return &values.Function{Type: ft, Impl: uncompiledCall(ft.Inputs), IR: fn}, nil
		}
		anns, err := analyzer.Analyze(fn, dec.bindings, dec.log)
		if err != nil {
			return nil, err
		}
		return compiler.CompileSync(fn, anns, dec.bindings, dec.log)
	case *types.AsyncFunction:
		fn, ok := n.(*ir.AsyncFunction)
		if !ok {
			return nil, fmt.Errorf("beast2: expected an ir.AsyncFunction, got %T", n)
		}
		if dec.bindings == nil {
			return &values.AsyncFunction{Type: ft, Impl: uncompiledAsyncCall(ft.Inputs), IR: fn}, nil
		}
		anns, err := analyzer.Analyze(fn, dec.bindings, dec.log)
		if err != nil {
			return nil, err
		}
		return compiler.CompileAsync(fn, anns, dec.bindings, dec.log)
	default:
		return nil, fmt.Errorf("beast2: function value decoded against non-function type %T", t)
	}
}

func uncompiledCall(inputs []types.Type) values.Call {
	return func(args []values.Value) (values.Value, error) {
		return nil, fmt.Errorf("beast2: function was decoded without platform bindings and cannot be called; decode with bindings to recompile it")
	}
}

func uncompiledAsyncCall(inputs []types.Type) values.AsyncCall {
	return func(args []values.Value) (values.Deferred, error) {
		return nil, fmt.Errorf("beast2: function was decoded without platform bindings and cannot be called; decode with bindings to recompile it")
	}
}

// IR node tags. Order matches the case list below; it has no
// relationship to any Go-side declaration order, it only needs to be
// stable across an encode/decode pair of this package version.
const (
	nodeValue = iota
	nodeBlock
	nodeLet
	nodeAssign
	nodeIf
	nodeWhile
	nodeFor
	nodeReturn
	nodeBreak
	nodeContinue
	nodeError
	nodeTry
	nodeMatch
	nodeCall
	nodePlatform
	nodeBuiltin
	nodeFunction
	nodeAsyncFunction
	nodeNewArray
	nodeNewSet
	nodeNewDict
	nodeNewRef
	nodeStruct
	nodeVariant
	nodeWrapRecursive
	nodeUnwrapRecursive
	nodeReference
)

func (enc *encoder) location(loc ir.Location) error {
	if err := enc.w.stringBytes(loc.File); err != nil {
		return err
	}
	if err := enc.w.varint(uint64(loc.Line)); err != nil {
		return err
	}
	return enc.w.varint(uint64(loc.Column))
}

func (dec *decoder) location() (ir.Location, error) {
	file, err := dec.r.stringBytes()
	if err != nil {
		return ir.Location{}, err
	}
	line, err := dec.r.varint()
	if err != nil {
		return ir.Location{}, err
	}
	col, err := dec.r.varint()
	if err != nil {
		return ir.Location{}, err
	}
	return ir.Location{File: file, Line: int(line), Column: int(col)}, nil
}

// withLoc stamps a freshly decoded node with its source Location.
// ir.Node embeds an unexported base struct, so this can't be done
// through a composite literal outside package ir; the promoted
// Location field is exported, so plain assignment through the
// concrete pointer type works per node kind.
func withLoc(n ir.Node, loc ir.Location) ir.Node {
	switch x := n.(type) {
	case *ir.Value:
		x.Location = loc
	case *ir.Block:
		x.Location = loc
	case *ir.Let:
		x.Location = loc
	case *ir.Assign:
		x.Location = loc
	case *ir.If:
		x.Location = loc
	case *ir.While:
		x.Location = loc
	case *ir.For:
		x.Location = loc
	case *ir.Return:
		x.Location = loc
	case *ir.Break:
		x.Location = loc
	case *ir.Continue:
		x.Location = loc
	case *ir.Error:
		x.Location = loc
	case *ir.Try:
		x.Location = loc
	case *ir.Match:
		x.Location = loc
	case *ir.Call:
		x.Location = loc
	case *ir.Platform:
		x.Location = loc
	case *ir.Builtin:
		x.Location = loc
	case *ir.Function:
		x.Location = loc
	case *ir.AsyncFunction:
		x.Location = loc
	case *ir.NewArray:
		x.Location = loc
	case *ir.NewSet:
		x.Location = loc
	case *ir.NewDict:
		x.Location = loc
	case *ir.NewRef:
		x.Location = loc
	case *ir.Struct:
		x.Location = loc
	case *ir.Variant:
		x.Location = loc
	case *ir.WrapRecursive:
		x.Location = loc
	case *ir.UnwrapRecursive:
		x.Location = loc
	case *ir.Reference:
		x.Location = loc
	}
	return n
}

func (enc *encoder) nodes(ns []ir.Node) error {
	if err := enc.w.varint(uint64(len(ns))); err != nil {
		return err
	}
	for _, n := range ns {
		if err := enc.node(n); err != nil {
			return err
		}
	}
	return nil
}

func (dec *decoder) nodes() ([]ir.Node, error) {
	n, err := dec.r.varint()
	if err != nil {
		return nil, err
	}
	out := make([]ir.Node, n)
	for i := range out {
		out[i], err = dec.node()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (enc *encoder) maybeNode(n ir.Node) error {
	if n == nil {
		if err := enc.w.varint(0); err != nil {
			return err
		}
		return nil
	}
	if err := enc.w.varint(1); err != nil {
		return err
	}
	return enc.node(n)
}

func (dec *decoder) maybeNode() (ir.Node, error) {
	present, err := dec.r.varint()
	if err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}
	return dec.node()
}

func (enc *encoder) params(ps []ir.Param) error {
	if err := enc.w.varint(uint64(len(ps))); err != nil {
		return err
	}
	for _, p := range ps {
		if err := enc.w.stringBytes(p.Name); err != nil {
			return err
		}
		if err := encodeType(enc.w, p.Type); err != nil {
			return err
		}
	}
	return nil
}

func (dec *decoder) params() ([]ir.Param, error) {
	n, err := dec.r.varint()
	if err != nil {
		return nil, err
	}
	out := make([]ir.Param, n)
	for i := range out {
		name, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		t, err := decodeType(dec.r)
		if err != nil {
			return nil, err
		}
		out[i] = ir.Param{Name: name, Type: t}
	}
	return out, nil
}

func (enc *encoder) strings(ss []string) error {
	if err := enc.w.varint(uint64(len(ss))); err != nil {
		return err
	}
	for _, s := range ss {
		if err := enc.w.stringBytes(s); err != nil {
			return err
		}
	}
	return nil
}

func (dec *decoder) strings() ([]string, error) {
	n, err := dec.r.varint()
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		out[i], err = dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// node dispatches on the closed ir.Node set, mirroring the teacher's
// bapi.encoder.node switch-to-tagged-record shape with raw wire tags
// standing in for protobuf oneof fields.
func (enc *encoder) node(n ir.Node) error {
	switch x := n.(type) {
	case *ir.Value:
		if err := enc.w.varint(nodeValue); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := encodeType(enc.w, x.Type); err != nil {
			return err
		}
		return enc.value(x.Type, x.Literal)
	case *ir.Block:
		if err := enc.w.varint(nodeBlock); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := enc.nodes(x.Statements); err != nil {
			return err
		}
		return enc.maybeNode(x.Result)
	case *ir.Let:
		if err := enc.w.varint(nodeLet); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := enc.w.stringBytes(x.Name); err != nil {
			return err
		}
		return enc.node(x.Value)
	case *ir.Assign:
		if err := enc.w.varint(nodeAssign); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := enc.w.stringBytes(x.Binding); err != nil {
			return err
		}
		return enc.node(x.Value)
	case *ir.If:
		if err := enc.w.varint(nodeIf); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := enc.w.varint(uint64(len(x.Branches))); err != nil {
			return err
		}
		for _, br := range x.Branches {
			if err := enc.node(br.Predicate); err != nil {
				return err
			}
			if err := enc.node(br.Body); err != nil {
				return err
			}
		}
		return enc.node(x.Else)
	case *ir.While:
		if err := enc.w.varint(nodeWhile); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := enc.w.stringBytes(x.Label); err != nil {
			return err
		}
		if err := enc.node(x.Predicate); err != nil {
			return err
		}
		return enc.node(x.Body)
	case *ir.For:
		if err := enc.w.varint(nodeFor); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := enc.w.stringBytes(x.Label); err != nil {
			return err
		}
		if err := enc.node(x.Collection); err != nil {
			return err
		}
		if err := enc.w.stringBytes(x.ItemName); err != nil {
			return err
		}
		if err := enc.w.stringBytes(x.KeyName); err != nil {
			return err
		}
		return enc.node(x.Body)
	case *ir.Return:
		if err := enc.w.varint(nodeReturn); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		return enc.node(x.Value)
	case *ir.Break:
		if err := enc.w.varint(nodeBreak); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		return enc.w.stringBytes(x.Label)
	case *ir.Continue:
		if err := enc.w.varint(nodeContinue); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		return enc.w.stringBytes(x.Label)
	case *ir.Error:
		if err := enc.w.varint(nodeError); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		return enc.node(x.Message)
	case *ir.Try:
		if err := enc.w.varint(nodeTry); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := enc.node(x.Body); err != nil {
			return err
		}
		if err := enc.w.stringBytes(x.MessageName); err != nil {
			return err
		}
		if err := enc.w.stringBytes(x.StackName); err != nil {
			return err
		}
		return enc.node(x.Catch)
	case *ir.Match:
		if err := enc.w.varint(nodeMatch); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := enc.node(x.Scrutinee); err != nil {
			return err
		}
		if err := enc.w.varint(uint64(len(x.Arms))); err != nil {
			return err
		}
		for _, arm := range x.Arms {
			if err := enc.w.stringBytes(arm.CaseName); err != nil {
				return err
			}
			if err := enc.w.stringBytes(arm.BindName); err != nil {
				return err
			}
			if err := enc.node(arm.Body); err != nil {
				return err
			}
		}
		return nil
	case *ir.Call:
		if err := enc.w.varint(nodeCall); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := enc.node(x.Callee); err != nil {
			return err
		}
		return enc.nodes(x.Args)
	case *ir.Platform:
		if err := enc.w.varint(nodePlatform); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := enc.w.stringBytes(x.Name); err != nil {
			return err
		}
		return enc.nodes(x.Args)
	case *ir.Builtin:
		if err := enc.w.varint(nodeBuiltin); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := enc.w.stringBytes(x.Name); err != nil {
			return err
		}
		if err := enc.w.varint(uint64(len(x.TypeParams))); err != nil {
			return err
		}
		for _, tp := range x.TypeParams {
			if err := encodeType(enc.w, tp); err != nil {
				return err
			}
		}
		return enc.nodes(x.Args)
	case *ir.Function:
		if err := enc.w.varint(nodeFunction); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := enc.params(x.Params); err != nil {
			return err
		}
		if err := encodeType(enc.w, x.Output); err != nil {
			return err
		}
		if err := enc.node(x.Body); err != nil {
			return err
		}
		return enc.strings(x.Captures)
	case *ir.AsyncFunction:
		if err := enc.w.varint(nodeAsyncFunction); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := enc.params(x.Params); err != nil {
			return err
		}
		if err := encodeType(enc.w, x.Output); err != nil {
			return err
		}
		if err := enc.node(x.Body); err != nil {
			return err
		}
		return enc.strings(x.Captures)
	case *ir.NewArray:
		if err := enc.w.varint(nodeNewArray); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := encodeType(enc.w, x.Elem); err != nil {
			return err
		}
		return enc.nodes(x.Items)
	case *ir.NewSet:
		if err := enc.w.varint(nodeNewSet); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := encodeType(enc.w, x.Key); err != nil {
			return err
		}
		return enc.nodes(x.Items)
	case *ir.NewDict:
		if err := enc.w.varint(nodeNewDict); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := encodeType(enc.w, x.Key); err != nil {
			return err
		}
		if err := encodeType(enc.w, x.Value); err != nil {
			return err
		}
		if err := enc.w.varint(uint64(len(x.Entries))); err != nil {
			return err
		}
		for _, e := range x.Entries {
			if err := enc.node(e.Key); err != nil {
				return err
			}
			if err := enc.node(e.Value); err != nil {
				return err
			}
		}
		return nil
	case *ir.NewRef:
		if err := enc.w.varint(nodeNewRef); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := encodeType(enc.w, x.Inner); err != nil {
			return err
		}
		return enc.node(x.Init)
	case *ir.Struct:
		if err := enc.w.varint(nodeStruct); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := encodeType(enc.w, x.Type); err != nil {
			return err
		}
		if err := enc.w.varint(uint64(len(x.Fields))); err != nil {
			return err
		}
		for _, f := range x.Fields {
			if err := enc.w.stringBytes(f.Name); err != nil {
				return err
			}
			if err := enc.node(f.Value); err != nil {
				return err
			}
		}
		return nil
	case *ir.Variant:
		if err := enc.w.varint(nodeVariant); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := encodeType(enc.w, x.Type); err != nil {
			return err
		}
		if err := enc.w.stringBytes(x.Case); err != nil {
			return err
		}
		return enc.maybeNode(x.Inner)
	case *ir.WrapRecursive:
		if err := enc.w.varint(nodeWrapRecursive); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		if err := encodeType(enc.w, x.Type); err != nil {
			return err
		}
		return enc.node(x.Value)
	case *ir.UnwrapRecursive:
		if err := enc.w.varint(nodeUnwrapRecursive); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		return enc.node(x.Value)
	case *ir.Reference:
		if err := enc.w.varint(nodeReference); err != nil {
			return err
		}
		if err := enc.location(x.Location); err != nil {
			return err
		}
		return enc.w.stringBytes(x.Binding)
	default:
		return fmt.Errorf("beast2: unhandled IR node type %T", n)
	}
}

func (dec *decoder) node() (ir.Node, error) {
	tag, err := dec.r.varint()
	if err != nil {
		return nil, err
	}
	loc, err := dec.location()
	if err != nil {
		return nil, err
	}
	switch tag {
	case nodeValue:
		t, err := decodeType(dec.r)
		if err != nil {
			return nil, err
		}
		v, err := dec.value(t)
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Value{Type: t, Literal: v}, loc), nil
	case nodeBlock:
		stmts, err := dec.nodes()
		if err != nil {
			return nil, err
		}
		result, err := dec.maybeNode()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Block{Statements: stmts, Result: result}, loc), nil
	case nodeLet:
		name, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		val, err := dec.node()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Let{Name: name, Value: val}, loc), nil
	case nodeAssign:
		binding, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		val, err := dec.node()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Assign{Binding: binding, Value: val}, loc), nil
	case nodeIf:
		n, err := dec.r.varint()
		if err != nil {
			return nil, err
		}
		branches := make([]ir.IfBranch, n)
		for i := range branches {
			pred, err := dec.node()
			if err != nil {
				return nil, err
			}
			body, err := dec.node()
			if err != nil {
				return nil, err
			}
			branches[i] = ir.IfBranch{Predicate: pred, Body: body}
		}
		els, err := dec.node()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.If{Branches: branches, Else: els}, loc), nil
	case nodeWhile:
		label, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		pred, err := dec.node()
		if err != nil {
			return nil, err
		}
		body, err := dec.node()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.While{Label: label, Predicate: pred, Body: body}, loc), nil
	case nodeFor:
		label, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		coll, err := dec.node()
		if err != nil {
			return nil, err
		}
		item, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		key, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		body, err := dec.node()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.For{Label: label, Collection: coll, ItemName: item, KeyName: key, Body: body}, loc), nil
	case nodeReturn:
		val, err := dec.node()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Return{Value: val}, loc), nil
	case nodeBreak:
		label, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Break{Label: label}, loc), nil
	case nodeContinue:
		label, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Continue{Label: label}, loc), nil
	case nodeError:
		msg, err := dec.node()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Error{Message: msg}, loc), nil
	case nodeTry:
		body, err := dec.node()
		if err != nil {
			return nil, err
		}
		msgName, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		stackName, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		catch, err := dec.node()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Try{Body: body, MessageName: msgName, StackName: stackName, Catch: catch}, loc), nil
	case nodeMatch:
		scrutinee, err := dec.node()
		if err != nil {
			return nil, err
		}
		n, err := dec.r.varint()
		if err != nil {
			return nil, err
		}
		arms := make([]ir.MatchArm, n)
		for i := range arms {
			caseName, err := dec.r.stringBytes()
			if err != nil {
				return nil, err
			}
			bindName, err := dec.r.stringBytes()
			if err != nil {
				return nil, err
			}
			body, err := dec.node()
			if err != nil {
				return nil, err
			}
			arms[i] = ir.MatchArm{CaseName: caseName, BindName: bindName, Body: body}
		}
		return withLoc(&ir.Match{Scrutinee: scrutinee, Arms: arms}, loc), nil
	case nodeCall:
		callee, err := dec.node()
		if err != nil {
			return nil, err
		}
		args, err := dec.nodes()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Call{Callee: callee, Args: args}, loc), nil
	case nodePlatform:
		name, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		args, err := dec.nodes()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Platform{Name: name, Args: args}, loc), nil
	case nodeBuiltin:
		name, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		n, err := dec.r.varint()
		if err != nil {
			return nil, err
		}
		typeParams := make([]types.Type, n)
		for i := range typeParams {
			typeParams[i], err = decodeType(dec.r)
			if err != nil {
				return nil, err
			}
		}
		args, err := dec.nodes()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Builtin{Name: name, TypeParams: typeParams, Args: args}, loc), nil
	case nodeFunction:
		params, err := dec.params()
		if err != nil {
			return nil, err
		}
		output, err := decodeType(dec.r)
		if err != nil {
			return nil, err
		}
		body, err := dec.node()
		if err != nil {
			return nil, err
		}
		captures, err := dec.strings()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Function{Params: params, Output: output, Body: body, Captures: captures}, loc), nil
	case nodeAsyncFunction:
		params, err := dec.params()
		if err != nil {
			return nil, err
		}
		output, err := decodeType(dec.r)
		if err != nil {
			return nil, err
		}
		body, err := dec.node()
		if err != nil {
			return nil, err
		}
		captures, err := dec.strings()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.AsyncFunction{Params: params, Output: output, Body: body, Captures: captures}, loc), nil
	case nodeNewArray:
		elem, err := decodeType(dec.r)
		if err != nil {
			return nil, err
		}
		items, err := dec.nodes()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.NewArray{Elem: elem, Items: items}, loc), nil
	case nodeNewSet:
		key, err := decodeType(dec.r)
		if err != nil {
			return nil, err
		}
		items, err := dec.nodes()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.NewSet{Key: key, Items: items}, loc), nil
	case nodeNewDict:
		key, err := decodeType(dec.r)
		if err != nil {
			return nil, err
		}
		val, err := decodeType(dec.r)
		if err != nil {
			return nil, err
		}
		n, err := dec.r.varint()
		if err != nil {
			return nil, err
		}
		entries := make([]ir.DictEntry, n)
		for i := range entries {
			k, err := dec.node()
			if err != nil {
				return nil, err
			}
			v, err := dec.node()
			if err != nil {
				return nil, err
			}
			entries[i] = ir.DictEntry{Key: k, Value: v}
		}
		return withLoc(&ir.NewDict{Key: key, Value: val, Entries: entries}, loc), nil
	case nodeNewRef:
		inner, err := decodeType(dec.r)
		if err != nil {
			return nil, err
		}
		init, err := dec.node()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.NewRef{Inner: inner, Init: init}, loc), nil
	case nodeStruct:
		t, err := decodeType(dec.r)
		if err != nil {
			return nil, err
		}
		st, ok := t.(*types.Struct)
		if !ok {
			return nil, fmt.Errorf("beast2: Struct node decoded a non-Struct type %T", t)
		}
		n, err := dec.r.varint()
		if err != nil {
			return nil, err
		}
		fields := make([]ir.StructField, n)
		for i := range fields {
			name, err := dec.r.stringBytes()
			if err != nil {
				return nil, err
			}
			val, err := dec.node()
			if err != nil {
				return nil, err
			}
			fields[i] = ir.StructField{Name: name, Value: val}
		}
		return withLoc(&ir.Struct{Type: st, Fields: fields}, loc), nil
	case nodeVariant:
		t, err := decodeType(dec.r)
		if err != nil {
			return nil, err
		}
		vt, ok := t.(*types.Variant)
		if !ok {
			return nil, fmt.Errorf("beast2: Variant node decoded a non-Variant type %T", t)
		}
		caseName, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		inner, err := dec.maybeNode()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Variant{Type: vt, Case: caseName, Inner: inner}, loc), nil
	case nodeWrapRecursive:
		t, err := decodeType(dec.r)
		if err != nil {
			return nil, err
		}
		rt, ok := t.(*types.Recursive)
		if !ok {
			return nil, fmt.Errorf("beast2: WrapRecursive node decoded a non-Recursive type %T", t)
		}
		val, err := dec.node()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.WrapRecursive{Type: rt, Value: val}, loc), nil
	case nodeUnwrapRecursive:
		val, err := dec.node()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.UnwrapRecursive{Value: val}, loc), nil
	case nodeReference:
		binding, err := dec.r.stringBytes()
		if err != nil {
			return nil, err
		}
		return withLoc(&ir.Reference{Binding: binding}, loc), nil
	default:
		return nil, fmt.Errorf("beast2: unknown IR node tag %d", tag)
	}
}
