package compiler

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/elaraai/east/analyzer"
	"github.com/elaraai/east/ir"
	"github.com/elaraai/east/platform"
	"github.com/elaraai/east/runtime"
	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

// node is the compiled form of every ir.Node: a closure that, given a
// runtime Env, produces a value or an error. Control flow that must
// cross several node boundaries (Return, Break, Continue) is carried
// as one of the sentinel error types in control.go rather than a
// second return channel, the same shape the IR's own designers called
// out as equivalent to a CPS lowering (spec §4.D).
type node func(env *Env) (values.Value, error)

// compiler lowers an analyzed IR tree into node closures. It is built
// fresh for each CompileSync/CompileAsync call; it carries no mutable
// state of its own beyond what compile needs to look things up.
type compiler struct {
	anns     analyzer.Annotations
	bindings *platform.Bindings
	log      hclog.Logger
}

func newCompiler(anns analyzer.Annotations, bindings *platform.Bindings, logger hclog.Logger) *compiler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &compiler{anns: anns, bindings: bindings, log: logger.Named("compiler")}
}

func (c *compiler) annotation(n ir.Node) (analyzer.Annotation, error) {
	ann, ok := c.anns[n]
	if !ok {
		return analyzer.Annotation{}, errors.New("compiler: node was not analyzed")
	}
	return ann, nil
}

func frameFromLoc(loc ir.Location) values.StackFrame {
	return values.StackFrame{File: loc.File, Line: loc.Line, Column: loc.Column}
}

func stackArrayFrom(frames []values.StackFrame) *values.Array {
	arr := values.NewArray(runtime.StackFrameType)
	for _, f := range frames {
		arr.Elements = append(arr.Elements, values.NewStruct(runtime.StackFrameType,
			values.String(f.File), values.Integer(f.Line), values.Integer(f.Column)))
	}
	return arr
}

// hasAsyncPlatform reports whether platforms intersects the bindings'
// async-kind names.
func hasAsyncPlatform(platforms types.PlatformSet, bindings *platform.Bindings) bool {
	if bindings == nil {
		return false
	}
	async := bindings.AsyncNames()
	for name := range platforms {
		if _, ok := async[name]; ok {
			return true
		}
	}
	return false
}

// CompileSync compiles fn into a synchronous *values.Function, invoked
// against a fresh empty environment -- the free top-level function
// case of spec §3.2/§4.E. It fails if fn's closure type (computed by
// Analyze) reaches any async-kind platform binding; such a function
// must be compiled with CompileAsync instead (spec §4.D/§9's
// sync/async compile-path exclusivity).
func CompileSync(fn *ir.Function, anns analyzer.Annotations, bindings *platform.Bindings, logger hclog.Logger) (*values.Function, error) {
	ann, err := (&compiler{anns: anns}).annotation(fn)
	if err != nil {
		return nil, err
	}
	ft, ok := ann.Type.(*types.Function)
	if !ok {
		return nil, errors.New("compiler: CompileSync given a node that is not a Function")
	}
	if hasAsyncPlatform(ft.Platforms, bindings) {
		return nil, errors.New("compiler: function body reaches an async platform; use CompileAsync")
	}
	c := newCompiler(anns, bindings, logger)
	fnNode, err := c.compileFunction(fn)
	if err != nil {
		return nil, err
	}
	v, err := fnNode(NewEnv())
	if err != nil {
		return nil, err
	}
	return v.(*values.Function), nil
}

// CompileAsync compiles fn into an *values.AsyncFunction, invoked
// against a fresh empty environment. It fails if fn's closure type
// reaches no async-kind platform binding at all, the mirror check of
// CompileSync's gate.
func CompileAsync(fn *ir.AsyncFunction, anns analyzer.Annotations, bindings *platform.Bindings, logger hclog.Logger) (*values.AsyncFunction, error) {
	ann, err := (&compiler{anns: anns}).annotation(fn)
	if err != nil {
		return nil, err
	}
	ft, ok := ann.Type.(*types.AsyncFunction)
	if !ok {
		return nil, errors.New("compiler: CompileAsync given a node that is not an AsyncFunction")
	}
	if !hasAsyncPlatform(ft.Platforms, bindings) {
		return nil, errors.New("compiler: function body reaches no async platform; use CompileSync")
	}
	c := newCompiler(anns, bindings, logger)
	fnNode, err := c.compileAsyncFunction(fn)
	if err != nil {
		return nil, err
	}
	v, err := fnNode(NewEnv())
	if err != nil {
		return nil, err
	}
	return v.(*values.AsyncFunction), nil
}

// compile lowers n into a node closure. It trusts n was already
// checked by analyzer.Analyze against the same bindings -- like
// runtime.Registry's Eval functions, it does not re-validate arity or
// types, only dispatches.
func (c *compiler) compile(n ir.Node) (node, error) {
	switch x := n.(type) {
	case *ir.Value:
		return c.compileValue(x)
	case *ir.Reference:
		return c.compileReference(x)
	case *ir.Block:
		return c.compileBlock(x)
	case *ir.Let:
		return c.compileLet(x)
	case *ir.Assign:
		return c.compileAssign(x)
	case *ir.If:
		return c.compileIf(x)
	case *ir.While:
		return c.compileWhile(x)
	case *ir.For:
		return c.compileFor(x)
	case *ir.Return:
		return c.compileReturn(x)
	case *ir.Break:
		return c.compileBreak(x)
	case *ir.Continue:
		return c.compileContinue(x)
	case *ir.Error:
		return c.compileError(x)
	case *ir.Try:
		return c.compileTry(x)
	case *ir.Match:
		return c.compileMatch(x)
	case *ir.Call:
		return c.compileCall(x)
	case *ir.Platform:
		return c.compilePlatform(x)
	case *ir.Builtin:
		return c.compileBuiltin(x)
	case *ir.Function:
		return c.compileFunction(x)
	case *ir.AsyncFunction:
		return c.compileAsyncFunction(x)
	case *ir.NewArray:
		return c.compileNewArray(x)
	case *ir.NewSet:
		return c.compileNewSet(x)
	case *ir.NewDict:
		return c.compileNewDict(x)
	case *ir.NewRef:
		return c.compileNewRef(x)
	case *ir.Struct:
		return c.compileStruct(x)
	case *ir.Variant:
		return c.compileVariant(x)
	case *ir.WrapRecursive:
		return c.compileWrapRecursive(x)
	case *ir.UnwrapRecursive:
		return c.compileUnwrapRecursive(x)
	}
	return nil, errors.Errorf("compiler: unhandled node type %T", n)
}

func (c *compiler) compileMany(ns []ir.Node) ([]node, error) {
	out := make([]node, len(ns))
	for i, n := range ns {
		cn, err := c.compile(n)
		if err != nil {
			return nil, err
		}
		out[i] = cn
	}
	return out, nil
}

func evalAll(nodes []node, env *Env) ([]values.Value, error) {
	out := make([]values.Value, len(nodes))
	for i, n := range nodes {
		v, err := n(env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c *compiler) compileValue(x *ir.Value) (node, error) {
	literal := x.Literal
	return func(env *Env) (values.Value, error) {
		return literal, nil
	}, nil
}

func (c *compiler) compileReference(x *ir.Reference) (node, error) {
	name := x.Binding
	return func(env *Env) (values.Value, error) {
		s, ok := env.find(name)
		if !ok {
			return nil, errors.Errorf("compiler: reference to unbound name %q", name)
		}
		return s.value, nil
	}, nil
}

func (c *compiler) compileBlock(x *ir.Block) (node, error) {
	stmts, err := c.compileMany(x.Statements)
	if err != nil {
		return nil, err
	}
	var result node
	if x.Result != nil {
		result, err = c.compile(x.Result)
		if err != nil {
			return nil, err
		}
	}
	return func(env *Env) (values.Value, error) {
		child := env.child()
		for _, s := range stmts {
			if _, err := s(child); err != nil {
				return nil, err
			}
		}
		if result == nil {
			return values.Null{}, nil
		}
		return result(child)
	}, nil
}

func (c *compiler) compileLet(x *ir.Let) (node, error) {
	value, err := c.compile(x.Value)
	if err != nil {
		return nil, err
	}
	name := x.Name
	return func(env *Env) (values.Value, error) {
		v, err := value(env)
		if err != nil {
			return nil, err
		}
		env.define(name, v)
		return values.Null{}, nil
	}, nil
}

func (c *compiler) compileAssign(x *ir.Assign) (node, error) {
	value, err := c.compile(x.Value)
	if err != nil {
		return nil, err
	}
	name := x.Binding
	return func(env *Env) (values.Value, error) {
		v, err := value(env)
		if err != nil {
			return nil, err
		}
		s, ok := env.find(name)
		if !ok {
			return nil, errors.Errorf("compiler: assignment to unbound name %q", name)
		}
		s.value = v
		return values.Null{}, nil
	}, nil
}

func (c *compiler) compileIf(x *ir.If) (node, error) {
	type branch struct {
		predicate node
		body      node
	}
	branches := make([]branch, len(x.Branches))
	for i, b := range x.Branches {
		pred, err := c.compile(b.Predicate)
		if err != nil {
			return nil, err
		}
		body, err := c.compile(b.Body)
		if err != nil {
			return nil, err
		}
		branches[i] = branch{predicate: pred, body: body}
	}
	var elseBody node
	if x.Else != nil {
		var err error
		elseBody, err = c.compile(x.Else)
		if err != nil {
			return nil, err
		}
	}
	return func(env *Env) (values.Value, error) {
		for _, b := range branches {
			pv, err := b.predicate(env)
			if err != nil {
				return nil, err
			}
			if bool(pv.(values.Boolean)) {
				return b.body(env)
			}
		}
		if elseBody == nil {
			return values.Null{}, nil
		}
		return elseBody(env)
	}, nil
}

func (c *compiler) compileWhile(x *ir.While) (node, error) {
	predicate, err := c.compile(x.Predicate)
	if err != nil {
		return nil, err
	}
	body, err := c.compile(x.Body)
	if err != nil {
		return nil, err
	}
	label := x.Label
	return func(env *Env) (values.Value, error) {
		for {
			pv, err := predicate(env)
			if err != nil {
				return nil, err
			}
			if !bool(pv.(values.Boolean)) {
				return values.Null{}, nil
			}
			if _, err := body(env); err != nil {
				if isBreak, isContinue := matchesLoop(err, label); isBreak {
					return values.Null{}, nil
				} else if isContinue {
					continue
				}
				return nil, err
			}
		}
	}, nil
}

func (c *compiler) compileFor(x *ir.For) (node, error) {
	collection, err := c.compile(x.Collection)
	if err != nil {
		return nil, err
	}
	body, err := c.compile(x.Body)
	if err != nil {
		return nil, err
	}
	label := x.Label
	itemName := x.ItemName
	keyName := x.KeyName

	runBody := func(env *Env, key, item values.Value) (brk bool, err error) {
		child := env.child()
		if keyName != "" {
			child.define(keyName, key)
		}
		child.define(itemName, item)
		if _, err := body(child); err != nil {
			if isBreak, isContinue := matchesLoop(err, label); isBreak {
				return true, nil
			} else if isContinue {
				return false, nil
			}
			return false, err
		}
		return false, nil
	}

	return func(env *Env) (values.Value, error) {
		cv, err := collection(env)
		if err != nil {
			return nil, err
		}
		switch coll := cv.(type) {
		case *values.Array:
			coll.BeginIteration()
			defer coll.EndIteration()
			for _, item := range coll.Elements {
				brk, err := runBody(env, nil, item)
				if err != nil {
					return nil, err
				}
				if brk {
					break
				}
			}
		case *values.Set:
			coll.BeginIteration()
			defer coll.EndIteration()
			for _, item := range coll.Order {
				brk, err := runBody(env, nil, item)
				if err != nil {
					return nil, err
				}
				if brk {
					break
				}
			}
		case *values.Dict:
			coll.BeginIteration()
			defer coll.EndIteration()
			for i, key := range coll.Order {
				brk, err := runBody(env, key, coll.Vals[i])
				if err != nil {
					return nil, err
				}
				if brk {
					break
				}
			}
		default:
			return nil, errors.Errorf("compiler: for loop over non-container value %T", cv)
		}
		return values.Null{}, nil
	}, nil
}

func (c *compiler) compileReturn(x *ir.Return) (node, error) {
	value, err := c.compile(x.Value)
	if err != nil {
		return nil, err
	}
	return func(env *Env) (values.Value, error) {
		v, err := value(env)
		if err != nil {
			return nil, err
		}
		return nil, &returnSignal{value: v}
	}, nil
}

func (c *compiler) compileBreak(x *ir.Break) (node, error) {
	label := x.Label
	return func(env *Env) (values.Value, error) {
		return nil, &breakSignal{label: label}
	}, nil
}

func (c *compiler) compileContinue(x *ir.Continue) (node, error) {
	label := x.Label
	return func(env *Env) (values.Value, error) {
		return nil, &continueSignal{label: label}
	}, nil
}

func (c *compiler) compileError(x *ir.Error) (node, error) {
	message, err := c.compile(x.Message)
	if err != nil {
		return nil, err
	}
	frame := frameFromLoc(x.Loc())
	return func(env *Env) (values.Value, error) {
		mv, err := message(env)
		if err != nil {
			return nil, err
		}
		return nil, values.NewEastError(string(mv.(values.String))).WithFrame(frame)
	}, nil
}

func (c *compiler) compileTry(x *ir.Try) (node, error) {
	body, err := c.compile(x.Body)
	if err != nil {
		return nil, err
	}
	catch, err := c.compile(x.Catch)
	if err != nil {
		return nil, err
	}
	messageName := x.MessageName
	stackName := x.StackName
	return func(env *Env) (values.Value, error) {
		v, err := body(env)
		if err == nil {
			return v, nil
		}
		ee, ok := err.(*values.EastError)
		if !ok {
			return nil, err
		}
		child := env.child()
		child.define(messageName, values.String(ee.Message))
		if stackName != "" {
			child.define(stackName, stackArrayFrom(ee.Stack))
		}
		return catch(child)
	}, nil
}

func (c *compiler) compileMatch(x *ir.Match) (node, error) {
	scrutinee, err := c.compile(x.Scrutinee)
	if err != nil {
		return nil, err
	}
	type arm struct {
		bindName string
		body     node
	}
	arms := make(map[string]arm, len(x.Arms))
	for _, a := range x.Arms {
		body, err := c.compile(a.Body)
		if err != nil {
			return nil, err
		}
		arms[a.CaseName] = arm{bindName: a.BindName, body: body}
	}
	return func(env *Env) (values.Value, error) {
		sv, err := scrutinee(env)
		if err != nil {
			return nil, err
		}
		variant := sv.(*values.Variant)
		a, ok := arms[variant.Case]
		if !ok {
			return nil, errors.Errorf("compiler: match has no arm for case %q", variant.Case)
		}
		child := env
		if a.bindName != "" {
			child = env.child()
			child.define(a.bindName, variant.Inner)
		}
		return a.body(child)
	}, nil
}

func (c *compiler) compileCall(x *ir.Call) (node, error) {
	callee, err := c.compile(x.Callee)
	if err != nil {
		return nil, err
	}
	args, err := c.compileMany(x.Args)
	if err != nil {
		return nil, err
	}
	return func(env *Env) (values.Value, error) {
		cv, err := callee(env)
		if err != nil {
			return nil, err
		}
		argVals, err := evalAll(args, env)
		if err != nil {
			return nil, err
		}
		switch fn := cv.(type) {
		case *values.Function:
			return fn.Impl(argVals)
		case *values.AsyncFunction:
			d, err := fn.Impl(argVals)
			if err != nil {
				return nil, err
			}
			return d.Await()
		}
		return nil, errors.Errorf("compiler: call to non-function value %T", cv)
	}, nil
}

func (c *compiler) compilePlatform(x *ir.Platform) (node, error) {
	fn, ok := c.bindings.Lookup(x.Name)
	if !ok {
		return nil, errors.Errorf("compiler: no platform binding for %q", x.Name)
	}
	args, err := c.compileMany(x.Args)
	if err != nil {
		return nil, err
	}
	frame := frameFromLoc(x.Loc())
	return func(env *Env) (values.Value, error) {
		argVals, err := evalAll(args, env)
		if err != nil {
			return nil, err
		}
		switch fn.Kind {
		case platform.Sync:
			v, err := fn.Sync(argVals)
			if err != nil {
				return nil, wrapPlatformFault(err, frame)
			}
			return v, nil
		case platform.Async:
			type result struct {
				v   values.Value
				err error
			}
			ch := make(chan result, 1)
			fn.Async(argVals, func(v values.Value, err error) {
				ch <- result{v: v, err: err}
			})
			r := <-ch
			if r.err != nil {
				return nil, wrapPlatformFault(r.err, frame)
			}
			return r.v, nil
		}
		return nil, errors.Errorf("compiler: platform %q has unknown kind", x.Name)
	}, nil
}

// wrapPlatformFault turns a platform implementation's plain Go error
// into an EastError catchable by Try, per platform.SyncImpl's doc
// comment. An error that is already an EastError (a host implementing
// a platform function in terms of another East program) is passed
// through with the frame appended instead of double-wrapped.
func wrapPlatformFault(err error, frame values.StackFrame) error {
	if ee, ok := err.(*values.EastError); ok {
		return ee.WithFrame(frame)
	}
	return values.NewEastError(err.Error()).WithFrame(frame)
}

func (c *compiler) compileBuiltin(x *ir.Builtin) (node, error) {
	b, ok := runtime.Lookup(x.Name)
	if !ok {
		return nil, errors.Errorf("compiler: no builtin named %q", x.Name)
	}
	args, err := c.compileMany(x.Args)
	if err != nil {
		return nil, err
	}
	typeParams := x.TypeParams
	return func(env *Env) (values.Value, error) {
		argVals, err := evalAll(args, env)
		if err != nil {
			return nil, err
		}
		return b.Eval(typeParams, argVals)
	}, nil
}

// runFunctionBody runs body against the call frame env, unwinding a
// returnSignal into its carried value and pushing frame onto any
// EastError propagating out, the boundary-crossing contract spec §4.F
// describes for a compiled Function/AsyncFunction call.
func runFunctionBody(body node, env *Env, frame values.StackFrame) (values.Value, error) {
	v, err := body(env)
	if err == nil {
		return v, nil
	}
	if rs, ok := err.(*returnSignal); ok {
		return rs.value, nil
	}
	if ee, ok := err.(*values.EastError); ok {
		return nil, ee.WithFrame(frame)
	}
	return nil, err
}

func (c *compiler) compileFunction(x *ir.Function) (node, error) {
	ann, err := c.annotation(x)
	if err != nil {
		return nil, err
	}
	ft, ok := ann.Type.(*types.Function)
	if !ok {
		return nil, errors.Errorf("compiler: Function node annotated with %T, want *types.Function", ann.Type)
	}
	body, err := c.compile(x.Body)
	if err != nil {
		return nil, err
	}
	params := x.Params
	captures := x.Captures
	frame := frameFromLoc(x.Loc())
	var originIR any
	if len(captures) == 0 {
		originIR = x
	}
	return func(env *Env) (values.Value, error) {
		captured, err := env.capture(captures)
		if err != nil {
			return nil, err
		}
		impl := func(args []values.Value) (values.Value, error) {
			if len(args) != len(params) {
				return nil, fmt.Errorf("compiler: function expects %d argument(s), got %d", len(params), len(args))
			}
			call := captured.child()
			for i, p := range params {
				call.define(p.Name, args[i])
			}
			return runFunctionBody(body, call, frame)
		}
		return &values.Function{Type: ft, Impl: impl, IR: originIR}, nil
	}, nil
}

func (c *compiler) compileAsyncFunction(x *ir.AsyncFunction) (node, error) {
	ann, err := c.annotation(x)
	if err != nil {
		return nil, err
	}
	ft, ok := ann.Type.(*types.AsyncFunction)
	if !ok {
		return nil, errors.Errorf("compiler: AsyncFunction node annotated with %T, want *types.AsyncFunction", ann.Type)
	}
	body, err := c.compile(x.Body)
	if err != nil {
		return nil, err
	}
	params := x.Params
	captures := x.Captures
	frame := frameFromLoc(x.Loc())
	var originIR any
	if len(captures) == 0 {
		originIR = x
	}
	return func(env *Env) (values.Value, error) {
		captured, err := env.capture(captures)
		if err != nil {
			return nil, err
		}
		impl := func(args []values.Value) (values.Deferred, error) {
			if len(args) != len(params) {
				return nil, fmt.Errorf("compiler: function expects %d argument(s), got %d", len(params), len(args))
			}
			call := captured.child()
			for i, p := range params {
				call.define(p.Name, args[i])
			}
			return newDeferred(func() (values.Value, error) {
				return runFunctionBody(body, call, frame)
			}), nil
		}
		return &values.AsyncFunction{Type: ft, Impl: impl, IR: originIR}, nil
	}, nil
}

func (c *compiler) compileNewArray(x *ir.NewArray) (node, error) {
	items, err := c.compileMany(x.Items)
	if err != nil {
		return nil, err
	}
	elem := x.Elem
	return func(env *Env) (values.Value, error) {
		vals, err := evalAll(items, env)
		if err != nil {
			return nil, err
		}
		arr := values.NewArray(elem)
		arr.Elements = vals
		return arr, nil
	}, nil
}

func (c *compiler) compileNewSet(x *ir.NewSet) (node, error) {
	items, err := c.compileMany(x.Items)
	if err != nil {
		return nil, err
	}
	key := x.Key
	return func(env *Env) (values.Value, error) {
		set := values.NewSet(key)
		for _, item := range items {
			v, err := item(env)
			if err != nil {
				return nil, err
			}
			if _, err := set.Insert(v); err != nil {
				return nil, err
			}
		}
		return set, nil
	}, nil
}

func (c *compiler) compileNewDict(x *ir.NewDict) (node, error) {
	type entry struct {
		key   node
		value node
	}
	entries := make([]entry, len(x.Entries))
	for i, e := range x.Entries {
		k, err := c.compile(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := c.compile(e.Value)
		if err != nil {
			return nil, err
		}
		entries[i] = entry{key: k, value: v}
	}
	keyType := x.Key
	valueType := x.Value
	return func(env *Env) (values.Value, error) {
		dict := values.NewDict(keyType, valueType)
		for _, e := range entries {
			kv, err := e.key(env)
			if err != nil {
				return nil, err
			}
			vv, err := e.value(env)
			if err != nil {
				return nil, err
			}
			if _, err := dict.Insert(kv, vv); err != nil {
				return nil, err
			}
		}
		return dict, nil
	}, nil
}

func (c *compiler) compileNewRef(x *ir.NewRef) (node, error) {
	init, err := c.compile(x.Init)
	if err != nil {
		return nil, err
	}
	inner := x.Inner
	return func(env *Env) (values.Value, error) {
		v, err := init(env)
		if err != nil {
			return nil, err
		}
		return values.NewRef(inner, v), nil
	}, nil
}

func (c *compiler) compileStruct(x *ir.Struct) (node, error) {
	fields := make([]node, len(x.Fields))
	for i, f := range x.Fields {
		fn, err := c.compile(f.Value)
		if err != nil {
			return nil, err
		}
		fields[i] = fn
	}
	t := x.Type
	return func(env *Env) (values.Value, error) {
		vals, err := evalAll(fields, env)
		if err != nil {
			return nil, err
		}
		return values.NewStruct(t, vals...), nil
	}, nil
}

func (c *compiler) compileVariant(x *ir.Variant) (node, error) {
	t := x.Type
	caseName := x.Case
	if x.Inner == nil {
		return func(env *Env) (values.Value, error) {
			return values.NewVariant(t, caseName, values.Null{}), nil
		}, nil
	}
	inner, err := c.compile(x.Inner)
	if err != nil {
		return nil, err
	}
	return func(env *Env) (values.Value, error) {
		v, err := inner(env)
		if err != nil {
			return nil, err
		}
		return values.NewVariant(t, caseName, v), nil
	}, nil
}

// WrapRecursive and UnwrapRecursive are pure type-level coercions: a
// Recursive-typed value has no distinct runtime representation from
// its Inner type, so both compile to the identity function over the
// evaluated operand.
func (c *compiler) compileWrapRecursive(x *ir.WrapRecursive) (node, error) {
	return c.compile(x.Value)
}

func (c *compiler) compileUnwrapRecursive(x *ir.UnwrapRecursive) (node, error) {
	return c.compile(x.Value)
}
