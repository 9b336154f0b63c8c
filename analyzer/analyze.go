package analyzer

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/elaraai/east/ir"
	"github.com/elaraai/east/platform"
	"github.com/elaraai/east/runtime"
	"github.com/elaraai/east/types"
)

// Annotation is the per-node analysis result (spec §4.C): whether the
// node may suspend evaluation, and its resolved static type.
type Annotation struct {
	IsAsync bool
	Type    types.Type
}

// Annotations maps every ir.Node reached during analysis to its
// Annotation. ir.Node is always backed by a pointer, so Go's built-in
// identity-keyed map works directly -- no separate node-id scheme is
// needed.
type Annotations map[ir.Node]Annotation

// Analyze walks root, type-checking it against bindings (the platform
// functions available to Platform nodes) and runtime.Registry (the
// builtins available to Builtin nodes), and returns an Annotation for
// every node reached. It returns an error on the first problem found:
// an unresolved Platform name, a type mismatch, a non-exhaustive
// Match, a Return whose value escapes its function's declared output,
// or a Break/Continue with no enclosing loop.
//
// logger traces Platform resolution and Function/AsyncFunction
// boundary crossings at Trace level; a nil logger is replaced with
// hclog.NewNullLogger(), matching the rest of the engine's optional-
// logger convention (SPEC_FULL.md's ambient Logging section).
func Analyze(root ir.Node, bindings *platform.Bindings, logger hclog.Logger) (Annotations, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	a := &analyzer{
		bindings: bindings,
		async:    bindings.AsyncNames(),
		anns:     make(Annotations),
		log:      logger.Named("analyzer"),
	}
	// Top-level root is analyzed outside any function; Return is
	// rejected there since there is no enclosing output type to check
	// against.
	if _, err := a.analyze(root, newScope(nil), nil); err != nil {
		return nil, err
	}
	return a.anns, nil
}

type analyzer struct {
	bindings *platform.Bindings
	async    map[string]struct{}
	anns     Annotations
	log      hclog.Logger
}

func (a *analyzer) record(n ir.Node, ann Annotation) Annotation {
	a.anns[n] = ann
	return ann
}

func (a *analyzer) analyze(n ir.Node, env *scope, fc *funcCtx) (Annotation, error) {
	switch x := n.(type) {
	case *ir.Value:
		return a.record(x, Annotation{Type: x.Type}), nil

	case *ir.Reference:
		t, ok := env.lookup(x.Binding)
		if !ok {
			return Annotation{}, a.errAt(x, "reference to undefined binding %q", x.Binding)
		}
		return a.record(x, Annotation{Type: t}), nil

	case *ir.Block:
		return a.analyzeBlock(x, env, fc)

	case *ir.Let:
		v, err := a.analyze(x.Value, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		env.define(x.Name, v.Type)
		return a.record(x, Annotation{IsAsync: v.IsAsync, Type: types.Null}), nil

	case *ir.Assign:
		declared, ok := env.lookup(x.Binding)
		if !ok {
			return Annotation{}, a.errAt(x, "assignment to undefined binding %q", x.Binding)
		}
		v, err := a.analyze(x.Value, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		if !types.Subtype(v.Type, declared) {
			return Annotation{}, a.errAt(x, "cannot assign %s to binding %q of type %s", types.PrintType(v.Type), x.Binding, types.PrintType(declared))
		}
		return a.record(x, Annotation{IsAsync: v.IsAsync, Type: types.Null}), nil

	case *ir.If:
		return a.analyzeIf(x, env, fc)

	case *ir.While:
		return a.analyzeWhile(x, env, fc)

	case *ir.For:
		return a.analyzeFor(x, env, fc)

	case *ir.Return:
		return a.analyzeReturn(x, env, fc)

	case *ir.Break:
		if fc == nil || !fc.hasLoop(x.Label) {
			return Annotation{}, a.errAt(x, "break has no enclosing loop")
		}
		return a.record(x, Annotation{Type: types.Never}), nil

	case *ir.Continue:
		if fc == nil || !fc.hasLoop(x.Label) {
			return Annotation{}, a.errAt(x, "continue has no enclosing loop")
		}
		return a.record(x, Annotation{Type: types.Never}), nil

	case *ir.Error:
		msg, err := a.analyze(x.Message, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		if msg.Type.Kind() != types.KindString {
			return Annotation{}, a.errAt(x, "error message must be String, got %s", types.PrintType(msg.Type))
		}
		return a.record(x, Annotation{IsAsync: msg.IsAsync, Type: types.Never}), nil

	case *ir.Try:
		return a.analyzeTry(x, env, fc)

	case *ir.Match:
		return a.analyzeMatch(x, env, fc)

	case *ir.Call:
		return a.analyzeCall(x, env, fc)

	case *ir.Platform:
		return a.analyzePlatform(x, env, fc)

	case *ir.Builtin:
		return a.analyzeBuiltin(x, env, fc)

	case *ir.Function:
		return a.analyzeFunction(x, env, fc)

	case *ir.AsyncFunction:
		return a.analyzeAsyncFunction(x, env, fc)

	case *ir.NewArray:
		return a.analyzeNewArray(x, env, fc)

	case *ir.NewSet:
		return a.analyzeNewSet(x, env, fc)

	case *ir.NewDict:
		return a.analyzeNewDict(x, env, fc)

	case *ir.NewRef:
		init, err := a.analyze(x.Init, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		if !types.Subtype(init.Type, x.Inner) {
			return Annotation{}, a.errAt(x, "ref initializer %s is not a subtype of %s", types.PrintType(init.Type), types.PrintType(x.Inner))
		}
		return a.record(x, Annotation{IsAsync: init.IsAsync, Type: types.NewRef(x.Inner)}), nil

	case *ir.Struct:
		return a.analyzeStruct(x, env, fc)

	case *ir.Variant:
		return a.analyzeVariant(x, env, fc)

	case *ir.WrapRecursive:
		v, err := a.analyze(x.Value, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		if !types.Subtype(v.Type, x.Type.Inner) {
			return Annotation{}, a.errAt(x, "cannot wrap %s as %s", types.PrintType(v.Type), types.PrintType(x.Type.Inner))
		}
		return a.record(x, Annotation{IsAsync: v.IsAsync, Type: x.Type}), nil

	case *ir.UnwrapRecursive:
		v, err := a.analyze(x.Value, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		rec, ok := v.Type.(*types.Recursive)
		if !ok {
			return Annotation{}, a.errAt(x, "cannot unwrap non-Recursive type %s", types.PrintType(v.Type))
		}
		return a.record(x, Annotation{IsAsync: v.IsAsync, Type: rec.Inner}), nil

	default:
		return Annotation{}, a.errAt(n, "analyzer: unhandled node kind %T", n)
	}
}

func (a *analyzer) errAt(n ir.Node, format string, args ...any) error {
	loc := n.Loc()
	msg := fmt.Sprintf(format, args...)
	if loc.File == "" && loc.Line == 0 && loc.Column == 0 {
		return errors.New(msg)
	}
	return errors.Errorf("%s:%d:%d: %s", loc.File, loc.Line, loc.Column, msg)
}

func (a *analyzer) analyzeBlock(x *ir.Block, env *scope, fc *funcCtx) (Annotation, error) {
	inner := newScope(env)
	isAsync := false
	for _, s := range x.Statements {
		ann, err := a.analyze(s, inner, fc)
		if err != nil {
			return Annotation{}, err
		}
		isAsync = isAsync || ann.IsAsync
	}
	resultType := types.Type(types.Null)
	if x.Result != nil {
		ann, err := a.analyze(x.Result, inner, fc)
		if err != nil {
			return Annotation{}, err
		}
		isAsync = isAsync || ann.IsAsync
		resultType = ann.Type
	}
	return a.record(x, Annotation{IsAsync: isAsync, Type: resultType}), nil
}

func (a *analyzer) analyzeIf(x *ir.If, env *scope, fc *funcCtx) (Annotation, error) {
	isAsync := false
	var result types.Type
	for _, branch := range x.Branches {
		pred, err := a.analyze(branch.Predicate, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		if pred.Type.Kind() != types.KindBoolean {
			return Annotation{}, a.errAt(x, "if predicate must be Boolean, got %s", types.PrintType(pred.Type))
		}
		isAsync = isAsync || pred.IsAsync
		body, err := a.analyze(branch.Body, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		isAsync = isAsync || body.IsAsync
		result, err = unionTypes(result, body.Type)
		if err != nil {
			return Annotation{}, a.errAt(x, "if branch type mismatch: %v", err)
		}
	}
	elseAnn, err := a.analyze(x.Else, env, fc)
	if err != nil {
		return Annotation{}, err
	}
	isAsync = isAsync || elseAnn.IsAsync
	result, err = unionTypes(result, elseAnn.Type)
	if err != nil {
		return Annotation{}, a.errAt(x, "if/else type mismatch: %v", err)
	}
	return a.record(x, Annotation{IsAsync: isAsync, Type: result}), nil
}

func unionTypes(acc, next types.Type) (types.Type, error) {
	if acc == nil {
		return next, nil
	}
	return types.Union(acc, next)
}

func (a *analyzer) analyzeWhile(x *ir.While, env *scope, fc *funcCtx) (Annotation, error) {
	if fc == nil {
		return Annotation{}, a.errAt(x, "while loop outside any function")
	}
	pred, err := a.analyze(x.Predicate, env, fc)
	if err != nil {
		return Annotation{}, err
	}
	if pred.Type.Kind() != types.KindBoolean {
		return Annotation{}, a.errAt(x, "while predicate must be Boolean, got %s", types.PrintType(pred.Type))
	}
	fc.pushLoop(x.Label)
	body, err := a.analyze(x.Body, env, fc)
	fc.popLoop()
	if err != nil {
		return Annotation{}, err
	}
	return a.record(x, Annotation{IsAsync: pred.IsAsync || body.IsAsync, Type: types.Null}), nil
}

func (a *analyzer) analyzeFor(x *ir.For, env *scope, fc *funcCtx) (Annotation, error) {
	if fc == nil {
		return Annotation{}, a.errAt(x, "for loop outside any function")
	}
	coll, err := a.analyze(x.Collection, env, fc)
	if err != nil {
		return Annotation{}, err
	}
	inner := newScope(env)
	switch t := coll.Type.(type) {
	case *types.Array:
		inner.define(x.ItemName, t.Elem)
	case *types.Set:
		inner.define(x.ItemName, t.Key)
	case *types.Dict:
		if x.KeyName == "" {
			return Annotation{}, a.errAt(x, "for over Dict requires a key binding")
		}
		inner.define(x.ItemName, t.Value)
		inner.define(x.KeyName, t.Key)
	default:
		return Annotation{}, a.errAt(x, "for requires an Array, Set, or Dict, got %s", types.PrintType(coll.Type))
	}
	fc.pushLoop(x.Label)
	body, err := a.analyze(x.Body, inner, fc)
	fc.popLoop()
	if err != nil {
		return Annotation{}, err
	}
	return a.record(x, Annotation{IsAsync: coll.IsAsync || body.IsAsync, Type: types.Null}), nil
}

func (a *analyzer) analyzeReturn(x *ir.Return, env *scope, fc *funcCtx) (Annotation, error) {
	if fc == nil {
		return Annotation{}, a.errAt(x, "return outside any function")
	}
	v, err := a.analyze(x.Value, env, fc)
	if err != nil {
		return Annotation{}, err
	}
	if !types.Subtype(v.Type, fc.output) {
		return Annotation{}, a.errAt(x, "return value %s is not a subtype of function output %s", types.PrintType(v.Type), types.PrintType(fc.output))
	}
	return a.record(x, Annotation{IsAsync: v.IsAsync, Type: types.Never}), nil
}

func (a *analyzer) analyzeTry(x *ir.Try, env *scope, fc *funcCtx) (Annotation, error) {
	body, err := a.analyze(x.Body, env, fc)
	if err != nil {
		return Annotation{}, err
	}
	inner := newScope(env)
	inner.define(x.MessageName, types.String)
	if x.StackName != "" {
		inner.define(x.StackName, runtime.StackType)
	}
	catch, err := a.analyze(x.Catch, inner, fc)
	if err != nil {
		return Annotation{}, err
	}
	result, err := types.Union(body.Type, catch.Type)
	if err != nil {
		return Annotation{}, a.errAt(x, "try/catch type mismatch: %v", err)
	}
	return a.record(x, Annotation{IsAsync: body.IsAsync || catch.IsAsync, Type: result}), nil
}

func (a *analyzer) analyzeMatch(x *ir.Match, env *scope, fc *funcCtx) (Annotation, error) {
	scrutinee, err := a.analyze(x.Scrutinee, env, fc)
	if err != nil {
		return Annotation{}, err
	}
	variant, ok := scrutinee.Type.(*types.Variant)
	if !ok {
		return Annotation{}, a.errAt(x, "match scrutinee must be a Variant, got %s", types.PrintType(scrutinee.Type))
	}
	covered := make(map[string]bool, len(x.Arms))
	isAsync := scrutinee.IsAsync
	var result types.Type
	for _, arm := range x.Arms {
		idx := variant.CaseIndex(arm.CaseName)
		if idx < 0 {
			return Annotation{}, a.errAt(x, "match arm %q is not a case of %s", arm.CaseName, types.PrintType(variant))
		}
		if covered[arm.CaseName] {
			return Annotation{}, a.errAt(x, "match arm %q is duplicated", arm.CaseName)
		}
		covered[arm.CaseName] = true
		inner := env
		if arm.BindName != "" {
			inner = newScope(env)
			inner.define(arm.BindName, variant.Cases[idx].Type)
		}
		body, err := a.analyze(arm.Body, inner, fc)
		if err != nil {
			return Annotation{}, err
		}
		isAsync = isAsync || body.IsAsync
		result, err = unionTypes(result, body.Type)
		if err != nil {
			return Annotation{}, a.errAt(x, "match arm type mismatch: %v", err)
		}
	}
	for _, c := range variant.Cases {
		if !covered[c.Name] {
			return Annotation{}, a.errAt(x, "match is not exhaustive: missing case %q", c.Name)
		}
	}
	return a.record(x, Annotation{IsAsync: isAsync, Type: result}), nil
}

func (a *analyzer) analyzeCall(x *ir.Call, env *scope, fc *funcCtx) (Annotation, error) {
	callee, err := a.analyze(x.Callee, env, fc)
	if err != nil {
		return Annotation{}, err
	}
	var inputs []types.Type
	var output types.Type
	var platforms types.PlatformSet
	switch t := callee.Type.(type) {
	case *types.Function:
		inputs, output, platforms = t.Inputs, t.Output, t.Platforms
	case *types.AsyncFunction:
		inputs, output, platforms = t.Inputs, t.Output, t.Platforms
	default:
		return Annotation{}, a.errAt(x, "call target is not a function, got %s", types.PrintType(callee.Type))
	}
	if len(x.Args) != len(inputs) {
		return Annotation{}, a.errAt(x, "call expects %d argument(s), got %d", len(inputs), len(x.Args))
	}
	isAsync := callee.IsAsync || hasAsyncPlatform(platforms, a.async)
	for i, arg := range x.Args {
		argAnn, err := a.analyze(arg, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		if !types.Subtype(argAnn.Type, inputs[i]) {
			return Annotation{}, a.errAt(x, "call argument %d: %s is not a subtype of %s", i, types.PrintType(argAnn.Type), types.PrintType(inputs[i]))
		}
		isAsync = isAsync || argAnn.IsAsync
	}
	if fc != nil {
		fc.touchAll(platforms)
	}
	return a.record(x, Annotation{IsAsync: isAsync, Type: output}), nil
}

func hasAsyncPlatform(platforms types.PlatformSet, async map[string]struct{}) bool {
	for n := range platforms {
		if _, ok := async[n]; ok {
			return true
		}
	}
	return false
}

func (a *analyzer) analyzePlatform(x *ir.Platform, env *scope, fc *funcCtx) (Annotation, error) {
	fn, ok := a.bindings.Lookup(x.Name)
	if !ok {
		return Annotation{}, a.errAt(x, "platform %q is not bound", x.Name)
	}
	a.log.Trace("resolved platform reference", "name", x.Name, "kind", fn.Kind)
	if len(x.Args) != len(fn.Inputs) {
		return Annotation{}, a.errAt(x, "platform %q expects %d argument(s), got %d", x.Name, len(fn.Inputs), len(x.Args))
	}
	isAsync := fn.Kind == platform.Async
	for i, arg := range x.Args {
		argAnn, err := a.analyze(arg, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		if !types.Subtype(argAnn.Type, fn.Inputs[i]) {
			return Annotation{}, a.errAt(x, "platform %q argument %d: %s is not a subtype of %s", x.Name, i, types.PrintType(argAnn.Type), types.PrintType(fn.Inputs[i]))
		}
		isAsync = isAsync || argAnn.IsAsync
	}
	if fc != nil {
		fc.touch(x.Name)
	}
	return a.record(x, Annotation{IsAsync: isAsync, Type: fn.Output}), nil
}

func (a *analyzer) analyzeBuiltin(x *ir.Builtin, env *scope, fc *funcCtx) (Annotation, error) {
	b, ok := runtime.Lookup(x.Name)
	if !ok {
		return Annotation{}, a.errAt(x, "builtin %q is not registered", x.Name)
	}
	argTypes := make([]types.Type, len(x.Args))
	isAsync := false
	for i, arg := range x.Args {
		ann, err := a.analyze(arg, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		argTypes[i] = ann.Type
		isAsync = isAsync || ann.IsAsync
	}
	out, err := b.Check(x.TypeParams, argTypes)
	if err != nil {
		return Annotation{}, a.errAt(x, "builtin %q: %v", x.Name, err)
	}
	return a.record(x, Annotation{IsAsync: isAsync, Type: out}), nil
}

func (a *analyzer) analyzeFunction(x *ir.Function, env *scope, fc *funcCtx) (Annotation, error) {
	inner := newScope(env)
	inputs := make([]types.Type, len(x.Params))
	for i, p := range x.Params {
		inner.define(p.Name, p.Type)
		inputs[i] = p.Type
	}
	nested := newFuncCtx(x.Output)
	if _, err := a.analyze(x.Body, inner, nested); err != nil {
		return Annotation{}, err
	}
	a.log.Trace("entered function body", "params", len(x.Params), "platforms", nested.platforms.Sorted())
	// The Function literal itself is never async -- creating a closure
	// is synchronous (spec §4.C) -- but the platforms its body touches
	// become part of its closure type for the enclosing Call rule. A
	// sync Function whose body touches an async platform is still
	// valid: its compiled Impl blocks inline until that platform's
	// completion callback fires, presenting a synchronous contract to its own caller
	// while the top-level sync/async compile gate governs only the
	// outermost entry point.
	t := types.NewFunction(x.Output, nested.platforms, inputs...)
	return a.record(x, Annotation{IsAsync: false, Type: t}), nil
}

func (a *analyzer) analyzeAsyncFunction(x *ir.AsyncFunction, env *scope, fc *funcCtx) (Annotation, error) {
	inner := newScope(env)
	inputs := make([]types.Type, len(x.Params))
	for i, p := range x.Params {
		inner.define(p.Name, p.Type)
		inputs[i] = p.Type
	}
	nested := newFuncCtx(x.Output)
	bodyAnn, err := a.analyze(x.Body, inner, nested)
	if err != nil {
		return Annotation{}, err
	}
	a.log.Trace("entered async function body", "params", len(x.Params), "platforms", nested.platforms.Sorted())
	if !bodyAnn.IsAsync {
		return Annotation{}, a.errAt(x, "async function body touches no async platform")
	}
	t := types.NewAsyncFunction(x.Output, nested.platforms, inputs...)
	return a.record(x, Annotation{IsAsync: false, Type: t}), nil
}

func (a *analyzer) analyzeNewArray(x *ir.NewArray, env *scope, fc *funcCtx) (Annotation, error) {
	isAsync := false
	for _, item := range x.Items {
		ann, err := a.analyze(item, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		if !types.Subtype(ann.Type, x.Elem) {
			return Annotation{}, a.errAt(x, "array item %s is not a subtype of %s", types.PrintType(ann.Type), types.PrintType(x.Elem))
		}
		isAsync = isAsync || ann.IsAsync
	}
	return a.record(x, Annotation{IsAsync: isAsync, Type: types.NewArray(x.Elem)}), nil
}

func (a *analyzer) analyzeNewSet(x *ir.NewSet, env *scope, fc *funcCtx) (Annotation, error) {
	isAsync := false
	for _, item := range x.Items {
		ann, err := a.analyze(item, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		if !types.Subtype(ann.Type, x.Key) {
			return Annotation{}, a.errAt(x, "set item %s is not a subtype of %s", types.PrintType(ann.Type), types.PrintType(x.Key))
		}
		isAsync = isAsync || ann.IsAsync
	}
	return a.record(x, Annotation{IsAsync: isAsync, Type: types.NewSet(x.Key)}), nil
}

func (a *analyzer) analyzeNewDict(x *ir.NewDict, env *scope, fc *funcCtx) (Annotation, error) {
	isAsync := false
	for _, e := range x.Entries {
		k, err := a.analyze(e.Key, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		if !types.Subtype(k.Type, x.Key) {
			return Annotation{}, a.errAt(x, "dict key %s is not a subtype of %s", types.PrintType(k.Type), types.PrintType(x.Key))
		}
		v, err := a.analyze(e.Value, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		if !types.Subtype(v.Type, x.Value) {
			return Annotation{}, a.errAt(x, "dict value %s is not a subtype of %s", types.PrintType(v.Type), types.PrintType(x.Value))
		}
		isAsync = isAsync || k.IsAsync || v.IsAsync
	}
	return a.record(x, Annotation{IsAsync: isAsync, Type: types.NewDict(x.Key, x.Value)}), nil
}

func (a *analyzer) analyzeStruct(x *ir.Struct, env *scope, fc *funcCtx) (Annotation, error) {
	if len(x.Fields) != len(x.Type.Fields) {
		return Annotation{}, a.errAt(x, "struct literal has %d field(s), type declares %d", len(x.Fields), len(x.Type.Fields))
	}
	isAsync := false
	for i, f := range x.Fields {
		decl := x.Type.Fields[i]
		if f.Name != decl.Name {
			return Annotation{}, a.errAt(x, "struct field %d: expected name %q, got %q", i, decl.Name, f.Name)
		}
		v, err := a.analyze(f.Value, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		if !types.Subtype(v.Type, decl.Type) {
			return Annotation{}, a.errAt(x, "struct field %q: %s is not a subtype of %s", f.Name, types.PrintType(v.Type), types.PrintType(decl.Type))
		}
		isAsync = isAsync || v.IsAsync
	}
	return a.record(x, Annotation{IsAsync: isAsync, Type: x.Type}), nil
}

func (a *analyzer) analyzeVariant(x *ir.Variant, env *scope, fc *funcCtx) (Annotation, error) {
	idx := x.Type.CaseIndex(x.Case)
	if idx < 0 {
		return Annotation{}, a.errAt(x, "variant case %q is not a case of %s", x.Case, types.PrintType(x.Type))
	}
	caseType := x.Type.Cases[idx].Type
	isAsync := false
	if x.Inner != nil {
		v, err := a.analyze(x.Inner, env, fc)
		if err != nil {
			return Annotation{}, err
		}
		if !types.Subtype(v.Type, caseType) {
			return Annotation{}, a.errAt(x, "variant case %q: %s is not a subtype of %s", x.Case, types.PrintType(v.Type), types.PrintType(caseType))
		}
		isAsync = v.IsAsync
	} else if caseType.Kind() != types.KindNull {
		return Annotation{}, a.errAt(x, "variant case %q requires a value of type %s", x.Case, types.PrintType(caseType))
	}
	return a.record(x, Annotation{IsAsync: isAsync, Type: x.Type}), nil
}
