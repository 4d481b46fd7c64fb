package crys

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Config controls how an Interpreter runs scripts.
type Config struct {
	// Library supplies the functions scripts call by bare name. Defaults to
	// DefaultLibrary.
	Library *Library
	// Host backs `js.` expressions. Defaults to a bridge exposing Math and
	// console.log.
	Host HostBridge
	// Out receives puts, print, p and console.log output. Defaults to
	// io.Discard.
	Out io.Writer
	// Logger receives debug events. Defaults to a discarding logger.
	Logger *slog.Logger
	// RecursionLimit bounds nested calls. Defaults to 512.
	RecursionLimit int
	// StepQuota bounds loop iterations plus calls per Run; zero means no
	// limit.
	StepQuota int
}

// Interpreter evaluates scripts against a persistent root context, so
// definitions from one Run are visible to the next.
type Interpreter struct {
	config  Config
	library *Library
	host    HostBridge
	out     io.Writer
	logger  *slog.Logger

	root    *Context
	globals map[string]Value
	object  *ClassObject

	ctx       context.Context
	source    string
	steps     int
	callStack []callFrame
	callPos   Position
}

type callFrame struct {
	Function string
	Pos      Position
}

// NewInterpreter builds an interpreter, applying defaults for unset Config
// fields.
func NewInterpreter(cfg Config) *Interpreter {
	if cfg.Library == nil {
		cfg.Library = DefaultLibrary()
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	if cfg.Host == nil {
		cfg.Host = newDefaultHost(cfg.Out)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = 512
	}

	in := &Interpreter{
		config:  cfg,
		library: cfg.Library,
		host:    cfg.Host,
		out:     cfg.Out,
		logger:  cfg.Logger,
		globals: make(map[string]Value),
	}
	in.Reset()
	return in
}

// Reset discards every definition and global, keeping the configuration.
func (in *Interpreter) Reset() {
	in.object = NewClass("Object", nil)
	in.root = NewContext(nil)
	in.root.Self = NewInstanceValue(NewInstance(in.object))
	in.root.SetLocal("Object", NewClassValue(in.object))
	for _, name := range in.library.Names() {
		if b, ok := in.library.Lookup(name); ok {
			in.root.SetLocal(name, newBuiltinValue(b))
		}
	}
	in.globals = make(map[string]Value)
}

// Root returns the context top-level statements run in.
func (in *Interpreter) Root() *Context {
	return in.root
}

// Global reads a `$name` global; unset globals read as nil.
func (in *Interpreter) Global(name string) Value {
	return in.globals[name]
}

// Run parses source and evaluates its statements in the root context,
// returning the value of the last one.
func (in *Interpreter) Run(ctx context.Context, source string) (Value, error) {
	nodes, err := ParseProgram(source)
	if err != nil {
		return Value{}, err
	}

	in.begin(ctx, source)
	result := NewNil()
	for _, n := range nodes {
		val, err := in.eval(n, in.root)
		if err != nil {
			return Value{}, in.wrapError(err, n.Pos())
		}
		result = val
	}
	in.logger.Debug("run finished", "statements", len(nodes), "steps", in.steps)
	return result, nil
}

// Eval evaluates a single node in env. A nil env means the root context.
func (in *Interpreter) Eval(ctx context.Context, n Node, env *Context) (Value, error) {
	if env == nil {
		env = in.root
	}
	in.begin(ctx, in.source)
	val, err := in.eval(n, env)
	if err != nil {
		return Value{}, in.wrapError(err, n.Pos())
	}
	return val, nil
}

// Call applies a function or builtin value to args with the given receiver.
func (in *Interpreter) Call(ctx context.Context, fn Value, receiver Value, args []Value) (Value, error) {
	in.begin(ctx, in.source)
	name := "<call>"
	if f := fn.Function(); f != nil {
		name = f.Name
	}
	val, err := in.invoke(fn, receiver, args, name, Position{})
	if err != nil {
		return Value{}, in.wrapError(err, Position{})
	}
	return val, nil
}

func (in *Interpreter) begin(ctx context.Context, source string) {
	if ctx == nil {
		ctx = context.Background()
	}
	in.ctx = ctx
	in.source = source
	in.steps = 0
	in.callStack = in.callStack[:0]
}

func (in *Interpreter) step() error {
	in.steps++
	if in.config.StepQuota > 0 && in.steps > in.config.StepQuota {
		return fmt.Errorf("%w (%d)", ErrStepQuotaExceeded, in.config.StepQuota)
	}
	select {
	case <-in.ctx.Done():
		return in.ctx.Err()
	default:
	}
	return nil
}

// invoke applies fn to args. name and pos describe the call site for stack
// frames.
func (in *Interpreter) invoke(fn Value, receiver Value, args []Value, name string, pos Position) (Value, error) {
	if err := in.step(); err != nil {
		return Value{}, err
	}

	switch fn.Kind() {
	case KindBuiltin:
		b := fn.Builtin()
		saved := in.callPos
		in.callPos = pos
		val, err := b.Fn(in, receiver, args)
		in.callPos = saved
		if err != nil {
			return Value{}, in.wrapError(err, pos)
		}
		return val, nil
	case KindFunction:
	default:
		return Value{}, &TypeError{Message: fmt.Sprintf("%s is not callable", name), Pos: pos}
	}

	f := fn.Function()
	if len(args) != len(f.Params) {
		return Value{}, &TypeError{
			Message: fmt.Sprintf("wrong number of arguments for %s (given %d, expected %d)", f.Name, len(args), len(f.Params)),
			Pos:     pos,
		}
	}
	if len(in.callStack) >= in.config.RecursionLimit {
		return Value{}, in.wrapError(ErrStackTooDeep, pos)
	}

	frame := NewContext(f.Env)
	frame.Self = receiver
	for i, param := range f.Params {
		frame.SetLocal(param, args[i])
	}

	in.callStack = append(in.callStack, callFrame{Function: f.Name, Pos: pos})
	val, err := in.eval(f.Body, frame)
	if err != nil {
		err = in.wrapError(err, f.Body.Pos())
	}
	in.callStack = in.callStack[:len(in.callStack)-1]
	if err != nil {
		return Value{}, err
	}
	return val, nil
}

// instantiate backs every metaclass's `new`.
func (in *Interpreter) instantiate(cls *ClassObject, args []Value) (Value, error) {
	obj := NewInstanceValue(NewInstance(cls))
	init, ok := cls.InstanceMethod("initialize")
	if !ok {
		if len(args) > 0 {
			return Value{}, &TypeError{
				Message: fmt.Sprintf("wrong number of arguments for %s.new (given %d, expected 0)", cls.Name(), len(args)),
				Pos:     in.callPos,
			}
		}
		return obj, nil
	}
	if _, err := in.invoke(init, obj, args, cls.Name()+"#initialize", in.callPos); err != nil {
		return Value{}, err
	}
	return obj, nil
}

func (in *Interpreter) wrapError(err error, pos Position) error {
	if err == nil {
		return nil
	}
	if isCancellation(err) {
		return err
	}
	if _, ok := err.(*RuntimeError); ok {
		return err
	}
	if errPos, ok := errorPos(err); ok && errPos.Line > 0 {
		pos = errPos
	}

	frames := make([]StackFrame, 0, len(in.callStack)+1)
	if len(in.callStack) > 0 {
		current := in.callStack[len(in.callStack)-1]
		frames = append(frames, StackFrame{Function: current.Function, Pos: pos})
		for i := len(in.callStack) - 1; i >= 0; i-- {
			frames = append(frames, StackFrame(in.callStack[i]))
		}
	} else {
		frames = append(frames, StackFrame{Function: "<script>", Pos: pos})
	}

	return &RuntimeError{
		Message:   err.Error(),
		CodeFrame: formatCodeFrame(in.source, pos),
		Frames:    frames,
		cause:     err,
	}
}
