package goja

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gojavm "github.com/dop251/goja"

	"github.com/dmitrymomot/markdownup/core/backend"
	"github.com/dmitrymomot/markdownup/core/logger"
	"github.com/dmitrymomot/markdownup/core/response"
)

// Compile-time checks that the executor implements the backend contracts.
var (
	_ backend.Executor = (*Executor)(nil)
	_ backend.Program  = (*Program)(nil)
)

var (
	// ErrTimeout is returned when a script call exceeds its time budget.
	ErrTimeout = errors.New("script call timed out")
	// ErrInvalidStatus is returned when apiError is given a status outside 100-599.
	ErrInvalidStatus = errors.New("invalid apiError status")
)

// DefaultTimeout bounds a single function call.
const DefaultTimeout = 30 * time.Second

// Executor compiles JavaScript backend scripts.
type Executor struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger behind the script's console object.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTimeout bounds each function call. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.timeout = d
	}
}

// New creates an executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		logger:  logger.Discard(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compile parses source and runs it once to discover the functions it
// defines. Top-level code therefore runs at load time as well as before
// every call.
func (e *Executor) Compile(name string, source []byte, globals map[string]any) (backend.Program, error) {
	prog, err := gojavm.Compile(name, string(source), false)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(globals)
	if err != nil {
		return nil, fmt.Errorf("encode globals: %w", err)
	}

	p := &Program{
		name:    name,
		program: prog,
		globals: string(encoded),
		logger:  e.logger.With(logger.Component("script"), slog.String("script", name)),
		timeout: e.timeout,
	}

	ctx := context.Background()
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	vm, _, stop, err := p.newRuntime(ctx, backend.NewHeaders())
	if err != nil {
		return nil, err
	}
	defer stop()

	p.functions = make(map[string]bool)
	for _, key := range vm.GlobalObject().Keys() {
		if builtinNames[key] {
			continue
		}
		if _, ok := gojavm.AssertFunction(vm.Get(key)); ok {
			p.functions[key] = true
		}
	}
	return p, nil
}

// Program is a compiled script. Every call gets a fresh runtime, so calls
// share no mutable state.
type Program struct {
	name      string
	program   *gojavm.Program
	globals   string
	functions map[string]bool
	logger    *slog.Logger
	timeout   time.Duration
}

// Has reports whether the script defines a top-level function named function.
func (p *Program) Has(function string) bool {
	return p.functions[function]
}

// Call runs function with req as its only argument.
func (p *Program) Call(ctx context.Context, function string, req backend.Request, headers *backend.Headers) (any, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	vm, state, stop, err := p.newRuntime(ctx, headers)
	if err != nil {
		return nil, p.callError(ctx, function, err)
	}
	defer stop()

	fn, ok := gojavm.AssertFunction(vm.Get(function))
	if !ok {
		return nil, fmt.Errorf("%s: %q is not a function", p.name, function)
	}

	result, err := fn(gojavm.Undefined(), vm.ToValue(map[string]any(req)))
	if state.apiErr != nil {
		return nil, state.apiErr
	}
	if err != nil {
		return nil, p.callError(ctx, function, err)
	}

	if result == nil || gojavm.IsUndefined(result) || gojavm.IsNull(result) {
		return nil, nil
	}
	return result.Export(), nil
}

func (p *Program) callError(ctx context.Context, function string, err error) error {
	var interrupted *gojavm.InterruptedError
	if errors.As(err, &interrupted) {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = ErrTimeout
		} else if ctx.Err() != nil {
			err = ctx.Err()
		}
	}
	return fmt.Errorf("%s.%s: %w", p.name, function, err)
}

// builtinNames are bound by the executor and never count as script functions.
var builtinNames = map[string]bool{
	"console":          true,
	"backendAddHeader": true,
	"apiError":         true,
}

// callState is the per-call state shared with the script bindings.
type callState struct {
	headers *backend.Headers
	apiErr  *response.ActionError
}

// newRuntime prepares a runtime with globals and bindings and runs the
// script's top-level code. The returned stop func releases the interrupt
// hook tied to ctx.
func (p *Program) newRuntime(ctx context.Context, headers *backend.Headers) (*gojavm.Runtime, *callState, func() bool, error) {
	vm := gojavm.New()
	vm.SetFieldNameMapper(gojavm.TagFieldNameMapper("json", true))
	state := &callState{headers: headers}

	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})

	if err := p.setGlobals(vm); err != nil {
		stop()
		return nil, nil, nil, err
	}
	if err := p.bind(vm, state); err != nil {
		stop()
		return nil, nil, nil, err
	}

	if _, err := vm.RunProgram(p.program); err != nil {
		stop()
		return nil, nil, nil, err
	}
	return vm, state, stop, nil
}

// setGlobals decodes the configured globals into native script values, so
// each runtime owns its copy.
func (p *Program) setGlobals(vm *gojavm.Runtime) error {
	if p.globals == "null" || p.globals == "{}" {
		return nil
	}

	jsonObj := vm.Get("JSON").ToObject(vm)
	parse, ok := gojavm.AssertFunction(jsonObj.Get("parse"))
	if !ok {
		return errors.New("JSON.parse is not available")
	}
	decoded, err := parse(jsonObj, vm.ToValue(p.globals))
	if err != nil {
		return fmt.Errorf("decode globals: %w", err)
	}

	obj := decoded.ToObject(vm)
	for _, key := range obj.Keys() {
		if err := vm.Set(key, obj.Get(key)); err != nil {
			return fmt.Errorf("set global %q: %w", key, err)
		}
	}
	return nil
}

func (p *Program) bind(vm *gojavm.Runtime, state *callState) error {
	console := vm.NewObject()
	levels := map[string]slog.Level{
		"log":   slog.LevelInfo,
		"info":  slog.LevelInfo,
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, level := range levels {
		if err := console.Set(name, func(call gojavm.FunctionCall) gojavm.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			p.logger.Log(context.Background(), level, strings.Join(parts, " "))
			return gojavm.Undefined()
		}); err != nil {
			return err
		}
	}

	bindings := map[string]any{
		"console": console,

		// backendAddHeader(key, value) sets a response header.
		"backendAddHeader": func(key, value string) {
			state.headers.Set(key, value)
		},

		// apiError(name, status?) ends the call with {"error": name}.
		"apiError": func(call gojavm.FunctionCall) gojavm.Value {
			actionErr := response.NewActionError(call.Argument(0).String())
			if status := call.Argument(1); !gojavm.IsUndefined(status) && !gojavm.IsNull(status) {
				code := status.ToInteger()
				if code < 100 || code > 599 {
					panic(vm.NewGoError(fmt.Errorf("%w: %d", ErrInvalidStatus, code)))
				}
				actionErr = actionErr.WithStatus(int(code))
			}
			state.apiErr = actionErr
			panic(vm.NewGoError(actionErr))
		},
	}
	for name, value := range bindings {
		if err := vm.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}
