package crys

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UnboundNameError reports a name that no context frame binds.
type UnboundNameError struct {
	Name string
	Pos  Position
}

func (e *UnboundNameError) Error() string {
	return fmt.Sprintf("undefined name %s", e.Name)
}

// UnsupportedError reports a node that lacks a capability, such as compiling
// an instance variable to JavaScript.
type UnsupportedError struct {
	Node       string
	Capability string
	Pos        Position
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s does not support %s", e.Node, e.Capability)
}

// DispatchError reports a method call that found no method on the receiver.
type DispatchError struct {
	Receiver string
	Method   string
	Pos      Position
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("undefined method %s for %s", e.Method, e.Receiver)
}

// TypeError reports an operation applied to a value of the wrong kind.
type TypeError struct {
	Message string
	Pos     Position
}

func (e *TypeError) Error() string {
	return e.Message
}

var (
	// ErrStackTooDeep is returned when calls nest beyond Config.RecursionLimit.
	ErrStackTooDeep = errors.New("stack level too deep")
	// ErrStepQuotaExceeded is returned when a Run exceeds Config.StepQuota.
	ErrStepQuotaExceeded = errors.New("step quota exceeded")
)

// StackFrame is one entry of a RuntimeError's call stack.
type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError is an evaluation failure annotated with the source line and
// the call stack at the point of failure. Unwrap exposes the typed cause.
type RuntimeError struct {
	Message   string
	CodeFrame string
	Frames    []StackFrame
	cause     error
}

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

func (re *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

func (re *RuntimeError) Unwrap() error {
	return re.cause
}

// errorPos extracts the source position carried by a typed error.
func errorPos(err error) (Position, bool) {
	var unbound *UnboundNameError
	var unsupported *UnsupportedError
	var dispatch *DispatchError
	var typeErr *TypeError
	switch {
	case errors.As(err, &unbound):
		return unbound.Pos, true
	case errors.As(err, &unsupported):
		return unsupported.Pos, true
	case errors.As(err, &dispatch):
		return dispatch.Pos, true
	case errors.As(err, &typeErr):
		return typeErr.Pos, true
	}
	return Position{}, false
}

// isCancellation reports errors that must pass through untouched so callers
// can match them with errors.Is.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
