// Package actortest provides an in-memory types.Actor for tests.
package actortest

import (
	"fmt"

	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

// Call is one recorded actor invocation.
type Call struct {
	Method string
	Args   []any
}

// String renders the call as method(args).
func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Method, c.Args)
}

// Recorder records every call. When Fail is set for a method, that method
// returns the error after recording.
type Recorder struct {
	Calls      []Call
	Fail       map[string]error
	Attributes map[string]string
}

var _ types.Actor = (*Recorder)(nil)

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{Fail: map[string]error{}, Attributes: map[string]string{}}
}

func (r *Recorder) record(method string, args ...any) error {
	r.Calls = append(r.Calls, Call{Method: method, Args: args})
	return r.Fail[method]
}

// Methods returns the method names in call order.
func (r *Recorder) Methods() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Method
	}
	return out
}

func (r *Recorder) Click(selector string) error {
	return r.record(types.MethodClick, selector)
}

func (r *Recorder) FillField(selector string, value any) error {
	return r.record(types.MethodFillField, selector, value)
}

func (r *Recorder) SelectOption(selector string, option any) error {
	return r.record(types.MethodSelectOption, selector, option)
}

func (r *Recorder) CheckOption(selector string) error {
	return r.record(types.MethodCheckOption, selector)
}

func (r *Recorder) UncheckOption(selector string) error {
	return r.record(types.MethodUncheckOption, selector)
}

func (r *Recorder) AttachFile(selector, path string) error {
	return r.record(types.MethodAttachFile, selector, path)
}

func (r *Recorder) See(text string, scope ...string) error {
	args := []any{text}
	for _, s := range scope {
		args = append(args, s)
	}
	return r.record(types.MethodSee, args...)
}

func (r *Recorder) DontSee(text string, scope ...string) error {
	args := []any{text}
	for _, s := range scope {
		args = append(args, s)
	}
	return r.record(types.MethodDontSee, args...)
}

func (r *Recorder) GrabAttributeFrom(selector, attribute string) (string, error) {
	err := r.record(types.MethodGrabAttributeFrom, selector, attribute)
	return r.Attributes[selector+"@"+attribute], err
}
