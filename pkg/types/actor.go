package types

import (
	"fmt"
	"strings"
)

// Actor is the form automation driver that widgets and steps act through.
// Implementations perform real browser interactions; errors they return are
// passed back to callers unchanged.
type Actor interface {
	Click(selector string) error
	FillField(selector string, value any) error
	SelectOption(selector string, option any) error
	CheckOption(selector string) error
	UncheckOption(selector string) error
	AttachFile(selector, path string) error
	See(text string, scope ...string) error
	DontSee(text string, scope ...string) error
	GrabAttributeFrom(selector, attribute string) (string, error)
}

// Actor method names as they appear in step configuration.
const (
	MethodClick             = "click"
	MethodFillField         = "fillField"
	MethodSelectOption      = "selectOption"
	MethodCheckOption       = "checkOption"
	MethodUncheckOption     = "uncheckOption"
	MethodAttachFile        = "attachFile"
	MethodSee               = "see"
	MethodDontSee           = "dontSee"
	MethodGrabAttributeFrom = "grabAttributeFrom"
)

// arity is the accepted argument count range for an actor method.
type arity struct{ min, max int }

var methodArity = map[string]arity{
	MethodClick:             {1, 1},
	MethodFillField:         {2, 2},
	MethodSelectOption:      {2, 2},
	MethodCheckOption:       {1, 1},
	MethodUncheckOption:     {1, 1},
	MethodAttachFile:        {2, 2},
	MethodSee:               {1, 2},
	MethodDontSee:           {1, 2},
	MethodGrabAttributeFrom: {2, 2},
}

// Step is a single actor call run before or after a widget fill.
type Step struct {
	Method string `json:"method" yaml:"method" mapstructure:"method"`
	Args   []any  `json:"args" yaml:"args" mapstructure:"args"`
}

// ClickStep returns a step that clicks selector.
func ClickStep(selector string) Step {
	return Step{Method: MethodClick, Args: []any{selector}}
}

// Validate checks the method name and argument count.
// Returns an error wrapping ErrUnknownStepMethod on failure.
func (s Step) Validate() error {
	a, ok := methodArity[s.Method]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownStepMethod, s.Method)
	}
	if len(s.Args) < a.min || len(s.Args) > a.max {
		return fmt.Errorf("%w %q: expected %d-%d arguments, got %d",
			ErrUnknownStepMethod, s.Method, a.min, a.max, len(s.Args))
	}
	return nil
}

// Run invokes the step's method on the actor. Only the error is kept for
// grabAttributeFrom since steps have no result channel.
func (s Step) Run(actor Actor) error {
	if err := s.Validate(); err != nil {
		return err
	}
	str := func(i int) string { return fmt.Sprint(s.Args[i]) }
	scope := func() []string {
		if len(s.Args) > 1 {
			return []string{str(1)}
		}
		return nil
	}

	switch s.Method {
	case MethodClick:
		return actor.Click(str(0))
	case MethodFillField:
		return actor.FillField(str(0), s.Args[1])
	case MethodSelectOption:
		return actor.SelectOption(str(0), s.Args[1])
	case MethodCheckOption:
		return actor.CheckOption(str(0))
	case MethodUncheckOption:
		return actor.UncheckOption(str(0))
	case MethodAttachFile:
		return actor.AttachFile(str(0), str(1))
	case MethodSee:
		return actor.See(str(0), scope()...)
	case MethodDontSee:
		return actor.DontSee(str(0), scope()...)
	default:
		_, err := actor.GrabAttributeFrom(str(0), str(1))
		return err
	}
}

// String renders the step as method(arg, ...).
func (s Step) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = fmt.Sprintf("%q", fmt.Sprint(a))
	}
	return s.Method + "(" + strings.Join(parts, ", ") + ")"
}
