package move

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bgrundmann/finding-the-way-home-sub000/engine"
)

// Step is what was being done when a backtrace frame was recorded.
type Step interface {
	String() string
	isStep()
}

// RepeatStep: iteration N (1-based) of a repeat running Of times.
type RepeatStep struct {
	N  int
	Of int
}

// InvokeStep: a call of Definition with the given actual values.
type InvokeStep struct {
	Definition MoveDefinition
	Actuals    []Value
}

func (RepeatStep) isStep() {}
func (InvokeStep) isStep() {}

func (s RepeatStep) String() string { return fmt.Sprintf("repeat iteration %d of %d", s.N, s.Of) }

func (s InvokeStep) String() string {
	parts := make([]string, 0, len(s.Actuals)+1)
	parts = append(parts, s.Definition.Name)
	for _, v := range s.Actuals {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, " ")
}

// Frame is one entry of a backtrace.
type Frame struct {
	At   Location
	Step Step
}

// EvalError is a failed evaluation. Backtrace runs from the innermost step
// outward to the top-level move.
type EvalError struct {
	Problem   EvalProblem
	Backtrace []Frame
}

func (e *EvalError) Error() string {
	var b strings.Builder
	b.WriteString(e.Problem.String())
	for _, f := range e.Backtrace {
		fmt.Fprintf(&b, "\n  at %s: %s", f.At, f.Step)
	}
	return b.String()
}

func (e *EvalError) push(at Location, step Step) *EvalError {
	e.Backtrace = append(e.Backtrace, Frame{At: at, Step: step})
	return e
}

// EvalResult is the outcome of Eval. Image is the state reached: the final
// image on success, or the image as it was when the failing move stopped.
type EvalResult struct {
	Image engine.Image
	Err   *EvalError
}

// scope holds the values of one active definition call.
type scope struct {
	actuals   []Value
	tempPiles []string
}

type evaluator struct {
	scopes   []scope
	nextTemp int
}

// Eval runs moves against im. It never modifies im.
func Eval(im engine.Image, moves []Move) EvalResult {
	ev := &evaluator{}
	out, err := ev.moves(im, moves)
	return EvalResult{Image: out, Err: err}
}

func bug(format string, args ...interface{}) *EvalError {
	return &EvalError{Problem: Bug{Message: fmt.Sprintf(format, args...)}}
}

func (ev *evaluator) moves(im engine.Image, moves []Move) (engine.Image, *EvalError) {
	for _, m := range moves {
		var err *EvalError
		im, err = ev.move(im, m)
		if err != nil {
			return im, err
		}
	}
	return im, nil
}

func (ev *evaluator) move(im engine.Image, m Move) (engine.Image, *EvalError) {
	switch m := m.(type) {
	case Repeat:
		return ev.repeat(im, m)
	case Do:
		return ev.do(im, m)
	default:
		return im, bug("unknown move %T", m)
	}
}

func (ev *evaluator) expr(x Expr) (Value, *EvalError) {
	switch x := x.(type) {
	case Literal:
		return x.Value, nil
	case ArgumentRef:
		s, err := ev.scope(x.LevelsUp)
		if err != nil {
			return nil, err
		}
		if x.Index < 0 || x.Index >= len(s.actuals) {
			return nil, bug("argument %s: index %d out of range", x.Name, x.Index)
		}
		return s.actuals[x.Index], nil
	case TemporaryPileRef:
		s, err := ev.scope(x.LevelsUp)
		if err != nil {
			return nil, err
		}
		if x.Index < 0 || x.Index >= len(s.tempPiles) {
			return nil, bug("temporary pile %s: index %d out of range", x.Name, x.Index)
		}
		return PileName(s.tempPiles[x.Index]), nil
	default:
		return nil, bug("unknown expression %T", x)
	}
}

func (ev *evaluator) scope(levelsUp int) (scope, *EvalError) {
	i := len(ev.scopes) - 1 - levelsUp
	if levelsUp < 0 || i < 0 {
		return scope{}, bug("no scope %d levels up (depth %d)", levelsUp, len(ev.scopes))
	}
	return ev.scopes[i], nil
}

func (ev *evaluator) repeat(im engine.Image, m Repeat) (engine.Image, *EvalError) {
	v, err := ev.expr(m.Count)
	if err != nil {
		return im, err.push(m.At, RepeatStep{Of: 0})
	}
	n, ok := v.(Int)
	if !ok {
		return im, bug("repeat count %s is a %s", v, v.Kind()).push(m.At, RepeatStep{Of: 0})
	}
	for i := 1; i <= int(n); i++ {
		im, err = ev.moves(im, m.Body)
		if err != nil {
			return im, err.push(m.At, RepeatStep{N: i, Of: int(n)})
		}
	}
	return im, nil
}

// tempPileName is the image name of a temporary pile for one call.
func tempPileName(declared string, counter int) string {
	return "temp " + declared + " " + strconv.Itoa(counter)
}

func (ev *evaluator) do(im engine.Image, m Do) (engine.Image, *EvalError) {
	actuals := make([]Value, len(m.Actuals))
	for i, x := range m.Actuals {
		v, err := ev.expr(x)
		if err != nil {
			return im, err
		}
		actuals[i] = v
	}
	def := m.Definition
	step := InvokeStep{Definition: def, Actuals: actuals}

	switch body := def.Body.(type) {
	case Primitive:
		out, problem := body.Impl(im, actuals)
		if problem != nil {
			return out, (&EvalError{Problem: problem}).push(m.At, step)
		}
		return out, nil

	case UserDefined:
		depth := len(def.Path)
		if depth > len(ev.scopes) {
			return im, bug("%s is nested %d deep but only %d scopes are active", def.Identifier, depth, len(ev.scopes)).push(m.At, step)
		}
		temps := make([]string, len(body.TemporaryPiles))
		for i, t := range body.TemporaryPiles {
			temps[i] = tempPileName(t, ev.nextTemp)
			ev.nextTemp++
		}

		// A definition only sees the scopes of the definitions it is
		// lexically nested in.
		saved := ev.scopes
		ev.scopes = append(saved[:depth:depth], scope{actuals: actuals, tempPiles: temps})
		out, err := ev.moves(im, body.Moves)
		ev.scopes = saved
		if err != nil {
			return out, err.push(m.At, step)
		}

		var left []string
		for i, t := range temps {
			if cards, ok := out.Get(t); ok && len(cards) > 0 {
				left = append(left, body.TemporaryPiles[i])
			}
		}
		if len(left) > 0 {
			return out, (&EvalError{Problem: TemporaryPileNotEmpty{Definition: def, Piles: left}}).push(m.At, step)
		}
		for _, t := range temps {
			out = out.Update(t, func(engine.Pile, bool) engine.Pile { return nil })
		}
		return out, nil

	default:
		return im, bug("%s has no body", def.Identifier).push(m.At, step)
	}
}
