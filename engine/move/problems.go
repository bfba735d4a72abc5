package move

import (
	"fmt"
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// Parse problems
// ---------------------------------------------------------------------------

// Problem is the reason a parse failed at some location.
type Problem interface {
	String() string
	isProblem()
}

// Expectation is the class of token the parser was looking for.
type Expectation uint8

const (
	ExpectPileName Expectation = iota
	ExpectArgumentNumberName
	ExpectInteger
	ExpectEndOfLine
	ExpectEndOfInput
	ExpectKeyword
	ExpectMoveName
)

// UnknownMove: no definition of that name is in scope.
type UnknownMove struct {
	Name string
}

// NoSuchArgument: a name inside a definition is neither an argument nor a
// temporary pile of any enclosing definition.
type NoSuchArgument struct {
	Name string
	Kind Kind
}

// Expected: the input did not contain the expected token class. Keyword is
// set when What is ExpectKeyword.
type Expected struct {
	What    Expectation
	Keyword string
}

// InvalidMoveInvocation: overloads exist but none takes the given kinds.
type InvalidMoveInvocation struct {
	Name       string
	Actuals    []Expr
	Candidates []MoveDefinition
}

// DuplicateDefinition: a definition with the same identifier already exists.
type DuplicateDefinition struct {
	Previous MoveDefinition
}

func (UnknownMove) isProblem()           {}
func (NoSuchArgument) isProblem()        {}
func (Expected) isProblem()              {}
func (InvalidMoveInvocation) isProblem() {}
func (DuplicateDefinition) isProblem()   {}

func (p UnknownMove) String() string { return fmt.Sprintf("unknown move %q", p.Name) }

func (p NoSuchArgument) String() string {
	return fmt.Sprintf("no %s argument or temporary pile called %q", p.Kind, p.Name)
}

func (p Expected) String() string {
	if w := p.what(); w != "" {
		return "expected " + w
	}
	return "unexpected input"
}

func (p Expected) what() string {
	switch p.What {
	case ExpectPileName:
		return "a pile name"
	case ExpectArgumentNumberName:
		return "the name of a number argument"
	case ExpectInteger:
		return "an integer"
	case ExpectEndOfLine:
		return "end of line"
	case ExpectEndOfInput:
		return "end of input"
	case ExpectKeyword:
		return fmt.Sprintf("%q", p.Keyword)
	case ExpectMoveName:
		return "a move name"
	default:
		return ""
	}
}

// ExpectedOneOf: any of several token classes would have been accepted at
// the same place.
type ExpectedOneOf struct {
	Options []Expected
}

func (ExpectedOneOf) isProblem() {}

func (p ExpectedOneOf) String() string {
	whats := make([]string, 0, len(p.Options))
	for _, o := range p.Options {
		if w := o.what(); w != "" {
			whats = append(whats, w)
		}
	}
	switch len(whats) {
	case 0:
		return "unexpected input"
	case 1:
		return "expected " + whats[0]
	}
	return "expected " + strings.Join(whats[:len(whats)-1], ", ") + " or " + whats[len(whats)-1]
}

func (p InvalidMoveInvocation) String() string {
	kinds := make([]string, len(p.Actuals))
	for i, k := range Kinds(p.Actuals) {
		kinds[i] = k.String()
	}
	ids := make([]string, len(p.Candidates))
	for i, c := range p.Candidates {
		ids[i] = string(c.Identifier)
	}
	return fmt.Sprintf("%s cannot be used with (%s); known: %s",
		p.Name, strings.Join(kinds, ","), strings.Join(ids, ", "))
}

func (p DuplicateDefinition) String() string {
	return fmt.Sprintf("%s is already defined", p.Previous.Identifier)
}

// LocatedProblem is a Problem at a 1-based row and column.
type LocatedProblem struct {
	Row     int
	Col     int
	Problem Problem
}

func (p LocatedProblem) String() string {
	return fmt.Sprintf("%d:%d: %s", p.Row, p.Col, p.Problem)
}

// ParseError is returned by Parse. It holds at least one problem.
type ParseError struct {
	Problems []LocatedProblem
}

func (e *ParseError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return "parse error: " + strings.Join(msgs, "; ")
}

// normalize sorts problems by position and keeps one per location.
func (e *ParseError) normalize() {
	sort.SliceStable(e.Problems, func(i, j int) bool {
		a, b := e.Problems[i], e.Problems[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	var out []LocatedProblem
	for i := 0; i < len(e.Problems); {
		j := i + 1
		for j < len(e.Problems) && e.Problems[j].Row == e.Problems[i].Row && e.Problems[j].Col == e.Problems[i].Col {
			j++
		}
		out = append(out, LocatedProblem{
			Row:     e.Problems[i].Row,
			Col:     e.Problems[i].Col,
			Problem: mergeProblems(e.Problems[i:j]),
		})
		i = j
	}
	e.Problems = out
}

// mergeProblems reduces the problems found at one location to one. A
// problem naming what went wrong beats a list of expected tokens; the
// expectations are combined only when nothing else was found.
func mergeProblems(ps []LocatedProblem) Problem {
	var (
		best    Problem
		options []Expected
	)
	for _, p := range ps {
		switch x := p.Problem.(type) {
		case Expected:
			options = addExpected(options, x)
		case ExpectedOneOf:
			for _, o := range x.Options {
				options = addExpected(options, o)
			}
		default:
			if best == nil || specificity(x) < specificity(best) {
				best = x
			}
		}
	}
	if best != nil {
		return best
	}
	if len(options) == 1 {
		return options[0]
	}
	sort.SliceStable(options, func(i, j int) bool {
		if options[i].What != options[j].What {
			return options[i].What < options[j].What
		}
		return options[i].Keyword < options[j].Keyword
	})
	return ExpectedOneOf{Options: options}
}

func addExpected(options []Expected, x Expected) []Expected {
	for _, o := range options {
		if o == x {
			return options
		}
	}
	return append(options, x)
}

// specificity orders problems other than expectations; lower wins.
func specificity(p Problem) int {
	switch p.(type) {
	case DuplicateDefinition:
		return 0
	case InvalidMoveInvocation:
		return 1
	case NoSuchArgument:
		return 2
	case UnknownMove:
		return 3
	default:
		return 4
	}
}

// FormatProblems renders each problem with the offending source line and a
// caret under its column.
func FormatProblems(src string, problems []LocatedProblem) string {
	lines := strings.Split(src, "\n")
	var b strings.Builder
	for i, p := range problems {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d:%d: %s\n", p.Row, p.Col, p.Problem)
		if p.Row < 1 || p.Row > len(lines) {
			continue
		}
		fmt.Fprintf(&b, "%4d | %s\n", p.Row, lines[p.Row-1])
		pad := p.Col - 1
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", pad))
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Evaluation problems
// ---------------------------------------------------------------------------

// EvalProblem is the reason an evaluation failed.
type EvalProblem interface {
	String() string
	isEvalProblem()
}

// NotEnoughCards: a pile had fewer cards than a move needed.
type NotEnoughCards struct {
	Expected int
	Got      int
	Pile     string
}

// NoSuchPile: a move referred to a pile the image does not have.
type NoSuchPile struct {
	Name string
}

// TemporaryPileNotEmpty: a definition returned with cards left on some of
// its temporary piles. Piles holds the declared names.
type TemporaryPileNotEmpty struct {
	Definition MoveDefinition
	Piles      []string
}

// Bug reports a state the parser should have ruled out.
type Bug struct {
	Message string
}

func (NotEnoughCards) isEvalProblem()        {}
func (NoSuchPile) isEvalProblem()            {}
func (TemporaryPileNotEmpty) isEvalProblem() {}
func (Bug) isEvalProblem()                   {}

func (p NotEnoughCards) String() string {
	return fmt.Sprintf("not enough cards in %q: needed %d, have %d", p.Pile, p.Expected, p.Got)
}

func (p NoSuchPile) String() string { return fmt.Sprintf("no pile called %q", p.Name) }

func (p TemporaryPileNotEmpty) String() string {
	return fmt.Sprintf("%s left cards on temporary pile(s) %s",
		p.Definition.Name, strings.Join(p.Piles, ", "))
}

func (p Bug) String() string { return "internal error: " + p.Message }

// IsBug reports whether the problem is an internal error rather than a
// mistake in the moves being run.
func IsBug(p EvalProblem) bool {
	_, ok := p.(Bug)
	return ok
}
