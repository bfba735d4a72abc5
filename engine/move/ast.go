// Package move implements the moves language: a small procedural language
// for rearranging piles of cards.
//
// Source text is parsed against a Library of known definitions into a list
// of Moves, which Eval then runs against an engine.Image. Definitions are
// overloaded by the kinds of their arguments and are keyed by Identifier.
package move

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind is the type of an argument or value.
type Kind uint8

const (
	KindInt Kind = iota
	KindPile
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindPile:
		return "pile"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ArgSpec declares one argument of a definition.
type ArgSpec struct {
	Name string
	Kind Kind
}

// Identifier is the unique key of a definition: its name plus the kinds of
// its arguments, e.g. "cut(int,pile,pile)". Overloads share a name but never
// an Identifier.
type Identifier string

// MakeIdentifier derives the identifier of a definition called name taking
// arguments of the given kinds.
func MakeIdentifier(name string, kinds []Kind) Identifier {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = k.String()
	}
	return Identifier(name + "(" + strings.Join(parts, ",") + ")")
}

// Location is a 1-based row and column in the source text.
type Location struct {
	Row int
	Col int
}

func (l Location) String() string { return fmt.Sprintf("%d:%d", l.Row, l.Col) }

// ---------------------------------------------------------------------------
// Values and expressions
// ---------------------------------------------------------------------------

// Value is what an expression evaluates to: an Int or a PileName.
type Value interface {
	Kind() Kind
	String() string
}

// Int is an integer value.
type Int int

// PileName names a pile of an Image.
type PileName string

func (Int) Kind() Kind { return KindInt }
func (v Int) String() string { return strconv.Itoa(int(v)) }
func (PileName) Kind() Kind { return KindPile }
func (v PileName) String() string { return string(v) }

// Expr is an actual argument of an invocation or the count of a repeat.
type Expr interface {
	Kind() Kind
	String() string
	isExpr()
}

// ArgumentRef refers to an argument of an enclosing definition.
// LevelsUp counts definition scopes outward from the innermost one.
type ArgumentRef struct {
	Name     string
	ArgKind  Kind
	Index    int
	LevelsUp int
}

// TemporaryPileRef refers to a temporary pile of an enclosing definition.
type TemporaryPileRef struct {
	Name     string
	Index    int
	LevelsUp int
}

// Literal is a constant value.
type Literal struct {
	Value Value
}

func (e ArgumentRef) Kind() Kind { return e.ArgKind }
func (e ArgumentRef) String() string { return e.Name }
func (TemporaryPileRef) Kind() Kind { return KindPile }
func (e TemporaryPileRef) String() string { return e.Name }
func (e Literal) Kind() Kind { return e.Value.Kind() }
func (e Literal) String() string { return e.Value.String() }

func (ArgumentRef) isExpr()      {}
func (TemporaryPileRef) isExpr() {}
func (Literal) isExpr()          {}

// Kinds returns the kind signature of a list of expressions.
func Kinds(exprs []Expr) []Kind {
	kinds := make([]Kind, len(exprs))
	for i, e := range exprs {
		kinds[i] = e.Kind()
	}
	return kinds
}

// ---------------------------------------------------------------------------
// Moves
// ---------------------------------------------------------------------------

// Move is one statement: a Repeat or a Do.
type Move interface {
	Location() Location
	isMove()
}

// Repeat runs Body Count times.
type Repeat struct {
	At    Location
	Count Expr
	Body  []Move
}

// Do invokes a definition. Definition is the snapshot resolved at parse
// time; later changes to the library do not affect it.
type Do struct {
	At         Location
	Definition MoveDefinition
	Actuals    []Expr
}

func (m Repeat) Location() Location { return m.At }
func (m Do) Location() Location { return m.At }

func (Repeat) isMove() {}
func (Do) isMove()     {}

// ---------------------------------------------------------------------------
// Definitions
// ---------------------------------------------------------------------------

// Body is the implementation of a definition: Primitive or UserDefined.
type Body interface {
	isBody()
}

// Primitive is a built-in move implemented in Go.
type Primitive struct {
	Impl PrimitiveFunc
}

// UserDefined is a move written in the language itself.
type UserDefined struct {
	Definitions    []MoveDefinition
	Moves          []Move
	TemporaryPiles []string
}

func (Primitive) isBody()   {}
func (UserDefined) isBody() {}

// MoveDefinition is a named, kind-typed procedure.
// Path lists the names of the enclosing definitions; it is empty for
// definitions at the top level of a library.
type MoveDefinition struct {
	Name       string
	Args       []ArgSpec
	Identifier Identifier
	Doc        string
	Body       Body
	Path       []string
}

// NewDefinition builds a definition and derives its identifier.
func NewDefinition(name string, args []ArgSpec, doc string, body Body, path []string) MoveDefinition {
	return MoveDefinition{
		Name:       name,
		Args:       args,
		Identifier: MakeIdentifier(name, argKinds(args)),
		Doc:        doc,
		Body:       body,
		Path:       path,
	}
}

func argKinds(args []ArgSpec) []Kind {
	kinds := make([]Kind, len(args))
	for i, a := range args {
		kinds[i] = a.Kind
	}
	return kinds
}

// ArgKinds returns the kinds of the definition's arguments in order.
func (d MoveDefinition) ArgKinds() []Kind { return argKinds(d.Args) }

// IsLocal reports whether d was declared inside another definition.
func (d MoveDefinition) IsLocal() bool { return len(d.Path) > 0 }

// IsPrimitive reports whether d is a built-in.
func (d MoveDefinition) IsPrimitive() bool {
	_, ok := d.Body.(Primitive)
	return ok
}

// Accepts reports whether d can be invoked with actuals of the given kinds.
func (d MoveDefinition) Accepts(kinds []Kind) bool {
	if len(kinds) != len(d.Args) {
		return false
	}
	for i, a := range d.Args {
		if a.Kind != kinds[i] {
			return false
		}
	}
	return true
}

// Uses returns the identifiers of the top-level definitions d invokes,
// sorted and without duplicates. Invocations of local definitions are not
// followed, but the bodies of d's own nested definitions are searched.
func (d MoveDefinition) Uses() []Identifier {
	seen := make(map[Identifier]struct{})
	collectUses(d, seen)
	out := make([]Identifier, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func collectUses(d MoveDefinition, seen map[Identifier]struct{}) {
	body, ok := d.Body.(UserDefined)
	if !ok {
		return
	}
	for _, nested := range body.Definitions {
		collectUses(nested, seen)
	}
	collectMoveUses(body.Moves, seen)
}

func collectMoveUses(moves []Move, seen map[Identifier]struct{}) {
	for _, m := range moves {
		switch m := m.(type) {
		case Repeat:
			collectMoveUses(m.Body, seen)
		case Do:
			if !m.Definition.IsLocal() {
				seen[m.Definition.Identifier] = struct{}{}
			}
		}
	}
}
