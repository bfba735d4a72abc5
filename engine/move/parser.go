package move

import (
	"strconv"
	"strings"
)

// Grammar, informally:
//
//	unit       = definition* move*
//	definition = "def" name argspec* EOL
//	             ("doc" text EOL)*
//	             ["temp" name+ EOL]
//	             definition* move* "end" EOL
//	move       = ["ignore"] ("repeat" count EOL move* "end" EOL | name expr* EOL)
//
// At the top level a statement may also end at the end of input. Argument
// names starting with an uppercase letter are numbers, all others are piles.
// A '#' starts a comment that runs to the end of the line.

var keywords = map[string]bool{
	"def":    true,
	"doc":    true,
	"temp":   true,
	"repeat": true,
	"end":    true,
	"ignore": true,
}

// ParsedUnit is the result of parsing one source text.
type ParsedUnit struct {
	// Definitions are the new top-level definitions, in declaration order.
	Definitions []MoveDefinition
	Moves       []Move
}

// Parse parses src. Invocations are resolved against lib and against the
// definitions declared earlier in src; lib itself is not modified. On
// failure the error is a *ParseError.
func Parse(lib *Library, src string) (ParsedUnit, error) {
	p := &parser{src: src, row: 1, col: 1}
	unit, perr := p.unit(lib)
	if perr != nil {
		perr.normalize()
		return ParsedUnit{}, perr
	}
	return unit, nil
}

// binding is what a name in scope refers to.
type binding struct {
	kind      Kind
	depth     int
	index     int
	temporary bool
}

// env is the parse-time environment.
type env struct {
	lib      *Library
	scope    map[string]binding
	path     []string
	topLevel bool
}

// enter returns the environment for the body of a definition.
func (e *env) enter(name string, args []ArgSpec, temps []string) *env {
	depth := len(e.path) + 1
	scope := make(map[string]binding, len(e.scope)+len(args)+len(temps))
	for k, v := range e.scope {
		scope[k] = v
	}
	for i, a := range args {
		scope[a.Name] = binding{kind: a.Kind, depth: depth, index: i}
	}
	for i, t := range temps {
		scope[t] = binding{kind: KindPile, depth: depth, index: i, temporary: true}
	}
	path := make([]string, 0, depth)
	path = append(path, e.path...)
	path = append(path, name)
	return &env{lib: e.lib, scope: scope, path: path}
}

func (e *env) ref(name string, b binding) Expr {
	levelsUp := len(e.path) - b.depth
	if b.temporary {
		return TemporaryPileRef{Name: name, Index: b.index, LevelsUp: levelsUp}
	}
	return ArgumentRef{Name: name, ArgKind: b.kind, Index: b.index, LevelsUp: levelsUp}
}

// ---------------------------------------------------------------------------
// Scanner
// ---------------------------------------------------------------------------

type parser struct {
	src string
	pos int
	row int
	col int
}

type position struct{ pos, row, col int }

func (p *parser) mark() position { return position{p.pos, p.row, p.col} }
func (p *parser) reset(m position) { p.pos, p.row, p.col = m.pos, m.row, m.col }
func (p *parser) loc() Location { return Location{Row: p.row, Col: p.col} }
func (p *parser) atEOF() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.atEOF() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) advance() {
	if p.src[p.pos] == '\n' {
		p.row++
		p.col = 1
	} else {
		p.col++
	}
	p.pos++
}

func (p *parser) consume(n int) {
	for i := 0; i < n && !p.atEOF(); i++ {
		p.advance()
	}
}

func (p *parser) failAt(at Location, problems ...Problem) *ParseError {
	e := &ParseError{Problems: make([]LocatedProblem, len(problems))}
	for i, pr := range problems {
		e.Problems[i] = LocatedProblem{Row: at.Row, Col: at.Col, Problem: pr}
	}
	return e
}

func (p *parser) fail(problems ...Problem) *ParseError { return p.failAt(p.loc(), problems...) }

// skipSpaces skips blanks and a trailing comment, stopping at a newline.
func (p *parser) skipSpaces() {
	for !p.atEOF() {
		switch c := p.peek(); {
		case c == ' ' || c == '\t' || c == '\r':
			p.advance()
		case c == '#':
			for !p.atEOF() && p.peek() != '\n' {
				p.advance()
			}
		default:
			return
		}
	}
}

func (p *parser) skipBlankLines() {
	for {
		p.skipSpaces()
		if p.peek() != '\n' {
			return
		}
		p.advance()
	}
}

func (p *parser) atLineEnd() bool { return p.atEOF() || p.peek() == '\n' }

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c == '-' || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// peekWord returns the name starting at the current position, if any.
func (p *parser) peekWord() string {
	if p.atEOF() || !isNameStart(p.peek()) {
		return ""
	}
	end := p.pos + 1
	for end < len(p.src) && isNameChar(p.src[end]) {
		end++
	}
	return p.src[p.pos:end]
}

// kindOfName: names starting with an uppercase letter are number arguments.
func kindOfName(name string) Kind {
	if name != "" && name[0] >= 'A' && name[0] <= 'Z' {
		return KindInt
	}
	return KindPile
}

func expected(what ...Expectation) []Problem {
	out := make([]Problem, len(what))
	for i, w := range what {
		out[i] = Expected{What: w}
	}
	return out
}

// name consumes a non-keyword name.
func (p *parser) name(what ...Expectation) (string, Location, *ParseError) {
	at := p.loc()
	w := p.peekWord()
	if w == "" || keywords[w] {
		return "", at, p.failAt(at, expected(what...)...)
	}
	p.consume(len(w))
	return w, at, nil
}

func (p *parser) keyword(kw string) *ParseError {
	if p.peekWord() != kw {
		return p.fail(Expected{What: ExpectKeyword, Keyword: kw})
	}
	p.consume(len(kw))
	return nil
}

func (p *parser) endOfLine() *ParseError {
	p.skipSpaces()
	if p.peek() != '\n' {
		return p.fail(Expected{What: ExpectEndOfLine})
	}
	p.advance()
	return nil
}

// endOfStatement is endOfLine, except that the top level also accepts the
// end of input.
func (p *parser) endOfStatement(e *env) *ParseError {
	p.skipSpaces()
	if e.topLevel && p.atEOF() {
		return nil
	}
	if p.peek() == '\n' {
		p.advance()
		return nil
	}
	if e.topLevel {
		return p.fail(expected(ExpectEndOfLine, ExpectEndOfInput)...)
	}
	return p.fail(Expected{What: ExpectEndOfLine})
}

// oneOf tries each alternative from the same position and returns the first
// success. On failure the problems of all alternatives are merged.
func oneOf[T any](p *parser, alts ...func() (T, *ParseError)) (T, *ParseError) {
	start := p.mark()
	merged := &ParseError{}
	for _, alt := range alts {
		v, err := alt()
		if err == nil {
			return v, nil
		}
		merged.Problems = append(merged.Problems, err.Problems...)
		p.reset(start)
	}
	var zero T
	return zero, merged
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (p *parser) unit(lib *Library) (ParsedUnit, *ParseError) {
	e := &env{lib: lib, scope: map[string]binding{}, topLevel: true}
	var unit ParsedUnit
	for {
		p.skipBlankLines()
		if p.peekWord() != "def" {
			break
		}
		def, err := p.definition(e)
		if err != nil {
			return ParsedUnit{}, err
		}
		e.lib = e.lib.Insert(def)
		unit.Definitions = append(unit.Definitions, def)
	}
	moves, err := p.moves(e, false)
	if err != nil {
		return ParsedUnit{}, err
	}
	unit.Moves = moves
	return unit, nil
}

// moves parses statements up to "end" (closed) or the end of input.
// The closing keyword is left for the caller.
func (p *parser) moves(e *env, closed bool) ([]Move, *ParseError) {
	var out []Move
	for {
		p.skipBlankLines()
		switch {
		case p.atEOF():
			if closed {
				return nil, p.fail(Expected{What: ExpectKeyword, Keyword: "end"})
			}
			return out, nil
		case p.peekWord() == "end":
			if !closed {
				return nil, p.fail(Expected{What: ExpectEndOfInput})
			}
			return out, nil
		}
		m, keep, err := p.move(e)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, m)
		}
	}
}

func (p *parser) definition(e *env) (MoveDefinition, *ParseError) {
	at := p.loc()
	if err := p.keyword("def"); err != nil {
		return MoveDefinition{}, err
	}
	p.skipSpaces()
	name, _, err := p.name(ExpectMoveName)
	if err != nil {
		return MoveDefinition{}, err
	}
	var args []ArgSpec
	for {
		p.skipSpaces()
		if p.atLineEnd() {
			break
		}
		arg, _, err := p.name(ExpectPileName, ExpectArgumentNumberName)
		if err != nil {
			return MoveDefinition{}, err
		}
		args = append(args, ArgSpec{Name: arg, Kind: kindOfName(arg)})
	}
	if err := p.endOfLine(); err != nil {
		return MoveDefinition{}, err
	}
	if prev, ok := e.lib.Get(MakeIdentifier(name, argKinds(args))); ok {
		return MoveDefinition{}, p.failAt(at, DuplicateDefinition{Previous: prev})
	}

	var doc []string
	for {
		p.skipBlankLines()
		if p.peekWord() != "doc" {
			break
		}
		p.consume(len("doc"))
		start := p.pos
		for !p.atLineEnd() {
			p.advance()
		}
		doc = append(doc, strings.TrimSpace(p.src[start:p.pos]))
		if err := p.endOfLine(); err != nil {
			return MoveDefinition{}, err
		}
	}

	var temps []string
	if p.peekWord() == "temp" {
		p.consume(len("temp"))
		for {
			p.skipSpaces()
			if p.atLineEnd() {
				break
			}
			t, tAt, err := p.name(ExpectPileName)
			if err != nil {
				return MoveDefinition{}, err
			}
			if kindOfName(t) != KindPile {
				return MoveDefinition{}, p.failAt(tAt, Expected{What: ExpectPileName})
			}
			temps = append(temps, t)
		}
		if len(temps) == 0 {
			return MoveDefinition{}, p.fail(Expected{What: ExpectPileName})
		}
		if err := p.endOfLine(); err != nil {
			return MoveDefinition{}, err
		}
	}

	inner := e.enter(name, args, temps)
	var nested []MoveDefinition
	for {
		p.skipBlankLines()
		if p.peekWord() != "def" {
			break
		}
		nd, err := p.definition(inner)
		if err != nil {
			return MoveDefinition{}, err
		}
		inner.lib = inner.lib.Insert(nd)
		nested = append(nested, nd)
	}

	body, err := p.moves(inner, true)
	if err != nil {
		return MoveDefinition{}, err
	}
	if err := p.keyword("end"); err != nil {
		return MoveDefinition{}, err
	}
	if err := p.endOfStatement(e); err != nil {
		return MoveDefinition{}, err
	}

	path := append([]string(nil), e.path...)
	return NewDefinition(name, args, strings.Join(doc, "\n"), UserDefined{
		Definitions:    nested,
		Moves:          body,
		TemporaryPiles: temps,
	}, path), nil
}

// move parses one statement. keep is false for ignored moves.
func (p *parser) move(e *env) (Move, bool, *ParseError) {
	keep := true
	if p.peekWord() == "ignore" {
		p.consume(len("ignore"))
		p.skipSpaces()
		keep = false
	}
	at := p.loc()

	if p.peekWord() == "repeat" {
		p.consume(len("repeat"))
		p.skipSpaces()
		count, err := p.countExpr(e)
		if err != nil {
			return nil, false, err
		}
		if err := p.endOfLine(); err != nil {
			return nil, false, err
		}
		body, err := p.moves(e, true)
		if err != nil {
			return nil, false, err
		}
		if err := p.keyword("end"); err != nil {
			return nil, false, err
		}
		if err := p.endOfStatement(e); err != nil {
			return nil, false, err
		}
		return Repeat{At: at, Count: count, Body: body}, keep, nil
	}

	name, _, err := p.name(ExpectMoveName)
	if err != nil {
		return nil, false, err
	}
	var actuals []Expr
	for {
		p.skipSpaces()
		if p.atLineEnd() {
			break
		}
		x, err := p.expr(e)
		if err != nil {
			return nil, false, err
		}
		actuals = append(actuals, x)
	}
	def, err := p.resolve(e, name, at, actuals)
	if err != nil {
		return nil, false, err
	}
	if err := p.endOfStatement(e); err != nil {
		return nil, false, err
	}
	return Do{At: at, Definition: def, Actuals: actuals}, keep, nil
}

// resolve picks the overload of name whose argument kinds match actuals.
func (p *parser) resolve(e *env, name string, at Location, actuals []Expr) (MoveDefinition, *ParseError) {
	candidates := e.lib.GetByName(name)
	if len(candidates) == 0 {
		return MoveDefinition{}, p.failAt(at, UnknownMove{Name: name})
	}
	kinds := Kinds(actuals)
	for _, c := range candidates {
		if c.Accepts(kinds) {
			return c, nil
		}
	}
	return MoveDefinition{}, p.failAt(at, InvalidMoveInvocation{
		Name:       name,
		Actuals:    actuals,
		Candidates: candidates,
	})
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func (p *parser) expr(e *env) (Expr, *ParseError) {
	alts := []func() (Expr, *ParseError){
		p.intLiteral,
		func() (Expr, *ParseError) { return p.scopedName(e) },
	}
	if len(e.path) == 0 {
		alts = append(alts, p.pileLiteral)
	}
	return oneOf(p, alts...)
}

// countExpr is a repeat count. Outside definitions only literals exist.
func (p *parser) countExpr(e *env) (Expr, *ParseError) {
	alts := []func() (Expr, *ParseError){p.intLiteral}
	if len(e.path) > 0 {
		alts = append(alts, func() (Expr, *ParseError) { return p.intArgument(e) })
	}
	return oneOf(p, alts...)
}

func (p *parser) intLiteral() (Expr, *ParseError) {
	at := p.loc()
	start := p.pos
	for isDigit(p.peek()) {
		p.advance()
	}
	if p.pos == start || isNameChar(p.peek()) {
		return nil, p.failAt(at, Expected{What: ExpectInteger})
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return nil, p.failAt(at, Expected{What: ExpectInteger})
	}
	return Literal{Value: Int(n)}, nil
}

// scopedName resolves an argument or temporary pile of an enclosing definition.
func (p *parser) scopedName(e *env) (Expr, *ParseError) {
	name, at, err := p.name(ExpectPileName)
	if err != nil {
		return nil, err
	}
	b, ok := e.scope[name]
	if !ok {
		return nil, p.failAt(at, NoSuchArgument{Name: name, Kind: kindOfName(name)})
	}
	return e.ref(name, b), nil
}

// pileLiteral is a bare pile name. Only legal outside definitions.
func (p *parser) pileLiteral() (Expr, *ParseError) {
	name, _, err := p.name(ExpectPileName)
	if err != nil {
		return nil, err
	}
	return Literal{Value: PileName(name)}, nil
}

func (p *parser) intArgument(e *env) (Expr, *ParseError) {
	name, at, err := p.name(ExpectArgumentNumberName)
	if err != nil {
		return nil, err
	}
	b, ok := e.scope[name]
	if !ok {
		return nil, p.failAt(at, NoSuchArgument{Name: name, Kind: KindInt})
	}
	if b.kind != KindInt {
		return nil, p.failAt(at, Expected{What: ExpectArgumentNumberName})
	}
	return e.ref(name, b), nil
}
