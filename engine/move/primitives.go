package move

import "github.com/bgrundmann/finding-the-way-home-sub000/engine"

// PrimitiveFunc implements a built-in move. On failure it returns the image
// it was given, unchanged, together with the problem.
type PrimitiveFunc func(im engine.Image, args []Value) (engine.Image, EvalProblem)

var (
	// Cut moves the top N cards of from onto to.
	Cut = NewDefinition("cut",
		[]ArgSpec{{Name: "N", Kind: KindInt}, {Name: "from", Kind: KindPile}, {Name: "to", Kind: KindPile}},
		"Take the top N cards of from and put them on to.",
		Primitive{Impl: cut}, nil)

	// Turnover flips a pile over.
	Turnover = NewDefinition("turnover",
		[]ArgSpec{{Name: "pile", Kind: KindPile}},
		"Turn the pile over: reverse its order and turn every card over.",
		Primitive{Impl: turnover}, nil)
)

// Primitives returns the built-in definitions.
func Primitives() []MoveDefinition {
	return []MoveDefinition{Cut, Turnover}
}

// NewBuiltinLibrary returns a library holding only the built-ins.
func NewBuiltinLibrary() *Library {
	lib := NewLibrary()
	for _, d := range Primitives() {
		lib = lib.Insert(d)
	}
	return lib
}

func cut(im engine.Image, args []Value) (engine.Image, EvalProblem) {
	if len(args) != 3 {
		return im, Bug{Message: "cut takes 3 arguments"}
	}
	n, ok1 := args[0].(Int)
	from, ok2 := args[1].(PileName)
	to, ok3 := args[2].(PileName)
	if !ok1 || !ok2 || !ok3 {
		return im, Bug{Message: "cut called with wrong argument kinds"}
	}
	// Cutting nothing succeeds without looking at either pile.
	if n == 0 {
		return im, nil
	}
	cards, ok := im.Get(string(from))
	if !ok {
		return im, NoSuchPile{Name: string(from)}
	}
	if n < 0 || len(cards) < int(n) {
		return im, NotEnoughCards{Expected: int(n), Got: len(cards), Pile: string(from)}
	}
	top, bottom := cards[:n], cards[n:]
	// Piles keep their place in the image. When from and to are the same
	// pile the cut cards end up below the rest.
	return im.Set(string(from), nil).Put(string(to), top).Put(string(from), bottom), nil
}

func turnover(im engine.Image, args []Value) (engine.Image, EvalProblem) {
	if len(args) != 1 {
		return im, Bug{Message: "turnover takes 1 argument"}
	}
	name, ok := args[0].(PileName)
	if !ok {
		return im, Bug{Message: "turnover called with wrong argument kind"}
	}
	cards, ok := im.Get(string(name))
	if !ok {
		return im, NoSuchPile{Name: string(name)}
	}
	return im.Set(string(name), cards.Turnover()), nil
}
