package main

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/bgrundmann/finding-the-way-home-sub000/engine"
	"github.com/bgrundmann/finding-the-way-home-sub000/engine/move"
	"github.com/bgrundmann/finding-the-way-home-sub000/service/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockDelta(t *testing.T) {
	cases := map[string]int{
		"def deal N from to": 1,
		"  repeat 3":         1,
		"ignore repeat 2":    1,
		"end":                -1,
		"  end # deal":       -1,
		"cut 1 deck table":   0,
		"# def not really":   0,
		"":                   0,
	}
	for line, want := range cases {
		assert.Equal(t, want, blockDelta(line), "line %q", line)
	}
}

func TestRenderParseError(t *testing.T) {
	src := "cut 1 a b\nshuffle deck\n"
	_, err := move.Parse(move.NewBuiltinLibrary(), src)
	require.Error(t, err)
	assert.True(t, isParseError(err))
	assert.Equal(t, "2:1: unknown move \"shuffle\"\n   2 | shuffle deck\n     | ^\n", renderError(src, err))
}

func TestRenderEvalError(t *testing.T) {
	src := "def twice p q\n  cut 3 p q\n  cut 3 p q\nend\ntwice a b\n"
	w := workspace.New(nil)
	cards, err := engine.ParsePile("AS,2S,3S,4S")
	require.NoError(t, err)
	w.SetImage(engine.NewImage(engine.NamedPile{Name: "a", Cards: cards}))

	_, err = w.Run(src)
	require.Error(t, err)
	assert.False(t, isParseError(err))
	assert.Equal(t,
		"error: not enough cards in \"a\": needed 3, have 1\n"+
			"   3 |   cut 3 p q\n"+
			"     |   ^\n"+
			"  at 3:3: cut 3 a b\n"+
			"  at 5:1: twice a b\n",
		renderError(src, err))
}

func TestPrintDefinitions(t *testing.T) {
	lib, err := workspace.LoadLibrary("def flip p\n  doc Turn p over.\n  doc Twice is a no-op.\n  turnover p\nend\n")
	require.NoError(t, err)
	w := workspace.New(lib)

	var buf bytes.Buffer
	printDefinitions(&buf, w.Definitions())
	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, fmt.Sprintf("%-32s %s", "cut N from to", move.Cut.Doc), string(lines[0]))
	assert.Equal(t, fmt.Sprintf("%-32s %s", "flip p", "Turn p over."), string(lines[1]))
}

func TestFindDefinition(t *testing.T) {
	lib, err := workspace.LoadLibrary("def cut N p\n  cut N p p\nend\ndef flip p\n  turnover p\nend\n")
	require.NoError(t, err)
	w := workspace.New(lib)

	id, err := findDefinition(w, "flip")
	require.NoError(t, err)
	assert.Equal(t, move.Identifier("flip(pile)"), id)

	_, err = findDefinition(w, "cut")
	assert.ErrorContains(t, err, "overloaded")

	_, err = findDefinition(w, "shuffle")
	assert.ErrorIs(t, err, workspace.ErrUnknownDefinition)

	id, err = findDefinition(w, "cut(int,pile)")
	require.NoError(t, err)
	assert.Equal(t, move.Identifier("cut(int,pile)"), id)
}
