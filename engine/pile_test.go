package engine

import (
	"errors"
	"strings"
	"testing"
)

func mustPile(t *testing.T, s string) Pile {
	t.Helper()
	p, err := ParsePile(s)
	if err != nil {
		t.Fatalf("ParsePile(%q): %v", s, err)
	}
	return p
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		code string
		want Card
	}{
		{"AS", FaceUp(Face(SuitSpades, RankAce), BackRed)},
		{"as", FaceDown(Face(SuitSpades, RankAce), BackRed)},
		{"TD", FaceUp(Face(SuitDiamonds, RankTen), BackRed)},
		{"9c", FaceDown(Face(SuitClubs, RankNine), BackRed)},
		{"?", FaceDown(Unknown, BackRed)},
		{"?/red", FaceUp(Unknown, BackRed)},
		{"blue/AH", FaceDown(Face(SuitHearts, RankAce), BackBlue)},
		{"QC/green", FaceUp(Face(SuitClubs, RankQueen), BackGreen)},
		{"green/?", FaceDown(Unknown, BackGreen)},
		{"AS/red", FaceUp(Face(SuitSpades, RankAce), BackRed)},
		{"red/blue", NewCard(Back(BackRed), Back(BackBlue))},
	}
	for _, tt := range tests {
		got, err := ParseCard(tt.code)
		if err != nil {
			t.Errorf("ParseCard(%q): %v", tt.code, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCard(%q) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestParseCardErrors(t *testing.T) {
	for _, code := range []string{"", "A", "ZS", "AX", "aS", "10H", "??", "as/red", "AS/", "/red", "AS/pink", "AS/red/blue"} {
		if _, err := ParseCard(code); !errors.Is(err, ErrBadCardCode) {
			t.Errorf("ParseCard(%q) error = %v, want ErrBadCardCode", code, err)
		}
	}
}

// TestPileRoundTrip verifies ParsePile(Encode(p)) == p for encodable piles.
func TestPileRoundTrip(t *testing.T) {
	piles := []Pile{
		{},
		NewDeck(BackRed),
		NewDeck(BackRed).Turnover(),
		{FaceDown(Unknown, BackRed), FaceUp(Face(SuitClubs, RankJack), BackRed)},
		append(NewDeck(BackRed)[:20:20], NewDeck(BackRed).TurnEach()[20:]...),
		NewDeck(BackBlue),
		NewDeck(BackGreen).Turnover(),
		Pile{FaceDown(Unknown, BackRed)}.Turnover(),
		{FaceUp(Unknown, BackBlue), FaceDown(Unknown, BackGreen), NewCard(Unknown, Unknown)},
	}
	for i, p := range piles {
		text, err := p.Encode()
		if err != nil {
			t.Fatalf("pile %d: Encode: %v", i, err)
		}
		back, err := ParsePile(text)
		if err != nil {
			t.Fatalf("pile %d: ParsePile(%q): %v", i, text, err)
		}
		if !back.Equal(p) {
			t.Errorf("pile %d: round trip mismatch\n got %s\nwant %s", i, back, p)
		}
	}
}

func TestPileEncodeLines(t *testing.T) {
	text, err := NewDeck(BackRed).Encode()
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(text, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), text)
	}
	if lines[0] != "ah,2h,3h,4h,5h,6h,7h,8h,9h,th,jh,qh,kh," {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[3], "ks") {
		t.Errorf("last line = %q", lines[3])
	}
}

// TestPileEncodeAfterTurnover verifies turning over a pile with unknown faces
// keeps it encodable.
func TestPileEncodeAfterTurnover(t *testing.T) {
	p := mustPile(t, "?,?,AS")
	text, err := p.Turnover().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := "as,?/red,?/red"; text != want {
		t.Errorf("Encode = %q, want %q", text, want)
	}
	if got := mustPile(t, text).Turnover(); !got.Equal(p) {
		t.Errorf("turned back = %s, want %s", got, p)
	}
}

func TestPileEncodeOtherBacks(t *testing.T) {
	p := Pile{FaceDown(Face(SuitHearts, RankAce), BackBlue), FaceUp(Face(SuitSpades, RankTen), BackGreen)}
	text, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := "blue/AH,TS/green"; text != want {
		t.Errorf("Encode = %q, want %q", text, want)
	}
}

func TestPileEncodeInvalidDesign(t *testing.T) {
	p := Pile{NewCard(Design(0x0D), Back(BackRed))}
	if _, err := p.Encode(); !errors.Is(err, ErrNotEncodable) {
		t.Errorf("Encode error = %v, want ErrNotEncodable", err)
	}
	if got := p.String(); got != "#" {
		t.Errorf("String() = %q, want #", got)
	}
}

// TestPileTurnover verifies reversing, turning each and turning over are distinct.
func TestPileTurnover(t *testing.T) {
	p := mustPile(t, "AS,2h,3C")

	if got, want := p.Reverse(), mustPile(t, "3C,2h,AS"); !got.Equal(want) {
		t.Errorf("Reverse = %s, want %s", got, want)
	}
	if got, want := p.TurnEach(), mustPile(t, "as,2H,3c"); !got.Equal(want) {
		t.Errorf("TurnEach = %s, want %s", got, want)
	}
	if got, want := p.Turnover(), mustPile(t, "3c,2H,as"); !got.Equal(want) {
		t.Errorf("Turnover = %s, want %s", got, want)
	}
	if got := p.Turnover().Turnover(); !got.Equal(p) {
		t.Errorf("double Turnover = %s, want %s", got, p)
	}
}

func TestPileTextMarshaler(t *testing.T) {
	p := mustPile(t, "KD,kd")
	text, err := p.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var back Pile
	if err := back.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(p) {
		t.Errorf("got %s, want %s", back, p)
	}
}
