package engine

import "testing"

// TestDesignSuitRank verifies Suit/Rank roundtrip for every suit×rank combo.
func TestDesignSuitRank(t *testing.T) {
	for s := SuitHearts; s <= SuitSpades; s++ {
		for r := RankAce; r <= RankKing; r++ {
			d := Face(s, r)
			if !d.IsFace() || d.IsBack() || d.IsUnknown() {
				t.Errorf("Face(%d,%d) classified wrongly: face=%v back=%v unknown=%v", s, r, d.IsFace(), d.IsBack(), d.IsUnknown())
			}
			if d.Suit() != s {
				t.Errorf("Face(%d,%d).Suit() = %d, want %d", s, r, d.Suit(), s)
			}
			if d.Rank() != r {
				t.Errorf("Face(%d,%d).Rank() = %d, want %d", s, r, d.Rank(), r)
			}
		}
	}
}

// TestBackDesigns verifies back colors are distinct and classified as backs.
func TestBackDesigns(t *testing.T) {
	seen := make(map[Design]bool)
	for _, c := range []BackColor{BackRed, BackGreen, BackBlue} {
		d := Back(c)
		if !d.IsBack() || d.IsFace() || d.IsUnknown() {
			t.Errorf("Back(%s) classified wrongly", c)
		}
		if d.Color() != c {
			t.Errorf("Back(%s).Color() = %s", c, d.Color())
		}
		if seen[d] {
			t.Errorf("Back(%s) collides with another color", c)
		}
		seen[d] = true
	}
	if !Unknown.IsUnknown() || Unknown.IsBack() || Unknown.IsFace() {
		t.Error("Unknown classified wrongly")
	}
}

func TestDesignString(t *testing.T) {
	tests := []struct {
		d    Design
		want string
	}{
		{Face(SuitSpades, RankAce), "AS"},
		{Face(SuitHearts, RankTen), "TH"},
		{Face(SuitClubs, RankKing), "KC"},
		{Face(SuitDiamonds, RankTwo), "2D"},
		{Back(BackGreen), "back:green"},
		{Unknown, "?"},
		{Design(0x0D), "#0d"},
		{Design(0xF5), "#f5"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

// TestDesignOutOfRange verifies constructors reject values with no card.
func TestDesignOutOfRange(t *testing.T) {
	tests := []Design{Face(SuitHearts, 13), Face(SuitHearts, 15), Face(4, RankAce), Back(BackColor(3))}
	for i, d := range tests {
		if d != Unknown {
			t.Errorf("case %d: got %#x, want Unknown", i, uint8(d))
		}
	}
	if Design(0x0D).IsFace() || Design(0x4A).IsFace() || Design(0xF3).IsBack() {
		t.Error("invalid designs classified as faces or backs")
	}
}

// TestCardTurnover verifies turning over swaps sides without changing designs.
func TestCardTurnover(t *testing.T) {
	face := Face(SuitHearts, RankQueen)
	c := FaceDown(face, BackBlue)
	if c.Visible() != Back(BackBlue) || c.Hidden() != face {
		t.Fatalf("FaceDown: got %s", c)
	}
	up := c.Turnover()
	if up.Visible() != face || up.Hidden() != Back(BackBlue) {
		t.Errorf("Turnover: got %s", up)
	}
	if up.Turnover() != c {
		t.Errorf("double Turnover should be identity, got %s", up.Turnover())
	}
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck(BackRed)
	if len(deck) != 52 {
		t.Fatalf("len = %d, want 52", len(deck))
	}
	seen := make(map[Design]bool)
	for i, c := range deck {
		if c.Visible() != Back(BackRed) {
			t.Errorf("card %d is not face down: %s", i, c)
		}
		if seen[c.Hidden()] {
			t.Errorf("duplicate face %s at %d", c.Hidden(), i)
		}
		seen[c.Hidden()] = true
	}
	if deck[0].Hidden() != Face(SuitHearts, RankAce) {
		t.Errorf("top card = %s, want AH", deck[0].Hidden())
	}
	if deck[51].Hidden() != Face(SuitSpades, RankKing) {
		t.Errorf("bottom card = %s, want KS", deck[51].Hidden())
	}
}
