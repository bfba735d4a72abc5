package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Pile is an ordered sequence of cards. Index 0 is the top of the pile.
type Pile []Card

// CardsPerLine is how many card codes the text notation puts on one line.
const CardsPerLine = 13

var (
	// ErrBadCardCode is returned when a pile string contains an unknown card code.
	ErrBadCardCode = errors.New("bad card code")
	// ErrNotEncodable is returned for a card holding a design that is neither
	// a face, a back nor Unknown.
	ErrNotEncodable = errors.New("card cannot be written in pile notation")
)

// Reverse returns the pile in reverse order. Cards are not turned over.
func (p Pile) Reverse() Pile {
	out := make(Pile, len(p))
	for i, c := range p {
		out[len(p)-1-i] = c
	}
	return out
}

// TurnEach returns the pile with every card turned over in place, keeping order.
func (p Pile) TurnEach() Pile {
	out := make(Pile, len(p))
	for i, c := range p {
		out[i] = c.Turnover()
	}
	return out
}

// Turnover flips the whole pile as one would flip a physical stack:
// the order is reversed and every card is turned over.
func (p Pile) Turnover() Pile {
	out := make(Pile, len(p))
	for i, c := range p {
		out[len(p)-1-i] = c.Turnover()
	}
	return out
}

// Equal reports whether both piles hold the same cards in the same order.
func (p Pile) Equal(o Pile) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Text notation
// ---------------------------------------------------------------------------

// cardCode returns the code of c. Red-backed cards have short codes:
//   - "AS": ace of spades face up on a red back
//   - "as": ace of spades face down (red back showing)
//   - "?":  face down red back over an unknown face
//
// Every other card is written as "visible/hidden", each side being a face
// ("AS"), a back color ("red", "green", "blue") or "?".
func cardCode(c Card) (string, bool) {
	red := Back(BackRed)
	switch {
	case c.visible.IsFace() && c.hidden == red:
		return c.visible.String(), true
	case c.visible == red && c.hidden.IsFace():
		return strings.ToLower(c.hidden.String()), true
	case c.visible == red && c.hidden.IsUnknown():
		return "?", true
	}
	vis, ok := sideCode(c.visible)
	if !ok {
		return "", false
	}
	hid, ok := sideCode(c.hidden)
	if !ok {
		return "", false
	}
	return vis + "/" + hid, true
}

func sideCode(d Design) (string, bool) {
	switch {
	case d.IsFace():
		return d.String(), true
	case d.IsBack():
		return d.Color().String(), true
	case d.IsUnknown():
		return "?", true
	}
	return "", false
}

func parseSide(code string) (Design, bool) {
	switch code {
	case "?":
		return Unknown, true
	case "red":
		return Back(BackRed), true
	case "green":
		return Back(BackGreen), true
	case "blue":
		return Back(BackBlue), true
	}
	if len(code) != 2 {
		return 0, false
	}
	rank := strings.IndexByte(rankLetters, code[0])
	suit := strings.IndexByte(suitLetters, code[1])
	if rank < 0 || suit < 0 {
		return 0, false
	}
	return Face(uint8(suit), uint8(rank)), true
}

// ParseCard decodes a single card code.
func ParseCard(code string) (Card, error) {
	if vis, hid, ok := strings.Cut(code, "/"); ok {
		v, okv := parseSide(vis)
		h, okh := parseSide(hid)
		if !okv || !okh {
			return Card{}, fmt.Errorf("%w: %q", ErrBadCardCode, code)
		}
		return NewCard(v, h), nil
	}
	if code == "?" {
		return FaceDown(Unknown, BackRed), nil
	}
	if len(code) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrBadCardCode, code)
	}
	up := strings.ToUpper(code)
	face, ok := parseSide(up)
	if !ok {
		return Card{}, fmt.Errorf("%w: %q", ErrBadCardCode, code)
	}
	switch code {
	case up:
		return FaceUp(face, BackRed), nil
	case strings.ToLower(code):
		return FaceDown(face, BackRed), nil
	}
	return Card{}, fmt.Errorf("%w: %q (mixed case)", ErrBadCardCode, code)
}

// Encode writes the pile in text notation: comma separated codes, a line
// break after every CardsPerLine cards. It fails only for invalid designs.
func (p Pile) Encode() (string, error) {
	var b strings.Builder
	for i, c := range p {
		code, ok := cardCode(c)
		if !ok {
			return "", fmt.Errorf("card %d (%s): %w", i, c, ErrNotEncodable)
		}
		if i > 0 {
			b.WriteByte(',')
			if i%CardsPerLine == 0 {
				b.WriteByte('\n')
			}
		}
		b.WriteString(code)
	}
	return b.String(), nil
}

// String is like Encode but writes "#" for cards without a code.
func (p Pile) String() string {
	codes := make([]string, len(p))
	for i, c := range p {
		code, ok := cardCode(c)
		if !ok {
			code = "#"
		}
		codes[i] = code
	}
	return strings.Join(codes, ",")
}

// ParsePile decodes the text notation written by Encode.
// Whitespace (including line breaks) around codes is ignored.
func ParsePile(s string) (Pile, error) {
	if strings.TrimSpace(s) == "" {
		return Pile{}, nil
	}
	parts := strings.Split(s, ",")
	pile := make(Pile, 0, len(parts))
	for i, part := range parts {
		c, err := ParseCard(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		pile = append(pile, c)
	}
	return pile, nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Pile) MarshalText() ([]byte, error) {
	s, err := p.Encode()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pile) UnmarshalText(text []byte) error {
	parsed, err := ParsePile(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
