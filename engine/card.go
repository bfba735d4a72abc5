package engine

import "fmt"

// Suit constants, packed into the upper 4 bits of a face Design.
const (
	SuitHearts   uint8 = 0
	SuitDiamonds uint8 = 1
	SuitClubs    uint8 = 2
	SuitSpades   uint8 = 3
)

// Rank constants, packed into the lower 4 bits of a face Design.
const (
	RankAce   uint8 = 0
	RankTwo   uint8 = 1
	RankThree uint8 = 2
	RankFour  uint8 = 3
	RankFive  uint8 = 4
	RankSix   uint8 = 5
	RankSeven uint8 = 6
	RankEight uint8 = 7
	RankNine  uint8 = 8
	RankTen   uint8 = 9
	RankJack  uint8 = 10
	RankQueen uint8 = 11
	RankKing  uint8 = 12
)

// BackColor identifies the design printed on the back of a card.
type BackColor uint8

const (
	BackRed   BackColor = 0
	BackGreen BackColor = 1
	BackBlue  BackColor = 2
)

func (b BackColor) String() string {
	switch b {
	case BackRed:
		return "red"
	case BackGreen:
		return "green"
	case BackBlue:
		return "blue"
	default:
		return "?"
	}
}

// Design is one side of a card, packed into a uint8:
//   - regular face: upper 4 bits = suit (0–3), lower 4 bits = rank (0–12)
//   - back: 0xF0 | color
//   - unknown placeholder: 0xFF
type Design uint8

const (
	designBack Design = 0xF0

	// Unknown is a placeholder for a side whose design is not known.
	Unknown Design = 0xFF
)

// Face constructs a regular face design from suit and rank.
// It returns Unknown if either is out of range.
func Face(suit, rank uint8) Design {
	if suit > SuitSpades || rank > RankKing {
		return Unknown
	}
	return Design(suit<<4 | rank)
}

// Back constructs a back design of the given color, or Unknown for a color
// that does not exist.
func Back(color BackColor) Design {
	if color > BackBlue {
		return Unknown
	}
	return designBack | Design(color)
}

// IsFace reports whether d is a regular rank × suit face.
func (d Design) IsFace() bool {
	return d < designBack && d.Suit() <= SuitSpades && d.Rank() <= RankKing
}

// IsBack reports whether d is a card back.
func (d Design) IsBack() bool { return d >= designBack && d-designBack <= Design(BackBlue) }

// IsUnknown reports whether d is the unknown placeholder.
func (d Design) IsUnknown() bool { return d == Unknown }

// Suit returns the suit bits (upper 4). Only meaningful for faces.
func (d Design) Suit() uint8 { return uint8(d) >> 4 }

// Rank returns the rank bits (lower 4). Only meaningful for faces.
func (d Design) Rank() uint8 { return uint8(d) & 0x0F }

// Color returns the back color. Only meaningful for backs.
func (d Design) Color() BackColor { return BackColor(uint8(d) & 0x03) }

const (
	rankLetters = "A23456789TJQK"
	suitLetters = "HDCS"
)

// String renders faces as two letters ("AS", "TH"), backs as "back:<color>"
// and the placeholder as "?". Anything else is "#" and its hex value.
func (d Design) String() string {
	switch {
	case d.IsFace():
		return string([]byte{rankLetters[d.Rank()], suitLetters[d.Suit()]})
	case d.IsBack():
		return "back:" + d.Color().String()
	case d.IsUnknown():
		return "?"
	default:
		return fmt.Sprintf("#%02x", uint8(d))
	}
}

// Card has two sides. Both designs are fixed at construction; turning a card
// over only swaps which one is visible.
type Card struct {
	visible Design
	hidden  Design
}

// NewCard constructs a card showing visible with hidden on the other side.
func NewCard(visible, hidden Design) Card {
	return Card{visible: visible, hidden: hidden}
}

// FaceUp returns a card showing the given face, with a back of the given color underneath.
func FaceUp(face Design, back BackColor) Card {
	return Card{visible: face, hidden: Back(back)}
}

// FaceDown returns a card showing its back, with the given face underneath.
func FaceDown(face Design, back BackColor) Card {
	return Card{visible: Back(back), hidden: face}
}

// Visible returns the design currently facing up.
func (c Card) Visible() Design { return c.visible }

// Hidden returns the design currently facing down.
func (c Card) Hidden() Design { return c.hidden }

// Turnover returns the card flipped over.
func (c Card) Turnover() Card {
	return Card{visible: c.hidden, hidden: c.visible}
}

func (c Card) String() string {
	return c.visible.String() + "/" + c.hidden.String()
}

// NewDeck returns a standard 52-card deck, face down, hearts through spades,
// ace through king within each suit.
func NewDeck(back BackColor) Pile {
	deck := make(Pile, 0, 52)
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank <= RankKing; rank++ {
			deck = append(deck, FaceDown(Face(suit, rank), back))
		}
	}
	return deck
}
