// Package engine implements the card model the moves language operates on.
//
// Cards, piles and images are plain values: every operation that changes an
// image returns a new Image and leaves the receiver untouched, so a caller
// can keep any earlier state around for diagnostics or undo.
package engine

import "strings"

// NamedPile is one entry of an Image.
type NamedPile struct {
	Name  string
	Cards Pile
}

// Image is an ordered list of uniquely named piles, the world state a move
// sequence reads and writes. The zero value is an empty image.
type Image struct {
	entries []NamedPile
}

// NewImage builds an image from entries in order. Later entries with a
// name already seen are put on top of the earlier pile.
func NewImage(entries ...NamedPile) Image {
	var im Image
	for _, e := range entries {
		im = im.Put(e.Name, e.Cards)
	}
	return im
}

func (im Image) index(name string) int {
	for i, e := range im.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the pile called name.
func (im Image) Get(name string) (Pile, bool) {
	i := im.index(name)
	if i < 0 {
		return nil, false
	}
	return im.entries[i].Cards, true
}

// Put places cards on top of the pile called name, creating it at the end
// of the image if it does not exist yet.
func (im Image) Put(name string, cards Pile) Image {
	entries := make([]NamedPile, len(im.entries), len(im.entries)+1)
	copy(entries, im.entries)
	if i := im.index(name); i >= 0 {
		merged := make(Pile, 0, len(cards)+len(entries[i].Cards))
		merged = append(merged, cards...)
		merged = append(merged, entries[i].Cards...)
		entries[i] = NamedPile{Name: name, Cards: merged}
		return Image{entries: entries}
	}
	own := make(Pile, len(cards))
	copy(own, cards)
	return Image{entries: append(entries, NamedPile{Name: name, Cards: own})}
}

// Set replaces the pile called name with cards, keeping its position in the
// image. A new pile is added at the end. Unlike Update, an empty pile stays.
func (im Image) Set(name string, cards Pile) Image {
	entries := make([]NamedPile, len(im.entries), len(im.entries)+1)
	copy(entries, im.entries)
	own := make(Pile, len(cards))
	copy(own, cards)
	if i := im.index(name); i >= 0 {
		entries[i] = NamedPile{Name: name, Cards: own}
		return Image{entries: entries}
	}
	return Image{entries: append(entries, NamedPile{Name: name, Cards: own})}
}

// Take removes the pile called name and returns its cards.
// ok is false (and the image unchanged) if there is no such pile.
func (im Image) Take(name string) (rest Image, cards Pile, ok bool) {
	i := im.index(name)
	if i < 0 {
		return im, nil, false
	}
	entries := make([]NamedPile, 0, len(im.entries)-1)
	entries = append(entries, im.entries[:i]...)
	entries = append(entries, im.entries[i+1:]...)
	return Image{entries: entries}, im.entries[i].Cards, true
}

// Update replaces the pile called name with f applied to it. f receives
// ok=false if the pile does not exist. If f returns an empty pile the entry
// is deleted; otherwise it is replaced in place or appended.
func (im Image) Update(name string, f func(cards Pile, ok bool) Pile) Image {
	i := im.index(name)
	var (
		current Pile
		found   = i >= 0
	)
	if found {
		current = im.entries[i].Cards
	}
	next := f(current, found)
	if len(next) == 0 {
		if !found {
			return im
		}
		rest, _, _ := im.Take(name)
		return rest
	}
	entries := make([]NamedPile, len(im.entries), len(im.entries)+1)
	copy(entries, im.entries)
	if found {
		entries[i] = NamedPile{Name: name, Cards: next}
	} else {
		entries = append(entries, NamedPile{Name: name, Cards: next})
	}
	return Image{entries: entries}
}

// Len returns the number of piles.
func (im Image) Len() int { return len(im.entries) }

// Names returns the pile names in image order.
func (im Image) Names() []string {
	names := make([]string, len(im.entries))
	for i, e := range im.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the piles in image order.
func (im Image) Entries() []NamedPile {
	out := make([]NamedPile, len(im.entries))
	copy(out, im.entries)
	return out
}

// Equal reports whether both images hold the same piles in the same order.
func (im Image) Equal(o Image) bool {
	if len(im.entries) != len(o.entries) {
		return false
	}
	for i := range im.entries {
		if im.entries[i].Name != o.entries[i].Name || !im.entries[i].Cards.Equal(o.entries[i].Cards) {
			return false
		}
	}
	return true
}

func (im Image) String() string {
	var b strings.Builder
	for i, e := range im.entries {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Name)
		b.WriteString(": ")
		b.WriteString(e.Cards.String())
	}
	return b.String()
}
