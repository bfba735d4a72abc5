package move

import "strings"

// FormatDefinition renders d as source text. For user definitions the
// result parses back to an equivalent definition. Built-ins have no source
// and render as a single comment line.
func FormatDefinition(d MoveDefinition) string {
	var b strings.Builder
	writeDefinition(&b, d, 0)
	return b.String()
}

// FormatMoves renders moves as top-level source text.
func FormatMoves(moves []Move) string {
	var b strings.Builder
	writeMoves(&b, moves, 0)
	return b.String()
}

func signature(d MoveDefinition) string {
	parts := make([]string, 0, len(d.Args)+1)
	parts = append(parts, d.Name)
	for _, a := range d.Args {
		parts = append(parts, a.Name)
	}
	return strings.Join(parts, " ")
}

func writeDefinition(b *strings.Builder, d MoveDefinition, depth int) {
	indent := strings.Repeat("  ", depth)
	body, ok := d.Body.(UserDefined)
	if !ok {
		b.WriteString(indent + "# " + signature(d) + " (built-in)\n")
		return
	}
	b.WriteString(indent + "def " + signature(d) + "\n")
	if d.Doc != "" {
		for _, line := range strings.Split(d.Doc, "\n") {
			b.WriteString(strings.TrimRight(indent+"  doc "+line, " ") + "\n")
		}
	}
	if len(body.TemporaryPiles) > 0 {
		b.WriteString(indent + "  temp " + strings.Join(body.TemporaryPiles, " ") + "\n")
	}
	for _, nested := range body.Definitions {
		writeDefinition(b, nested, depth+1)
	}
	writeMoves(b, body.Moves, depth+1)
	b.WriteString(indent + "end\n")
}

func writeMoves(b *strings.Builder, moves []Move, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, m := range moves {
		switch m := m.(type) {
		case Repeat:
			b.WriteString(indent + "repeat " + m.Count.String() + "\n")
			writeMoves(b, m.Body, depth+1)
			b.WriteString(indent + "end\n")
		case Do:
			b.WriteString(indent + m.Definition.Name)
			for _, x := range m.Actuals {
				b.WriteString(" " + x.String())
			}
			b.WriteString("\n")
		}
	}
}
