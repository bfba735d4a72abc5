// internal/workspace/edit.go
package workspace

import (
	"strings"

	"github.com/bgrundmann/finding-the-way-home-sub000/engine/move"
	log "github.com/sirupsen/logrus"
)

// EditDefinition takes id out of the library so it can be changed and
// entered again. Everything that uses id, directly or indirectly, is taken
// out with it. The removed definitions are returned in an order in which
// they can be declared again, each before its users, together with their
// source text in that order.
func (w *Workspace) EditDefinition(id move.Identifier) ([]move.MoveDefinition, string, error) {
	w.Mu.Lock()
	defer w.Mu.Unlock()

	d, ok := w.lib.Get(id)
	if !ok {
		return nil, "", ErrUnknownDefinition
	}
	if d.IsPrimitive() {
		return nil, "", ErrBuiltin
	}

	removed, lib := w.lib.Remove(id)
	w.lib = lib

	// Remove lists users first; flip it into declaration order.
	defs := make([]move.MoveDefinition, len(removed))
	ids := make([]move.Identifier, len(removed))
	for i, r := range removed {
		defs[len(removed)-1-i] = r
		ids[len(removed)-1-i] = r.Identifier
	}
	w.fireEvent(Event{Type: EventDefinitionsRemoved, Definitions: ids})
	log.Infof("Workspace %s: removed %s and %d dependent definition(s) for editing.", w.ID, id, len(defs)-1)
	return defs, formatAll(defs), nil
}

// Source returns the source text of every user definition, in an order in
// which compiling it into a fresh workspace recreates the library.
func (w *Workspace) Source() string {
	w.Mu.Lock()
	defer w.Mu.Unlock()
	list := w.lib.ToListTopSort()
	defs := make([]move.MoveDefinition, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		if !list[i].IsPrimitive() {
			defs = append(defs, list[i])
		}
	}
	return formatAll(defs)
}

func formatAll(defs []move.MoveDefinition) string {
	parts := make([]string, len(defs))
	for i, d := range defs {
		parts[i] = move.FormatDefinition(d)
	}
	return strings.Join(parts, "\n")
}
