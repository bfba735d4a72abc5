// internal/workspace/sync_state.go
package workspace

import (
	"github.com/bgrundmann/finding-the-way-home-sub000/engine"
	"github.com/bgrundmann/finding-the-way-home-sub000/engine/move"
	"github.com/google/uuid"
)

// DefinitionState describes one definition for clients.
type DefinitionState struct {
	Identifier move.Identifier   `json:"identifier"`
	Name       string            `json:"name"`
	Args       []string          `json:"args"` // "name:kind" per argument.
	Doc        string            `json:"doc,omitempty"`
	Builtin    bool              `json:"builtin"`
	UsedBy     []move.Identifier `json:"usedBy,omitempty"`
	Source     string            `json:"source,omitempty"` // Empty for built-ins.
}

// State is a snapshot of a workspace, ready to be encoded as JSON.
type State struct {
	WorkspaceID uuid.UUID         `json:"workspaceId"`
	Seq         int               `json:"seq"` // Seq of the last event included.
	Definitions []DefinitionState `json:"definitions"`
	Image       engine.Image      `json:"image"`
}

// State returns a snapshot of the library and image.
func (w *Workspace) State() State {
	w.Mu.Lock()
	defer w.Mu.Unlock()

	st := State{
		WorkspaceID: w.ID,
		Seq:         w.seq,
		Image:       w.image,
	}
	defs := w.lib.ToListAlphabetic()
	st.Definitions = make([]DefinitionState, len(defs))
	for i, d := range defs {
		args := make([]string, len(d.Args))
		for j, a := range d.Args {
			args[j] = a.Name + ":" + a.Kind.String()
		}
		ds := DefinitionState{
			Identifier: d.Identifier,
			Name:       d.Name,
			Args:       args,
			Doc:        d.Doc,
			Builtin:    d.IsPrimitive(),
			UsedBy:     w.lib.UsedBy(d.Identifier),
		}
		if !ds.Builtin {
			ds.Source = move.FormatDefinition(d)
		}
		st.Definitions[i] = ds
	}
	return st
}
