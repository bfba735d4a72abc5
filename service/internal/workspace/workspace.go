// internal/workspace/workspace.go
package workspace

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bgrundmann/finding-the-way-home-sub000/engine"
	"github.com/bgrundmann/finding-the-way-home-sub000/engine/move"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Errors returned by workspace operations.
var (
	ErrUnknownDefinition = errors.New("workspace: unknown definition")
	ErrBuiltin           = errors.New("workspace: built-in moves cannot be edited")
	ErrLibraryHasMoves   = errors.New("workspace: a library may only contain definitions")
)

// EventType names the kind of a workspace Event.
type EventType string

// Constants defining the Event types a workspace emits.
const (
	EventCompiled           EventType = "compiled"            // New definitions were added to the library.
	EventRan                EventType = "ran"                 // Moves ran to completion; the image was replaced.
	EventRunFailed          EventType = "run_failed"          // Moves stopped on a problem; the image holds the partial state.
	EventDefinitionsRemoved EventType = "definitions_removed" // Definitions were taken out for editing.
	EventImageReplaced      EventType = "image_replaced"      // The image was set directly.
)

// Event describes one change to a workspace.
type Event struct {
	ID          uuid.UUID         `json:"id"`
	Seq         int               `json:"seq"` // Increments with every event of the workspace.
	Type        EventType         `json:"type"`
	Definitions []move.Identifier `json:"definitions,omitempty"`
	Problem     string            `json:"problem,omitempty"`   // Set for run_failed.
	Backtrace   []string          `json:"backtrace,omitempty"` // Innermost frame first.
	Image       *engine.Image     `json:"image,omitempty"`     // The image after the change.
}

// Workspace is an interactive session: a library of definitions and the
// current image, changed only through its methods.
type Workspace struct {
	ID uuid.UUID // Unique identifier for this session.

	lib   *move.Library
	image engine.Image
	seq   int // Sequence number of the last event.

	// OnEvent is called, with the lock held, for every change.
	OnEvent func(ev Event)

	collator *collate.Collator // Orders definition names for listings.
	Mu       sync.Mutex        // Protects everything above.
}

// New creates a workspace over lib and an empty image. A nil lib means the
// built-in moves only.
func New(lib *move.Library) *Workspace {
	if lib == nil {
		lib = move.NewBuiltinLibrary()
	}
	id, _ := uuid.NewRandom()
	w := &Workspace{
		ID:       id,
		lib:      lib,
		collator: collate.New(language.English, collate.Loose),
	}
	log.Debugf("Workspace %s: created with %d definitions.", w.ID, lib.Len())
	return w
}

// LoadLibrary compiles src, which may only declare definitions, into a
// library on top of the built-ins.
func LoadLibrary(src string) (*move.Library, error) {
	lib := move.NewBuiltinLibrary()
	unit, err := move.Parse(lib, src)
	if err != nil {
		return nil, err
	}
	if len(unit.Moves) > 0 {
		return nil, fmt.Errorf("%w: found %d move(s) at %s", ErrLibraryHasMoves, len(unit.Moves), unit.Moves[0].Location())
	}
	for _, d := range unit.Definitions {
		lib = lib.Insert(d)
	}
	return lib, nil
}

// Library returns the current library. Libraries are immutable, so the
// result stays valid after later changes to the workspace.
func (w *Workspace) Library() *move.Library {
	w.Mu.Lock()
	defer w.Mu.Unlock()
	return w.lib
}

// Image returns the current image.
func (w *Workspace) Image() engine.Image {
	w.Mu.Lock()
	defer w.Mu.Unlock()
	return w.image
}

// SetImage replaces the current image.
func (w *Workspace) SetImage(im engine.Image) {
	w.Mu.Lock()
	defer w.Mu.Unlock()
	w.image = im
	w.fireEvent(Event{Type: EventImageReplaced, Image: &im})
	log.Debugf("Workspace %s: image replaced (%d piles).", w.ID, im.Len())
}

// Definition returns the definition with the given identifier.
func (w *Workspace) Definition(id move.Identifier) (move.MoveDefinition, error) {
	w.Mu.Lock()
	defer w.Mu.Unlock()
	d, ok := w.lib.Get(id)
	if !ok {
		return move.MoveDefinition{}, ErrUnknownDefinition
	}
	return d, nil
}

// Definitions lists every definition ordered by name, overloads by
// identifier.
func (w *Workspace) Definitions() []move.MoveDefinition {
	w.Mu.Lock()
	defer w.Mu.Unlock()
	defs := w.lib.ToListAlphabetic()
	// ToListAlphabetic is in identifier order; a stable sort by collated
	// name keeps overloads in that order.
	sort.SliceStable(defs, func(i, j int) bool {
		return w.collator.CompareString(defs[i].Name, defs[j].Name) < 0
	})
	return defs
}

// fireEvent stamps ev and hands it to OnEvent.
// Assumes lock is held by caller.
func (w *Workspace) fireEvent(ev Event) {
	w.seq++
	ev.ID = uuid.New()
	ev.Seq = w.seq
	if w.OnEvent != nil {
		w.OnEvent(ev)
	}
}
