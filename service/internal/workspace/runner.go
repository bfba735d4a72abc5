// internal/workspace/runner.go
package workspace

import (
	"github.com/bgrundmann/finding-the-way-home-sub000/engine/move"
	log "github.com/sirupsen/logrus"
)

// Compile parses src against the library and adds the definitions it
// declares. The moves of src are returned but not run. On a parse error the
// workspace is unchanged.
func (w *Workspace) Compile(src string) (move.ParsedUnit, error) {
	w.Mu.Lock()
	defer w.Mu.Unlock()
	return w.compile(src)
}

// compile is Compile without locking.
// Assumes lock is held by caller.
func (w *Workspace) compile(src string) (move.ParsedUnit, error) {
	unit, err := move.Parse(w.lib, src)
	if err != nil {
		log.Debugf("Workspace %s: parse failed: %v", w.ID, err)
		return move.ParsedUnit{}, err
	}
	if len(unit.Definitions) == 0 {
		return unit, nil
	}
	ids := make([]move.Identifier, len(unit.Definitions))
	for i, d := range unit.Definitions {
		w.lib = w.lib.Insert(d)
		ids[i] = d.Identifier
	}
	w.fireEvent(Event{Type: EventCompiled, Definitions: ids})
	log.Infof("Workspace %s: compiled %d definition(s).", w.ID, len(ids))
	return unit, nil
}

// Run compiles src and runs its moves against the current image. The image
// is replaced by the resulting one even when evaluation fails, so the
// state reached before the failing move can be inspected.
//
// A parse error is returned as the error and nothing runs. Evaluation
// problems are reported in the result's Err, which is also returned as the
// error.
func (w *Workspace) Run(src string) (move.EvalResult, error) {
	w.Mu.Lock()
	defer w.Mu.Unlock()

	unit, err := w.compile(src)
	if err != nil {
		return move.EvalResult{Image: w.image}, err
	}
	res := move.Eval(w.image, unit.Moves)
	w.image = res.Image
	im := res.Image

	if res.Err == nil {
		w.fireEvent(Event{Type: EventRan, Image: &im})
		log.Debugf("Workspace %s: ran %d move(s).", w.ID, len(unit.Moves))
		return res, nil
	}

	backtrace := make([]string, len(res.Err.Backtrace))
	for i, f := range res.Err.Backtrace {
		backtrace[i] = f.At.String() + ": " + f.Step.String()
	}
	w.fireEvent(Event{
		Type:      EventRunFailed,
		Problem:   res.Err.Problem.String(),
		Backtrace: backtrace,
		Image:     &im,
	})
	if move.IsBug(res.Err.Problem) {
		log.WithFields(log.Fields{
			"workspace": w.ID,
			"problem":   res.Err.Problem.String(),
			"backtrace": backtrace,
		}).Error("internal error while running moves")
	} else {
		log.Debugf("Workspace %s: run failed: %s", w.ID, res.Err.Problem)
	}
	return res, res.Err
}
