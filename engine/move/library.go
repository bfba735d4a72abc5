package move

import "sort"

type idSet map[Identifier]struct{}

// Library is the registry of top-level definitions. It tracks, for every
// definition, which other definitions invoke it, so that removing a
// definition can also remove everything that depends on it.
//
// A Library is a value: Insert and Remove return a new Library and leave the
// receiver unchanged.
type Library struct {
	byIdentifier map[Identifier]MoveDefinition
	leaves       idSet
	byName       map[string][]Identifier
	usedBy       map[Identifier]idSet
}

// NewLibrary returns an empty library. Most callers want NewBuiltinLibrary.
func NewLibrary() *Library {
	return &Library{
		byIdentifier: make(map[Identifier]MoveDefinition),
		leaves:       make(idSet),
		byName:       make(map[string][]Identifier),
		usedBy:       make(map[Identifier]idSet),
	}
}

func (l *Library) clone() *Library {
	c := &Library{
		byIdentifier: make(map[Identifier]MoveDefinition, len(l.byIdentifier)),
		leaves:       make(idSet, len(l.leaves)),
		byName:       make(map[string][]Identifier, len(l.byName)),
		usedBy:       make(map[Identifier]idSet, len(l.usedBy)),
	}
	for k, v := range l.byIdentifier {
		c.byIdentifier[k] = v
	}
	for k := range l.leaves {
		c.leaves[k] = struct{}{}
	}
	for k, v := range l.byName {
		c.byName[k] = append([]Identifier(nil), v...)
	}
	for k, v := range l.usedBy {
		s := make(idSet, len(v))
		for id := range v {
			s[id] = struct{}{}
		}
		c.usedBy[k] = s
	}
	return c
}

// Insert registers def, replacing any definition with the same identifier.
func (l *Library) Insert(def MoveDefinition) *Library {
	c := l.clone()
	id := def.Identifier

	if old, ok := c.byIdentifier[id]; ok {
		for _, u := range old.Uses() {
			delete(c.usedBy[u], id)
		}
		delete(c.leaves, id)
	}

	uses := def.Uses()
	c.byIdentifier[id] = def
	if len(uses) == 0 {
		c.leaves[id] = struct{}{}
	}
	c.byName[def.Name] = append(without(c.byName[def.Name], id), id)
	for _, u := range uses {
		if c.usedBy[u] == nil {
			c.usedBy[u] = make(idSet)
		}
		c.usedBy[u][id] = struct{}{}
	}
	return c
}

func without(ids []Identifier, id Identifier) []Identifier {
	out := ids[:0:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// Get returns the definition registered under id.
func (l *Library) Get(id Identifier) (MoveDefinition, bool) {
	d, ok := l.byIdentifier[id]
	return d, ok
}

// GetByName returns every overload called name, in insertion order.
func (l *Library) GetByName(name string) []MoveDefinition {
	ids := l.byName[name]
	out := make([]MoveDefinition, 0, len(ids))
	for _, id := range ids {
		out = append(out, l.byIdentifier[id])
	}
	return out
}

// Len returns the number of registered definitions.
func (l *Library) Len() int { return len(l.byIdentifier) }

// IsLeaf reports whether id is registered and invokes no other definition.
func (l *Library) IsLeaf(id Identifier) bool {
	_, ok := l.leaves[id]
	return ok
}

// UsedBy returns the definitions that directly invoke id, sorted.
func (l *Library) UsedBy(id Identifier) []Identifier {
	return sortedIDs(l.usedBy[id])
}

func sortedIDs(s idSet) []Identifier {
	out := make([]Identifier, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TransitiveDependents returns id followed by every definition that invokes
// it directly or indirectly: everything that would break if id were removed.
// A definition always comes before the definitions that invoke it.
// It returns nil if id is not registered.
func (l *Library) TransitiveDependents(id Identifier) []Identifier {
	if _, ok := l.byIdentifier[id]; !ok {
		return nil
	}
	visited := make(idSet)
	var post []Identifier
	var visit func(Identifier)
	visit = func(x Identifier) {
		visited[x] = struct{}{}
		for _, user := range sortedIDs(l.usedBy[x]) {
			if _, seen := visited[user]; !seen {
				visit(user)
			}
		}
		post = append(post, x)
	}
	visit(id)

	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// Remove unregisters id together with all of its transitive dependents.
// The removed definitions are returned with every definition before the
// ones it invokes. Removing an unknown identifier is a no-op.
func (l *Library) Remove(id Identifier) ([]MoveDefinition, *Library) {
	deps := l.TransitiveDependents(id)
	if len(deps) == 0 {
		return nil, l
	}
	c := l.clone()
	gone := make(idSet, len(deps))
	removed := make([]MoveDefinition, 0, len(deps))
	for i := len(deps) - 1; i >= 0; i-- {
		x := deps[i]
		def := c.byIdentifier[x]
		removed = append(removed, def)
		gone[x] = struct{}{}

		delete(c.byIdentifier, x)
		if ids := without(c.byName[def.Name], x); len(ids) > 0 {
			c.byName[def.Name] = ids
		} else {
			delete(c.byName, def.Name)
		}
		delete(c.usedBy, x)
	}
	for x := range gone {
		delete(c.leaves, x)
	}
	for _, users := range c.usedBy {
		for x := range gone {
			delete(users, x)
		}
	}
	return removed, c
}

// ToListTopSort returns every definition such that each one appears before
// all of the definitions it invokes. Reverse the list to get an order in
// which definitions can be declared one after another.
func (l *Library) ToListTopSort() []MoveDefinition {
	out := make([]MoveDefinition, 0, l.Len())
	rest := l
	for len(rest.leaves) > 0 {
		leaf := sortedIDs(rest.leaves)[0]
		var removed []MoveDefinition
		removed, rest = rest.Remove(leaf)
		out = append(out, removed...)
	}
	// Only definitions invoking an unregistered identifier can be left over.
	return append(out, rest.ToListAlphabetic()...)
}

// ToListAlphabetic returns every definition ordered by name, then identifier.
func (l *Library) ToListAlphabetic() []MoveDefinition {
	out := make([]MoveDefinition, 0, l.Len())
	for _, d := range l.byIdentifier {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Identifier < out[j].Identifier
	})
	return out
}
