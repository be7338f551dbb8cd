// Package idgen issues the ids used by a single timeline manager.
//
// Every manager owns its own Generator, so two timelines (or the segment and
// trigger managers of one timeline) never share an id namespace.
package idgen

// Generator hands out ids in increasing order starting from 0.
//
// A Generator is not safe for concurrent use; it lives inside a manager and is
// guarded by whatever guards the manager.
type Generator struct {
	next int
}

// New returns a generator whose first id is 0.
func New() *Generator {
	return &Generator{}
}

// Generate returns the next id and advances the counter.
func (g *Generator) Generate() int {
	id := g.next
	g.next++

	return id
}

// Issued tells if the id has been handed out by this generator.
func (g *Generator) Issued(id int) bool {
	return id >= 0 && id < g.next
}

// Peek returns the id the next call to Generate will return.
func (g *Generator) Peek() int {
	return g.next
}
