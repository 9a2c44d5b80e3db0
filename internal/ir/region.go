// Package ir defines the resolved intermediate representation consumed by
// the type elaboration engine. A Component arrives here already desugared
// and variable-resolved: every identifier is an integer index into the
// appropriate sort-indexed list at its nesting level, and outer references
// carry an explicit nesting depth. Producing this IR (lexing, parsing,
// variable resolution) is the job of an external collaborator; this package
// only names the shape the engine expects.
package ir

import "fmt"

// Pos is a single point in the original surface source, carried through
// purely for diagnostics.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Region is a source range attached to every IR node, reported verbatim in
// every error (spec.md §7).
type Region struct {
	Start Pos
	End   Pos
}

func (r Region) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}
