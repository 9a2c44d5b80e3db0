// Package fixture decodes the YAML resolved-IR fixtures cmd/waccheck reads
// (spec.md §6 "External Interfaces" leaves the resolved-IR wire format
// unspecified; this package fixes it as YAML, the way the teacher's
// internal/manifest and internal/eval_harness fix their own on-disk
// structured formats). Every *Wire type here is the plain, tag-driven
// struct gopkg.in/yaml.v3 decodes into; ToIR methods convert each one into
// the corresponding internal/ir node. internal/ir's own types are
// interfaces keyed by a Go type switch, so the wire form adds a `kind`
// discriminator string per node, resolved by an explicit switch in ToIR
// rather than by yaml.v3 (which has no notion of sum types).
package fixture

import "github.com/waclang/waccheck/internal/ir"

// PosWire/RegionWire default to the zero Region when omitted: fixtures
// exist to exercise the checker, not to pinpoint editor columns, so most
// hand-written fixtures skip regions entirely.
type PosWire struct {
	File   string `yaml:"file,omitempty"`
	Line   int    `yaml:"line,omitempty"`
	Column int    `yaml:"column,omitempty"`
}

type RegionWire struct {
	Start PosWire `yaml:"start,omitempty"`
	End   PosWire `yaml:"end,omitempty"`
}

func (r RegionWire) ToIR() ir.Region {
	return ir.Region{
		Start: ir.Pos{File: r.Start.File, Line: r.Start.Line, Column: r.Start.Column},
		End:   ir.Pos{File: r.End.File, Line: r.End.Line, Column: r.End.Column},
	}
}
