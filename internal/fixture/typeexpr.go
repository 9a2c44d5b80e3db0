package fixture

import (
	"fmt"

	"github.com/waclang/waccheck/internal/ir"
)

// TypeExprWire is a tagged union over every ir.TypeExpr variant (spec.md
// §3 value types plus LocalRef/OuterRef). Kind selects which of the
// optional fields below are read; unrelated fields are ignored, matching
// the loose style yaml.v3 already tolerates for omitted keys.
type TypeExprWire struct {
	Kind   string     `yaml:"kind"`
	Region RegionWire `yaml:"region,omitempty"`

	// prim
	Prim string `yaml:"prim,omitempty"`

	// record
	Fields []NamedTypeWire `yaml:"fields,omitempty"`

	// variant
	Cases []VariantCaseWire `yaml:"cases,omitempty"`

	// list, option, own, borrow (all single-element)
	Elem *TypeExprWire `yaml:"elem,omitempty"`

	// tuple, union
	Elems []TypeExprWire `yaml:"elems,omitempty"`

	// flags
	Names []string `yaml:"names,omitempty"`

	// enum
	Tags []string `yaml:"tags,omitempty"`

	// expected
	Ok  *TypeExprWire `yaml:"ok,omitempty"`
	Err *TypeExprWire `yaml:"err,omitempty"`

	// local_ref
	Idx int `yaml:"idx,omitempty"`

	// outer_ref
	Depth int `yaml:"depth,omitempty"`
}

type NamedTypeWire struct {
	Name string       `yaml:"name"`
	Type TypeExprWire `yaml:"type"`
}

func (n NamedTypeWire) ToIR() (ir.NamedType, error) {
	t, err := n.Type.ToIR()
	if err != nil {
		return ir.NamedType{}, err
	}
	return ir.NamedType{Name: n.Name, Type: t}, nil
}

type VariantCaseWire struct {
	Name    string        `yaml:"name"`
	Payload *TypeExprWire `yaml:"payload,omitempty"`
	Refines string        `yaml:"refines,omitempty"`
}

func (v VariantCaseWire) ToIR() (ir.VariantCase, error) {
	out := ir.VariantCase{Name: v.Name, Refines: v.Refines}
	if v.Payload != nil {
		p, err := v.Payload.ToIR()
		if err != nil {
			return ir.VariantCase{}, err
		}
		out.Payload = p
	}
	return out, nil
}

var primKinds = map[string]ir.PrimKind{
	"bool": ir.PrimBool, "s8": ir.PrimS8, "u8": ir.PrimU8,
	"s16": ir.PrimS16, "u16": ir.PrimU16, "s32": ir.PrimS32, "u32": ir.PrimU32,
	"s64": ir.PrimS64, "u64": ir.PrimU64, "f32": ir.PrimF32, "f64": ir.PrimF64,
	"char": ir.PrimChar, "string": ir.PrimString,
}

// ToIR converts a TypeExprWire into the ir.TypeExpr it describes. A nil
// receiver (an omitted optional field) converts to a nil ir.TypeExpr,
// matching e.g. TExpected.Ok/Err and ParamList.Unnamed being nilable.
func (t *TypeExprWire) ToIR() (ir.TypeExpr, error) {
	if t == nil {
		return nil, nil
	}
	reg := t.Region.ToIR()
	switch t.Kind {
	case "prim":
		k, ok := primKinds[t.Prim]
		if !ok {
			return nil, fmt.Errorf("fixture: unknown prim kind %q", t.Prim)
		}
		return ir.TPrim{Node: ir.Node{Reg: reg}, Kind: k}, nil
	case "record":
		fields := make([]ir.NamedType, len(t.Fields))
		for i, f := range t.Fields {
			nt, err := f.ToIR()
			if err != nil {
				return nil, err
			}
			fields[i] = nt
		}
		return ir.TRecord{Node: ir.Node{Reg: reg}, Fields: fields}, nil
	case "variant":
		cases := make([]ir.VariantCase, len(t.Cases))
		for i, c := range t.Cases {
			vc, err := c.ToIR()
			if err != nil {
				return nil, err
			}
			cases[i] = vc
		}
		return ir.TVariant{Node: ir.Node{Reg: reg}, Cases: cases}, nil
	case "list":
		elem, err := t.Elem.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.TList{Node: ir.Node{Reg: reg}, Elem: elem}, nil
	case "tuple":
		elems, err := typeExprSliceToIR(t.Elems)
		if err != nil {
			return nil, err
		}
		return ir.TTuple{Node: ir.Node{Reg: reg}, Elems: elems}, nil
	case "flags":
		return ir.TFlags{Node: ir.Node{Reg: reg}, Names: t.Names}, nil
	case "enum":
		return ir.TEnum{Node: ir.Node{Reg: reg}, Tags: t.Tags}, nil
	case "union":
		arms, err := typeExprSliceToIR(t.Elems)
		if err != nil {
			return nil, err
		}
		return ir.TUnion{Node: ir.Node{Reg: reg}, Arms: arms}, nil
	case "option":
		elem, err := t.Elem.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.TOption{Node: ir.Node{Reg: reg}, Elem: elem}, nil
	case "expected":
		ok, err := t.Ok.ToIR()
		if err != nil {
			return nil, err
		}
		errT, err := t.Err.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.TExpected{Node: ir.Node{Reg: reg}, Ok: ok, Err: errT}, nil
	case "own":
		res, err := t.Elem.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.TOwn{Node: ir.Node{Reg: reg}, Resource: res}, nil
	case "borrow":
		res, err := t.Elem.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.TBorrow{Node: ir.Node{Reg: reg}, Resource: res}, nil
	case "local_ref":
		return ir.LocalRef{Node: ir.Node{Reg: reg}, Idx: t.Idx}, nil
	case "outer_ref":
		return ir.OuterRef{Node: ir.Node{Reg: reg}, Depth: t.Depth, Idx: t.Idx}, nil
	default:
		return nil, fmt.Errorf("fixture: unknown type expr kind %q", t.Kind)
	}
}

func typeExprSliceToIR(ws []TypeExprWire) ([]ir.TypeExpr, error) {
	out := make([]ir.TypeExpr, len(ws))
	for i := range ws {
		v, err := ws[i].ToIR()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ParamListWire mirrors ir.ParamList's either/or shape: Unnamed xor Named.
type ParamListWire struct {
	Unnamed *TypeExprWire   `yaml:"unnamed,omitempty"`
	Named   []NamedTypeWire `yaml:"named,omitempty"`
}

func (p ParamListWire) ToIR() (ir.ParamList, error) {
	if p.Unnamed != nil {
		u, err := p.Unnamed.ToIR()
		if err != nil {
			return ir.ParamList{}, err
		}
		return ir.ParamList{Unnamed: u}, nil
	}
	named := make([]ir.NamedType, len(p.Named))
	for i, n := range p.Named {
		nt, err := n.ToIR()
		if err != nil {
			return ir.ParamList{}, err
		}
		named[i] = nt
	}
	return ir.ParamList{Named: named}, nil
}

type FuncTypeWire struct {
	Region RegionWire    `yaml:"region,omitempty"`
	Params ParamListWire `yaml:"params"`
	Result ParamListWire `yaml:"result"`
}

func (f FuncTypeWire) ToIR() (ir.FuncTypeExpr, error) {
	params, err := f.Params.ToIR()
	if err != nil {
		return ir.FuncTypeExpr{}, err
	}
	result, err := f.Result.ToIR()
	if err != nil {
		return ir.FuncTypeExpr{}, err
	}
	return ir.FuncTypeExpr{Node: ir.Node{Reg: f.Region.ToIR()}, Params: params, Result: result}, nil
}

// TypeBoundWire mirrors ir.TypeBound: either "sub_resource" (fresh
// resource handle bound) or "eq" (alias to an existing type expr).
type TypeBoundWire struct {
	Kind string        `yaml:"kind"`
	Type *TypeExprWire `yaml:"type,omitempty"`
}

func (b TypeBoundWire) ToIR() (ir.TypeBound, error) {
	switch b.Kind {
	case "sub_resource":
		return ir.BoundSubResource{}, nil
	case "eq":
		t, err := b.Type.ToIR()
		if err != nil {
			return nil, err
		}
		return ir.BoundEq{Type: t}, nil
	default:
		return nil, fmt.Errorf("fixture: unknown type bound kind %q", b.Kind)
	}
}
