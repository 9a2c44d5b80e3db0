package ctx

import (
	"fmt"

	"github.com/waclang/waccheck/internal/errors"
	"github.com/waclang/waccheck/internal/ir"
)

// MarkValueDead consumes a value slot (spec.md §3 "consumed (made dead)
// when passed as an instantiate-arg, placed in an inline-export of an
// instance, or used as a start parameter"). It reports LV003 if the slot
// was already dead — a double-use of a linear handle.
func (c *Context) MarkValueDead(idx int, region ir.Region) (*Context, *errors.Report) {
	if idx < 0 || idx >= len(c.Values) {
		return c, errors.New(errors.LV003, errors.CategoryInvalid, region,
			fmt.Sprintf("value slot %d does not exist", idx))
	}
	if !c.Values[idx].Live {
		return c, errors.New(errors.LV003, errors.CategoryInvalid, region,
			fmt.Sprintf("value slot %d is already dead", idx))
	}
	cp := c.clone()
	slots := append([]ValueSlot{}, c.Values...)
	slots[idx].Live = false
	cp.Values = slots
	return cp, nil
}

// MarkInstanceExportDead consumes one export of an instance, e.g. because
// it flowed through an instantiate-arg or an inline-export (spec.md §3
// "when the instance is used as an instantiate-arg its exports become
// dead").
func (c *Context) MarkInstanceExportDead(instIdx, exportIdx int, region ir.Region) (*Context, *errors.Report) {
	if instIdx < 0 || instIdx >= len(c.Instances) {
		return c, errors.New(errors.LV003, errors.CategoryInvalid, region,
			fmt.Sprintf("instance slot %d does not exist", instIdx))
	}
	inst := c.Instances[instIdx]
	if exportIdx < 0 || exportIdx >= len(inst.Live) {
		return c, errors.New(errors.LV003, errors.CategoryInvalid, region,
			fmt.Sprintf("instance %d export %d does not exist", instIdx, exportIdx))
	}
	if !inst.Live[exportIdx] {
		return c, errors.New(errors.LV003, errors.CategoryInvalid, region,
			fmt.Sprintf("instance %d export %d is already dead", instIdx, exportIdx))
	}
	cp := c.clone()
	instances := append([]InstanceSlot{}, c.Instances...)
	live := append([]bool{}, inst.Live...)
	live[exportIdx] = false
	instances[instIdx] = InstanceSlot{Type: inst.Type, Live: live}
	cp.Instances = instances
	return cp, nil
}

// MarkAllInstanceExportsDead is used when an entire instance is consumed
// as a single instantiate-arg (spec.md §4.5 step 6).
func (c *Context) MarkAllInstanceExportsDead(instIdx int, region ir.Region) (*Context, *errors.Report) {
	cur := c
	for i := range c.Instances[instIdx].Live {
		var rep *errors.Report
		cur, rep = cur.MarkInstanceExportDead(instIdx, i, region)
		if rep != nil {
			return cur, rep
		}
	}
	return cur, nil
}

// CheckLinearity implements I6/P4: no live value, no live instance-export
// remains at end of component.
func (c *Context) CheckLinearity(region ir.Region) *errors.Report {
	for i, v := range c.Values {
		if v.Live {
			return errors.New(errors.LV001, errors.CategoryInvalid, region,
				fmt.Sprintf("value slot %d of type %s is still live at end of component", i, v.Type))
		}
	}
	for i, inst := range c.Instances {
		for j, live := range inst.Live {
			if live {
				return errors.New(errors.LV002, errors.CategoryInvalid, region,
					fmt.Sprintf("instance %d export %d is still live at end of component", i, j))
			}
		}
	}
	return nil
}
