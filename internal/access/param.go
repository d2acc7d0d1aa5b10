package access

import (
	"fmt"
	"sort"
)

// Param is one named string parameter recognized by an access method.
type Param struct {
	Name  string
	Value string
	Help  string

	// set records that the value was overridden by the caller rather than
	// carrying the registered default.
	set bool
}

// DefineParam registers a parameter with its default value and help text.
// Methods call this from Config; a parameter must be defined before it can
// be read or overridden. Redefining an existing parameter keeps the current
// value and updates the help text.
func (ctx *Context) DefineParam(name, value, help string) {
	if p, ok := ctx.params[name]; ok {
		p.Help = help
		return
	}
	ctx.params[name] = &Param{Name: name, Value: value, Help: help}
}

// SetParam overrides a defined parameter. Unknown names are an error.
func (ctx *Context) SetParam(name, value string) error {
	p, ok := ctx.params[name]
	if !ok {
		return fmt.Errorf("no such parameter %q", name)
	}
	p.Value = value
	p.set = true
	return nil
}

// Param returns the value of a defined parameter. Reading an undefined
// parameter is a fatal error: it means the calling code and the method's
// Config disagree about the parameter vocabulary.
func (ctx *Context) Param(name string) string {
	p, ok := ctx.params[name]
	if !ok {
		ctx.Fatalf("reading undefined parameter %q", name)
		return ""
	}
	return p.Value
}

// Params returns all defined parameters sorted by name, for help output.
func (ctx *Context) Params() []*Param {
	out := make([]*Param, 0, len(ctx.params))
	for _, p := range ctx.params {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
