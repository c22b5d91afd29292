package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Func executes a tool. Arguments have already been checked against the
// declared parameters and defaults filled in.
type Func func(ctx context.Context, args map[string]any) (string, error)

// Classifier computes the safety of one invocation from its arguments,
// replacing the entry's static label.
type Classifier func(args map[string]any) Safety

// Entry is a registered tool.
type Entry struct {
	Name        string
	Description string
	Safety      Safety
	Params      []Param
	Func        Func

	// Classifier is optional.
	Classifier Classifier

	// Target names the argument holding what a destructive tool modifies.
	// Empty for tools that are not destructive.
	Target string

	decl Declaration
}

// Destructive reports whether the tool writes or deletes a target.
func (e *Entry) Destructive() bool {
	return e.Target != ""
}

// Declaration returns the schema offered to the model.
func (e *Entry) Declaration() Declaration {
	return e.decl
}

// Call checks args against the declared parameters, fills defaults and runs
// the tool. Signature mismatches are returned as *ArgumentError.
func (e *Entry) Call(ctx context.Context, args map[string]any) (string, error) {
	known := make(map[string]Param, len(e.Params))
	for _, p := range e.Params {
		known[p.Name] = p
	}

	var unexpected []string
	for name := range args {
		if _, ok := known[name]; !ok {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return "", &ArgumentError{Tool: e.Name, Err: fmt.Errorf("unexpected argument(s) %s", strings.Join(unexpected, ", "))}
	}

	full := make(map[string]any, len(e.Params))
	var missing []string
	for _, p := range e.Params {
		if v, ok := args[p.Name]; ok {
			full[p.Name] = v
			continue
		}
		if p.Required() {
			missing = append(missing, p.Name)
			continue
		}
		full[p.Name] = p.Default
	}
	if len(missing) > 0 {
		return "", &ArgumentError{Tool: e.Name, Err: fmt.Errorf("missing required argument(s) %s", strings.Join(missing, ", "))}
	}

	return e.Func(ctx, full)
}

// Registry is the catalog of tools available to a session.
type Registry struct {
	entries map[string]*Entry
}

// NewRegistry creates a registry holding the given entries.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{entries: make(map[string]*Entry)}
	for _, e := range entries {
		r.Register(e)
	}
	return r
}

// Register adds an entry, replacing any previous entry with the same name.
func (r *Registry) Register(e Entry) {
	e.decl = buildDeclaration(e)
	r.entries[e.Name] = &e
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Declarations returns the schemas for the named tools, or for every tool
// when no names are given. Unknown names are dropped.
func (r *Registry) Declarations(names ...string) []Declaration {
	if len(names) == 0 {
		names = r.Names()
	}
	decls := make([]Declaration, 0, len(names))
	for _, name := range names {
		if e, ok := r.entries[name]; ok {
			decls = append(decls, e.decl)
		}
	}
	return decls
}

func buildDeclaration(e Entry) Declaration {
	schema := &Schema{
		Type:       TypeObject,
		Properties: make(map[string]*Schema),
	}
	for _, p := range e.Params {
		if p.Private() {
			continue
		}
		t := p.Type
		if t == "" {
			t = TypeString
		}
		prop := &Schema{Type: t, Description: p.Description}
		if t == TypeArray {
			items := p.Items
			if items == "" {
				items = TypeString
			}
			prop.Items = &Schema{Type: items}
		}
		schema.Properties[p.Name] = prop
		if p.Required() {
			schema.Required = append(schema.Required, p.Name)
		}
	}

	desc := e.Description
	if desc == "" {
		desc = e.Name
	}
	return Declaration{
		Name:        e.Name,
		Description: desc,
		Parameters:  schema,
	}
}
