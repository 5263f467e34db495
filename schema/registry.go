package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/arnodel/feedjson/pipeline"
)

// ErrUnknownType is returned by Lookup for names that are not registered.
var ErrUnknownType = errors.New("unknown record type")

// A Type is a named record type.
type Type interface {
	pipeline.Combiner
	Name() string
}

// A Registry maps record type names to their strategies.
type Registry struct {
	types map[string]Type
}

// NewRegistry returns a registry holding every known record type.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]Type)}
	for _, t := range []Type{Allergy{}, Problem{}} {
		r.types[t.Name()] = t
	}
	return r
}

// Lookup finds a type by name, ignoring case.
func (r *Registry) Lookup(name string) (Type, error) {
	t, ok := r.types[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownType, name, strings.Join(r.Names(), ", "))
	}
	return t, nil
}

// Names returns the registered type names in alphabetical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
