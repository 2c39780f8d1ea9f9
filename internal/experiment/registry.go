package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/slrsim/internal/dynamo"
)

type Registry struct {
	scripts map[string]func() Script
}

// NewRegistry returns the built-in pointer scripts.
func NewRegistry() *Registry {
	r := &Registry{scripts: make(map[string]func() Script)}

	r.scripts["sweep"] = func() Script { return Sweep(0, 1, 60, 120) }
	r.scripts["return"] = func() Script { return Sweep(1, 0, 60, 120) }
	r.scripts["flick"] = func() Script { return Sweep(0.1, 0.9, 4, 60) }
	r.scripts["hover"] = func() Script {
		return Script{{Kind: Move, X: 0.5}, {Kind: Wait, Frames: 240}, {Kind: Leave}}
	}
	r.scripts["touch"] = func() Script {
		return Script{
			{Kind: Touch, X: 0.2}, {Kind: Wait, Frames: 30},
			{Kind: Touch, X: 0.7}, {Kind: Wait, Frames: 30},
			{Kind: TouchEnd},
		}
	}
	return r
}

func (r *Registry) Register(name string, fn func() Script) {
	r.scripts[name] = fn
}

func (r *Registry) Get(name string) (Script, error) {
	fn, ok := r.scripts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownScript, name)
	}
	return fn(), nil
}

// Resolve returns a named script, or parses text as an inline script.
func (r *Registry) Resolve(text string) (Script, error) {
	if s, err := r.Get(text); err == nil {
		return s, nil
	}
	return Parse(text)
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scripts))
	for name := range r.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
