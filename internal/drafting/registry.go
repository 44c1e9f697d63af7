package drafting

import (
	"fmt"
	"sort"
)

// Registry maps document categories to formatting templates.
// A Registry is never modified after construction; reloading builds a new one.
type Registry struct {
	templates  map[string]Template
	categories map[string]string
}

// Source provides the registry currently in effect
type Source interface {
	Current() *Registry
}

// NewRegistry creates a registry from templates and a category mapping.
// The mapping must contain a DefaultCategory entry naming a known template.
func NewRegistry(templates []Template, categories map[string]string) (*Registry, error) {
	r := &Registry{
		templates:  make(map[string]Template, len(templates)),
		categories: make(map[string]string, len(categories)),
	}

	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		r.templates[t.Name] = t
	}

	for category, name := range categories {
		if _, ok := r.templates[name]; !ok {
			return nil, fmt.Errorf("category %q maps to unknown template %q", category, name)
		}
		r.categories[category] = name
	}

	if _, ok := r.categories[DefaultCategory]; !ok {
		return nil, fmt.Errorf("category mapping has no %q entry", DefaultCategory)
	}

	return r, nil
}

// DefaultRegistry returns a registry holding the built-in templates
func DefaultRegistry() *Registry {
	r, err := NewRegistry(builtinTemplates(), builtinCategoryMap())
	if err != nil {
		panic(fmt.Sprintf("built-in templates are invalid: %v", err))
	}
	return r
}

// Resolve returns the template for a category, falling back to the default mapping
func (r *Registry) Resolve(category string) Template {
	return r.templates[r.TemplateName(category)]
}

// TemplateName returns the name of the template a category resolves to
func (r *Registry) TemplateName(category string) string {
	if name, ok := r.categories[category]; ok {
		return name
	}
	return r.categories[DefaultCategory]
}

// Lookup returns a template by name
func (r *Registry) Lookup(name string) (Template, bool) {
	t, ok := r.templates[name]
	return t, ok
}

// Names returns template names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Categories returns a copy of the category mapping
func (r *Registry) Categories() map[string]string {
	out := make(map[string]string, len(r.categories))
	for k, v := range r.categories {
		out[k] = v
	}
	return out
}

// Current implements Source for a fixed registry
func (r *Registry) Current() *Registry {
	return r
}
