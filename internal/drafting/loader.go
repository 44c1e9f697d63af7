package drafting

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// templateFile is the on-disk layout of a template overrides file
type templateFile struct {
	Templates  []Template        `yaml:"templates"`
	Categories map[string]string `yaml:"categories"`
}

// LoadRegistryFile builds a registry from the built-in templates with the
// templates and category mappings from a YAML file layered on top.
// Entries in the file replace built-ins with the same name or category.
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry is LoadRegistryFile for in-memory YAML
func ParseRegistry(data []byte) (*Registry, error) {
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse templates file: %w", err)
	}

	byName := make(map[string]Template)
	var order []string
	for _, t := range builtinTemplates() {
		byName[t.Name] = t
		order = append(order, t.Name)
	}
	for _, t := range file.Templates {
		if _, exists := byName[t.Name]; !exists {
			order = append(order, t.Name)
		}
		byName[t.Name] = t
	}

	templates := make([]Template, 0, len(order))
	for _, name := range order {
		templates = append(templates, byName[name])
	}

	categories := builtinCategoryMap()
	for category, name := range file.Categories {
		categories[category] = name
	}

	r, err := NewRegistry(templates, categories)
	if err != nil {
		return nil, fmt.Errorf("invalid templates file: %w", err)
	}
	return r, nil
}
