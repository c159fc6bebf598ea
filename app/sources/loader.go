package sources

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of the feed source registry
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// LoadAll reads the registry file and returns a flat list of sources,
// ordered by group name and then by declaration order within the group.
func (l *Loader) LoadAll() ([]Source, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources YAML: %w", err)
	}

	groupNames := make([]string, 0, len(file.Groups))
	for name := range file.Groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	var all []Source
	seen := make(map[string]bool)
	for _, group := range groupNames {
		for _, src := range file.Groups[group] {
			src.Group = group
			if err := l.validate(src); err != nil {
				return nil, fmt.Errorf("invalid source in group %q: %w", group, err)
			}
			if seen[src.Name] {
				return nil, fmt.Errorf("duplicate source name: %q", src.Name)
			}
			seen[src.Name] = true
			all = append(all, src)
		}
	}

	return all, nil
}

func (l *Loader) validate(src Source) error {
	if src.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if src.URL == "" {
		return fmt.Errorf("source %q: URL is required", src.Name)
	}
	if src.Language != "" {
		if _, err := language.Parse(src.Language); err != nil {
			slog.Warn("Unrecognized language tag", "source", src.Name, "language", src.Language)
		}
	}
	return nil
}

// ByName returns the source with the given name, or nil.
func ByName(all []Source, name string) *Source {
	for i := range all {
		if all[i].Name == name {
			return &all[i]
		}
	}
	return nil
}
