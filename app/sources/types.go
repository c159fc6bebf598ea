package sources

// Source is one feed in the registry. The registry is loaded once at
// startup and never mutated afterwards.
type Source struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Language string `yaml:"language"`
	Category string `yaml:"category"`
	Group    string `yaml:"-"`
}

type registryFile struct {
	Groups map[string][]Source `yaml:"groups"`
}
