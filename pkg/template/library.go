package template

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hack-pad/hackpadfs"
	"gopkg.in/yaml.v3"
)

// Definition is one pattern/template pair in notation form.
type Definition struct {
	ID         string  `yaml:"id"`
	Pattern    string  `yaml:"pattern"`
	Template   string  `yaml:"template"`
	Score      float64 `yaml:"score"`
	Provenance string  `yaml:"provenance,omitempty"`
}

// Library is the on-disk YAML document.
type Library struct {
	Templates []Definition `yaml:"templates"`
}

// ParseLibrary decodes YAML. Definitions without an id get a random one.
func ParseLibrary(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("failed to parse template library: %w", err)
	}
	seen := make(map[string]bool, len(lib.Templates))
	for i := range lib.Templates {
		d := &lib.Templates[i]
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("template library: duplicate id %q", d.ID)
		}
		seen[d.ID] = true
	}
	return &lib, nil
}

// LoadLibrary reads and decodes a library file from fs.
func LoadLibrary(fs hackpadfs.FS, path string) (*Library, error) {
	data, err := hackpadfs.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template library %s: %w", path, err)
	}
	lib, err := ParseLibrary(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// Save writes the library as YAML.
func (l *Library) Save(fs hackpadfs.FS, path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode template library: %w", err)
	}
	if err := hackpadfs.WriteFullFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write template library %s: %w", path, err)
	}
	return nil
}
