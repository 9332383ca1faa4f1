package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed seeds
var seedFiles embed.FS

// Seed is a built-in template written to an empty store.
type Seed struct {
	Kind    Kind
	Name    string
	Content string
}

type seedEntry struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

type seedManifest struct {
	Structures []seedEntry `yaml:"structures"`
	Fields     []seedEntry `yaml:"fields"`
}

// SeedFS returns the embedded seed directory.
func SeedFS() fs.FS {
	sub, err := fs.Sub(seedFiles, "seeds")
	if err != nil {
		panic(err) // embedded path is fixed at build time
	}
	return sub
}

// Seeds reads the built-in templates of kind from fsys, in manifest order.
func Seeds(fsys fs.FS, kind Kind) ([]Seed, error) {
	data, err := fs.ReadFile(fsys, "seeds.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading seed manifest: %w", err)
	}
	var manifest seedManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing seed manifest: %w", err)
	}

	entries := manifest.Structures
	if kind == Field {
		entries = manifest.Fields
	}

	seeds := make([]Seed, 0, len(entries))
	for _, e := range entries {
		content, err := fs.ReadFile(fsys, e.File)
		if err != nil {
			return nil, fmt.Errorf("reading seed %q: %w", e.Name, err)
		}
		seeds = append(seeds, Seed{
			Kind:    kind,
			Name:    e.Name,
			Content: strings.TrimSpace(string(content)),
		})
	}
	return seeds, nil
}
