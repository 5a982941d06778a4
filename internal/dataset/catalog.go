package dataset

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v2"
)

const (
	KindSynthetic = "synthetic"
	KindIris      = "iris"
)

var ErrUnknownKind = errors.New("unknown dataset kind")

//go:embed catalog.yaml
var catalogYAML []byte

type Entry struct {
	Kind     string `yaml:"kind"`
	Samples  int    `yaml:"samples,omitempty"`
	Features int    `yaml:"features,omitempty"`
	Classes  int    `yaml:"classes,omitempty"`
	Seed     uint64 `yaml:"seed,omitempty"`
}

// Catalog maps dataset source tags to the loader that builds their frame.
type Catalog struct {
	Default string           `yaml:"default"`
	Sources map[string]Entry `yaml:"sources"`
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("error parsing dataset catalog: %w", err)
	}
	if _, ok := c.Sources[c.Default]; !ok {
		return nil, fmt.Errorf("dataset catalog default %q is not a listed source", c.Default)
	}
	for tag, entry := range c.Sources {
		if err := entry.validate(); err != nil {
			return nil, fmt.Errorf("dataset catalog source %q: %w", tag, err)
		}
	}
	return &c, nil
}

func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// Resolve returns the entry for source, falling back to the default entry for
// unlisted tags.
func (c *Catalog) Resolve(source string) Entry {
	if entry, ok := c.Sources[source]; ok {
		return entry
	}
	return c.Sources[c.Default]
}

func (c *Catalog) Load(source string) (*Frame, error) {
	entry := c.Resolve(source)
	slog.Debug("loading dataset", "source", source, "kind", entry.Kind)
	return entry.Load()
}

func (e Entry) Load() (*Frame, error) {
	switch e.Kind {
	case KindSynthetic:
		return Synthesize(e.Samples, e.Features, e.Classes, e.Seed)
	case KindIris:
		return LoadIris()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
}

func (e Entry) validate() error {
	switch e.Kind {
	case KindSynthetic:
		if e.Samples <= 0 || e.Features <= 0 || e.Classes < 2 {
			return fmt.Errorf("synthetic dataset needs samples > 0, features > 0, classes >= 2")
		}
		return nil
	case KindIris:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
}
