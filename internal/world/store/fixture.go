package store

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"voxelcraft.ai/areas/internal/area"
)

// Fixture describes a world as YAML: frames, filled areas and annotated
// points, all written in the area text encoding.
type Fixture struct {
	Frames      []string         `yaml:"frames"`
	Materials   []MaterialSpec   `yaml:"materials"`
	Fills       []FillSpec       `yaml:"fills"`
	Annotations []AnnotationSpec `yaml:"annotations"`
}

type MaterialSpec struct {
	Name  string `yaml:"name"`
	Solid bool   `yaml:"solid"`
}

type FillSpec struct {
	Area     string `yaml:"area"`
	Material string `yaml:"material"`
}

type AnnotationSpec struct {
	Name string `yaml:"name"`
	At   string `yaml:"at"`
}

func LoadFixture(path string) (Fixture, error) {
	var fx Fixture
	b, err := os.ReadFile(path)
	if err != nil {
		return fx, err
	}
	if err := yaml.Unmarshal(b, &fx); err != nil {
		return fx, fmt.Errorf("%s: %w", path, err)
	}
	return fx, nil
}

// Apply writes fx into s. Fills run in order, so later fills overwrite
// earlier ones.
func (s *Store) Apply(fx Fixture, rep area.Reporter) error {
	for _, f := range fx.Frames {
		s.AddFrame(f)
	}
	solid := map[string]bool{}
	for _, m := range fx.Materials {
		if _, err := s.palette.Define(m.Name, m.Solid); err != nil {
			return err
		}
		solid[strings.ToLower(strings.TrimSpace(m.Name))] = m.Solid
	}
	for i, fill := range fx.Fills {
		a, ok := area.Parse(fill.Area, rep)
		if !ok {
			return fmt.Errorf("fills[%d]: bad area %q", i, fill.Area)
		}
		isSolid, known := solid[strings.ToLower(strings.TrimSpace(fill.Material))]
		if !known {
			isSolid = fill.Material != Air
		}
		if _, err := s.Fill(a, fill.Material, isSolid); err != nil {
			return fmt.Errorf("fills[%d]: %w", i, err)
		}
	}
	for i, an := range fx.Annotations {
		p, frameName, ok := area.ParsePoint(an.At, rep)
		if !ok {
			return fmt.Errorf("annotations[%d]: bad point %q", i, an.At)
		}
		s.Annotate(frameName, an.Name, p)
	}
	return nil
}
