package store

import (
	"fmt"
	"strings"

	"voxelcraft.ai/areas/internal/scan"
)

// Air is always palette id 0 so fresh chunks read as empty.
const Air = "air"

// Palette interns material names as uint16 block ids.
type Palette struct {
	names []string
	solid []bool
	ids   map[string]uint16
}

func NewPalette() *Palette {
	p := &Palette{ids: map[string]uint16{}}
	p.names = append(p.names, Air)
	p.solid = append(p.solid, false)
	p.ids[Air] = 0
	return p
}

// Define registers name, or updates its solidity if already known.
func (p *Palette) Define(name string, solid bool) (uint16, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("palette: empty material name")
	}
	if id, ok := p.ids[name]; ok {
		if id != 0 {
			p.solid[id] = solid
		}
		return id, nil
	}
	if len(p.names) > 0xFFFF {
		return 0, fmt.Errorf("palette: too many materials")
	}
	id := uint16(len(p.names))
	p.names = append(p.names, name)
	p.solid = append(p.solid, solid)
	p.ids[name] = id
	return id, nil
}

func (p *Palette) ID(name string) (uint16, bool) {
	id, ok := p.ids[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

func (p *Palette) Material(id uint16) scan.Material {
	if int(id) >= len(p.names) {
		return scan.Material{Name: Air, Air: true}
	}
	return scan.Material{Name: p.names[id], Solid: p.solid[id], Air: id == 0}
}
