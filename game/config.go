package game

import (
	"fmt"
	"math"
	"os"

	"github.com/memmaker/tilenav/engine/navgrid"
	"github.com/memmaker/tilenav/engine/tilemap"
	"gopkg.in/yaml.v3"
)

// LevelConfig is the YAML description of a level.
type LevelConfig struct {
	Name         string         `yaml:"name"`
	MapImage     string         `yaml:"map_image"`
	CellDistance float32        `yaml:"cell_distance"`
	Elevation    float32        `yaml:"elevation"`
	Subdivisions uint8          `yaml:"subdivisions"`
	AgentRadius  float32        `yaml:"agent_radius"`
	Search       string         `yaml:"search"`
	MaxExpanded  int            `yaml:"max_expanded"`
	Palette      []PaletteEntry `yaml:"palette"`
}

type PaletteEntry struct {
	Color string `yaml:"color"`
	Kind  string `yaml:"kind"`
	Tile  uint8  `yaml:"tile"`
}

// DefaultPalette is used by levels that declare no palette of their own.
var DefaultPalette = []PaletteEntry{
	{Color: "#ffffff", Kind: "floor"},
	{Color: "#000000", Kind: "wall"},
	{Color: "#ff0000", Kind: "pit"},
}

func LoadLevelConfig(filename string) (LevelConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return LevelConfig{}, fmt.Errorf("level: load %s: %w", filename, err)
	}
	config := LevelConfig{CellDistance: 1}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return LevelConfig{}, fmt.Errorf("level: unmarshal %s: %w", filename, err)
	}
	if err := config.Validate(); err != nil {
		return LevelConfig{}, fmt.Errorf("level: %s: %w", filename, err)
	}
	return config, nil
}

func (c LevelConfig) Validate() error {
	if c.MapImage == "" {
		return fmt.Errorf("map_image is required")
	}
	if !(c.CellDistance > 0) {
		return fmt.Errorf("cell_distance must be positive, got %v", c.CellDistance)
	}
	if c.AgentRadius < 0 || math.IsNaN(float64(c.AgentRadius)) {
		return fmt.Errorf("agent_radius must be a non-negative number, got %v", c.AgentRadius)
	}
	if c.MaxExpanded < 0 {
		return fmt.Errorf("max_expanded must not be negative, got %d", c.MaxExpanded)
	}
	if _, err := navgrid.MethodByName(c.Search, c.MaxExpanded); err != nil {
		return err
	}
	_, err := c.CellPalette()
	return err
}

// CellPalette converts the palette entries into a colour lookup.
func (c LevelConfig) CellPalette() (tilemap.Palette, error) {
	entries := c.Palette
	if len(entries) == 0 {
		entries = DefaultPalette
	}
	palette := make(tilemap.Palette, len(entries))
	for i, entry := range entries {
		colour, err := tilemap.ParseHexColor(entry.Color)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		kind, err := tilemap.ParseCellKind(entry.Kind)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		if _, duplicate := palette[colour]; duplicate {
			return nil, fmt.Errorf("palette entry %d: colour %s is declared twice", i, entry.Color)
		}
		palette[colour] = tilemap.Cell{Kind: kind, Tile: entry.Tile}
	}
	return palette, nil
}
