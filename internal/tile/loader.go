package tile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TileEntry describes one non-clear tile in a scenario file.
type TileEntry struct {
	X        uint32 `yaml:"x"`
	Y        uint32 `yaml:"y"`
	Category string `yaml:"category"`
	Frames   uint8  `yaml:"frames"`
	Loop     bool   `yaml:"loop"`
	Animated bool   `yaml:"animated"` // start in the animated-tile registry
}

type scenarioFile struct {
	Width  uint32      `yaml:"width"`
	Height uint32      `yaml:"height"`
	Tiles  []TileEntry `yaml:"tiles"`
}

// LoadMap reads a YAML scenario and builds the map it describes.
// The second return value lists, in file order, the tiles flagged as animated;
// map loading is expected to replay them into the animated-tile registry.
func LoadMap(path string) (*Map, []Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read map %s: %w", path, err)
	}
	m, animated, err := ParseMap(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse map %s: %w", path, err)
	}
	return m, animated, nil
}

// ParseMap builds a map from YAML scenario bytes.
func ParseMap(raw []byte) (*Map, []Index, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, nil, fmt.Errorf("decode scenario: %w", err)
	}
	if file.Width == 0 || file.Height == 0 {
		return nil, nil, fmt.Errorf("invalid map size %dx%d", file.Width, file.Height)
	}

	m := NewMap(file.Width, file.Height)
	var animated []Index
	for i, ts := range file.Tiles {
		if ts.X >= file.Width || ts.Y >= file.Height {
			return nil, nil, fmt.Errorf("tile %d: (%d,%d) outside %dx%d map", i, ts.X, ts.Y, file.Width, file.Height)
		}
		cat, err := ParseCategory(ts.Category)
		if err != nil {
			return nil, nil, fmt.Errorf("tile %d: %w", i, err)
		}
		t := m.XY(ts.X, ts.Y)
		m.SetCategory(t, cat)
		m.SetAnimation(t, ts.Frames, ts.Loop)
		if ts.Animated {
			animated = append(animated, t)
		}
	}
	return m, animated, nil
}
