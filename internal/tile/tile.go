package tile

import (
	"fmt"
	"strings"
)

// Index identifies a single map cell. Encoded as y*width + x, so ordering
// follows the map's row-major layout.
type Index uint32

// Category is the structural kind of a tile. It decides which animation
// handler (if any) is responsible for the tile.
type Category uint8

const (
	Clear        Category = iota // 0: bare land
	Railway                      // 1
	Road                         // 2
	House                        // 3: animated by the town handler
	Trees                        // 4
	Station                      // 5: animated by the station handler
	Water                        // 6
	Void                         // 7: map border
	Industry                     // 8: animated by the industry handler
	TunnelBridge                 // 9
	Object                       // 10: animated by the object handler
	numCategories
)

var categoryNames = [numCategories]string{
	Clear:        "clear",
	Railway:      "railway",
	Road:         "road",
	House:        "house",
	Trees:        "trees",
	Station:      "station",
	Water:        "water",
	Void:         "void",
	Industry:     "industry",
	TunnelBridge: "tunnelbridge",
	Object:       "object",
}

func (c Category) String() string {
	if c < numCategories {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// ParseCategory converts a lowercase category name (as used in scenario files)
// back into a Category.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tile category %q", s)
}
