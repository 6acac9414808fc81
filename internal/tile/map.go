package tile

// cell is the per-tile state kept by the map. Animation state lives here,
// not in the animated-tile registry.
type cell struct {
	category Category
	frame    uint8
	frames   uint8 // animation length; 0 or 1 = not animatable
	loop     bool
}

// Map is a width x height grid of tiles stored as a flat array [y*width + x].
// Accessed only from the simulation goroutine, no locks.
type Map struct {
	width  uint32
	height uint32
	cells  []cell
}

// NewMap creates a map with every tile Clear and no animation.
func NewMap(width, height uint32) *Map {
	return &Map{
		width:  width,
		height: height,
		cells:  make([]cell, int(width)*int(height)),
	}
}

func (m *Map) Width() uint32  { return m.width }
func (m *Map) Height() uint32 { return m.height }
func (m *Map) Size() int      { return len(m.cells) }

// XY returns the index of the tile at (x, y). Coordinates are not checked:
// an x past the right edge wraps onto the next row. Use IsValidXY first when
// the coordinates come from arithmetic on a neighbour.
func (m *Map) XY(x, y uint32) Index { return Index(y*m.width + x) }

func (m *Map) IsValidXY(x, y uint32) bool { return x < m.width && y < m.height }

func (m *Map) TileX(t Index) uint32 { return uint32(t) % m.width }
func (m *Map) TileY(t Index) uint32 { return uint32(t) / m.width }

func (m *Map) IsValid(t Index) bool { return int(t) < len(m.cells) }

// Category returns the tile's structural kind. Out-of-range tiles read as Void.
func (m *Map) Category(t Index) Category {
	if !m.IsValid(t) {
		return Void
	}
	return m.cells[t].category
}

func (m *Map) SetCategory(t Index, c Category) {
	if m.IsValid(t) {
		m.cells[t].category = c
	}
}

func (m *Map) Frame(t Index) uint8 {
	if !m.IsValid(t) {
		return 0
	}
	return m.cells[t].frame
}

func (m *Map) SetFrame(t Index, f uint8) {
	if m.IsValid(t) {
		m.cells[t].frame = f
	}
}

// Animation returns the animation length of the tile and whether it loops.
func (m *Map) Animation(t Index) (frames uint8, loop bool) {
	if !m.IsValid(t) {
		return 0, false
	}
	c := &m.cells[t]
	return c.frames, c.loop
}

// SetAnimation sets the animation length and loop flag, and rewinds the frame.
func (m *Map) SetAnimation(t Index, frames uint8, loop bool) {
	if !m.IsValid(t) {
		return
	}
	c := &m.cells[t]
	c.frames = frames
	c.loop = loop
	c.frame = 0
}
