// Package geo maps source-image pixel coordinates onto the board-local
// 3D frame used for marker placement.
//
// The board is a fixed-size plane centered at the origin. The image
// origin is top-left with y growing downward, the board origin is
// centered with depth growing toward the viewer, so the vertical axis
// inverts during mapping: image "down" maps to board "far".
package geo

import (
	"math"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/vraq/scene/pkg/core"
)

// Reference board dimensions in board-local units. Expected and
// detected positions must be mapped with identical dimensions or the
// rendered deviation is meaningless.
const (
	DefaultBoardWidth = 4.0
	DefaultBoardDepth = 2.5
	DefaultClearance  = 0.15
)

// Fallback image dimensions used when a report omits image_dimensions.
// Assuming a fixed resolution can mis-place markers for differently
// sized source images; callers must surface the Resolve flag as a
// warning.
const (
	DefaultImageWidth  = 1920
	DefaultImageHeight = 1080
)

// Mapper converts pixel coordinates to world positions on the board.
// The zero value is not usable; construct with NewMapper or Default.
type Mapper struct {
	BoardWidth float64
	BoardDepth float64
	Clearance  float64
}

// NewMapper creates a Mapper with the given board dimensions.
func NewMapper(width, depth, clearance float64) Mapper {
	return Mapper{BoardWidth: width, BoardDepth: depth, Clearance: clearance}
}

// Default returns a Mapper with the reference board dimensions.
func Default() Mapper {
	return NewMapper(DefaultBoardWidth, DefaultBoardDepth, DefaultClearance)
}

// Resolve returns usable image dimensions for a report, substituting
// the fallback resolution when the report omits them or carries a
// non-positive size. The second return is true when the fallback was
// used.
func (m Mapper) Resolve(dims *core.ImageDimensions) (core.ImageDimensions, bool) {
	if dims == nil || dims.Width <= 0 || dims.Height <= 0 {
		return core.ImageDimensions{Width: DefaultImageWidth, Height: DefaultImageHeight}, true
	}
	return *dims, false
}

// Map converts a pixel coordinate into a board-local world position.
// A nil or incomplete pixel documents "unknown location" and maps to
// the default position just above board center rather than failing.
func (m Mapper) Map(pixel *core.PixelPoint, dims core.ImageDimensions) core.WorldPosition {
	if pixel.Incomplete() {
		return m.DefaultPosition()
	}

	xNorm := pixel.X / float64(dims.Width)
	yNorm := pixel.Y / float64(dims.Height)

	return core.WorldPosition{
		X: (xNorm - 0.5) * m.BoardWidth,
		Y: m.Clearance,
		Z: (0.5 - yNorm) * m.BoardDepth,
	}
}

// DefaultPosition is the position used for components with no usable
// pixel location: board center at clearance height.
func (m Mapper) DefaultPosition() core.WorldPosition {
	return core.WorldPosition{X: 0, Y: m.Clearance, Z: 0}
}

// Deviation returns the pixel-space distance between two points.
func Deviation(a, b core.PixelPoint) float64 {
	d := geom.XY{X: a.X, Y: a.Y}.Sub(geom.XY{X: b.X, Y: b.Y})
	return math.Sqrt(d.Dot(d))
}
