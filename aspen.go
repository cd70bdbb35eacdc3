package aspen

// Topology is the primitive topology a mesh is drawn with.
type Topology uint8

const (
	TopologyPointList Topology = iota
	TopologyLineList
	TopologyTriangleFan
	TopologyTriangleStrip
	TopologyTriangleList
)

// String returns the topology name used in diagnostics.
func (t Topology) String() string {
	switch t {
	case TopologyPointList:
		return "point-list"
	case TopologyLineList:
		return "line-list"
	case TopologyTriangleFan:
		return "triangle-fan"
	case TopologyTriangleStrip:
		return "triangle-strip"
	case TopologyTriangleList:
		return "triangle-list"
	default:
		return "unknown"
	}
}

// DrawMode tells the renderer how to consume a mesh's buffers.
type DrawMode uint8

const (
	DrawArrays         DrawMode = iota // non-indexed, sequential vertices
	DrawIndexed                        // indexed
	DrawIndexedRestart                 // indexed with primitive restart (strips)
)

// PrimitiveRestartIndex separates disjoint strips within a single index
// buffer when a mesh uses DrawIndexedRestart.
const PrimitiveRestartIndex uint16 = 0xFFFF

// FillMode selects how the renderer rasterizes primitives. Cycled at runtime
// to inspect geometry (solid fill, edge wireframe, vertex points).
type FillMode uint8

const (
	FillSolid FillMode = iota
	FillWireframe
	FillPoints
)

// Next returns the next fill mode in the solid → wireframe → points cycle.
func (m FillMode) Next() FillMode {
	if m == FillPoints {
		return FillSolid
	}
	return m + 1
}

// Rect is an axis-aligned rectangle in surface pixels, used for render
// viewports. Origin top-left, Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// CameraInput is the per-frame input flag set consumed by the camera.
// The caller (normally the frame loop) maps keys or buttons onto it.
type CameraInput struct {
	TurnLeft    bool // rotate the view counterclockwise
	TurnRight   bool // rotate the view clockwise
	MoveForward bool // move the tracked instance along the camera's up vector
	Zoom        bool // advance the ping-pong zoom by one step
	ToggleMode  bool // switch between first-person and third-person follow
}
