package aspen

import "github.com/go-gl/mathgl/mgl64"

// MeshData is parsed, CPU-side geometry: model-space positions plus optional
// indices. It exists only between parsing and upload; the Registry hands it
// to the Renderer and keeps the resulting Mesh.
type MeshData struct {
	// Name is the mesh's own name from its `n` record, if any. When set it
	// decides the registry key.
	Name      string
	Topology  Topology
	Positions []mgl64.Vec2
	Indices   []uint16
}

// Mesh is an immutable, GPU-resident geometry definition. Created once per
// distinct name by the Registry, shared read-only by every Instance that
// references it, never destroyed during a session.
type Mesh struct {
	Name        string
	Topology    Topology
	VertexCount int
	IndexCount  int

	// Handle is the renderer's opaque token for the uploaded buffers. The
	// core only stores and forwards it, never interprets it.
	Handle MeshHandle
}

// DrawMode derives the draw mode the renderer should use: non-indexed when
// the mesh has no index buffer, primitive-restart for strips, plain indexed
// otherwise.
func (m *Mesh) DrawMode() DrawMode {
	if m.IndexCount == 0 {
		return DrawArrays
	}
	if m.Topology == TopologyTriangleStrip {
		return DrawIndexedRestart
	}
	return DrawIndexed
}
