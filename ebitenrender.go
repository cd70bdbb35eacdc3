package aspen

import (
	"fmt"
	"image/color"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// flatKageSrc is the built-in program used when a shader has no fragment
// source path: it paints the vertex color untouched.
const flatKageSrc = `//kage:unit pixels
package main

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	return color
}
`

// ebitenMesh is the uploaded form of a mesh: model-space vertices plus
// index buffers pre-expanded for Ebitengine, which only rasterizes triangle
// lists. Fan and strip topologies (including primitive restart) are expanded
// once here rather than per draw.
type ebitenMesh struct {
	verts   []ebiten.Vertex // model space in DstX/DstY
	tris    []uint16        // expanded triangle-list indices
	lines   [][2]uint16     // line segments (line-list) or triangle edges
	scratch []ebiten.Vertex // per-draw transform buffer, high-water mark
}

// EbitenRenderer implements Renderer on top of Ebitengine. Meshes draw as
// flat-colored triangles; shader programs are Kage sources compiled with
// ebiten.NewShader. The vertex stage is fixed-function in Ebitengine, so
// only the fragment path is compiled; the vertex path is recorded on the
// Shader for identity and scene-file compatibility.
//
// Device coordinates from the core are NDC (±1, Y up); the renderer maps
// them into the current viewport rectangle of the target image (Y down).
type EbitenRenderer struct {
	target   *ebiten.Image
	viewport Rect
	fill     FillMode

	white *ebiten.Image
}

// NewEbitenRenderer creates a renderer with no target. Call SetTarget every
// frame before drawing.
func NewEbitenRenderer() *EbitenRenderer {
	return &EbitenRenderer{}
}

// SetTarget points the renderer at a destination image and resets the
// viewport to cover it fully.
func (r *EbitenRenderer) SetTarget(img *ebiten.Image) {
	r.target = img
	if img != nil {
		b := img.Bounds()
		r.viewport = Rect{
			X:      float64(b.Min.X),
			Y:      float64(b.Min.Y),
			Width:  float64(b.Dx()),
			Height: float64(b.Dy()),
		}
	}
}

// SetViewport restricts drawing to a rectangle of the target, in target
// pixels. The minimap renders by drawing the scene a second time through a
// small corner viewport.
func (r *EbitenRenderer) SetViewport(v Rect) {
	r.viewport = v
}

// Viewport returns the current viewport rectangle.
func (r *EbitenRenderer) Viewport() Rect { return r.viewport }

// SetFillMode selects solid, wireframe, or point rasterization.
func (r *EbitenRenderer) SetFillMode(m FillMode) { r.fill = m }

// FillMode returns the current fill mode.
func (r *EbitenRenderer) FillMode() FillMode { return r.fill }

// CycleFillMode advances solid → wireframe → points → solid and returns the
// new mode.
func (r *EbitenRenderer) CycleFillMode() FillMode {
	r.fill = r.fill.Next()
	return r.fill
}

// UploadMesh converts parsed geometry into Ebitengine buffers.
func (r *EbitenRenderer) UploadMesh(data MeshData) (MeshHandle, error) {
	em := &ebitenMesh{
		verts: make([]ebiten.Vertex, len(data.Positions)),
	}
	for i, p := range data.Positions {
		em.verts[i] = ebiten.Vertex{
			DstX: float32(p.X()),
			DstY: float32(p.Y()),
			// Sample the center of the 1x1 white source.
			SrcX:   0.5,
			SrcY:   0.5,
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
	}

	indices := data.Indices
	if len(indices) == 0 {
		indices = make([]uint16, len(data.Positions))
		for i := range indices {
			indices[i] = uint16(i)
		}
	}

	tris, err := expandTriangles(data.Topology, indices)
	if err != nil {
		return nil, err
	}
	em.tris = tris
	em.lines = edgeList(data.Topology, indices, tris)
	return em, nil
}

// expandTriangles rewrites fan and strip index buffers as triangle lists.
// Strips honor the primitive restart index, so one buffer can hold several
// disjoint strips. Line and point topologies produce no triangles.
func expandTriangles(topology Topology, indices []uint16) ([]uint16, error) {
	switch topology {
	case TopologyTriangleList:
		if len(indices)%3 != 0 {
			return nil, fmt.Errorf("triangle-list index count %d not divisible by 3", len(indices))
		}
		return indices, nil
	case TopologyTriangleFan:
		if len(indices) < 3 {
			return nil, fmt.Errorf("triangle-fan needs at least 3 indices, got %d", len(indices))
		}
		out := make([]uint16, 0, 3*(len(indices)-2))
		for i := 1; i+1 < len(indices); i++ {
			out = append(out, indices[0], indices[i], indices[i+1])
		}
		return out, nil
	case TopologyTriangleStrip:
		var out []uint16
		start := 0
		for i := 0; i <= len(indices); i++ {
			if i < len(indices) && indices[i] != PrimitiveRestartIndex {
				continue
			}
			run := indices[start:i]
			for j := 0; j+2 < len(run); j++ {
				// Alternate winding so strips stay consistently oriented.
				if j%2 == 0 {
					out = append(out, run[j], run[j+1], run[j+2])
				} else {
					out = append(out, run[j+1], run[j], run[j+2])
				}
			}
			start = i + 1
		}
		return out, nil
	case TopologyPointList, TopologyLineList:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported topology %s", topology)
	}
}

// edgeList builds the segments used for wireframe and line-list drawing:
// index pairs for line-list meshes, the three edges of every expanded
// triangle otherwise.
func edgeList(topology Topology, indices, tris []uint16) [][2]uint16 {
	if topology == TopologyLineList {
		out := make([][2]uint16, 0, len(indices)/2)
		for i := 0; i+1 < len(indices); i += 2 {
			out = append(out, [2]uint16{indices[i], indices[i+1]})
		}
		return out
	}
	out := make([][2]uint16, 0, len(tris))
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := tris[i], tris[i+1], tris[i+2]
		out = append(out, [2]uint16{a, b}, [2]uint16{b, c}, [2]uint16{c, a})
	}
	return out
}

// CompileProgram compiles a Kage fragment source. An empty fragment path
// selects the built-in flat-color program. Failures carry the compiler
// message as a *ShaderError.
func (r *EbitenRenderer) CompileProgram(name, vertexPath, fragmentPath string) (ProgramHandle, error) {
	src := []byte(flatKageSrc)
	if fragmentPath != "" {
		var err error
		src, err = os.ReadFile(fragmentPath)
		if err != nil {
			return nil, fmt.Errorf("shader program %q: %w", name, err)
		}
	}
	sh, err := ebiten.NewShader(src)
	if err != nil {
		return nil, &ShaderError{Name: name, Log: err.Error()}
	}
	return sh, nil
}

// Draw transforms the mesh's model-space vertices by the world-to-device
// matrix on the CPU, maps them into the viewport, and submits them.
func (r *EbitenRenderer) Draw(mesh *Mesh, shader *Shader, col mgl64.Vec3, transform mgl64.Mat3, _ DrawMode) {
	if r.target == nil {
		return
	}
	em, ok := mesh.Handle.(*ebitenMesh)
	if !ok || len(em.verts) == 0 {
		return
	}

	dst := r.transformVerts(em, transform, col)

	switch {
	case mesh.Topology == TopologyPointList || r.fill == FillPoints:
		r.drawPoints(dst, col)
	case mesh.Topology == TopologyLineList:
		r.drawSegments(dst, em.lines, col)
	case r.fill == FillWireframe:
		r.drawSegments(dst, em.lines, col)
	default:
		r.drawTriangles(dst, em.tris, shader)
	}
}

// transformVerts fills the mesh's scratch buffer with viewport-space
// vertices tinted with the instance color.
func (r *EbitenRenderer) transformVerts(em *ebitenMesh, m mgl64.Mat3, col mgl64.Vec3) []ebiten.Vertex {
	if cap(em.scratch) < len(em.verts) {
		em.scratch = make([]ebiten.Vertex, len(em.verts))
	}
	em.scratch = em.scratch[:len(em.verts)]

	vp := r.viewport
	cr := float32(clamp01(col.X()))
	cg := float32(clamp01(col.Y()))
	cb := float32(clamp01(col.Z()))

	for i := range em.verts {
		src := &em.verts[i]
		p := m.Mul3x1(mgl64.Vec3{float64(src.DstX), float64(src.DstY), 1})
		d := &em.scratch[i]
		*d = *src
		d.DstX = float32(vp.X + (p.X()+1)*0.5*vp.Width)
		d.DstY = float32(vp.Y + (1-p.Y())*0.5*vp.Height)
		d.ColorR = cr
		d.ColorG = cg
		d.ColorB = cb
		d.ColorA = 1
	}
	return em.scratch
}

func (r *EbitenRenderer) drawTriangles(verts []ebiten.Vertex, tris []uint16, shader *Shader) {
	if len(tris) == 0 {
		return
	}
	if shader != nil {
		if sh, ok := shader.Handle.(*ebiten.Shader); ok {
			r.target.DrawTrianglesShader(verts, tris, sh, &ebiten.DrawTrianglesShaderOptions{})
			return
		}
	}
	r.target.DrawTriangles(verts, tris, r.whitePixel(), &ebiten.DrawTrianglesOptions{})
}

func (r *EbitenRenderer) drawSegments(verts []ebiten.Vertex, segs [][2]uint16, col mgl64.Vec3) {
	clr := toRGBA(col)
	for _, s := range segs {
		a, b := verts[s[0]], verts[s[1]]
		vector.StrokeLine(r.target, a.DstX, a.DstY, b.DstX, b.DstY, 1, clr, false)
	}
}

func (r *EbitenRenderer) drawPoints(verts []ebiten.Vertex, col mgl64.Vec3) {
	clr := toRGBA(col)
	for i := range verts {
		v := &verts[i]
		vector.DrawFilledRect(r.target, v.DstX-1, v.DstY-1, 2, 2, clr, false)
	}
}

// whitePixel returns the lazily created 1x1 white source image used by
// untextured triangle draws.
func (r *EbitenRenderer) whitePixel() *ebiten.Image {
	if r.white == nil {
		r.white = ebiten.NewImage(1, 1)
		r.white.Fill(color.White)
	}
	return r.white
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toRGBA(col mgl64.Vec3) color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(col.X()) * 255),
		G: uint8(clamp01(col.Y()) * 255),
		B: uint8(clamp01(col.Z()) * 255),
		A: 255,
	}
}
